// File: internal/concurrency/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Thin NUMA/CPU pinning helpers used by adapters.AffinityAdapter and
// internal/normalize. Real NUMA topology discovery needs libnuma/hwloc
// via cgo; this module stays cgo-free, so topology is simplified to a
// single pseudo-node and pinning only ever targets CPUs via
// affinity.SetAffinity. That is enough for the executor-worker pinning
// this package exists for — it is an opt-in performance knob, not a
// protocol requirement.

package concurrency

import (
	"runtime"

	"github.com/momentics/wsrpc/affinity"
)

// NUMANodes reports the number of NUMA nodes visible to this process.
// Without libnuma this is always 1: every CPU is treated as belonging
// to node 0.
func NUMANodes() int {
	return 1
}

// CurrentNUMANodeID reports the NUMA node the calling goroutine's OS
// thread currently runs on. Always 0, for the reasons NUMANodes notes.
func CurrentNUMANodeID() int {
	return 0
}

// PinCurrentThread locks the calling goroutine to its current OS
// thread and pins that thread to cpuID. numaNode is accepted for
// interface symmetry with a real NUMA-aware implementation but is not
// currently used to steer the pin. cpuID < 0 skips CPU pinning
// entirely (NUMA-only request), which degrades to a no-op here.
func PinCurrentThread(numaNode, cpuID int) error {
	if cpuID < 0 {
		return nil
	}
	runtime.LockOSThread()
	if err := affinity.SetAffinity(cpuID); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}

// UnpinCurrentThread widens the calling thread's affinity mask back to
// every logical CPU and releases the OS thread lock taken by
// PinCurrentThread.
func UnpinCurrentThread() error {
	err := affinity.ClearAffinity()
	runtime.UnlockOSThread()
	return err
}
