//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity, using
// golang.org/x/sys/unix's sched_setaffinity wrapper instead of cgo so
// the module stays cgo-free and cross-compiles cleanly.

package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// setAffinityPlatform pins the calling thread to a single CPU. The
// caller is expected to have called runtime.LockOSThread first.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// clearAffinityPlatform widens the calling thread's affinity mask back
// to every logical CPU the runtime reports.
func clearAffinityPlatform() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	return unix.SchedSetaffinity(0, &set)
}
