// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

// SetAffinity pins the calling OS thread to a given logical CPU/core on
// supported platforms. On unsupported platforms returns an error.
//
// Callers that use this must first call runtime.LockOSThread, otherwise
// the Go scheduler is free to move the goroutine to a different OS
// thread right after the pin takes effect.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// ClearAffinity resets the calling OS thread's affinity mask to span all
// logical CPUs, undoing a prior SetAffinity.
func ClearAffinity() error {
	return clearAffinityPlatform()
}
