//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity via
// golang.org/x/sys/windows's lazy-DLL bindings.

package affinity

import (
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = modkernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread      = modkernel32.NewProc("GetCurrentThread")
)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	hThread, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpuID)
	ret, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}

// clearAffinityPlatform widens the mask back to every logical CPU.
func clearAffinityPlatform() error {
	hThread, _, _ := procGetCurrentThread.Call()
	var mask uintptr
	for i := 0; i < runtime.NumCPU(); i++ {
		mask |= uintptr(1) << uint(i)
	}
	ret, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}
