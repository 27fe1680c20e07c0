//go:build windows

package process_windows

import (
	"errors"

	"procmem/process"

	"golang.org/x/sys/windows"
)

// WriteProcessMemory needs PROCESS_VM_OPERATION alongside PROCESS_VM_WRITE.
const desiredAccess = windows.PROCESS_VM_READ | windows.PROCESS_VM_WRITE | windows.PROCESS_VM_OPERATION

// WindowsHandle implements process.Handle over an OpenProcess handle.
type WindowsHandle struct {
	handle windows.Handle
}

// New opens pid and returns an operator for it.
func New(pid process.ProcessID, opts ...process.Option) (process.ProcessOperator, error) {
	op, err := process.Open(pid, Open, opts...)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Open requests read and write memory rights on pid. Either both are granted
// or no handle is returned.
func Open(pid process.ProcessID) (process.Handle, error) {
	h, err := windows.OpenProcess(desiredAccess, false, uint32(pid))
	if err != nil {
		return nil, process.NewOpenError(pid, classifyOpenError(err), err)
	}
	return &WindowsHandle{handle: h}, nil
}

// OpenProcess reports ERROR_INVALID_PARAMETER for PIDs that name no process,
// including 0 (the idle process).
func classifyOpenError(err error) process.ErrorKind {
	var errno windows.Errno
	if errors.As(err, &errno) && errno == windows.ERROR_INVALID_PARAMETER {
		return process.KindProcessNotFound
	}
	return process.KindAccessDenied
}

// ReadAt calls ReadProcessMemory once and returns the count it reported.
// The x/sys bindings turn a FALSE return into a non-nil error carrying
// GetLastError, so a nil error means the call succeeded.
func (h *WindowsHandle) ReadAt(addr process.ConstAddress, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	var n uintptr
	err := windows.ReadProcessMemory(h.handle, uintptr(addr), &data[0], uintptr(len(data)), &n)
	return int(n), err
}

// WriteAt calls WriteProcessMemory once and returns the count it reported.
func (h *WindowsHandle) WriteAt(addr process.Address, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	var n uintptr
	err := windows.WriteProcessMemory(h.handle, uintptr(addr), &data[0], uintptr(len(data)), &n)
	return int(n), err
}

// Close releases the process handle.
func (h *WindowsHandle) Close() error {
	return windows.CloseHandle(h.handle)
}
