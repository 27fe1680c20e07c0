// Package process defines the contract for reading and writing the memory of
// another process, the address types it works in and the errors it reports.
// Platform backends live in process_linux and process_windows.
package process

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// after the operator has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrProcessNotFound is returned when the target PID does not name a live process.
	ErrProcessNotFound = errors.New("process not found")

	// ErrAccessDenied is returned when the OS refuses read and write access to the target.
	ErrAccessDenied = errors.New("access denied")

	// ErrTransferFailed is returned when a read or write did not move every requested byte.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrShortTransfer is the cause of a TransferFailed error where the OS
	// reported success but moved fewer bytes than requested.
	ErrShortTransfer = errors.New("short transfer")

	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// ErrorKind classifies a ProcessOperatorError.
type ErrorKind int

const (
	KindProcessNotFound ErrorKind = iota + 1
	KindAccessDenied
	KindTransferFailed
	KindUnsupportedPlatform
)

func (k ErrorKind) String() string {
	switch k {
	case KindProcessNotFound:
		return "process not found"
	case KindAccessDenied:
		return "access denied"
	case KindTransferFailed:
		return "transfer failed"
	case KindUnsupportedPlatform:
		return "unsupported platform"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindProcessNotFound:
		return ErrProcessNotFound
	case KindAccessDenied:
		return ErrAccessDenied
	case KindTransferFailed:
		return ErrTransferFailed
	case KindUnsupportedPlatform:
		return ErrUnsupportedPlatform
	}
	return nil
}

// ProcessOperatorError describes why opening, reading or writing a process failed.
// Errno holds the OS status code, zero when the OS did not report one.
type ProcessOperatorError struct {
	Op          Operation
	Kind        ErrorKind
	PID         ProcessID
	Address     uintptr
	Requested   int
	Transferred int
	Errno       syscall.Errno
	Err         error
}

func (e *ProcessOperatorError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s process %d", e.Op, e.PID)
	if e.Op == OpRead || e.Op == OpWrite {
		fmt.Fprintf(&b, " at 0x%X (%d of %d bytes)", e.Address, e.Transferred, e.Requested)
	}
	fmt.Fprintf(&b, ": %s", e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Errno != 0 {
		fmt.Fprintf(&b, " (errno: %d)", uintptr(e.Errno))
	}
	return b.String()
}

func (e *ProcessOperatorError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind, so callers can test
// errors.Is(err, ErrAccessDenied) without unpacking the value.
func (e *ProcessOperatorError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewOpenError builds the error a backend returns when it cannot acquire a
// handle. The errno is extracted from cause when present.
func NewOpenError(pid ProcessID, kind ErrorKind, cause error) *ProcessOperatorError {
	return &ProcessOperatorError{
		Op:    OpOpen,
		Kind:  kind,
		PID:   pid,
		Errno: errnoOf(cause),
		Err:   cause,
	}
}

func newTransferError(op Operation, pid ProcessID, addr uintptr, requested, transferred int, cause error) *ProcessOperatorError {
	return &ProcessOperatorError{
		Op:          op,
		Kind:        KindTransferFailed,
		PID:         pid,
		Address:     addr,
		Requested:   requested,
		Transferred: transferred,
		Errno:       errnoOf(cause),
		Err:         cause,
	}
}

func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
