package process

import "os"

// ProcessID represents a unique identifier for a process
type ProcessID uint32

// CurrentPID returns the ID of the calling process.
func CurrentPID() ProcessID {
	return ProcessID(os.Getpid())
}

// Operation names the operator call that produced an error.
type Operation string

const (
	OpOpen  Operation = "open"
	OpRead  Operation = "read"
	OpWrite Operation = "write"
)
