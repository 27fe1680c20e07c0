package process

// ProcessOperator reads and writes the memory of one target process.
//
// An operator owns the OS handle it was opened with and releases it on Close.
// Transfers are single blocking OS calls: nothing is retried, chunked or
// batched. A transfer that moves fewer bytes than requested is an error.
type ProcessOperator interface {
	// PID returns the ID of the target process
	PID() ProcessID

	// ReadProcess copies len(data) bytes from the target at addr into data
	ReadProcess(addr ConstAddress, data []byte) error

	// WriteProcess copies data into the target at addr
	WriteProcess(addr Address, data []byte) error

	// Close releases the process handle. Later calls return ErrProcessNotOpen.
	Close() error
}

// Handle is the platform layer behind an Operator. Each method maps to one
// OS primitive and reports the byte count the OS returned alongside its error.
// An empty buffer returns 0, nil without reaching the OS.
// Implementations do not need to be safe for Close racing a transfer;
// Operator guarantees Close is called once, after transfers have drained.
type Handle interface {
	ReadAt(addr ConstAddress, data []byte) (int, error)
	WriteAt(addr Address, data []byte) (int, error)
	Close() error
}
