package process

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Operator implements ProcessOperator on top of a platform Handle.
type Operator struct {
	pid    ProcessID
	handle Handle
	log    *logger.Logger
	mu     sync.RWMutex
}

// Option configures an Operator.
type Option func(*Operator)

// WithLogger replaces the operator's default logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *Operator) {
		if log != nil {
			o.log = log
		}
	}
}

// NewOperator takes ownership of handle, an open handle to pid.
func NewOperator(pid ProcessID, handle Handle, opts ...Option) *Operator {
	o := &Operator{
		pid:    pid,
		handle: handle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	}

	o.log.Infoln("Process opened")
	return o
}

// Open acquires a handle with open and wraps it in an Operator. Errors from
// open that are not already a *ProcessOperatorError are reported as access denied.
func Open(pid ProcessID, open func(ProcessID) (Handle, error), opts ...Option) (*Operator, error) {
	h, err := open(pid)
	if err != nil {
		var opErr *ProcessOperatorError
		if errors.As(err, &opErr) {
			return nil, err
		}
		return nil, NewOpenError(pid, KindAccessDenied, err)
	}
	if h == nil {
		return nil, NewOpenError(pid, KindAccessDenied, fmt.Errorf("backend returned no handle"))
	}
	return NewOperator(pid, h, opts...), nil
}

func (o *Operator) PID() ProcessID {
	return o.pid
}

func (o *Operator) ReadProcess(addr ConstAddress, data []byte) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.handle == nil {
		return ErrProcessNotOpen
	}
	if len(data) == 0 {
		return nil
	}

	n, err := o.handle.ReadAt(addr, data)
	return o.checkTransfer(OpRead, uintptr(addr), len(data), n, err)
}

func (o *Operator) WriteProcess(addr Address, data []byte) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.handle == nil {
		return ErrProcessNotOpen
	}
	if len(data) == 0 {
		return nil
	}

	n, err := o.handle.WriteAt(addr, data)
	return o.checkTransfer(OpWrite, uintptr(addr), len(data), n, err)
}

func (o *Operator) checkTransfer(op Operation, addr uintptr, requested, n int, err error) error {
	if err == nil && n == requested {
		return nil
	}
	if err == nil {
		err = ErrShortTransfer
	}
	if n < 0 {
		n = 0
	}

	terr := newTransferError(op, o.pid, addr, requested, n, err)
	o.log.Debugln("Transfer failed:", terr)
	return terr
}

// Close releases the handle. The handle is closed exactly once even when
// Close is called repeatedly or the target has already exited.
func (o *Operator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle == nil {
		return ErrProcessNotOpen
	}

	h := o.handle
	o.handle = nil

	if err := h.Close(); err != nil {
		o.log.Warn("Failed to release process handle: ", err)
		return fmt.Errorf("failed to release handle for process %d: %w", o.pid, err)
	}

	o.log.Infoln("Process closed")
	return nil
}
