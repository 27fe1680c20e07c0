//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"

	"procmem/process"

	"golang.org/x/sys/unix"
)

// TransferMode selects the syscalls a LinuxHandle moves bytes with.
type TransferMode int

const (
	// TransferVM uses process_vm_readv and process_vm_writev. Writes honor
	// the target's page protections.
	TransferVM TransferMode = iota

	// TransferMemFile uses pread and pwrite on /proc/<pid>/mem. Writes go
	// through read-only mappings the way a debugger patches code.
	TransferMemFile
)

func (m TransferMode) String() string {
	switch m {
	case TransferVM:
		return "process_vm"
	case TransferMemFile:
		return "proc_mem"
	default:
		return fmt.Sprintf("TransferMode(%d)", int(m))
	}
}

// LinuxHandle implements process.Handle. The open /proc/<pid>/mem descriptor is the
// access token: the kernel runs the ptrace attach check when it is opened
// read-write, so holding it proves both read and write rights.
type LinuxHandle struct {
	pid  process.ProcessID
	fd   int
	mode TransferMode
}

// New opens pid with the default transfer mode and returns an operator for it.
func New(pid process.ProcessID, opts ...process.Option) (process.ProcessOperator, error) {
	return NewWithMode(pid, TransferVM, opts...)
}

// NewWithMode is New with an explicit transfer mode.
func NewWithMode(pid process.ProcessID, mode TransferMode, opts ...process.Option) (process.ProcessOperator, error) {
	op, err := process.Open(pid, func(pid process.ProcessID) (process.Handle, error) {
		h, err := OpenWithMode(pid, mode)
		if err != nil {
			return nil, err
		}
		return h, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Open acquires a handle to pid using TransferVM.
func Open(pid process.ProcessID) (process.Handle, error) {
	h, err := OpenWithMode(pid, TransferVM)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// OpenWithMode acquires a handle to pid. It fails with a process.ErrProcessNotFound
// or process.ErrAccessDenied error when the kernel refuses the open.
func OpenWithMode(pid process.ProcessID, mode TransferMode) (*LinuxHandle, error) {
	// There is no /proc/0, so pid 0 lands in the not-found branch below.
	path := fmt.Sprintf("/proc/%d/mem", pid)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		err = &os.PathError{Op: "open", Path: path, Err: err}
		return nil, process.NewOpenError(pid, classifyOpenError(err), err)
	}

	return &LinuxHandle{
		pid:  pid,
		fd:   fd,
		mode: mode,
	}, nil
}

func classifyOpenError(err error) process.ErrorKind {
	var errno unix.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.ENOENT, unix.ESRCH:
			return process.KindProcessNotFound
		}
	}
	return process.KindAccessDenied
}

// Mode reports the transfer mode the handle was opened with.
func (h *LinuxHandle) Mode() TransferMode {
	return h.mode
}

// ReadAt issues one read syscall for len(data) bytes at addr and returns the
// kernel's count. In TransferMemFile mode addresses at or above 1<<63 become
// negative file offsets, which pread rejects with EINVAL.
func (h *LinuxHandle) ReadAt(addr process.ConstAddress, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if h.mode == TransferMemFile {
		return transferCount(unix.Pread(h.fd, data, int64(addr)))
	}
	return process_vm_readv(h.pid, data, addr)
}

// WriteAt issues one write syscall for data at addr and returns the kernel's count.
func (h *LinuxHandle) WriteAt(addr process.Address, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if h.mode == TransferMemFile {
		return transferCount(unix.Pwrite(h.fd, data, int64(addr)))
	}
	return process_vm_writev(h.pid, data, addr)
}

// Close releases the /proc/<pid>/mem descriptor.
func (h *LinuxHandle) Close() error {
	return unix.Close(h.fd)
}

// x/sys returns n == -1 alongside an errno.
func transferCount(n int, err error) (int, error) {
	if n < 0 {
		n = 0
	}
	return n, err
}
