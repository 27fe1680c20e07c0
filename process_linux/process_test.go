//go:build linux

package process_linux

import (
	"runtime"
	"testing"
	"unsafe"

	"procmem/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var modes = []TransferMode{TransferVM, TransferMemFile}

func TestSelfRoundTrip(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			op, err := NewWithMode(process.CurrentPID(), mode)
			require.NoError(t, err)
			defer op.Close()

			scratch := make([]byte, 4)
			addr := process.AddressOf(scratch)

			require.NoError(t, op.WriteProcess(addr, []byte{1, 2, 3, 4}))
			assert.Equal(t, []byte{1, 2, 3, 4}, scratch)

			got := make([]byte, 4)
			require.NoError(t, op.ReadProcess(addr.Const(), got))
			assert.Equal(t, []byte{1, 2, 3, 4}, got)

			runtime.KeepAlive(scratch)
		})
	}
}

func TestZeroLengthLeavesMemory(t *testing.T) {
	op, err := New(process.CurrentPID())
	require.NoError(t, err)
	defer op.Close()

	scratch := []byte{9, 9}
	require.NoError(t, op.WriteProcess(process.AddressOf(scratch), scratch[:0]))
	require.NoError(t, op.ReadProcess(process.AddressOf(scratch).Const(), nil))
	assert.Equal(t, []byte{9, 9}, scratch)
}

func TestOpenPIDZero(t *testing.T) {
	op, err := New(0)
	require.Error(t, err)
	assert.Nil(t, op)
	assert.ErrorIs(t, err, process.ErrProcessNotFound)
}

func TestOpenMissingPID(t *testing.T) {
	// Above the kernel's PID_MAX_LIMIT, so it can never be allocated.
	_, err := New(1 << 23)
	require.Error(t, err)
	assert.ErrorIs(t, err, process.ErrProcessNotFound)

	var opErr *process.ProcessOperatorError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, process.OpOpen, opErr.Op)
	assert.Equal(t, unix.ENOENT, opErr.Errno)
}

func TestReadUnmapped(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			op, err := NewWithMode(process.CurrentPID(), mode)
			require.NoError(t, err)
			defer op.Close()

			err = op.ReadProcess(0, make([]byte, 8))
			require.Error(t, err)
			assert.ErrorIs(t, err, process.ErrTransferFailed)

			var opErr *process.ProcessOperatorError
			require.ErrorAs(t, err, &opErr)
			assert.NotZero(t, opErr.Errno)
			assert.Zero(t, opErr.Transferred)
		})
	}
}

func TestReadAcrossUnmappedPage(t *testing.T) {
	page := unix.Getpagesize()
	mem, err := unix.Mmap(-1, 0, 2*page, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	require.NoError(t, err)
	defer unix.Munmap(mem)

	// unix.Munmap only releases whole mappings it created, so drop the
	// second page directly.
	_, _, errno := unix.Syscall(unix.SYS_MUNMAP, uintptr(unsafe.Pointer(&mem[page])), uintptr(page), 0)
	require.Zero(t, errno)

	copy(mem[page-4:page], []byte{5, 6, 7, 8})
	addr := process.AddressOf(mem).Add(uintptr(page - 4))

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			op, err := NewWithMode(process.CurrentPID(), mode)
			require.NoError(t, err)
			defer op.Close()

			got := make([]byte, 8)
			err = op.ReadProcess(addr.Const(), got)
			require.Error(t, err)
			assert.ErrorIs(t, err, process.ErrTransferFailed)
			assert.ErrorIs(t, err, process.ErrShortTransfer)

			var opErr *process.ProcessOperatorError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, 4, opErr.Transferred)
			assert.Equal(t, 8, opErr.Requested)
			assert.Equal(t, []byte{5, 6, 7, 8}, got[:4])

			require.NoError(t, op.ReadProcess(addr.Const(), got[:4]))
			assert.Equal(t, []byte{5, 6, 7, 8}, got[:4])
		})
	}
}

func TestHandleZeroLength(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			h, err := OpenWithMode(process.CurrentPID(), mode)
			require.NoError(t, err)
			defer h.Close()

			n, err := h.ReadAt(0x1000, nil)
			assert.NoError(t, err)
			assert.Zero(t, n)

			n, err = h.WriteAt(0x1000, []byte{})
			assert.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestMemFileHighAddress(t *testing.T) {
	if process.PointerSize != 8 {
		t.Skip("needs 64-bit addresses")
	}

	op, err := NewWithMode(process.CurrentPID(), TransferMemFile)
	require.NoError(t, err)
	defer op.Close()

	err = op.ReadProcess(^process.ConstAddress(0), make([]byte, 4))
	assert.ErrorIs(t, err, process.ErrTransferFailed)

	var opErr *process.ProcessOperatorError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, unix.EINVAL, opErr.Errno)
}

func TestWriteReadOnlyMapping(t *testing.T) {
	page := unix.Getpagesize()
	mem, err := unix.Mmap(-1, 0, page, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	require.NoError(t, err)
	defer unix.Munmap(mem)
	require.NoError(t, unix.Mprotect(mem, unix.PROT_READ))

	addr := process.AddressOf(mem)

	vm, err := NewWithMode(process.CurrentPID(), TransferVM)
	require.NoError(t, err)
	defer vm.Close()
	err = vm.WriteProcess(addr, []byte{1})
	assert.ErrorIs(t, err, process.ErrTransferFailed)
	assert.Equal(t, byte(0), mem[0])

	mf, err := NewWithMode(process.CurrentPID(), TransferMemFile)
	require.NoError(t, err)
	defer mf.Close()
	require.NoError(t, mf.WriteProcess(addr, []byte{1}))
	assert.Equal(t, byte(1), mem[0])
}

func TestHandleCloseOnce(t *testing.T) {
	op, err := New(process.CurrentPID())
	require.NoError(t, err)

	require.NoError(t, op.Close())
	assert.ErrorIs(t, op.Close(), process.ErrProcessNotOpen)
	assert.ErrorIs(t, op.ReadProcess(0x1000, make([]byte, 1)), process.ErrProcessNotOpen)
}

func TestOpenWithModeKeepsMode(t *testing.T) {
	h, err := OpenWithMode(process.CurrentPID(), TransferMemFile)
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, TransferMemFile, h.Mode())
	assert.Equal(t, "proc_mem", h.Mode().String())
	assert.Equal(t, "TransferMode(7)", TransferMode(7).String())
}
