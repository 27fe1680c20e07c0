package process

import (
	"fmt"
	"unsafe"
)

// PointerSize is the width in bytes of an address on the build target.
const PointerSize = int(unsafe.Sizeof(uintptr(0)))

// Address is a writable location in the target process, the destination of a write.
type Address uintptr

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uintptr(a))
}

// Add returns the address offset bytes past a.
func (a Address) Add(offset uintptr) Address {
	return a + Address(offset)
}

// Const views the same location as a read source.
func (a Address) Const() ConstAddress {
	return ConstAddress(a)
}

// ConstAddress is a read-only location in the target process, the source of a read.
type ConstAddress uintptr

func (a ConstAddress) String() string {
	return fmt.Sprintf("0x%X", uintptr(a))
}

func (a ConstAddress) Add(offset uintptr) ConstAddress {
	return a + ConstAddress(offset)
}

// AddressOf returns the address of the first byte of buf in the calling
// process. It is meant for operators opened on the current process. The
// caller must keep buf reachable while the address is in use.
func AddressOf(buf []byte) Address {
	if len(buf) == 0 {
		return 0
	}
	return Address(unsafe.Pointer(&buf[0]))
}
