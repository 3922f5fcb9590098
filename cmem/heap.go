// Package cmem exposes the process's C heap as a cborffi address space.
//
// Addresses are raw pointers. Multi-byte values use the host's native
// byte order, matching what C code sees when it reads a struct field.
package cmem

// #include <stdlib.h>
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/errors"
)

// Layout is the layout of struct cbor_result on this platform.
var Layout = cborffi.PointerLayout(uint64(unsafe.Sizeof(uintptr(0))))

// Heap allocates with malloc and frees with free.
type Heap struct{}

func New() *Heap {
	return &Heap{}
}

// Alloc returns size bytes from malloc. A zero size still returns a
// unique non-null pointer.
func (h *Heap) Alloc(size uint64) (uint64, error) {
	n := size
	if n == 0 {
		n = 1
	}
	p := C.malloc(C.size_t(n))
	if p == nil {
		return 0, fmt.Errorf("malloc(%d) returned NULL", n)
	}
	return uint64(uintptr(p)), nil
}

// Free ignores size; the contract still requires callers to pass it.
func (h *Heap) Free(addr, size uint64) {
	C.free(pointer(addr))
}

func (h *Heap) Read(addr uint64, length uint64) ([]byte, error) {
	if addr == 0 {
		return nil, errors.OutOfBounds(errors.PhaseTransfer, addr, length)
	}
	if length == 0 {
		return []byte{}, nil
	}
	return unsafe.Slice((*byte)(pointer(addr)), length), nil
}

func (h *Heap) Write(addr uint64, data []byte) error {
	dst, err := h.Read(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

func (h *Heap) ReadU32(addr uint64) (uint32, error) {
	b, err := h.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(b), nil
}

func (h *Heap) ReadU64(addr uint64) (uint64, error) {
	b, err := h.Read(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(b), nil
}

func (h *Heap) WriteU32(addr uint64, value uint32) error {
	b, err := h.Read(addr, 4)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(b, value)
	return nil
}

func (h *Heap) WriteU64(addr uint64, value uint64) error {
	b, err := h.Read(addr, 8)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint64(b, value)
	return nil
}

// pointer turns an address back into a C pointer. Addresses reaching a
// Heap come from malloc or from C callers and never point into the Go heap.
func pointer(addr uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(addr))
}

var (
	_ cborffi.Memory    = (*Heap)(nil)
	_ cborffi.Allocator = (*Heap)(nil)
)
