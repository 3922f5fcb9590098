package boundary

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/wippyai/cbor-ffi/errors"
)

// arena is a little-endian address space with a bump allocator.
// Addresses below heapBase are left to tests for records and inputs.
type arena struct {
	buf       []byte
	next      uint64
	frees     int
	failAlloc bool
	mu        sync.Mutex
}

const (
	arenaSize = 64 * 1024
	heapBase  = 8 * 1024
)

func newArena() *arena {
	return &arena{buf: make([]byte, arenaSize), next: heapBase}
}

func (a *arena) Alloc(size uint64) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAlloc {
		return 0, fmt.Errorf("arena: allocation disabled")
	}
	if a.next+size > uint64(len(a.buf)) {
		return 0, fmt.Errorf("arena: out of memory")
	}
	addr := a.next
	a.next += (size + 7) &^ 7
	return addr, nil
}

func (a *arena) Free(addr, size uint64) {
	a.mu.Lock()
	a.frees++
	a.mu.Unlock()
}

func (a *arena) check(addr, length uint64) error {
	if addr+length > uint64(len(a.buf)) || addr+length < addr {
		return errors.OutOfBounds(errors.PhaseTransfer, addr, length)
	}
	return nil
}

func (a *arena) Read(addr, length uint64) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(addr, length); err != nil {
		return nil, err
	}
	return a.buf[addr : addr+length], nil
}

func (a *arena) Write(addr uint64, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(addr, uint64(len(data))); err != nil {
		return err
	}
	copy(a.buf[addr:], data)
	return nil
}

func (a *arena) ReadU32(addr uint64) (uint32, error) {
	b, err := a.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (a *arena) ReadU64(addr uint64) (uint64, error) {
	b, err := a.Read(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (a *arena) WriteU32(addr uint64, value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return a.Write(addr, b[:])
}

func (a *arena) WriteU64(addr uint64, value uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return a.Write(addr, b[:])
}
