package wasmhost

import (
	"context"
	"fmt"
	"math"

	"github.com/tetratelabs/wazero/api"
	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/errors"
	"go.uber.org/zap"
)

// guestMemory adapts a wazero api.Memory to cborffi.Memory.
type guestMemory struct {
	mem api.Memory
}

func offset(addr, length uint64) (uint32, uint32, error) {
	if addr > math.MaxUint32 || length > math.MaxUint32 {
		return 0, 0, errors.OutOfBounds(errors.PhaseTransfer, addr, length)
	}
	return uint32(addr), uint32(length), nil
}

func (m *guestMemory) Read(addr uint64, length uint64) ([]byte, error) {
	off, n, err := offset(addr, length)
	if err != nil {
		return nil, err
	}
	data, ok := m.mem.Read(off, n)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseTransfer, addr, length)
	}
	return data, nil
}

func (m *guestMemory) Write(addr uint64, data []byte) error {
	off, _, err := offset(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	if !m.mem.Write(off, data) {
		return errors.OutOfBounds(errors.PhaseTransfer, addr, uint64(len(data)))
	}
	return nil
}

func (m *guestMemory) ReadU32(addr uint64) (uint32, error) {
	off, _, err := offset(addr, 4)
	if err != nil {
		return 0, err
	}
	v, ok := m.mem.ReadUint32Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseTransfer, addr, 4)
	}
	return v, nil
}

func (m *guestMemory) ReadU64(addr uint64) (uint64, error) {
	off, _, err := offset(addr, 8)
	if err != nil {
		return 0, err
	}
	v, ok := m.mem.ReadUint64Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseTransfer, addr, 8)
	}
	return v, nil
}

func (m *guestMemory) WriteU32(addr uint64, value uint32) error {
	off, _, err := offset(addr, 4)
	if err != nil {
		return err
	}
	if !m.mem.WriteUint32Le(off, value) {
		return errors.OutOfBounds(errors.PhaseTransfer, addr, 4)
	}
	return nil
}

func (m *guestMemory) WriteU64(addr uint64, value uint64) error {
	off, _, err := offset(addr, 8)
	if err != nil {
		return err
	}
	if !m.mem.WriteUint64Le(off, value) {
		return errors.OutOfBounds(errors.PhaseTransfer, addr, 8)
	}
	return nil
}

// guestAllocator allocates inside the calling guest through its exports.
type guestAllocator struct {
	ctx     context.Context
	mod     api.Module
	realloc string
	free    string
	align   uint32
	stack   [4]uint64
}

func (a *guestAllocator) Alloc(size uint64) (uint64, error) {
	if size > math.MaxUint32 {
		return 0, fmt.Errorf("allocation of %d bytes exceeds wasm32 address space", size)
	}
	fn := a.mod.ExportedFunction(a.realloc)
	if fn == nil {
		return 0, fmt.Errorf("guest does not export %s", a.realloc)
	}

	a.stack[0] = 0
	a.stack[1] = 0
	a.stack[2] = uint64(a.align)
	a.stack[3] = size
	if err := fn.CallWithStack(a.ctx, a.stack[:]); err != nil {
		return 0, fmt.Errorf("%s: %w", a.realloc, err)
	}
	return uint64(api.DecodeU32(a.stack[0])), nil
}

func (a *guestAllocator) Free(addr, size uint64) {
	var err error
	if fn := a.mod.ExportedFunction(a.free); fn != nil {
		a.stack[0] = addr
		a.stack[1] = size
		a.stack[2] = uint64(a.align)
		err = fn.CallWithStack(a.ctx, a.stack[:3])
	} else if fn := a.mod.ExportedFunction(a.realloc); fn != nil {
		a.stack[0] = addr
		a.stack[1] = size
		a.stack[2] = uint64(a.align)
		a.stack[3] = 0
		err = fn.CallWithStack(a.ctx, a.stack[:])
	} else {
		err = fmt.Errorf("guest exports neither %s nor %s", a.free, a.realloc)
	}

	if err != nil {
		Logger().Warn("Free: failed to release guest buffer",
			zap.Uint64("ptr", addr),
			zap.Uint64("size", size),
			zap.Error(err))
	}
}

var (
	_ cborffi.Memory    = (*guestMemory)(nil)
	_ cborffi.Allocator = (*guestAllocator)(nil)
)
