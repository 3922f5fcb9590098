package boundary

import (
	"strconv"
	"sync"

	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/errors"
)

// Tracked wraps an Allocator and records every outstanding allocation.
// Releasing an address it does not hold, or with a different size, panics.
type Tracked struct {
	inner cborffi.Allocator
	live  map[uint64]uint64
	mu    sync.Mutex
	total uint64
}

func NewTracked(inner cborffi.Allocator) *Tracked {
	return &Tracked{
		inner: inner,
		live:  make(map[uint64]uint64),
	}
}

// Alloc allocates through the wrapped allocator and records the result.
func (t *Tracked) Alloc(size uint64) (uint64, error) {
	addr, err := t.inner.Alloc(size)
	if err != nil || addr == 0 {
		return addr, err
	}

	t.mu.Lock()
	t.live[addr] = size
	t.total++
	t.mu.Unlock()
	return addr, nil
}

// Free checks addr against the outstanding set before releasing it.
func (t *Tracked) Free(addr, size uint64) {
	t.mu.Lock()
	want, ok := t.live[addr]
	if !ok {
		t.mu.Unlock()
		panic(errors.New(errors.PhaseRelease, errors.KindDoubleFree).
			Value(addr).
			Detail("address %#x is not outstanding", addr).
			Build())
	}
	if want != size {
		t.mu.Unlock()
		panic(errors.New(errors.PhaseRelease, errors.KindSizeMismatch).
			Value(addr).
			Want(strconv.FormatUint(want, 10)).
			Got(strconv.FormatUint(size, 10)).
			Detail("address %#x", addr).
			Build())
	}
	delete(t.live, addr)
	t.mu.Unlock()

	t.inner.Free(addr, size)
}

// Outstanding returns the number of allocations not yet freed.
func (t *Tracked) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// OutstandingBytes returns the total size of allocations not yet freed.
func (t *Tracked) OutstandingBytes() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n uint64
	for _, size := range t.live {
		n += size
	}
	return n
}

// Allocations returns how many allocations succeeded over the lifetime
// of the allocator.
func (t *Tracked) Allocations() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}
