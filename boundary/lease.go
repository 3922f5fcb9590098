package boundary

import (
	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/errors"
)

// lease is an output buffer allocated in the caller's address space that
// the caller does not own yet. Until handOver succeeds the shim is
// responsible for freeing it.
type lease struct {
	alloc cborffi.Allocator
	addr  uint64
	size  uint64
}

// stage allocates len(data) bytes and copies data into them.
// data must not alias caller memory: allocating may move it.
func (s *Shim) stage(data []byte) lease {
	size := uint64(len(data))
	addr, err := s.alloc.Alloc(size)
	if err != nil {
		panic(errors.AllocationFailed(errors.PhaseTransfer, size, err))
	}
	if addr == 0 {
		panic(errors.AllocationFailed(errors.PhaseTransfer, size, nil))
	}

	l := lease{alloc: s.alloc, addr: addr, size: size}
	if err := s.mem.Write(addr, data); err != nil {
		l.revoke()
		s.violation(errors.PhaseTransfer, err)
	}
	return l
}

// handOver publishes the lease into rec. Afterwards the caller owns the
// buffer and the lease is empty. The data field is written last: if any
// earlier write faults, rec never holds an address the lease then frees.
func (s *Shim) handOver(l *lease, rec uint64) {
	s.writeWord(rec+s.layout.LenOffset, l.size)
	s.writeWord(rec+s.layout.DataOffset, l.addr)
	*l = lease{}
}

// revoke frees a lease that was never handed over.
func (l *lease) revoke() {
	if l.addr != 0 {
		l.alloc.Free(l.addr, l.size)
	}
	*l = lease{}
}
