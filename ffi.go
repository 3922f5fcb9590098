package cborffi

// Memory is a caller's address space as seen from the codec side.
// Addresses are opaque: raw pointers for the C heap, offsets for wasm
// linear memory. Multi-byte values use the address space's own byte order.
type Memory interface {
	Read(addr uint64, length uint64) ([]byte, error)
	Write(addr uint64, data []byte) error
	ReadU32(addr uint64) (uint32, error)
	ReadU64(addr uint64) (uint64, error)
	WriteU32(addr uint64, value uint32) error
	WriteU64(addr uint64, value uint64) error
}

// Allocator allocates buffers that are handed to the caller.
// Free must be called with the exact size returned alongside the address.
type Allocator interface {
	Alloc(size uint64) (uint64, error)
	Free(addr, size uint64)
}

// RecordLayout describes where the fields of an out-parameter record
// live relative to the record address.
type RecordLayout struct {
	// PtrSize is the width in bytes of the data and length fields (4 or 8).
	PtrSize uint64
	// DataOffset, LenOffset and StatusOffset are byte offsets of the fields.
	DataOffset   uint64
	LenOffset    uint64
	StatusOffset uint64
	// Size is the full record size including trailing padding.
	Size uint64
}

// PointerLayout returns the natural layout of
// struct { void *data; size_t len; int32_t status; } for a given pointer size.
func PointerLayout(ptrSize uint64) RecordLayout {
	size := 2*ptrSize + 4
	if rem := size % ptrSize; rem != 0 {
		size += ptrSize - rem
	}
	return RecordLayout{
		PtrSize:      ptrSize,
		DataOffset:   0,
		LenOffset:    ptrSize,
		StatusOffset: 2 * ptrSize,
		Size:         size,
	}
}
