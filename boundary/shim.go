package boundary

import (
	"math"

	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/codec"
	"github.com/wippyai/cbor-ffi/errors"
	"go.uber.org/zap"
)

// Shim exposes the codec to one caller address space.
// Addresses are uint64 and 0 means null.
type Shim struct {
	mem    cborffi.Memory
	alloc  cborffi.Allocator
	logger *zap.Logger
	layout cborffi.RecordLayout
}

// Option configures a Shim.
type Option func(*Shim)

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shim) {
		s.logger = l
	}
}

func New(mem cborffi.Memory, alloc cborffi.Allocator, layout cborffi.RecordLayout, opts ...Option) *Shim {
	s := &Shim{
		mem:    mem,
		alloc:  alloc,
		layout: layout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = Logger()
	}
	return s
}

// Layout returns the record layout the shim writes.
func (s *Shim) Layout() cborffi.RecordLayout {
	return s.layout
}

// InitRecord sets rec to (null, 0, StatusOK). A null rec is ignored.
func (s *Shim) InitRecord(rec uint64) {
	if rec == 0 {
		return
	}
	s.writeWord(rec+s.layout.DataOffset, 0)
	s.writeWord(rec+s.layout.LenOffset, 0)
	s.writeStatus(rec, StatusOK)
}

// Release frees a buffer previously published by this shim. size must be
// the length it was published with. Releasing (null, 0) is a no-op.
func (s *Shim) Release(addr, size uint64) {
	if addr == 0 {
		return
	}
	s.logger.Debug("release", zap.Uint64("addr", addr), zap.Uint64("size", size))
	s.alloc.Free(addr, size)
}

func (s *Shim) EncodeInt(v int64, rec uint64) Status {
	const op = "encode_int"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	data, err := codec.EncodeInt(v)
	return s.publish(op, rec, data, err)
}

func (s *Shim) EncodeDouble(v float64, rec uint64) Status {
	const op = "encode_double"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	data, err := codec.EncodeDouble(v)
	return s.publish(op, rec, data, err)
}

func (s *Shim) EncodeBool(v bool, rec uint64) Status {
	const op = "encode_bool"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	data, err := codec.EncodeBool(v)
	return s.publish(op, rec, data, err)
}

func (s *Shim) EncodeNull(rec uint64) Status {
	const op = "encode_null"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	data, err := codec.EncodeNull()
	return s.publish(op, rec, data, err)
}

// EncodeText encodes the UTF-8 span (in, n). (null, 0) is the empty string.
func (s *Shim) EncodeText(in, n, rec uint64) Status {
	const op = "encode_text"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	src, err := s.input(op, in, n, false)
	if err != nil {
		return s.fail(op, rec, err)
	}
	data, err := codec.EncodeText(src)
	return s.publish(op, rec, data, err)
}

// EncodeBytes encodes the span (in, n). (null, 0) is the empty string.
func (s *Shim) EncodeBytes(in, n, rec uint64) Status {
	const op = "encode_bytes"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	src, err := s.input(op, in, n, false)
	if err != nil {
		return s.fail(op, rec, err)
	}
	data, err := codec.EncodeBytes(src)
	return s.publish(op, rec, data, err)
}

// DecodeInt decodes (in, n) and stores the int64 at out.
func (s *Shim) DecodeInt(in, n, out uint64) Status {
	const op = "decode_int"
	if out == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "output"))
	}
	src, err := s.input(op, in, n, true)
	if err != nil {
		return s.fail(op, 0, err)
	}
	v, err := codec.DecodeInt(src)
	if err != nil {
		return s.fail(op, 0, err)
	}
	s.must(errors.PhaseDecode, s.mem.WriteU64(out, uint64(v)))
	return StatusOK
}

// DecodeDouble decodes (in, n) and stores the float64 bits at out.
func (s *Shim) DecodeDouble(in, n, out uint64) Status {
	const op = "decode_double"
	if out == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "output"))
	}
	src, err := s.input(op, in, n, true)
	if err != nil {
		return s.fail(op, 0, err)
	}
	v, err := codec.DecodeDouble(src)
	if err != nil {
		return s.fail(op, 0, err)
	}
	s.must(errors.PhaseDecode, s.mem.WriteU64(out, math.Float64bits(v)))
	return StatusOK
}

// DecodeBool decodes (in, n) and stores 0 or 1 as an int32 at out.
func (s *Shim) DecodeBool(in, n, out uint64) Status {
	const op = "decode_bool"
	if out == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "output"))
	}
	src, err := s.input(op, in, n, true)
	if err != nil {
		return s.fail(op, 0, err)
	}
	v, err := codec.DecodeBool(src)
	if err != nil {
		return s.fail(op, 0, err)
	}
	var word uint32
	if v {
		word = 1
	}
	s.must(errors.PhaseDecode, s.mem.WriteU32(out, word))
	return StatusOK
}

// DecodeNull reports StatusOK when (in, n) holds exactly a null item.
func (s *Shim) DecodeNull(in, n uint64) Status {
	const op = "decode_null"
	src, err := s.input(op, in, n, true)
	if err != nil {
		return s.fail(op, 0, err)
	}
	if err := codec.DecodeNull(src); err != nil {
		return s.fail(op, 0, err)
	}
	return StatusOK
}

// DecodeText decodes (in, n) and publishes the UTF-8 payload into rec.
func (s *Shim) DecodeText(in, n, rec uint64) Status {
	const op = "decode_text"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	src, err := s.input(op, in, n, true)
	if err != nil {
		return s.fail(op, rec, err)
	}
	text, err := codec.DecodeText(src)
	return s.publish(op, rec, []byte(text), err)
}

// DecodeBytes decodes (in, n) and publishes the raw payload into rec.
func (s *Shim) DecodeBytes(in, n, rec uint64) Status {
	const op = "decode_bytes"
	if rec == 0 {
		return s.fail(op, 0, errors.NilPointer(errors.PhaseValidate, op, "result record"))
	}
	src, err := s.input(op, in, n, true)
	if err != nil {
		return s.fail(op, rec, err)
	}
	data, err := codec.DecodeBytes(src)
	return s.publish(op, rec, data, err)
}

// input validates the span (in, n) and copies it out of caller memory.
func (s *Shim) input(op string, in, n uint64, decode bool) ([]byte, error) {
	if decode && n == 0 {
		return nil, errors.ZeroLength(errors.PhaseValidate, op)
	}
	if in == 0 {
		if n > 0 {
			return nil, errors.NilPointer(errors.PhaseValidate, op, "input")
		}
		return nil, nil
	}

	view, err := s.mem.Read(in, n)
	s.must(errors.PhaseValidate, err)
	// Views into caller memory do not survive an allocation there.
	return append([]byte(nil), view...), nil
}

// publish writes a successful payload or the failure status into rec.
// An empty payload is published as (null, 0) without allocating.
func (s *Shim) publish(op string, rec uint64, data []byte, err error) Status {
	if err != nil {
		return s.fail(op, rec, err)
	}

	var l lease
	defer l.revoke()

	if len(data) > 0 {
		l = s.stage(data)
	}
	s.handOver(&l, rec)
	s.writeStatus(rec, StatusOK)
	return StatusOK
}

// fail reports err. When rec is not null only its status field is written;
// the buffer fields keep whatever InitRecord put there.
func (s *Shim) fail(op string, rec uint64, err error) Status {
	st := StatusOf(err)
	if st == StatusOK {
		return st
	}
	s.logger.Debug("boundary call failed",
		zap.String("op", op),
		zap.Int32("status", int32(st)),
		zap.Error(err))
	if rec != 0 {
		s.writeStatus(rec, st)
	}
	return st
}

func (s *Shim) writeStatus(rec uint64, st Status) {
	s.must(errors.PhaseTransfer, s.mem.WriteU32(rec+s.layout.StatusOffset, uint32(st)))
}

func (s *Shim) writeWord(addr, v uint64) {
	if s.layout.PtrSize == 4 {
		s.must(errors.PhaseTransfer, s.mem.WriteU32(addr, uint32(v)))
		return
	}
	s.must(errors.PhaseTransfer, s.mem.WriteU64(addr, v))
}

func (s *Shim) must(phase errors.Phase, err error) {
	if err != nil {
		s.violation(phase, err)
	}
}

// violation panics for an access the caller's address space rejected.
func (s *Shim) violation(phase errors.Phase, err error) {
	if errors.KindOf(err) == errors.KindOutOfBounds {
		panic(err)
	}
	panic(errors.Wrap(phase, errors.KindOutOfBounds, err, "caller memory rejected access"))
}
