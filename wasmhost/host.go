package wasmhost

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/boundary"
	"github.com/wippyai/cbor-ffi/errors"
)

// Layout is the wasm32 result record: {u32 data; u32 len; i32 status}.
var Layout = cborffi.RecordLayout{
	PtrSize:      4,
	DataOffset:   0,
	LenOffset:    4,
	StatusOffset: 8,
	Size:         12,
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f64 = api.ValueTypeF64
)

// hostFunc is one export of the host module. call runs with a shim bound
// to the calling guest and the raw wasm stack.
type hostFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
	call    func(s *boundary.Shim, stack []uint64)
}

// Functions lists the names exported by the host module.
func Functions() []string {
	names := make([]string, len(hostFuncs))
	for i, f := range hostFuncs {
		names[i] = f.name
	}
	return names
}

var hostFuncs = []hostFunc{
	{"init_record", []api.ValueType{i32}, nil, func(s *boundary.Shim, stack []uint64) {
		s.InitRecord(addr(stack[0]))
	}},
	{"free", []api.ValueType{i32, i32}, nil, func(s *boundary.Shim, stack []uint64) {
		s.Release(addr(stack[0]), addr(stack[1]))
	}},
	{"encode_int", []api.ValueType{i64, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.EncodeInt(int64(stack[0]), addr(stack[1])))
	}},
	{"encode_double", []api.ValueType{f64, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.EncodeDouble(api.DecodeF64(stack[0]), addr(stack[1])))
	}},
	{"encode_bool", []api.ValueType{i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.EncodeBool(api.DecodeI32(stack[0]) != 0, addr(stack[1])))
	}},
	{"encode_null", []api.ValueType{i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.EncodeNull(addr(stack[0])))
	}},
	{"encode_text", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.EncodeText(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
	{"encode_bytes", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.EncodeBytes(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
	{"decode_int", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.DecodeInt(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
	{"decode_double", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.DecodeDouble(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
	{"decode_bool", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.DecodeBool(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
	{"decode_null", []api.ValueType{i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.DecodeNull(addr(stack[0]), addr(stack[1])))
	}},
	{"decode_text", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.DecodeText(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
	{"decode_bytes", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, func(s *boundary.Shim, stack []uint64) {
		stack[0] = status(s.DecodeBytes(addr(stack[0]), addr(stack[1]), addr(stack[2])))
	}},
}

func addr(v uint64) uint64 {
	return uint64(api.DecodeU32(v))
}

func status(st boundary.Status) uint64 {
	return api.EncodeI32(int32(st))
}

// Instantiate builds the host module and instantiates it into rt. Guests
// that import it must be instantiated afterwards.
func Instantiate(ctx context.Context, rt wazero.Runtime, cfg Config) (api.Module, error) {
	cfg = cfg.withDefaults()

	builder := rt.NewHostModuleBuilder(cfg.ModuleName)
	for _, f := range hostFuncs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(handler(cfg, f), f.params, f.results).
			Export(f.name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate host module %q: %w", cfg.ModuleName, err)
	}
	return mod, nil
}

func handler(cfg Config, f hostFunc) api.GoModuleFunction {
	return api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
		mem := mod.Memory()
		if mem == nil {
			panic(errors.NilPointer(errors.PhaseValidate, f.name, "guest memory"))
		}
		alloc := &guestAllocator{
			ctx:     ctx,
			mod:     mod,
			realloc: cfg.Realloc,
			free:    cfg.Free,
			align:   cfg.Align,
		}
		shim := boundary.New(&guestMemory{mem: mem}, alloc, Layout, boundary.WithLogger(Logger()))
		f.call(shim, stack)
	})
}
