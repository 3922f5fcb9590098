package wasmhost

// Helpers that assemble a small core wasm guest for the host tests. The
// guest imports every host function, re-exports each one as g_<name>,
// exports one page of memory, and provides a bump-allocating cabi_realloc
// that counts frees in the exported global "frees". The allocator's
// cursor is exported as "heap".

const (
	valI32 = 0x7f
	valI64 = 0x7e
	valF64 = 0x7c

	guestHeapBase = 1024
)

type guestImport struct {
	name    string
	params  []byte
	results []byte
}

var guestImports = []guestImport{
	{"init_record", []byte{valI32}, nil},
	{"free", []byte{valI32, valI32}, nil},
	{"encode_int", []byte{valI64, valI32}, []byte{valI32}},
	{"encode_double", []byte{valF64, valI32}, []byte{valI32}},
	{"encode_bool", []byte{valI32, valI32}, []byte{valI32}},
	{"encode_null", []byte{valI32}, []byte{valI32}},
	{"encode_text", []byte{valI32, valI32, valI32}, []byte{valI32}},
	{"encode_bytes", []byte{valI32, valI32, valI32}, []byte{valI32}},
	{"decode_int", []byte{valI32, valI32, valI32}, []byte{valI32}},
	{"decode_double", []byte{valI32, valI32, valI32}, []byte{valI32}},
	{"decode_bool", []byte{valI32, valI32, valI32}, []byte{valI32}},
	{"decode_null", []byte{valI32, valI32}, []byte{valI32}},
	{"decode_text", []byte{valI32, valI32, valI32}, []byte{valI32}},
	{"decode_bytes", []byte{valI32, valI32, valI32}, []byte{valI32}},
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func wasmName(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func wasmVec(items [][]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func wasmSection(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func funcType(params, results []byte) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(len(params)))...)
	out = append(out, params...)
	out = append(out, uleb(uint32(len(results)))...)
	return append(out, results...)
}

func funcBody(code []byte) []byte {
	body := append([]byte{0x00}, code...) // no locals
	return append(uleb(uint32(len(body))), body...)
}

// guestModule assembles the guest binary importing from module.
func guestModule(module string) []byte {
	var types, imports, funcs, exports, bodies [][]byte

	for i, imp := range guestImports {
		types = append(types, funcType(imp.params, imp.results))
		entry := append(wasmName(module), wasmName(imp.name)...)
		entry = append(entry, 0x00)
		entry = append(entry, uleb(uint32(i))...)
		imports = append(imports, entry)
	}

	// cabi_realloc(old_ptr, old_size, align, new_size) -> ptr
	reallocType := uint32(len(types))
	types = append(types, funcType([]byte{valI32, valI32, valI32, valI32}, []byte{valI32}))
	reallocIdx := uint32(len(guestImports))
	funcs = append(funcs, uleb(reallocType))

	var realloc []byte
	realloc = append(realloc, 0x20, 0x03, 0x45) // local.get 3; i32.eqz
	realloc = append(realloc, 0x04, valI32)     // if (result i32)
	realloc = append(realloc, 0x23, 0x01, 0x41, 0x01, 0x6a, 0x24, 0x01)
	realloc = append(realloc, 0x41, 0x00) // free: frees++, return 0
	realloc = append(realloc, 0x05)       // else
	realloc = append(realloc, 0x23, 0x00) // result = heap
	realloc = append(realloc, 0x23, 0x00, 0x20, 0x03, 0x6a)
	realloc = append(realloc, 0x41, 0x07, 0x6a, 0x41)
	realloc = append(realloc, sleb(-8)...)
	realloc = append(realloc, 0x71, 0x24, 0x00) // heap = (heap + size + 7) & -8
	realloc = append(realloc, 0x0b, 0x0b)       // end if; end func
	bodies = append(bodies, funcBody(realloc))
	exports = append(exports, append(wasmName("cabi_realloc"), append([]byte{0x00}, uleb(reallocIdx)...)...))

	for i, imp := range guestImports {
		funcs = append(funcs, uleb(uint32(i)))
		var code []byte
		for p := range imp.params {
			code = append(code, 0x20, byte(p))
		}
		code = append(code, 0x10)
		code = append(code, uleb(uint32(i))...)
		code = append(code, 0x0b)
		bodies = append(bodies, funcBody(code))

		idx := reallocIdx + 1 + uint32(i)
		exports = append(exports, append(wasmName("g_"+imp.name), append([]byte{0x00}, uleb(idx)...)...))
	}

	exports = append(exports,
		append(wasmName("memory"), 0x02, 0x00),
		append(wasmName("heap"), 0x03, 0x00),
		append(wasmName("frees"), 0x03, 0x01),
	)

	heapInit := append([]byte{valI32, 0x01, 0x41}, sleb(guestHeapBase)...)
	heapInit = append(heapInit, 0x0b)
	freesInit := []byte{valI32, 0x01, 0x41, 0x00, 0x0b}

	var out []byte
	out = append(out, 0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00)
	out = append(out, wasmSection(1, wasmVec(types))...)
	out = append(out, wasmSection(2, wasmVec(imports))...)
	out = append(out, wasmSection(3, wasmVec(funcs))...)
	out = append(out, wasmSection(5, []byte{0x01, 0x00, 0x01})...)
	out = append(out, wasmSection(6, wasmVec([][]byte{heapInit, freesInit}))...)
	out = append(out, wasmSection(7, wasmVec(exports))...)
	out = append(out, wasmSection(10, wasmVec(bodies))...)
	return out
}
