// Package wasmhost exposes the CBOR codec to WebAssembly guests as a wazero
// host module.
//
// A guest imports the functions from the host module (named "cbor" by
// default) and passes wasm32 addresses into its own linear memory:
//
//	(import "cbor" "init_record"  (func (param i32)))
//	(import "cbor" "free"         (func (param i32 i32)))
//	(import "cbor" "encode_int"   (func (param i64 i32) (result i32)))
//	(import "cbor" "decode_text"  (func (param i32 i32 i32) (result i32)))
//
// Records are 12 bytes: data (u32), len (u32), status (i32), little-endian.
// Output buffers are allocated inside the guest with its exported
// cabi_realloc, so the guest frees them with its own allocator or through
// the host's free import. The guest must export its memory as "memory".
//
// Host functions panic on contract violations such as an out-of-range
// record address; wazero turns the panic into a trap in the calling guest.
package wasmhost
