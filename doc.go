// Package cborffi provides a CBOR codec for scalar values behind a
// foreign-function boundary.
//
// Native code encodes signed 64-bit integers, doubles, UTF-8 text, byte
// strings, booleans and null into CBOR (RFC 8949) and decodes them back.
// A caller in another runtime invokes these operations and takes
// ownership of the resulting buffers.
//
// # Architecture Overview
//
//	cborffi/            Root package with Memory, Allocator and RecordLayout
//	├── codec/          Scalar CBOR encoders and decoders
//	├── boundary/       Validation, ownership handoff and status codes
//	├── cmem/           C heap address space (cgo)
//	├── wasmhost/       wazero host module for WebAssembly guests
//	├── errors/         Structured error types
//	└── cmd/
//	    ├── libcbor/    c-shared library exporting cbor_* symbols
//	    └── cbor/       command line and interactive inspector
//
// # Calling Convention
//
// Every boundary call follows the same shape:
//
//	cbor_result r;
//	cbor_init_result(&r);                    // (NULL, 0, 0)
//	if (cbor_encode_int(42, &r) == CBOR_OK) {
//	    consume(r.data, r.len);
//	    cbor_free(r.data, r.len);            // exactly once, same length
//	}
//
// Status codes are stable: 0 success, -1 null argument, -2 zero-length
// input, -3 invalid UTF-8, -4 codec failure.
//
// # Ownership
//
// A returned buffer belongs to the caller until it is passed back to
// release with the length it was returned with. Releasing twice, releasing
// with a different length, or releasing a pointer this library did not
// return is undefined behavior. The allocation is not self-describing.
//
// # Memory Model
//
// Inputs are borrowed for the duration of a call and never retained.
// Outputs are freshly allocated in the caller's address space. No state is
// shared between calls, so independent calls from different threads are
// safe as long as each record and each buffer is used by one thread at a
// time.
package cborffi
