// Package errors provides structured error types for the cbor-ffi module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: boundary operation, expected and actual
// CBOR item types, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Op("decode_int").
//		Want("int").
//		Got("text").
//		Detail("initial byte 0x63").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseDecode, "decode_int", "int", "bool")
//	err := errors.InvalidUTF8(errors.PhaseEncode, "encode_text", data)
//
// Kinds map onto boundary status codes: nil_pointer and zero_length are
// argument errors, invalid_utf8 has its own status, and every other decode
// kind collapses into the generic codec failure. allocation, out_of_bounds,
// double_free and size_mismatch are never reported as statuses; they are
// raised as panics because they indicate either resource exhaustion or a
// broken ownership contract.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
