// Package boundary implements the ownership and validation shim that sits
// between a foreign caller and the codec.
//
// A Shim is bound to one caller address space: a cborffi.Memory to read
// inputs and write results, a cborffi.Allocator that owns returned
// buffers, and a cborffi.RecordLayout describing the out-parameter record
//
//	struct { data; len; int32 status }
//
// Each operation validates its arguments, runs the codec and publishes
// either (data, len, StatusOK) or a failure status into the record. The
// caller must eventually pass every non-null (data, len) back to Release,
// exactly once and with the same length.
//
// Ordinary failures come back as Status values. Contract violations do
// not: a record or span the address space cannot reach panics with an
// errors.KindOutOfBounds error, and a failed allocation panics with
// errors.KindAllocation. Tracked turns double release, unknown pointers
// and size mismatches into panics as well, for debug builds and tests.
package boundary
