// Command libcbor builds the C shared library exporting the cbor_* API
// declared in cbor_ffi.h.
//
// Environment:
//
//	CBOR_FFI_LOG      zap level (debug, info, warn, error); unset disables logging
//	CBOR_FFI_CHECKED  "1" tracks every buffer and aborts on misuse of cbor_free
package main

// #define CBOR_FFI_NO_PROTOTYPES
// #include "cbor_ffi.h"
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	cborffi "github.com/wippyai/cbor-ffi"
	"github.com/wippyai/cbor-ffi/boundary"
	"github.com/wippyai/cbor-ffi/cmem"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var shim *boundary.Shim

func init() {
	checkABI()

	if level := os.Getenv("CBOR_FFI_LOG"); level != "" {
		l, err := newLogger(level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "libcbor: %v\n", err)
		} else {
			boundary.SetLogger(l)
		}
	}

	heap := cmem.New()
	var alloc cborffi.Allocator = heap
	if os.Getenv("CBOR_FFI_CHECKED") == "1" {
		alloc = boundary.NewTracked(heap)
	}
	shim = boundary.New(heap, alloc, cmem.Layout)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("CBOR_FFI_LOG: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// checkABI panics if cbor_ffi.h and the Go side disagree.
func checkABI() {
	var r C.cbor_result
	layout := cmem.Layout
	if uint64(unsafe.Offsetof(r.data)) != layout.DataOffset ||
		uint64(unsafe.Offsetof(r.len)) != layout.LenOffset ||
		uint64(unsafe.Offsetof(r.status)) != layout.StatusOffset ||
		uint64(unsafe.Sizeof(r)) != layout.Size {
		panic(fmt.Sprintf("libcbor: cbor_result layout mismatch: header %d/%d/%d size %d, go %+v",
			unsafe.Offsetof(r.data), unsafe.Offsetof(r.len), unsafe.Offsetof(r.status), unsafe.Sizeof(r), layout))
	}

	statuses := []struct {
		header int
		want   boundary.Status
	}{
		{C.CBOR_OK, boundary.StatusOK},
		{C.CBOR_NULL_ARGUMENT, boundary.StatusNullArgument},
		{C.CBOR_ZERO_LENGTH, boundary.StatusZeroLength},
		{C.CBOR_INVALID_UTF8, boundary.StatusInvalidUTF8},
		{C.CBOR_CODEC_FAILURE, boundary.StatusCodecFailure},
	}
	for _, s := range statuses {
		if s.header != int(s.want) {
			panic(fmt.Sprintf("libcbor: status %v is %d in cbor_ffi.h", s.want, s.header))
		}
	}
}

func addr[T any](p *T) uint64 {
	return uint64(uintptr(unsafe.Pointer(p)))
}

func status(st boundary.Status) C.int32_t {
	return C.int32_t(st)
}

//export cbor_init_result
func cbor_init_result(out *C.cbor_result) {
	shim.InitRecord(addr(out))
}

//export cbor_free
func cbor_free(data *C.uint8_t, n C.size_t) {
	shim.Release(addr(data), uint64(n))
}

//export cbor_encode_int
func cbor_encode_int(value C.int64_t, out *C.cbor_result) C.int32_t {
	return status(shim.EncodeInt(int64(value), addr(out)))
}

//export cbor_encode_double
func cbor_encode_double(value C.double, out *C.cbor_result) C.int32_t {
	return status(shim.EncodeDouble(float64(value), addr(out)))
}

//export cbor_encode_string
func cbor_encode_string(str *C.char, n C.size_t, out *C.cbor_result) C.int32_t {
	return status(shim.EncodeText(addr(str), uint64(n), addr(out)))
}

//export cbor_encode_bytes
func cbor_encode_bytes(data *C.uint8_t, n C.size_t, out *C.cbor_result) C.int32_t {
	return status(shim.EncodeBytes(addr(data), uint64(n), addr(out)))
}

//export cbor_encode_bool
func cbor_encode_bool(value C.int32_t, out *C.cbor_result) C.int32_t {
	return status(shim.EncodeBool(value != 0, addr(out)))
}

//export cbor_encode_null
func cbor_encode_null(out *C.cbor_result) C.int32_t {
	return status(shim.EncodeNull(addr(out)))
}

//export cbor_decode_int
func cbor_decode_int(data *C.uint8_t, n C.size_t, out *C.int64_t) C.int32_t {
	return status(shim.DecodeInt(addr(data), uint64(n), addr(out)))
}

//export cbor_decode_double
func cbor_decode_double(data *C.uint8_t, n C.size_t, out *C.double) C.int32_t {
	return status(shim.DecodeDouble(addr(data), uint64(n), addr(out)))
}

//export cbor_decode_bool
func cbor_decode_bool(data *C.uint8_t, n C.size_t, out *C.int32_t) C.int32_t {
	return status(shim.DecodeBool(addr(data), uint64(n), addr(out)))
}

//export cbor_decode_null
func cbor_decode_null(data *C.uint8_t, n C.size_t) C.int32_t {
	return status(shim.DecodeNull(addr(data), uint64(n)))
}

//export cbor_decode_string
func cbor_decode_string(data *C.uint8_t, n C.size_t, out *C.cbor_result) C.int32_t {
	return status(shim.DecodeText(addr(data), uint64(n), addr(out)))
}

//export cbor_decode_bytes
func cbor_decode_bytes(data *C.uint8_t, n C.size_t, out *C.cbor_result) C.int32_t {
	return status(shim.DecodeBytes(addr(data), uint64(n), addr(out)))
}

func main() {}
