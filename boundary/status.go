package boundary

import (
	"strconv"

	"github.com/wippyai/cbor-ffi/errors"
)

// Status is the result code returned by every boundary operation.
// The numeric values are part of the ABI and never change.
type Status int32

const (
	StatusOK           Status = 0
	StatusNullArgument Status = -1
	StatusZeroLength   Status = -2
	StatusInvalidUTF8  Status = -3
	StatusCodecFailure Status = -4
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNullArgument:
		return "null argument"
	case StatusZeroLength:
		return "zero length"
	case StatusInvalidUTF8:
		return "invalid utf-8"
	case StatusCodecFailure:
		return "codec failure"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// IsArgumentError reports whether the caller passed a bad argument.
func (s Status) IsArgumentError() bool {
	return s == StatusNullArgument || s == StatusZeroLength
}

// StatusOf maps an error to the status reported across the boundary.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	switch errors.KindOf(err) {
	case errors.KindNilPointer:
		return StatusNullArgument
	case errors.KindZeroLength:
		return StatusZeroLength
	case errors.KindInvalidUTF8:
		return StatusInvalidUTF8
	}
	return StatusCodecFailure
}
