package codec

import (
	"unicode/utf8"

	"github.com/wippyai/cbor-ffi/errors"
)

// EncodeInt encodes v as major type 0 or 1 with the shortest head.
func EncodeInt(v int64) ([]byte, error) {
	return marshal("encode_int", v)
}

// EncodeDouble encodes v as an 8-byte float (0xfb) without narrowing.
func EncodeDouble(v float64) ([]byte, error) {
	return marshal("encode_double", v)
}

func EncodeBool(v bool) ([]byte, error) {
	return marshal("encode_bool", v)
}

func EncodeNull() ([]byte, error) {
	return marshal("encode_null", nil)
}

// EncodeText encodes s as a text string. s must be valid UTF-8.
func EncodeText(s []byte) ([]byte, error) {
	if !utf8.Valid(s) {
		return nil, errors.InvalidUTF8(errors.PhaseEncode, "encode_text", s)
	}
	return marshal("encode_text", string(s))
}

// EncodeBytes encodes b as a byte string. A nil slice is the empty string.
func EncodeBytes(b []byte) ([]byte, error) {
	return marshal("encode_bytes", b)
}

func marshal(op string, v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseEncode, op, err)
	}
	return data, nil
}
