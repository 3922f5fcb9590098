package codec

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/wippyai/cbor-ffi/errors"
)

// Kind identifies the type of a decoded data item.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnsigned
	KindNegative
	KindBytes
	KindText
	KindArray
	KindMap
	KindTag
	KindBool
	KindNull
	KindFloat
	KindSimple
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindUnsigned: "unsigned",
	KindNegative: "negative",
	KindBytes:    "bytes",
	KindText:     "text",
	KindArray:    "array",
	KindMap:      "map",
	KindTag:      "tag",
	KindBool:     "bool",
	KindNull:     "null",
	KindFloat:    "float",
	KindSimple:   "simple",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is one decoded data item. Kind always comes from the initial byte.
// The self-described CBOR tag 55799 is stripped by the decoder, so for
// d9 d9 f7 <item> Kind is KindTag while Data holds the enclosed item.
type Value struct {
	// Data holds the decoded Go value: uint64, int64, []byte, string,
	// bool, float64, nil, or the library's container, tag and simple types.
	Data any
	Kind Kind
	// Width is the number of argument bytes after the initial byte.
	Width int
}

// classify reads kind and argument width from an initial byte.
func classify(initial byte) (Kind, int) {
	major := initial >> 5
	info := initial & 0x1f

	width := 0
	switch info {
	case 24:
		width = 1
	case 25:
		width = 2
	case 26:
		width = 4
	case 27:
		width = 8
	}

	switch major {
	case 0:
		return KindUnsigned, width
	case 1:
		return KindNegative, width
	case 2:
		return KindBytes, width
	case 3:
		return KindText, width
	case 4:
		return KindArray, width
	case 5:
		return KindMap, width
	case 6:
		return KindTag, width
	}

	switch initial {
	case 0xf4, 0xf5:
		return KindBool, 0
	case 0xf6:
		return KindNull, 0
	case 0xf9, 0xfa, 0xfb:
		return KindFloat, width
	}
	return KindSimple, width
}

// DecodeValue decodes exactly one well-formed item occupying all of data.
func DecodeValue(data []byte) (Value, error) {
	return decodeValue("decode", data)
}

func decodeValue(op string, data []byte) (Value, error) {
	if len(data) == 0 {
		return Value{}, errors.ZeroLength(errors.PhaseDecode, op)
	}

	var v any
	rest, err := decMode.UnmarshalFirst(data, &v)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return Value{}, errors.New(errors.PhaseDecode, errors.KindTruncated).
				Op(op).
				Cause(err).
				Build()
		}
		return Value{}, errors.InvalidData(errors.PhaseDecode, op, err)
	}
	if len(rest) != 0 {
		return Value{}, errors.New(errors.PhaseDecode, errors.KindTrailingData).
			Op(op).
			Detail("%d bytes after first item", len(rest)).
			Build()
	}

	kind, width := classify(data[0])
	return Value{Kind: kind, Width: width, Data: v}, nil
}

// DecodeInt decodes an integer of any head width that fits in int64.
func DecodeInt(data []byte) (int64, error) {
	const op = "decode_int"
	v, err := decodeValue(op, data)
	if err != nil {
		return 0, err
	}

	if v.Kind != KindUnsigned && v.Kind != KindNegative {
		return 0, errors.TypeMismatch(errors.PhaseDecode, op, "int", v.Kind.String())
	}

	switch n := v.Data.(type) {
	case uint64:
		if n > math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseDecode, op, n, "int64")
		}
		return int64(n), nil
	case int64:
		return n, nil
	}

	// Negative integers below math.MinInt64 decode as *big.Int.
	return 0, errors.Overflow(errors.PhaseDecode, op, v.Data, "int64")
}

// DecodeDouble decodes an 8-byte float. Half and single precision items
// are rejected.
func DecodeDouble(data []byte) (float64, error) {
	const op = "decode_double"
	v, err := decodeValue(op, data)
	if err != nil {
		return 0, err
	}
	if v.Kind != KindFloat {
		return 0, errors.TypeMismatch(errors.PhaseDecode, op, "float64", v.Kind.String())
	}
	if v.Width != 8 {
		return 0, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Op(op).
			Want("float64").
			Got(floatName(v.Width)).
			Value(data[0]).
			Build()
	}
	// Read the stored bits so NaN payloads come back unchanged.
	return math.Float64frombits(binary.BigEndian.Uint64(data[1:9])), nil
}

func floatName(width int) string {
	switch width {
	case 2:
		return "float16"
	case 4:
		return "float32"
	}
	return "float64"
}

func DecodeBool(data []byte) (bool, error) {
	const op = "decode_bool"
	v, err := decodeValue(op, data)
	if err != nil {
		return false, err
	}
	b, ok := v.Data.(bool)
	if !ok || v.Kind != KindBool {
		return false, errors.TypeMismatch(errors.PhaseDecode, op, "bool", v.Kind.String())
	}
	return b, nil
}

func DecodeNull(data []byte) error {
	const op = "decode_null"
	v, err := decodeValue(op, data)
	if err != nil {
		return err
	}
	if v.Kind != KindNull {
		return errors.TypeMismatch(errors.PhaseDecode, op, "null", v.Kind.String())
	}
	return nil
}

// DecodeText decodes a text string and checks its payload is valid UTF-8.
func DecodeText(data []byte) (string, error) {
	const op = "decode_text"
	v, err := decodeValue(op, data)
	if err != nil {
		return "", err
	}
	s, ok := v.Data.(string)
	if !ok || v.Kind != KindText {
		return "", errors.TypeMismatch(errors.PhaseDecode, op, "text", v.Kind.String())
	}
	if !utf8.ValidString(s) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, op, []byte(s))
	}
	return s, nil
}

// DecodeBytes decodes a byte string and returns its payload.
func DecodeBytes(data []byte) ([]byte, error) {
	const op = "decode_bytes"
	v, err := decodeValue(op, data)
	if err != nil {
		return nil, err
	}
	b, ok := v.Data.([]byte)
	if !ok || v.Kind != KindBytes {
		return nil, errors.TypeMismatch(errors.PhaseDecode, op, "bytes", v.Kind.String())
	}
	return b, nil
}
