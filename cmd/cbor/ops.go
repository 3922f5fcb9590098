package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/wippyai/cbor-ffi/codec"
)

// types lists the scalar types accepted by -encode and -decode.
var types = []string{"int", "double", "text", "bytes", "bool", "null"}

// encodeValue parses value as the named type and encodes it.
// Byte strings are given as hex.
func encodeValue(typ, value string) ([]byte, error) {
	switch typ {
	case "int":
		v, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parse int: %w", err)
		}
		return codec.EncodeInt(v)
	case "double":
		v, err := parseDouble(value)
		if err != nil {
			return nil, err
		}
		return codec.EncodeDouble(v)
	case "text":
		return codec.EncodeText([]byte(value))
	case "bytes":
		if strings.TrimSpace(value) == "" {
			return codec.EncodeBytes(nil)
		}
		b, err := decodeHexInput([]byte(value))
		if err != nil {
			return nil, err
		}
		return codec.EncodeBytes(b)
	case "bool":
		v, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("parse bool: %w", err)
		}
		return codec.EncodeBool(v)
	case "null":
		return codec.EncodeNull()
	}
	return nil, fmt.Errorf("unknown type %q (want one of %s)", typ, strings.Join(types, ", "))
}

// parseDouble accepts anything strconv.ParseFloat does, plus raw IEEE-754
// bits written as bits:0x7ff8000000000001.
func parseDouble(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if bits, ok := strings.CutPrefix(value, "bits:"); ok {
		u, err := strconv.ParseUint(bits, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("parse double bits: %w", err)
		}
		return math.Float64frombits(u), nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse double: %w", err)
	}
	return v, nil
}

// decodeValue decodes data as the named type and formats the result.
// The type "any" accepts any single item.
func decodeValue(typ string, data []byte) (string, error) {
	switch typ {
	case "int":
		v, err := codec.DecodeInt(data)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	case "double":
		v, err := codec.DecodeDouble(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%v (bits %#016x)", v, math.Float64bits(v)), nil
	case "text":
		v, err := codec.DecodeText(data)
		if err != nil {
			return "", err
		}
		return strconv.Quote(v), nil
	case "bytes":
		v, err := codec.DecodeBytes(data)
		if err != nil {
			return "", err
		}
		return "h'" + hex.EncodeToString(v) + "'", nil
	case "bool":
		v, err := codec.DecodeBool(data)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	case "null":
		if err := codec.DecodeNull(data); err != nil {
			return "", err
		}
		return "null", nil
	case "any", "":
		v, err := codec.DecodeValue(data)
		if err != nil {
			return "", err
		}
		diag, err := codec.Diagnose(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (%s)", diag, v.Kind), nil
	}
	return "", fmt.Errorf("unknown type %q (want one of %s, any)", typ, strings.Join(types, ", "))
}

// describe formats an encoded item as hex, length and diagnostic notation.
func describe(data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hex:  %s\n", spacedHex(data))
	fmt.Fprintf(&b, "len:  %d\n", len(data))
	if diag, err := codec.Diagnose(data); err == nil {
		fmt.Fprintf(&b, "diag: %s\n", diag)
	}
	return b.String()
}

func spacedHex(data []byte) string {
	parts := make([]string, len(data))
	for i, c := range data {
		parts[i] = hex.EncodeToString([]byte{c})
	}
	return strings.Join(parts, " ")
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it. Whitespace between digit pairs is allowed ("1b 00 0b" or "1b000b").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)
	cleaned = bytes.TrimPrefix(cleaned, []byte("0x"))

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
