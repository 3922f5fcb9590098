package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindTypeMismatch,
				Op:     "decode_int",
				Want:   "int",
				Got:    "bool",
				Detail: "initial byte 0xf5",
			},
			contains: []string{"[decode]", "type_mismatch", "in decode_int", "want int, got bool", " - initial byte 0xf5"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindTruncated,
			},
			contains: []string{"[decode]", "truncated"},
		},
		{
			name: "want only",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOverflow,
				Want:  "int64",
			},
			contains: []string{"want int64"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseTransfer,
				Kind:   KindAllocation,
				Detail: "heap exhausted",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[transfer]", "allocation", ": heap exhausted", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidUTF8,
		Op:    "encode_text",
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidUTF8}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidUTF8}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseEncode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("boundary: %w", err)
	if !errors.Is(wrapped, &Error{Phase: PhaseEncode, Kind: KindInvalidUTF8}) {
		t.Error("errors.Is should match through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindTypeMismatch).
		Op("decode_double").
		Want("float64").
		Got("float16").
		Value(0xf9).
		Cause(cause).
		Detail("width %d not accepted", 2).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if err.Op != "decode_double" {
		t.Errorf("Op = %v, want decode_double", err.Op)
	}
	if err.Want != "float64" || err.Got != "float16" {
		t.Errorf("Want=%v Got=%v", err.Want, err.Got)
	}
	if err.Value != 0xf9 {
		t.Errorf("Value = %v, want 0xf9", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "width 2 not accepted" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseDecode, "decode_bytes", "bytes", "text")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.Want != "bytes" || err.Got != "text" {
			t.Errorf("Want=%v Got=%v", err.Want, err.Got)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseEncode, "encode_text", []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Detail, "fffe") {
			t.Errorf("Detail = %q, should contain hex preview", err.Detail)
		}
	})

	t.Run("InvalidUTF8 preview truncated", func(t *testing.T) {
		data := make([]byte, 100)
		for i := range data {
			data[i] = 0xff
		}
		err := InvalidUTF8(PhaseDecode, "decode_text", data)
		if got := strings.Count(err.Detail, "ff"); got != 32 {
			t.Errorf("preview has %d bytes, want 32", got)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseTransfer, 1024, errors.New("oom"))
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseValidate, "encode_int", "result record")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.Detail != "nil result record" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("ZeroLength", func(t *testing.T) {
		err := ZeroLength(PhaseValidate, "decode_int")
		if err.Kind != KindZeroLength {
			t.Errorf("Kind = %v, want %v", err.Kind, KindZeroLength)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseDecode, "decode_int", uint64(1)<<63, "int64")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != uint64(1)<<63 {
			t.Errorf("Value = %v", err.Value)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseTransfer, 0x10000, 12)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if !strings.Contains(err.Detail, "0x10000") {
			t.Errorf("Detail = %q, should contain address", err.Detail)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		cause := errors.New("cbor: invalid additional information 28 for type positive integer")
		err := InvalidData(PhaseDecode, "decode_int", cause)
		if err.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
		}
		if !errors.Is(err, cause) {
			t.Error("InvalidData should wrap its cause")
		}
		if !strings.Contains(err.Error(), "in decode_int") {
			t.Errorf("Error() = %q, should name the operation", err.Error())
		}
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"direct", ZeroLength(PhaseValidate, "decode_int"), KindZeroLength},
		{"wrapped", fmt.Errorf("ctx: %w", InvalidUTF8(PhaseDecode, "decode_text", nil)), KindInvalidUTF8},
		{"outer wins", Wrap(PhaseDecode, KindTruncated, InvalidData(PhaseDecode, "", nil), "short"), KindTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
