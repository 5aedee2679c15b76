package errors

import (
	"errors"
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
				Phase:  PhaseBuild,
				Kind:   KindTypeMismatch,
				Name:   "acc",
				Detail: "declared U32, stored F32",
			},
			contains: []string{"[build]", "type_mismatch", "acc", "declared U32, stored F32"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseFinalize,
				Kind:  KindUnbalanced,
			},
			contains: []string{"[finalize]", "unbalanced"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidData,
				Detail: "operation 3",
				Cause:  errors.New("unexpected end of input"),
			},
			contains: []string{"[decode]", "invalid_data", "operation 3", "caused by", "unexpected end of input"},
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

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err := NameConflict("n")

	if !errors.Is(err, &Error{Phase: PhaseBuild, Kind: KindNameConflict}) {
		t.Error("expected Is to match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseBuild, Kind: KindUnknownName}) {
		t.Error("expected Is to reject a different kind")
	}
	if errors.Is(err, errors.New("name conflict")) {
		t.Error("expected Is to reject a plain error")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseBuild, KindTypeError).
		Name("x").
		Detail("Shl expects integer operands, got %s", "F32").
		Build()

	if err.Phase != PhaseBuild || err.Kind != KindTypeError {
		t.Errorf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Name != "x" {
		t.Errorf("Name = %q, want %q", err.Name, "x")
	}
	if want := "Shl expects integer operands, got F32"; err.Detail != want {
		t.Errorf("Detail = %q, want %q", err.Detail, want)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"name conflict", NameConflict("a"), KindNameConflict},
		{"unknown name", UnknownName("a"), KindUnknownName},
		{"type error", TypeError("bad operands"), KindTypeError},
		{"type mismatch", TypeMismatch("a", "U32", "I32"), KindTypeMismatch},
		{"cross program", CrossProgram(), KindCrossProgram},
		{"value error", ValueError(1 << 40, "U32"), KindValueError},
		{"unbalanced", Unbalanced(2), KindUnbalanced},
		{"sealed", Sealed(), KindSealed},
		{"unknown op", UnknownOp(PhaseDecode, "Frobnicate"), KindUnknownOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}
