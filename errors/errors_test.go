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
				Phase:  PhaseDispatch,
				Kind:   KindTypeMismatch,
				Path:   []string{"src", "1"},
				Opcode: "add",
				Type:   "u32",
				Detail: "operand has type s32",
			},
			contains: []string{"[dispatch]", "type_mismatch", "src.1", "add", "u32", "operand has type s32"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEmulate,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[emulate]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindInvalidData,
				Detail: "bad operand",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[parse]", "invalid_data", "bad operand", "caused by", "underlying error"},
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
		Phase: PhaseParse,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDispatch,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseDispatch, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseEmulate, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseDispatch, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseDispatch, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDispatch, KindTypeMismatch).
		Path("src", "0").
		Opcode("mad").
		Type("f32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "f32", "u32").
		Build()

	if err.Phase != PhaseDispatch {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDispatch)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "src" || err.Path[1] != "0" {
		t.Errorf("Path = %v, want [src 0]", err.Path)
	}
	if err.Opcode != "mad" {
		t.Errorf("Opcode = %v, want 'mad'", err.Opcode)
	}
	if err.Type != "f32" {
		t.Errorf("Type = %v, want 'f32'", err.Type)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected f32, got u32" {
		t.Errorf("Detail = %v, want 'expected f32, got u32'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseDispatch, []string{"src"}, "u32", "s32")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.Type != "u32" {
			t.Errorf("Type = %v, want u32", err.Type)
		}
		if !strings.Contains(err.Detail, "s32") {
			t.Errorf("Detail = %v, should name the actual type", err.Detail)
		}
	})

	t.Run("BadType", func(t *testing.T) {
		err := BadType(PhaseDispatch, "add", "b128")
		if err.Kind != KindBadType {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadType)
		}
		if err.Opcode != "add" || err.Type != "b128" {
			t.Errorf("Opcode=%v Type=%v", err.Opcode, err.Type)
		}
	})

	t.Run("BadOpcode", func(t *testing.T) {
		err := BadOpcode(PhaseEmulate, "frobnicate")
		if err.Kind != KindBadOpcode {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadOpcode)
		}
	})

	t.Run("BadModifier", func(t *testing.T) {
		err := BadModifier(PhaseValidate, "add", "sat on non-packed type")
		if err.Kind != KindBadModifier {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadModifier)
		}
	})

	t.Run("OperandCount", func(t *testing.T) {
		err := OperandCount(PhaseEmulate, "mad", 2, 3)
		if err.Kind != KindOperandCount {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOperandCount)
		}
		if !strings.Contains(err.Detail, "2") || !strings.Contains(err.Detail, "3") {
			t.Errorf("Detail = %v, should contain counts", err.Detail)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseEmulate, "f16 arithmetic")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseEmulate, []string{"vector"}, 10, 4)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseParse, "opcode", "frobnicate")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, "frobnicate") {
			t.Errorf("Detail = %v, should contain name", err.Detail)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseParse, "empty operand")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		cause := errors.New("bad digit")
		err := ParseFailed("operand", cause)
		if err.Phase != PhaseParse {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
		}
		if !errors.Is(err, cause) {
			t.Error("ParseFailed should wrap cause")
		}
	})
}
