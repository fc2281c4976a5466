package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // instruction/operand parsing
	PhaseValidate Phase = "validate" // instruction validation
	PhaseDispatch Phase = "dispatch" // type-based selector dispatch
	PhaseEmulate  Phase = "emulate"  // semantic evaluation
	PhaseConvert  Phase = "convert"  // value conversion
	PhaseRender   Phase = "render"   // value formatting
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch"
	KindBadType      Kind = "bad_type"
	KindBadOpcode    Kind = "bad_opcode"
	KindBadOperand   Kind = "bad_operand"
	KindBadModifier  Kind = "bad_modifier"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindInvalidData  Kind = "invalid_data"
	KindUnsupported  Kind = "unsupported"
	KindOperandCount Kind = "operand_count"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the emulator
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Opcode string
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Opcode != "" || e.Type != "" {
		b.WriteString(": ")
		if e.Opcode != "" && e.Type != "" {
			b.WriteString("opcode ")
			b.WriteString(e.Opcode)
			b.WriteString(", type ")
			b.WriteString(e.Type)
		} else if e.Opcode != "" {
			b.WriteString("opcode ")
			b.WriteString(e.Opcode)
		} else {
			b.WriteString("type ")
			b.WriteString(e.Type)
		}
	}

	if e.Detail != "" {
		if e.Opcode != "" || e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the context path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Opcode sets the opcode name
func (b *Builder) Opcode(op string) *Builder {
	b.err.Opcode = op
	return b
}

// Type sets the operand type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error for an operand whose type
// differs from the type the selector dispatched on
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   want,
		Detail: fmt.Sprintf("operand has type %s", got),
	}
}

// BadType creates an error for a type a selector has no handler for
func BadType(phase Phase, opcode, typ string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadType,
		Opcode: opcode,
		Type:   typ,
		Detail: "no handler for this type",
	}
}

// BadOpcode creates an error for an opcode the dispatcher does not know
func BadOpcode(phase Phase, opcode string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadOpcode,
		Opcode: opcode,
	}
}

// BadModifier creates an error for an inconsistent instruction modifier
func BadModifier(phase Phase, opcode, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadModifier,
		Opcode: opcode,
		Detail: detail,
	}
}

// OperandCount creates an error for a wrong number of source operands
func OperandCount(phase Phase, opcode string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOperandCount,
		Opcode: opcode,
		Detail: fmt.Sprintf("got %d operands, want %d", got, want),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
