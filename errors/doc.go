// Package errors provides structured error types for the hsailemu library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: a context path, opcode/type names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
//		Path("src", "1").
//		Opcode("add").
//		Type("u32").
//		Detail("operand has type s32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.BadType(errors.PhaseDispatch, "add", "b128")
//	err := errors.OperandCount(errors.PhaseEmulate, "mad", 2, 3)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
