// Package hsailemu is a bit-exact instruction-semantics oracle for the
// HSAIL instruction set. Given a decoded instruction and concrete
// operand values it computes the result a conforming implementation
// must produce, for use in generate-and-compare conformance testing.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	hsailemu/        Root package with the comparator-facing API
//	├── brig/        Instruction descriptor model: types, opcodes, modifiers
//	├── val/         Typed values: scalars, packed lanes, vectors, float bits
//	├── emu/         Instruction evaluation: selectors, functors, dispatch
//	├── errors/      Structured error types for diagnostics
//	└── cmd/         hsailemu CLI for one-shot and interactive evaluation
//
// # Quick Start
//
// Evaluate a single instruction:
//
//	inst := hsailemu.Inst{
//	    Format: brig.FormatBasic,
//	    Opcode: brig.OpAdd,
//	    Type:   brig.TypeU32,
//	}
//	res := hsailemu.ComputeRegisterResult(inst,
//	    hsailemu.Val{}, val.U32(2), val.U32(3), hsailemu.Val{}, hsailemu.Val{})
//	fmt.Println(res) // 5
//
// # Result Model
//
// Three outcomes are possible for every evaluation:
//
//   - a concrete value, bit-exact including NaN normalization;
//   - val.Undef, when the instruction set leaves the result
//     unspecified (division by zero, out-of-domain native functions,
//     malformed bit fields);
//   - val.Unimplemented, when the oracle does not model the path
//     (f16 arithmetic, signaling comparisons, most explicit float
//     roundings).
//
// Comparators must skip undefined results and may not treat
// unimplemented ones as failures.
//
// # Precision
//
// Most results are exact. Native (n-prefixed) float operations carry
// hardware-specific tolerances exposed through GetPrecision and
// overridable via emu.PrecisionTable.
package hsailemu
