package hsailemu

import (
	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/emu"
	"github.com/gpuconf/hsailemu/val"
)

// Inst is the decoded instruction descriptor the oracle evaluates.
type Inst = brig.Inst

// Val is a typed operand or result value.
type Val = val.Val

// PrecisionSpec bounds the acceptable deviation of a device result.
type PrecisionSpec = emu.PrecisionSpec

// ComputeRegisterResult evaluates inst over the given operand values
// and returns the value a conforming implementation stores into the
// destination register. The result is empty when the instruction has
// no destination; val.Undef and val.Unimplemented sentinels mark
// unspecified and unmodeled outcomes.
func ComputeRegisterResult(inst Inst, a0, a1, a2, a3, a4 Val) Val {
	return emu.EmulateDstVal(inst, a0, a1, a2, a3, a4)
}

// ComputeMemoryResult evaluates inst and returns the value it leaves
// in memory, or an empty value for instructions that do not write
// memory.
func ComputeMemoryResult(inst Inst, a0, a1, a2, a3, a4 Val) Val {
	return emu.EmulateMemVal(inst, a0, a1, a2, a3, a4)
}

// IsTestable reports whether the instruction variant can be driven by
// a generated conformance test.
func IsTestable(inst Inst) bool {
	return emu.TestableInst(inst)
}

// GetPrecision returns the tolerance for comparing a device result of
// inst against the oracle's.
func GetPrecision(inst Inst) PrecisionSpec {
	return emu.Precision(inst)
}
