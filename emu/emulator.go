// Package emu evaluates single HSAIL instructions over concrete
// operand values, producing the bit-exact result a conforming
// implementation must store. It is the reference half of a
// generate-and-compare test flow: the caller decodes an instruction
// into a brig.Inst, supplies operand values, and compares the device's
// output against EmulateDstVal/EmulateMemVal.
//
// Results that the reference cannot pin down come back as sentinels:
// undefined for inputs the instruction set leaves unspecified,
// unimplemented for paths the emulator does not cover (f16 arithmetic,
// signaling comparisons, most explicit float roundings).
package emu

import (
	"go.uber.org/zap"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/errors"
	"github.com/gpuconf/hsailemu/val"
)

func badOpcode(op brig.Opcode) *errors.Error {
	return errors.BadOpcode(errors.PhaseDispatch, op.String())
}

// emulateMod evaluates instructions of the basic and mod formats.
// Results with an explicit float rounding other than near are not
// modeled.
func emulateMod(op brig.Opcode, t brig.Type, mod brig.AluMod, a1, a2, a3, a4 val.Val) val.Val {
	if mod.Round != brig.RoundNone && mod.Round != brig.RoundNearEven {
		return val.Unimplemented()
	}

	switch op {
	case brig.OpAbs:
		return unOp(t, &absFns, a1)
	case brig.OpNeg:
		return unOp(t, &negFns, a1)
	case brig.OpNot:
		return unOp(t, &notFns, a1)

	case brig.OpAdd:
		return binOp(t, &addFns, a1, a2)
	case brig.OpSub:
		return binOp(t, &subFns, a1, a2)
	case brig.OpMul:
		return binOp(t, &mulFns, a1, a2)
	case brig.OpMulHi:
		return binOp(t, &mulhiFns, a1, a2)
	case brig.OpDiv:
		return binValOp(t, &divFns, a1, a2)
	case brig.OpRem:
		return binValOp(t, &remFns, a1, a2)
	case brig.OpMax:
		return binOp(t, &maxFns, a1, a2)
	case brig.OpMin:
		return binOp(t, &minFns, a1, a2)

	case brig.OpMul24:
		return triValOp(t, &mad24Fns, a1, a2, val.FromBits(t, 0))
	case brig.OpMul24Hi:
		return triValOp(t, &mad24hiFns, a1, a2, val.FromBits(t, 0))
	case brig.OpMad24:
		return triValOp(t, &mad24Fns, a1, a2, a3)
	case brig.OpMad24Hi:
		return triValOp(t, &mad24hiFns, a1, a2, a3)

	case brig.OpAnd:
		return binOp(t, &andFns, a1, a2)
	case brig.OpOr:
		return binOp(t, &orFns, a1, a2)
	case brig.OpXor:
		return binOp(t, &xorFns, a1, a2)

	case brig.OpCopySign:
		return binOp(t, &copysignFns, a1, a2)

	case brig.OpCarry:
		return emulateAluFlag(t, &carryFns, a1, a2)
	case brig.OpBorrow:
		return emulateAluFlag(t, &borrowFns, a1, a2)

	case brig.OpShl:
		checkOperand("shl", brig.TypeU32, a2)
		return shiftOp(t, &shlFns, a1, a2.U32())
	case brig.OpShr:
		checkOperand("shr", brig.TypeU32, a2)
		return shiftOp(t, &shrFns, a1, a2.U32())

	case brig.OpFract:
		return unValOp(t, &fractFns, a1)
	case brig.OpCeil:
		return unOp(t, &ceilFns, a1)
	case brig.OpFloor:
		return unOp(t, &floorFns, a1)
	case brig.OpRint:
		return unOp(t, &rintFns, a1)
	case brig.OpTrunc:
		return unOp(t, &truncFns, a1)

	case brig.OpSqrt:
		return unOp(t, &sqrtFns, a1)
	case brig.OpNCos:
		return unValOp(t, &ncosFns, a1)
	case brig.OpNSin:
		return unValOp(t, &nsinFns, a1)
	case brig.OpNExp2:
		return unOp(t, &nexp2Fns, a1)
	case brig.OpNLog2:
		return unOp(t, &nlog2Fns, a1)
	case brig.OpNSqrt:
		return unOp(t, &nsqrtFns, a1)
	case brig.OpNRsqrt:
		return unOp(t, &nrsqrtFns, a1)
	case brig.OpNRcp:
		return unOp(t, &nrcpFns, a1)
	case brig.OpNFma:
		return triOp(t, &fmaFns, a1, a2, a3)

	case brig.OpMad:
		return triOp(t, &madFns, a1, a2, a3)
	case brig.OpFma:
		return triOp(t, &fmaFns, a1, a2, a3)

	case brig.OpMov:
		checkOperand("mov", t, a1)
		return a1
	case brig.OpCmov:
		checkOperand("cmov", brig.TypeB1, a1)
		return triOp(t, &cmovFns, val.FromBits(t, a1.AsU64()), a2, a3)

	case brig.OpBitMask:
		return emulateBitMask(t, a1, a2)
	case brig.OpBitSelect:
		return triOp(t, &bitselFns, a1, a2, a3)

	case brig.OpBitRev:
		return unOp(t, &bitrevFns, a1)
	case brig.OpBitExtract:
		checkOperand("bitextract", brig.TypeU32, a2)
		checkOperand("bitextract", brig.TypeU32, a3)
		return bitFieldOp(t, &bitextractFns, a1, a2.U32(), a3.U32())
	case brig.OpBitInsert:
		checkOperand("bitinsert", brig.TypeU32, a3)
		checkOperand("bitinsert", brig.TypeU32, a4)
		return bitInsertOp(t, &bitinsertFns, a1, a2, a3.U32(), a4.U32())

	case brig.OpBitAlign:
		return triOp(t, &bitalignFns, a1, a2, a3)
	case brig.OpByteAlign:
		return triOp(t, &bytealignFns, a1, a2, a3)
	}

	panic(badOpcode(op))
}

// emulateSourceType evaluates instructions of the sourcetype format,
// which dispatch on the source type rather than the result type.
func emulateSourceType(op brig.Opcode, t, stype brig.Type, a1, a2 val.Val) val.Val {
	switch op {
	case brig.OpClass:
		return emulateClass(stype, a1, a2)
	case brig.OpPopCount:
		return emulatePopCount(stype, a1)
	case brig.OpFirstBit:
		return emulateFirstBit(stype, a1)
	case brig.OpLastBit:
		return emulateLastBit(stype, a1)

	case brig.OpCombine:
		return emulateCombine(t, stype, a1)
	case brig.OpExpand:
		return emulateExpand(t, stype, a1)
	}

	panic(badOpcode(op))
}

// emulateAtomicMem computes the value an atomic operation leaves in
// memory: the combined value for read-modify-write operations, the
// stored operand for st, the unchanged memory operand for ld.
func emulateAtomicMem(t brig.Type, op brig.AtomicOp, a1, a2, a3 val.Val) val.Val {
	switch op {
	case brig.AtomicAnd:
		return binOp(t, &atomAndFns, a1, a2)
	case brig.AtomicOr:
		return binOp(t, &atomOrFns, a1, a2)
	case brig.AtomicXor:
		return binOp(t, &atomXorFns, a1, a2)

	case brig.AtomicAdd:
		return binOp(t, &atomAddFns, a1, a2)
	case brig.AtomicSub:
		return binOp(t, &atomSubFns, a1, a2)
	case brig.AtomicMax:
		return binOp(t, &atomMaxFns, a1, a2)
	case brig.AtomicMin:
		return binOp(t, &atomMinFns, a1, a2)

	case brig.AtomicWrapInc:
		return binOp(t, &atomIncFns, a1, a2)
	case brig.AtomicWrapDec:
		return binOp(t, &atomDecFns, a1, a2)
	case brig.AtomicExch:
		return binOp(t, &atomExchFns, a1, a2)
	case brig.AtomicCas:
		return triOp(t, &atomCasFns, a1, a2, a3)

	case brig.AtomicLd:
		checkOperand("atomic_ld", t, a1)
		return a1
	case brig.AtomicSt:
		checkOperand("atomic_st", t, a2)
		return a2
	}

	panic(errors.BadModifier(errors.PhaseDispatch, "atomic", "unknown atomic operation "+op.String()))
}

// emulateAtomicDst: only the returning form writes a destination, and
// it returns the original memory value.
func emulateAtomicDst(op brig.Opcode, a1 val.Val) val.Val {
	if op == brig.OpAtomic {
		return a1
	}
	return val.Val{}
}

func emulateMemDst(op brig.Opcode, a1 val.Val) val.Val {
	switch op {
	case brig.OpLd:
		return a1
	case brig.OpSt:
		return val.Val{}
	}
	panic(badOpcode(op))
}

func emulateMemMem(op brig.Opcode, a0, a1 val.Val) val.Val {
	switch op {
	case brig.OpLd:
		return a1
	case brig.OpSt:
		return a0
	}
	panic(badOpcode(op))
}

// applyFtz flushes subnormal operands to zero for the formats whose
// modifier carries the ftz bit. It reports whether the result must be
// flushed as well.
func applyFtz(inst brig.Inst, args []val.Val) bool {
	switch inst.Format {
	case brig.FormatMod, brig.FormatCmp, brig.FormatCvt:
		if !inst.Mod.Ftz {
			return false
		}
	default:
		return false
	}
	for i := range args {
		args[i] = args[i].Ftz()
	}
	return true
}

// discardNanSign reports whether NaN normalization of the result may
// also clear the NaN's sign. Operations defined in terms of the sign
// bit must preserve it.
func discardNanSign(op brig.Opcode) bool {
	switch op {
	case brig.OpAbs, brig.OpNeg, brig.OpClass, brig.OpCopySign:
		return false
	}
	return true
}

// isCommonPacked identifies packed operations reducible to a per-lane
// loop over non-packed dispatch.
func isCommonPacked(inst brig.Inst) bool {
	return inst.Packing != brig.PackNone ||
		(inst.Type.IsPacked() &&
			(inst.Opcode == brig.OpShl || inst.Opcode == brig.OpShr))
}

// isSpecialPacked identifies packed operations with irregular lane
// wiring.
func isSpecialPacked(inst brig.Inst) bool {
	switch inst.Opcode {
	case brig.OpShuffle, brig.OpUnpackHi, brig.OpUnpackLo, brig.OpPack, brig.OpUnpack:
		return true
	case brig.OpCmov:
		return inst.Type.IsPacked()
	case brig.OpPackCvt, brig.OpUnpackCvt, brig.OpLerp, brig.OpSad, brig.OpSadHi:
		return true
	}
	return false
}

func emulateCommon(inst brig.Inst, a0, a1, a2, a3, a4 val.Val) val.Val {
	switch inst.Format {
	case brig.FormatBasic, brig.FormatMod:
		return emulateMod(inst.Opcode, inst.Type, inst.Mod, a1, a2, a3, a4)
	case brig.FormatCmp:
		res := emulateCmp(inst.Type, inst.SourceType, inst.Compare, a1, a2)
		return res
	case brig.FormatCvt:
		return emulateCvt(inst.Type, inst.SourceType, inst.Mod, a1)
	case brig.FormatSourceType:
		return emulateSourceType(inst.Opcode, inst.Type, inst.SourceType, a1, a2)
	case brig.FormatAtomic:
		return emulateAtomicDst(inst.Opcode, a1)
	case brig.FormatMem:
		return emulateMemDst(inst.Opcode, a1)
	}
	panic(errors.BadModifier(errors.PhaseDispatch, inst.Opcode.String(),
		"unknown instruction format "+inst.Format.String()))
}

// EmulateDstVal computes the value the instruction stores into its
// destination register, or an empty value when there is no
// destination. Sentinel results mark undefined or unmodeled outcomes.
func EmulateDstVal(inst brig.Inst, a0, a1, a2, a3, a4 val.Val) val.Val {
	args := []val.Val{a0, a1, a2, a3, a4}
	ftz := applyFtz(inst, args)
	a0, a1, a2, a3, a4 = args[0], args[1], args[2], args[3], args[4]

	var res val.Val
	switch {
	case isCommonPacked(inst):
		res = emulatePackedRegular(inst, a1, a2)
	case isSpecialPacked(inst):
		res = emulatePackedSpecial(inst, a1, a2, a3, a4)
	default:
		res = emulateCommon(inst, a0, a1, a2, a3, a4)
	}

	if ftz {
		res = res.Ftz()
	}
	if res.IsUndef() || res.IsUnimplemented() {
		if ce := Logger().Check(zap.DebugLevel, "sentinel result"); ce != nil {
			ce.Write(
				zap.Stringer("opcode", inst.Opcode),
				zap.Stringer("type", inst.Type),
				zap.Bool("undef", res.IsUndef()),
			)
		}
	}
	return res.Normalize(discardNanSign(inst.Opcode))
}

// EmulateMemVal computes the value the instruction leaves in memory,
// or an empty value for instructions that do not touch memory.
func EmulateMemVal(inst brig.Inst, a0, a1, a2, a3, a4 val.Val) val.Val {
	switch inst.Format {
	case brig.FormatAtomic:
		switch inst.Opcode {
		case brig.OpAtomic:
			return emulateAtomicMem(inst.Type, inst.AtomicOp, a1, a2, a3)
		case brig.OpAtomicNoRet:
			return emulateAtomicMem(inst.Type, inst.AtomicOp, a0, a1, a2)
		}
		panic(badOpcode(inst.Opcode))
	case brig.FormatMem:
		return emulateMemMem(inst.Opcode, a0, a1)
	}
	return val.Val{}
}

// TestableInst reports whether the instruction's variant can be driven
// by a generated test: memory operations must address an initializable
// segment and use default access modifiers.
func TestableInst(inst brig.Inst) bool {
	supportedSegment := func(s brig.Segment) bool {
		return s == brig.SegGlobal || s == brig.SegGroup || s == brig.SegPrivate
	}

	switch inst.Format {
	case brig.FormatAtomic:
		if !supportedSegment(inst.Segment) {
			return false
		}
		if inst.EquivClass != 0 {
			return false
		}
	case brig.FormatMem:
		if !supportedSegment(inst.Segment) {
			return false
		}
		if inst.Width != brig.WidthNone && inst.Width != brig.Width1 {
			return false
		}
		if inst.Const {
			return false
		}
		if inst.EquivClass != 0 {
			return false
		}
	}

	return true
}

// PrecisionSpec bounds the acceptable deviation of a device result
// from the emulated one. Relative is used when nonzero, otherwise Ulps;
// Ulps 1 means the result must round-trip to the same representable
// value (0.5 ULP).
type PrecisionSpec struct {
	Relative float64
	Ulps     float64
}

// PrecisionTable maps opcodes with hardware-specific precision to
// their per-type bounds. Callers targeting different hardware may
// replace entries before generating comparisons.
var PrecisionTable = map[brig.Opcode]map[brig.Type]PrecisionSpec{
	brig.OpNRcp:   nativeFloatPrecision,
	brig.OpNSqrt:  nativeFloatPrecision,
	brig.OpNRsqrt: nativeFloatPrecision,
	brig.OpNExp2:  nativeFloatPrecision,
	brig.OpNLog2:  nativeFloatPrecision,
	brig.OpNSin:   nativeTrigPrecision,
	brig.OpNCos:   nativeTrigPrecision,
}

var nativeFloatPrecision = map[brig.Type]PrecisionSpec{
	brig.TypeF32: {Relative: 0.0000005},
	brig.TypeF64: {Relative: 0.00000002},
}

var nativeTrigPrecision = map[brig.Type]PrecisionSpec{
	brig.TypeF32: {Ulps: nativeTrigUlps},
}

// Precision returns the tolerance for comparing a device result of
// this instruction against the emulated one. The default of 1 ULP
// demands the exact representable result.
func Precision(inst brig.Inst) PrecisionSpec {
	if byType, ok := PrecisionTable[inst.Opcode]; ok {
		if spec, ok := byType[inst.Type]; ok {
			return spec
		}
	}
	return PrecisionSpec{Ulps: 1}
}
