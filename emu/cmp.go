package emu

import (
	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/errors"
	"github.com/gpuconf/hsailemu/val"
)

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func cmp3[T number](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// compareOperands orders two same-typed operands. NaN operands compare
// unordered and yield 0; the caller accounts for them separately.
func compareOperands(t brig.Type, a1, a2 val.Val) int {
	checkOperand("cmp", t, a1)
	checkOperand("cmp", t, a2)
	switch t {
	case brig.TypeB1:
		return cmp3(b2u(a1.B1()), b2u(a2.B1()))
	case brig.TypeB32:
		return cmp3(a1.B32(), a2.B32())
	case brig.TypeB64:
		return cmp3(a1.B64(), a2.B64())
	case brig.TypeS8:
		return cmp3(a1.S8(), a2.S8())
	case brig.TypeS16:
		return cmp3(a1.S16(), a2.S16())
	case brig.TypeS32:
		return cmp3(a1.S32(), a2.S32())
	case brig.TypeS64:
		return cmp3(a1.S64(), a2.S64())
	case brig.TypeU8:
		return cmp3(a1.U8(), a2.U8())
	case brig.TypeU16:
		return cmp3(a1.U16(), a2.U16())
	case brig.TypeU32:
		return cmp3(a1.U32(), a2.U32())
	case brig.TypeU64:
		return cmp3(a1.U64(), a2.U64())
	case brig.TypeF32:
		return cmp3(a1.F32(), a2.F32())
	case brig.TypeF64:
		return cmp3(a1.F64(), a2.F64())
	}
	panic(badType("cmp", t))
}

// emulateCmp evaluates a compare instruction: order the source operands,
// fold the ordering and the NaN flag through the condition, then encode the
// boolean into the destination type.
func emulateCmp(t, stype brig.Type, op brig.Compare, a1, a2 val.Val) val.Val {
	if t == brig.TypeF16 || stype == brig.TypeF16 {
		return val.Unimplemented()
	}

	isNan := a1.IsNan() || a2.IsNan()
	cmp := compareOperands(stype, a1, a2)

	var res bool
	switch op {
	case brig.CmpEQ, brig.CmpSEQ:
		res = cmp == 0 && !isNan
	case brig.CmpEQU, brig.CmpSEQU:
		res = cmp == 0 || isNan
	case brig.CmpNE, brig.CmpSNE:
		res = cmp != 0 && !isNan
	case brig.CmpNEU, brig.CmpSNEU:
		res = cmp != 0 || isNan
	case brig.CmpLT, brig.CmpSLT:
		res = cmp == -1 && !isNan
	case brig.CmpLTU, brig.CmpSLTU:
		res = cmp == -1 || isNan
	case brig.CmpLE, brig.CmpSLE:
		res = cmp != 1 && !isNan
	case brig.CmpLEU, brig.CmpSLEU:
		res = cmp != 1 || isNan
	case brig.CmpGT, brig.CmpSGT:
		res = cmp == 1 && !isNan
	case brig.CmpGTU, brig.CmpSGTU:
		res = cmp == 1 || isNan
	case brig.CmpGE, brig.CmpSGE:
		res = cmp != -1 && !isNan
	case brig.CmpGEU, brig.CmpSGEU:
		res = cmp != -1 || isNan
	case brig.CmpNum, brig.CmpSNum:
		res = !isNan
	case brig.CmpNan, brig.CmpSNan:
		res = isNan
	default:
		panic(errors.New(errors.PhaseDispatch, errors.KindBadModifier).
			Opcode("cmp").
			Detail("unknown condition %d", int(op)).
			Build())
	}

	// Signaling conditions on a NaN operand would raise an invalid-operation
	// exception; exception state is not modeled.
	if op.IsSignaling() && isNan {
		return val.Unimplemented()
	}

	switch t {
	case brig.TypeB1:
		return val.B1(res)
	case brig.TypeS32, brig.TypeS64, brig.TypeU32, brig.TypeU64:
		if res {
			return val.FromBits(t, ^uint64(0))
		}
		return val.FromBits(t, 0)
	case brig.TypeF32:
		if res {
			return val.F32(1)
		}
		return val.F32(0)
	case brig.TypeF64:
		if res {
			return val.F64(1)
		}
		return val.F64(0)
	}
	panic(badType("cmp", t))
}
