package emu

import (
	"math/bits"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/val"
)

// Float class flags tested by the class instruction.
const (
	classSNan    = 0x001
	classQNan    = 0x002
	classNegInf  = 0x004
	classNegNorm = 0x008
	classNegSub  = 0x010
	classNegZero = 0x020
	classPosZero = 0x040
	classPosSub  = 0x080
	classPosNorm = 0x100
	classPosInf  = 0x200
)

// emulateClass tests a float value against a set of class flags.
func emulateClass(stype brig.Type, a1, a2 val.Val) val.Val {
	checkOperand("class", stype, a1)
	checkOperand("class", brig.TypeU32, a2)

	flags := a2.U32()
	res := false

	switch {
	case a1.IsSpecialFloat():
		res = (flags&classSNan != 0 && a1.IsSignalingNan()) ||
			(flags&classQNan != 0 && a1.IsQuietNan()) ||
			(flags&classNegInf != 0 && a1.IsNegativeInf()) ||
			(flags&classPosInf != 0 && a1.IsPositiveInf())
	case a1.IsSubnormal():
		res = (flags&classNegSub != 0 && a1.IsNegativeSubnormal()) ||
			(flags&classPosSub != 0 && a1.IsPositiveSubnormal())
	case a1.IsZero():
		res = (flags&classNegZero != 0 && a1.IsNegativeZero()) ||
			(flags&classPosZero != 0 && a1.IsPositiveZero())
	default:
		res = (flags&classPosNorm != 0 && a1.IsPositive()) ||
			(flags&classNegNorm != 0 && !a1.IsPositive())
	}

	return val.B1(res)
}

// emulatePopCount counts the set bits of a b32 or b64 value. The result
// is always u32.
func emulatePopCount(stype brig.Type, a val.Val) val.Val {
	checkOperand("popcount", stype, a)
	return val.U32(uint32(bits.OnesCount64(a.AsU64())))
}

// emulateFirstBit locates the most significant bit of the source: the
// sign bit for negative signed values is skipped by complementing the
// value first. A zero source yields all-ones.
func emulateFirstBit(stype brig.Type, a val.Val) val.Val {
	checkOperand("firstbit", stype, a)

	v := a.AsS64()
	if a.IsSignedInt() && v < 0 {
		v = ^v
	}
	if v == 0 {
		return val.U32(^uint32(0))
	}

	lz := bits.LeadingZeros64(uint64(v)) - int(64-a.Size())
	return val.U32(uint32(lz))
}

// emulateLastBit locates the least significant set bit of the source.
// A zero source yields all-ones.
func emulateLastBit(stype brig.Type, a val.Val) val.Val {
	checkOperand("lastbit", stype, a)

	x := a.AsU64()
	if x == 0 {
		return val.U32(^uint32(0))
	}
	return val.U32(uint32(bits.TrailingZeros64(x)))
}

// emulateCombine concatenates the elements of a source vector into one
// wide bit value, lowest element first.
func emulateCombine(t, stype brig.Type, a val.Val) val.Val {
	if !a.IsVector() || a.VecType() != stype {
		panic(errBadModifier("combine", "source is not a vector of "+stype.String()))
	}

	if t == brig.TypeB64 {
		return val.B64(a.At(1).AsB64(0)<<32 | uint64(a.At(0).B32()))
	}

	if stype == brig.TypeB32 {
		return val.B128(
			a.At(1).AsB64(0)<<32|uint64(a.At(0).B32()),
			a.At(3).AsB64(0)<<32|uint64(a.At(2).B32()))
	}
	return val.B128(a.At(0).B64(), a.At(1).B64())
}

// emulateExpand splits a wide bit value into a vector of narrower
// elements, lowest element first.
func emulateExpand(t, stype brig.Type, a val.Val) val.Val {
	checkOperand("expand", stype, a)

	if stype == brig.TypeB64 {
		return val.Vec(val.B32(a.AsB32(0)), val.B32(a.AsB32(1)))
	}

	if t == brig.TypeB32 {
		return val.Vec(
			val.B32(a.AsB32(0)), val.B32(a.AsB32(1)),
			val.B32(a.AsB32(2)), val.B32(a.AsB32(3)))
	}
	return val.Vec(val.B64(a.AsB64(0)), val.B64(a.AsB64(1)))
}

// emulateBitMask builds a mask of width bits at offset. Both controls
// are masked to the destination width first; a mask that would not fit
// leaves the result undefined.
func emulateBitMask(t brig.Type, a1, a2 val.Val) val.Val {
	checkOperand("bitmask", brig.TypeU32, a1)
	checkOperand("bitmask", brig.TypeU32, a2)

	shiftMask := uint64(t.Bits() - 1)
	offset := uint64(a1.U32()) & shiftMask
	width := uint64(a2.U32()) & shiftMask
	mask := uint64(1)<<width - 1

	if offset+width > uint64(t.Bits()) {
		return val.Undef()
	}
	return val.FromBits(t, mask<<offset)
}

// emulateAluFlag computes the carry/borrow flag. Signed arguments are
// reinterpreted as unsigned so a single functor pair covers all widths;
// the 0-or-1 result converts back without sign concerns.
func emulateAluFlag(t brig.Type, fns *binFns, a1, a2 val.Val) val.Val {
	ut := t
	if t.IsSigned() {
		ut = brig.TypeU32
		if t.Bits() == 64 {
			ut = brig.TypeU64
		}
		a1 = val.FromBits(ut, a1.AsU64())
		a2 = val.FromBits(ut, a2.AsU64())
	}

	res := binOp(ut, fns, a1, a2)
	return val.FromBits(t, res.AsU64())
}
