package emu

import (
	"math/bits"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/errors"
	"github.com/gpuconf/hsailemu/val"
)

// laneCtlMask returns the mask applied to a lane-selection control value
// for a packed type with dim lanes. dim is always a power of two.
func laneCtlMask(dim uint) uint32 { return uint32(dim - 1) }

// laneCtlWidth returns the number of control bits per lane selector.
func laneCtlWidth(dim uint) uint { return uint(bits.TrailingZeros64(uint64(dim))) }

// packedElement extracts one source lane for per-lane dispatch. The
// result carries the base type of the packed operand: subword integer
// lanes widen to 32 bits with the appropriate extension, 32- and 64-bit
// lanes keep their width. An 's' control reads lane 0 regardless of
// idx. Empty and non-packed operands (the u32 shift count of shl/shr,
// the absent second operand of a unary op) pass through unchanged.
func packedElement(a val.Val, idx int, packing brig.Packing, srcIdx int) val.Val {
	if a.Empty() || !a.IsPacked() {
		return a
	}
	if packing.Control(srcIdx) != 'p' {
		idx = 0
	}

	elem := a.GetElement(idx)
	et := a.Type().ElementType()
	base := a.Type().BaseType()

	if et.IsSigned() && et.Bits() < base.Bits() {
		shift := 64 - et.Bits()
		elem = uint64(int64(elem<<shift) >> shift)
	}
	return val.FromBits(base, elem)
}

// emulateMulhiPacked handles mulhi lanes. Subword lanes multiply at the
// base type and take the product's high half; 32- and 64-bit lanes use
// the regular mulhi functor.
func emulateMulhiPacked(t, base brig.Type, a1, a2 val.Val) val.Val {
	et := t.ElementType()
	op := brig.OpMulHi
	if et.Bits() < 32 {
		op = brig.OpMul
	}

	res := emulateMod(op, base, brig.AluMod{}, a1, a2, val.Val{}, val.Val{})

	if op == brig.OpMul && !res.Empty() {
		res = val.FromBits(base, res.AsU64()>>et.Bits())
	}
	return res
}

// emulateSatPacked evaluates one lane of a saturating packed op. The
// base-typed arguments are narrowed back to the element type so the
// saturation bounds are those of the lane, then the result widens back.
func emulateSatPacked(op brig.Opcode, t brig.Type, a1, a2 val.Val) val.Val {
	et := t.ElementType()
	base := t.BaseType()
	a1 = val.FromBits(et, a1.AsU64())
	a2 = val.FromBits(et, a2.AsU64())

	var res val.Val
	switch op {
	case brig.OpAdd:
		res = binOp(et, &addSatFns, a1, a2)
	case brig.OpSub:
		res = binOp(et, &subSatFns, a1, a2)
	case brig.OpMul:
		res = binOp(et, &mulSatFns, a1, a2)
	default:
		panic(badType(op.String(), t))
	}

	if res.Empty() {
		return res
	}
	if res.IsSignedInt() {
		return val.FromBits(base, uint64(res.AsS64()))
	}
	return val.FromBits(base, res.AsU64())
}

// emulatePackedRegular evaluates a packed instruction lane by lane,
// dispatching each lane at the base type of the packed operands.
func emulatePackedRegular(inst brig.Inst, a1, a2 val.Val) val.Val {
	t := inst.Type
	stype := t
	if inst.Format == brig.FormatCmp {
		stype = inst.SourceType
	}
	op := inst.Opcode
	packing := inst.Packing

	// shl/shr take a plain u32 shift count, not a packed operand.
	if op == brig.OpShl || op == brig.OpShr {
		packing = brig.PackPP
	}

	base := t.BaseType()
	baseSrc := stype.BaseType()
	dim := int(packing.DstDim(stype))
	elemBits := uint32(stype.ElementType().Bits())

	// An 's' destination control should leave the upper lanes of the
	// destination register untouched, but their prior contents are not
	// modeled here. They read as zero.
	dst := zeroOf(t)

	for idx := 0; idx < dim; idx++ {
		x1 := packedElement(a1, idx, packing, 0)
		x2 := packedElement(a2, idx, packing, 1)

		if op == brig.OpShl || op == brig.OpShr {
			x2 = val.U32(x2.U32() & (elemBits - 1))
		}

		var res val.Val
		switch {
		case op == brig.OpMulHi:
			res = emulateMulhiPacked(t, base, x1, x2)
		case packing.IsSat():
			res = emulateSatPacked(op, t, x1, x2)
		case inst.Format == brig.FormatCmp:
			res = emulateCmp(base, baseSrc, inst.Compare, x1, x2)
		default:
			res = emulateMod(op, base, inst.Mod, x1, x2, val.Val{}, val.Val{})
		}

		if res.Empty() {
			return res
		}
		dst.SetElement(idx, res.AsU64())
	}

	return dst
}

func zeroOf(t brig.Type) val.Val {
	if t.Bits() == 128 {
		return val.FromBits128(t, 0, 0)
	}
	return val.FromBits(t, 0)
}

// emulatePackedSpecial handles the packed instructions whose lane
// wiring does not follow the regular packing controls.
func emulatePackedSpecial(inst brig.Inst, a1, a2, a3, a4 val.Val) val.Val {
	t := inst.Type
	stype := inst.SrcType()

	switch inst.Opcode {
	case brig.OpShuffle:
		return emulateShuffle(t, a1, a2, a3)
	case brig.OpUnpackHi:
		return emulateUnpackHalf(t, false, a1, a2)
	case brig.OpUnpackLo:
		return emulateUnpackHalf(t, true, a1, a2)
	case brig.OpPack:
		return emulatePack(t, a1, a2, a3)
	case brig.OpUnpack:
		return emulateUnpack(t, a1, a2)
	case brig.OpCmov:
		return emulateCmovPacked(t, a1, a2, a3)
	case brig.OpPackCvt:
		return emulatePackCvt(t, stype, a1, a2, a3, a4)
	case brig.OpUnpackCvt:
		return emulateUnpackCvt(t, a1, a2)
	case brig.OpLerp:
		return emulateLerp(t, a1, a2, a3)
	case brig.OpSad:
		return emulateSad(t, stype, a1, a2, a3)
	case brig.OpSadHi:
		return emulateSadHi(t, stype, a1, a2, a3)
	}
	panic(errors.BadOpcode(errors.PhaseDispatch, inst.Opcode.String()))
}

// emulateShuffle selects lanes from two sources under a b32 control
// value. The lower half of the destination draws from the first source,
// the upper half from the second; each lane consumes log2(dim) control
// bits, lowest lane first.
func emulateShuffle(t brig.Type, a1, a2, a3 val.Val) val.Val {
	dim := t.Dim()
	width := laneCtlWidth(dim)
	mask := laneCtlMask(dim)

	dst := zeroOf(t)
	ctl := a3.AsB32(0)

	for i := uint(0); i < dim; i++ {
		idx := int(ctl & mask)
		var x uint64
		if i < dim/2 {
			x = a1.GetElement(idx)
		} else {
			x = a2.GetElement(idx)
		}
		dst.SetElement(int(i), x)
		ctl >>= width
	}

	return dst
}

// emulateUnpackHalf interleaves lanes from the low or high half of two
// packed sources.
func emulateUnpackHalf(t brig.Type, lowHalf bool, a1, a2 val.Val) val.Val {
	dim := int(t.Dim())
	srcPos := dim / 2
	if lowHalf {
		srcPos = 0
	}

	dst := zeroOf(t)
	for dstPos := 0; dstPos < dim; srcPos++ {
		dst.SetElement(dstPos, a1.GetElement(srcPos))
		dstPos++
		dst.SetElement(dstPos, a2.GetElement(srcPos))
		dstPos++
	}

	return dst
}

// emulatePack replaces one lane of a packed value with a scalar.
func emulatePack(t brig.Type, a1, a2, a3 val.Val) val.Val {
	mask := laneCtlMask(t.Dim())
	dst := a1
	dst.SetElement(int(a3.U32()&mask), a2.AsU64())
	return dst
}

// emulateUnpack extracts one lane of a packed value. When the
// destination type is wider than the lane, the lane sign- or
// zero-extends according to its element type.
func emulateUnpack(t brig.Type, a1, a2 val.Val) val.Val {
	mask := laneCtlMask(a1.Type().Dim())
	et := a1.ElementType()

	res := val.FromBits(et, a1.GetElement(int(a2.U32()&mask)))
	if res.Type() == t {
		return res
	}
	if res.IsSignedInt() {
		return val.FromBits(t, uint64(res.AsS64()))
	}
	return val.FromBits(t, res.AsU64())
}

// emulateCmovPacked selects between the lanes of two packed sources:
// a nonzero control lane picks the first source's lane.
func emulateCmovPacked(t brig.Type, a1, a2, a3 val.Val) val.Val {
	dst := a2
	for i := 0; i < int(t.Dim()); i++ {
		if a1.GetElement(i) != 0 {
			dst.SetElement(i, a2.GetElement(i))
		} else {
			dst.SetElement(i, a3.GetElement(i))
		}
	}
	return dst
}

// emulatePackCvt converts four f32 values to u8 lanes with neari_sat
// rounding.
func emulatePackCvt(t, stype brig.Type, a1, a2, a3, a4 val.Val) val.Val {
	mod := brig.AluMod{Round: brig.RoundNearEvenInt, Sat: true}

	x1 := emulateCvt(brig.TypeU8, stype, mod, a1)
	x2 := emulateCvt(brig.TypeU8, stype, mod, a2)
	x3 := emulateCvt(brig.TypeU8, stype, mod, a3)
	x4 := emulateCvt(brig.TypeU8, stype, mod, a4)

	if x1.Empty() || x2.Empty() || x3.Empty() || x4.Empty() {
		return val.Undef()
	}

	dst := zeroOf(t)
	dst.SetElement(0, uint64(x1.U8()))
	dst.SetElement(1, uint64(x2.U8()))
	dst.SetElement(2, uint64(x3.U8()))
	dst.SetElement(3, uint64(x4.U8()))

	return dst
}

// emulateUnpackCvt converts one u8 lane of a u8x4 source to f32.
func emulateUnpackCvt(t brig.Type, a1, a2 val.Val) val.Val {
	lane := val.FromBits(brig.TypeU8, a1.GetElement(int(a2.U32()&0x3)))
	return emulateCvt(t, brig.TypeU8, brig.AluMod{Round: brig.RoundNearEven}, lane)
}

// emulateLerp averages u8x4 lanes with the rounding bit taken from the
// third operand.
func emulateLerp(t brig.Type, a1, a2, a3 val.Val) val.Val {
	dst := zeroOf(t)
	for i := 0; i < 4; i++ {
		dst.SetElement(i, (a1.GetElement(i)+a2.GetElement(i)+(a3.GetElement(i)&0x1))/2)
	}
	return dst
}

func absDiff(a, b uint64) uint64 {
	if a < b {
		return b - a
	}
	return a - b
}

// emulateSad accumulates the sum of absolute lane differences onto a
// u32 accumulator. The source is u32, u16x2 or u8x4.
func emulateSad(t, stype brig.Type, a1, a2, a3 val.Val) val.Val {
	res := uint64(a3.U32())

	if stype == brig.TypeU32 {
		res += absDiff(uint64(a1.U32()), uint64(a2.U32()))
	} else {
		for i := 0; i < int(stype.Dim()); i++ {
			res += absDiff(a1.GetElement(i), a2.GetElement(i))
		}
	}

	return val.FromBits(t, res)
}

// emulateSadHi accumulates the u8x4 sum of absolute differences onto
// the high lane of a u16x2 accumulator.
func emulateSadHi(t, stype brig.Type, a1, a2, a3 val.Val) val.Val {
	res := a3.GetElement(1)
	for i := 0; i < int(stype.Dim()); i++ {
		res += absDiff(a1.GetElement(i), a2.GetElement(i))
	}

	dst := a3
	dst.SetElement(1, res)
	return dst
}
