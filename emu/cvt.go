package emu

import (
	"math"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/val"
)

// Integer boundaries used by saturating float-to-int conversion.
func intBoundary(t brig.Type, low bool) uint64 {
	switch t {
	case brig.TypeS8:
		if low {
			return uint64(uint8(0x80))
		}
		return 0x7f
	case brig.TypeS16:
		if low {
			return uint64(uint16(0x8000))
		}
		return 0x7fff
	case brig.TypeS32:
		if low {
			return uint64(uint32(0x80000000))
		}
		return 0x7fffffff
	case brig.TypeS64:
		if low {
			return uint64(1) << 63
		}
		return 0x7fffffffffffffff
	case brig.TypeU8:
		if low {
			return 0
		}
		return 0xff
	case brig.TypeU16:
		if low {
			return 0
		}
		return 0xffff
	case brig.TypeU32:
		if low {
			return 0
		}
		return 0xffffffff
	case brig.TypeU64:
		if low {
			return 0
		}
		return 0xffffffffffffffff
	}
	panic(badType("cvt", t))
}

// The largest and smallest float values whose integer part stays inside
// the corresponding integer type. Boundaries near the top of a type do
// not fit into the float mantissa, so they are spelled in bits.
const (
	maxU32F32Bits = 0x4f7fffff
	maxU64F32Bits = 0x5f7fffff
	maxS32F32Bits = 0x4effffff
	maxS64F32Bits = 0x5effffff
	minS32F32Bits = 0xcf000000
	minS64F32Bits = 0xdf000000

	maxU64F64Bits = 0x43efffffffffffff
	maxS64F64Bits = 0x43dfffffffffffff
	minS64F64Bits = 0xc3e0000000000000
)

func typeBoundaryF32(t brig.Type, low bool) float32 {
	switch t {
	case brig.TypeS8:
		if low {
			return -128
		}
		return 127
	case brig.TypeS16:
		if low {
			return -32768
		}
		return 32767
	case brig.TypeS32:
		if low {
			return math.Float32frombits(minS32F32Bits)
		}
		return math.Float32frombits(maxS32F32Bits)
	case brig.TypeS64:
		if low {
			return math.Float32frombits(minS64F32Bits)
		}
		return math.Float32frombits(maxS64F32Bits)
	case brig.TypeU8:
		if low {
			return 0
		}
		return 255
	case brig.TypeU16:
		if low {
			return 0
		}
		return 65535
	case brig.TypeU32:
		if low {
			return 0
		}
		return math.Float32frombits(maxU32F32Bits)
	case brig.TypeU64:
		if low {
			return 0
		}
		return math.Float32frombits(maxU64F32Bits)
	}
	panic(badType("cvt", t))
}

func typeBoundaryF64(t brig.Type, low bool) float64 {
	switch t {
	case brig.TypeS8:
		if low {
			return -128
		}
		return 127
	case brig.TypeS16:
		if low {
			return -32768
		}
		return 32767
	case brig.TypeS32:
		if low {
			return -2147483648
		}
		return 2147483647
	case brig.TypeS64:
		if low {
			return math.Float64frombits(minS64F64Bits)
		}
		return math.Float64frombits(maxS64F64Bits)
	case brig.TypeU8:
		if low {
			return 0
		}
		return 255
	case brig.TypeU16:
		if low {
			return 0
		}
		return 65535
	case brig.TypeU32:
		if low {
			return 0
		}
		return 4294967295
	case brig.TypeU64:
		if low {
			return 0
		}
		return math.Float64frombits(maxU64F64Bits)
	}
	panic(badType("cvt", t))
}

// checkBoundaries reports whether the integer part of v is within the
// bounds of t. Values like -0.999 are inside the bounds of u8: the lower
// comparison accounts for the fractional part when the boundary itself
// fits the mantissa exactly.
func checkBoundaries[T floating](v, lo, hi T) bool {
	return (lo <= v || lo-1 < v) && (v <= hi || v < hi+1)
}

// f2iRound computes the delta to add to a float so that truncation yields
// the properly rounded integer.
func f2iRound(v val.Val, r brig.Round) int {
	half := val.F32(0.5).NormalizedFract(0)

	switch r {
	case brig.RoundNearEvenInt:
		if v.NormalizedFract(0) > half {
			// rounds to the nearest representable value
			if v.IsNegative() {
				return -1
			}
			return 1
		}
		if v.NormalizedFract(0) == half && v.NormalizedFract(-1) > half {
			// a tie rounds to an even least significant digit
			if v.IsNegative() {
				return -1
			}
			return 1
		}
	case brig.RoundZeroInt:
		// truncation needs no delta
	case brig.RoundPlusInfInt:
		if v.IsRegularPositive() && !v.IsNatural() {
			return 1
		}
	case brig.RoundMinusInfInt:
		if v.IsRegularNegative() && !v.IsNatural() {
			return -1
		}
	default:
		panic(badRounding("cvt", r))
	}
	return 0
}

func badRounding(op string, r brig.Round) error {
	return errBadModifier(op, "unexpected rounding "+r.String())
}

func isIntegral(v val.Val) bool {
	fr := unValOp(v.Type(), &fractFns, v)
	return fr.IsZero()
}

func cvtF2I[T floating](t brig.Type, mod brig.AluMod, v val.Val, x T) val.Val {
	if v.IsNan() {
		if mod.Sat {
			return val.FromBits(t, 0)
		}
		return val.Undef()
	}

	f := x + T(f2iRound(v, mod.Round))

	var lo, hi T
	if _, ok := any(x).(float32); ok {
		lo, hi = T(typeBoundaryF32(t, true)), T(typeBoundaryF32(t, false))
	} else {
		lo, hi = T(typeBoundaryF64(t, true)), T(typeBoundaryF64(t, false))
	}
	if !checkBoundaries(f, lo, hi) {
		if mod.Sat {
			return val.FromBits(t, intBoundary(t, f <= 0))
		}
		return val.Undef()
	}

	// An inexact conversion with a signaling rounding mode would raise an
	// exception; exception state is not modeled.
	if mod.Signaling && !isIntegral(v) {
		return val.Unimplemented()
	}

	if t.IsSigned() {
		return val.FromBits(t, uint64(int64(float64(f))))
	}
	return val.FromBits(t, uint64(float64(f)))
}

func cvtF2X(t, stype brig.Type, mod brig.AluMod, a val.Val) val.Val {
	if t.IsFloat() {
		switch {
		case t == brig.TypeF64 && stype == brig.TypeF32:
			return val.F64(float64(a.F32()))
		case t == brig.TypeF32 && stype == brig.TypeF64:
			if mod.Round == brig.RoundNearEven {
				return val.F32(float32(a.F64()))
			}
			// non-default float rounding modes are not emulated
			return val.Unimplemented()
		}
		return val.Unimplemented() // f16
	}

	switch stype {
	case brig.TypeF32:
		return cvtF2I(t, mod, a, a.F32())
	case brig.TypeF64:
		return cvtF2I(t, mod, a, a.F64())
	}
	return val.Unimplemented() // f16
}

func cvtI2F(t brig.Type, mod brig.AluMod, a val.Val) val.Val {
	if mod.Round != brig.RoundNearEven && mod.Round != brig.RoundNone {
		return val.Unimplemented() // non-default float rounding modes
	}
	switch t {
	case brig.TypeF32:
		if a.IsSignedInt() {
			return val.F32(float32(a.AsS64()))
		}
		return val.F32(float32(a.AsU64()))
	case brig.TypeF64:
		if a.IsSignedInt() {
			return val.F64(float64(a.AsS64()))
		}
		return val.F64(float64(a.AsU64()))
	}
	return val.Unimplemented() // f16
}

func cvtI2X(t brig.Type, mod brig.AluMod, a val.Val) val.Val {
	if t.IsInt() {
		// zero/sign-extend or truncate as necessary
		return val.FromBits(t, uint64(a.AsS64()))
	}
	return cvtI2F(t, mod, a)
}

func cvtToB1(stype brig.Type, a val.Val) val.Val {
	if stype.IsInt() {
		return val.B1(a.AsU64() != 0)
	}
	return val.B1(!a.IsZero())
}

// emulateCvt evaluates a cvt instruction.
func emulateCvt(t, stype brig.Type, mod brig.AluMod, a val.Val) val.Val {
	checkOperand("cvt", stype, a)
	if t == stype {
		panic(errBadModifier("cvt", "identical source and destination types"))
	}

	if t == brig.TypeF16 {
		return val.Unimplemented()
	}

	// b1 sources behave like u32 0/1 values
	if stype == brig.TypeB1 {
		stype = brig.TypeU32
		a = val.U32(uint32(b2u(a.B1())))
	}

	switch {
	case t == brig.TypeB1:
		return cvtToB1(stype, a)
	case stype.IsFloat():
		return cvtF2X(t, stype, mod, a)
	default:
		return cvtI2X(t, mod, a)
	}
}

// Rounding boundary test data for float-to-int conversions: the values
// around the type bounds where rounding decides between a regular result,
// a saturated result, and an undefined one.

const RoundingTestsNum = 12

// RoundingTestsCount returns the number of interesting boundary inputs for
// a conversion to dstType.
func RoundingTestsCount(dstType brig.Type) int {
	if dstType.IsInt() {
		return RoundingTestsNum
	}
	return 1
}

func roundingTestData[T floating](mod brig.AluMod, lo, hi T) []T {
	switch mod.Round {
	case brig.RoundNearEvenInt:
		lo += 0.5
		hi += 0.5
	case brig.RoundZeroInt:
		if lo > 0 {
			lo += 1
		}
		if hi > 0 {
			hi += 1
		}
	case brig.RoundMinusInfInt:
		lo += 1
		hi += 1
	case brig.RoundPlusInfInt:
		// boundaries are exact
	default:
		panic(badRounding("cvt", mod.Round))
	}

	ulp := func(x T, delta int64) T {
		u := of(x).Ulp(delta)
		if _, ok := any(x).(float32); ok {
			return T(u.F32())
		}
		return T(u.F64())
	}

	return []T{
		lo - 1,
		ulp(lo-1, 1),
		ulp(lo, -1),
		lo,
		ulp(lo, 1),
		lo + 1,
		hi - 1,
		ulp(hi, -1),
		hi,
		ulp(hi, 1),
		ulp(hi+1, -1),
		hi + 1,
	}
}

// F32RoundingTestData lists f32 inputs around the bounds of dstType for the
// given conversion rounding mode.
func F32RoundingTestData(dstType brig.Type, mod brig.AluMod) []float32 {
	if RoundingTestsCount(dstType) == 1 {
		return []float32{0}
	}
	return roundingTestData(mod,
		typeBoundaryF32(dstType, true), typeBoundaryF32(dstType, false))
}

// F64RoundingTestData is the f64 analog of F32RoundingTestData.
func F64RoundingTestData(dstType brig.Type, mod brig.AluMod) []float64 {
	if RoundingTestsCount(dstType) == 1 {
		return []float64{0}
	}
	return roundingTestData(mod,
		typeBoundaryF64(dstType, true), typeBoundaryF64(dstType, false))
}
