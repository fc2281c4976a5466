package emu

import (
	"math"
	"math/bits"
	"unsafe"

	"github.com/gpuconf/hsailemu/val"
)

type signedInt interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type integer interface {
	signedInt | unsignedInt
}

type floating interface {
	~float32 | ~float64
}

type number interface {
	integer | floating
}

func bitWidth[T integer]() uint32 {
	var z T
	return uint32(unsafe.Sizeof(z)) * 8
}

func isSigned[T integer]() bool {
	var v T
	v--
	return v < 0
}

func minOf[T integer]() T {
	if !isSigned[T]() {
		return 0
	}
	return T(1) << (bitWidth[T]() - 1)
}

func maxOf[T integer]() T {
	return ^minOf[T]()
}

// of builds a value of the type matching the Go representation.
func of[T number](x T) val.Val {
	switch v := any(x).(type) {
	case int8:
		return val.S8(v)
	case int16:
		return val.S16(v)
	case int32:
		return val.S32(v)
	case int64:
		return val.S64(v)
	case uint8:
		return val.U8(v)
	case uint16:
		return val.U16(v)
	case uint32:
		return val.U32(v)
	case uint64:
		return val.U64(v)
	case float32:
		return val.F32(v)
	case float64:
		return val.F64(v)
	}
	panic("of: unhandled representation")
}

// Arithmetic. Integer overflow wraps; float results are rounded per
// operation, which is why mad converts the product before adding.

func add[T number](a, b T) T { return a + b }
func sub[T number](a, b T) T { return a - b }
func mul[T number](a, b T) T { return a * b }

func mad[T number](a, b, c T) T { return T(a*b) + c }

func absI[T signedInt](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func absF32(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ (1 << 31))
}

func absF64(x float64) float64 {
	return math.Float64frombits(math.Float64bits(x) &^ (1 << 63))
}

func negI[T signedInt](a T) T { return -a }

func negF32(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) ^ (1 << 31))
}

func negF64(x float64) float64 {
	return math.Float64frombits(math.Float64bits(x) ^ (1 << 63))
}

// maxN and minN follow the comparison order of the reference hardware:
// if either operand is a NaN the other operand is returned.

func maxN[T number](a, b T) T {
	if a != a {
		return b
	}
	if b != b {
		return a
	}
	if a < b {
		return b
	}
	return a
}

func minN[T number](a, b T) T {
	if a != a {
		return b
	}
	if b != b {
		return a
	}
	if b < a {
		return b
	}
	return a
}

// Integer division produces the undefined sentinel for division by zero
// and for the overflowing minValue/-1 case; rem of minValue/-1 is 0.

func divI[T integer](a, b T) val.Val {
	if b == 0 {
		return val.Undef()
	}
	if isSigned[T]() && a == minOf[T]() && b == T(0)-1 {
		return val.Undef()
	}
	return of(a / b)
}

func remI[T integer](a, b T) val.Val {
	if b == 0 {
		return val.Undef()
	}
	if isSigned[T]() && a == minOf[T]() && b == T(0)-1 {
		return of(T(0))
	}
	return of(a % b)
}

func divF[T floating](a, b T) val.Val { return of(a / b) }

// mulhi returns the high half of the double-width product.

func mulhiNarrow[T integer](a, b T) T {
	w := bitWidth[T]()
	if isSigned[T]() {
		return T((int64(a) * int64(b)) >> w)
	}
	return T((uint64(a) * uint64(b)) >> w)
}

func mulhiU64(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	return hi
}

func mulhiS64(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

// 24-bit multiply-add. Operands outside the 24-bit range produce the
// undefined sentinel; resShift selects the low (0) or high (32) half.

func s24ok(x int32) bool  { return -0x400000 <= x && x <= 0x3FFFFF }
func u24ok(x uint32) bool { return x <= 0x7FFFFF }

func mad24s(resShift uint) func(int32, int32, int32) val.Val {
	return func(a, b, c int32) val.Val {
		if !s24ok(a) || !s24ok(b) || !s24ok(c) {
			return val.Undef()
		}
		return val.S32(int32(((int64(a) * int64(b)) >> resShift) + int64(c)))
	}
}

func mad24u(resShift uint) func(uint32, uint32, uint32) val.Val {
	return func(a, b, c uint32) val.Val {
		if !u24ok(a) || !u24ok(b) || !u24ok(c) {
			return val.Undef()
		}
		return val.U32(uint32(((uint64(a) * uint64(b)) >> resShift) + uint64(c)))
	}
}

// Bit operations.

func notB1(a bool) bool     { return !a }
func andB1(a, b bool) bool  { return a && b }
func orB1(a, b bool) bool   { return a || b }
func xorB1(a, b bool) bool  { return a != b }

func bitNot[T unsignedInt](a T) T    { return ^a }
func bitAnd[T unsignedInt](a, b T) T { return a & b }
func bitOr[T unsignedInt](a, b T) T  { return a | b }
func bitXor[T unsignedInt](a, b T) T { return a ^ b }

func bitselB1(sel, a, b bool) bool {
	return (a && sel) || (b && !sel)
}

func bitsel[T unsignedInt](sel, a, b T) T {
	return (a & sel) | (b &^ sel)
}

// The shift count is masked to the element width.

func shlI[T integer](v T, s uint32) T {
	return v << (s & (bitWidth[T]() - 1))
}

func shrI[T integer](v T, s uint32) T {
	return v >> (s & (bitWidth[T]() - 1))
}

func bitExtract[T integer](a T, offset, width uint32) val.Val {
	w := bitWidth[T]()
	offset &= w - 1
	width &= w - 1
	if width == 0 {
		return of(T(0))
	}
	if width+offset > w {
		return val.Undef()
	}
	shift := w - width
	return of(a << (shift - offset) >> shift)
}

func bitInsert[T integer](a, b T, offset, width uint32) val.Val {
	w := bitWidth[T]()
	offset &= w - 1
	width &= w - 1
	if width+offset > w {
		return val.Undef()
	}
	mask := uint64(1)<<width - 1
	res := (uint64(a) &^ (mask << offset)) | ((uint64(b) & mask) << offset)
	return of(T(res))
}

// bitalign and bytealign rotate a 64-bit window of src2:src1 right by a
// masked element count.
func align(shiftMask, elemWidth uint32) func(uint32, uint32, uint32) uint32 {
	return func(a, b, c uint32) uint32 {
		shift := (c & shiftMask) * elemWidth
		return uint32((uint64(b)<<32 | uint64(a)) >> shift)
	}
}

// Carry and borrow flags of unsigned addition and subtraction.

func carryU[T unsignedInt](a, b T) T {
	if a+b < a {
		return 1
	}
	return 0
}

func borrowU[T unsignedInt](a, b T) T {
	if a < b {
		return 1
	}
	return 0
}

// Atomic helpers.

func wrapInc[T integer](mem, maxv T) T {
	if mem >= maxv {
		return 0
	}
	return mem + 1
}

func wrapDec[T integer](mem, maxv T) T {
	if mem == 0 || mem > maxv {
		return maxv
	}
	return mem - 1
}

func casOp[T unsignedInt](mem, cmpv, swp T) T {
	if mem == cmpv {
		return swp
	}
	return mem
}

func second[T any](a, b T) T { return b }

func cmovB1(c, a, b bool) bool {
	if c {
		return a
	}
	return b
}

func cmovI[T unsignedInt](c, a, b T) T {
	if c != 0 {
		return a
	}
	return b
}

// Saturating integer arithmetic clamps to the type bounds.

func addSat[T integer](a, b T) T {
	if isSigned[T]() {
		if b > 0 && a > maxOf[T]()-b {
			return maxOf[T]()
		}
		if b < 0 && a < minOf[T]()-b {
			return minOf[T]()
		}
		return a + b
	}
	res := a + b
	if res < a {
		return maxOf[T]()
	}
	return res
}

func subSat[T integer](a, b T) T {
	if isSigned[T]() {
		if b < 0 && a > maxOf[T]()+b {
			return maxOf[T]()
		}
		if b > 0 && a < minOf[T]()+b {
			return minOf[T]()
		}
		return a - b
	}
	if a < b {
		return 0
	}
	return a - b
}

func mulSat[T integer](a, b T) T {
	if a == 0 || b == 0 {
		return 0
	}
	res := a * b
	if isSigned[T]() {
		neg1 := T(0) - 1
		if (a == neg1 && b == minOf[T]()) || (b == neg1 && a == minOf[T]()) {
			return maxOf[T]()
		}
		if res/a != b {
			if (a < 0) != (b < 0) {
				return minOf[T]()
			}
			return maxOf[T]()
		}
		return res
	}
	if res/a != b {
		return maxOf[T]()
	}
	return res
}

// Float helpers with explicit edge-case handling.

func copysignF32(a, b float32) float32 {
	return math.Float32frombits(math.Float32bits(a)&^(1<<31) | math.Float32bits(b)&(1<<31))
}

func copysignF64(a, b float64) float64 {
	return math.Copysign(a, b)
}

func sqrtF32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func rsqrtF32(x float32) float32 {
	return 1 / sqrtF32(x)
}

func rsqrtF64(x float64) float64 {
	return 1 / math.Sqrt(x)
}

func rcpF32(x float32) float32 { return 1 / x }
func rcpF64(x float64) float64 { return 1 / x }

func exp2F32(x float32) float32 {
	return float32(math.Exp(float64(x) * math.Ln2))
}

func exp2F64(x float64) float64 {
	return math.Exp(x * math.Ln2)
}

func log2F32(x float32) float32 {
	return float32(math.Log(float64(x)) / math.Ln2)
}

func log2F64(x float64) float64 {
	return math.Log(x) / math.Ln2
}

// fract returns the positive fractional part: x - floor(x). Infinities
// map to a zero of the same sign. Results near 1.0 are clamped to the
// largest value below 1.0 so the invariant 0 <= fract < 1 holds.
func fract[T floating](x T) val.Val {
	if x != x {
		return of(x)
	}
	v := of(x)
	if v.IsPositiveInf() {
		return v.PositiveZero()
	}
	if v.IsNegativeInf() {
		return v.NegativeZero()
	}
	res := T(math.Trunc(float64(x)))
	fr := x - res
	if x > 0 {
		return of(fr)
	}
	if fr == 0 {
		return of(T(0))
	}
	y := 1 + fr
	if y < 1 {
		return of(y)
	}
	return of(nearestBelowOne[T]())
}

func nearestBelowOne[T floating]() T {
	var z T
	if _, ok := any(z).(float32); ok {
		return T(math.Float32frombits(0x3F7FFFFF))
	}
	return T(math.Float64frombits(0x3FEFFFFFFFFFFFFF))
}

func ceilF[T floating](x T) T {
	if x != x || math.IsInf(float64(x), 0) {
		return x
	}
	res := T(math.Trunc(float64(x)))
	if x > res {
		res++
	}
	return res
}

func floorF[T floating](x T) T {
	if x != x || math.IsInf(float64(x), 0) {
		return x
	}
	res := T(math.Trunc(float64(x)))
	if x < res {
		res--
	}
	return res
}

func truncF[T floating](x T) T {
	if x != x || math.IsInf(float64(x), 0) {
		return x
	}
	return T(math.Trunc(float64(x)))
}

// rintF rounds to the nearest integral value with ties to even.
func rintF[T floating](x T) T {
	if x != x || math.IsInf(float64(x), 0) {
		return x
	}
	res := T(math.Trunc(float64(x)))
	fr := x - res
	if fr < 0 {
		fr = -fr
	}
	if fr < 0.5 {
		return res
	}
	if fr == 0.5 && uint64(int64(res))&1 == 0 {
		return res
	}
	if x < 0 {
		return res - 1
	}
	return res + 1
}

// Selector tables. A missing handler marks a type the operation rejects.

var (
	absFns = unFns{name: "abs", f16: true,
		s8: absI[int8], s16: absI[int16], s32: absI[int32], s64: absI[int64],
		f32: absF32, f64: absF64}

	negFns = unFns{name: "neg", f16: true,
		s8: negI[int8], s16: negI[int16], s32: negI[int32], s64: negI[int64],
		f32: negF32, f64: negF64}

	notFns = unFns{name: "not",
		b1: notB1, b32: bitNot[uint32], b64: bitNot[uint64]}

	bitrevFns = unFns{name: "bitrev",
		b32: bits.Reverse32, b64: bits.Reverse64}

	ceilFns  = unFns{name: "ceil", f16: true, f32: ceilF[float32], f64: ceilF[float64]}
	floorFns = unFns{name: "floor", f16: true, f32: floorF[float32], f64: floorF[float64]}
	truncFns = unFns{name: "trunc", f16: true, f32: truncF[float32], f64: truncF[float64]}
	rintFns  = unFns{name: "rint", f16: true, f32: rintF[float32], f64: rintF[float64]}

	sqrtFns   = unFns{name: "sqrt", f16: true, f32: sqrtF32, f64: math.Sqrt}
	nsqrtFns  = unFns{name: "nsqrt", f16: true, f32: sqrtF32, f64: math.Sqrt}
	nrsqrtFns = unFns{name: "nrsqrt", f16: true, f32: rsqrtF32, f64: rsqrtF64}
	nrcpFns   = unFns{name: "nrcp", f16: true, f32: rcpF32, f64: rcpF64}
	nexp2Fns  = unFns{name: "nexp2", f32: exp2F32, f64: exp2F64}
	nlog2Fns  = unFns{name: "nlog2", f32: log2F32, f64: log2F64}

	fractFns = unValFns{name: "fract", f16: true, f32: fract[float32], f64: fract[float64]}

	addFns = binFns{name: "add", f16: true,
		s8: add[int8], s16: add[int16], s32: add[int32], s64: add[int64],
		u8: add[uint8], u16: add[uint16], u32: add[uint32], u64: add[uint64],
		f32: add[float32], f64: add[float64]}

	subFns = binFns{name: "sub", f16: true,
		s8: sub[int8], s16: sub[int16], s32: sub[int32], s64: sub[int64],
		u8: sub[uint8], u16: sub[uint16], u32: sub[uint32], u64: sub[uint64],
		f32: sub[float32], f64: sub[float64]}

	mulFns = binFns{name: "mul", f16: true,
		s8: mul[int8], s16: mul[int16], s32: mul[int32], s64: mul[int64],
		u8: mul[uint8], u16: mul[uint16], u32: mul[uint32], u64: mul[uint64],
		f32: mul[float32], f64: mul[float64]}

	mulhiFns = binFns{name: "mulhi",
		s8: mulhiNarrow[int8], s16: mulhiNarrow[int16], s32: mulhiNarrow[int32], s64: mulhiS64,
		u8: mulhiNarrow[uint8], u16: mulhiNarrow[uint16], u32: mulhiNarrow[uint32], u64: mulhiU64}

	maxFns = binFns{name: "max", f16: true,
		s8: maxN[int8], s16: maxN[int16], s32: maxN[int32], s64: maxN[int64],
		u8: maxN[uint8], u16: maxN[uint16], u32: maxN[uint32], u64: maxN[uint64],
		f32: maxN[float32], f64: maxN[float64]}

	minFns = binFns{name: "min", f16: true,
		s8: minN[int8], s16: minN[int16], s32: minN[int32], s64: minN[int64],
		u8: minN[uint8], u16: minN[uint16], u32: minN[uint32], u64: minN[uint64],
		f32: minN[float32], f64: minN[float64]}

	andFns = binFns{name: "and", b1: andB1, b32: bitAnd[uint32], b64: bitAnd[uint64]}
	orFns  = binFns{name: "or", b1: orB1, b32: bitOr[uint32], b64: bitOr[uint64]}
	xorFns = binFns{name: "xor", b1: xorB1, b32: bitXor[uint32], b64: bitXor[uint64]}

	copysignFns = binFns{name: "copysign", f16: true, f32: copysignF32, f64: copysignF64}

	carryFns  = binFns{name: "carry", u32: carryU[uint32], u64: carryU[uint64]}
	borrowFns = binFns{name: "borrow", u32: borrowU[uint32], u64: borrowU[uint64]}

	divFns = binValFns{name: "div", f16: true,
		s32: divI[int32], s64: divI[int64], u32: divI[uint32], u64: divI[uint64],
		f32: divF[float32], f64: divF[float64]}

	remFns = binValFns{name: "rem",
		s32: remI[int32], s64: remI[int64], u32: remI[uint32], u64: remI[uint64]}

	shlFns = shiftFns{name: "shl",
		s8: shlI[int8], s16: shlI[int16], s32: shlI[int32], s64: shlI[int64],
		u8: shlI[uint8], u16: shlI[uint16], u32: shlI[uint32], u64: shlI[uint64]}

	shrFns = shiftFns{name: "shr",
		s8: shrI[int8], s16: shrI[int16], s32: shrI[int32], s64: shrI[int64],
		u8: shrI[uint8], u16: shrI[uint16], u32: shrI[uint32], u64: shrI[uint64]}

	madFns = triFns{name: "mad", f16: true,
		s32: mad[int32], s64: mad[int64], u32: mad[uint32], u64: mad[uint64],
		f32: mad[float32], f64: mad[float64]}

	fmaFns = triFns{name: "fma", f16: true, f32: mad[float32], f64: mad[float64]}

	bitselFns = triFns{name: "bitselect",
		b1: bitselB1, b32: bitsel[uint32], b64: bitsel[uint64]}

	cmovFns = triFns{name: "cmov",
		b1: cmovB1, b32: cmovI[uint32], b64: cmovI[uint64]}

	bitalignFns  = triFns{name: "bitalign", b32: align(31, 1)}
	bytealignFns = triFns{name: "bytealign", b32: align(3, 8)}

	mad24Fns   = triValFns{name: "mad24", s32: mad24s(0), u32: mad24u(0)}
	mad24hiFns = triValFns{name: "mad24hi", s32: mad24s(32), u32: mad24u(32)}

	bitextractFns = bitFieldFns{name: "bitextract",
		s32: bitExtract[int32], s64: bitExtract[int64],
		u32: bitExtract[uint32], u64: bitExtract[uint64]}

	bitinsertFns = bitInsertFns{name: "bitinsert",
		s32: bitInsert[int32], s64: bitInsert[int64],
		u32: bitInsert[uint32], u64: bitInsert[uint64]}

	addSatFns = binFns{name: "add_sat",
		s8: addSat[int8], s16: addSat[int16], s32: addSat[int32], s64: addSat[int64],
		u8: addSat[uint8], u16: addSat[uint16], u32: addSat[uint32], u64: addSat[uint64]}

	subSatFns = binFns{name: "sub_sat",
		s8: subSat[int8], s16: subSat[int16], s32: subSat[int32], s64: subSat[int64],
		u8: subSat[uint8], u16: subSat[uint16], u32: subSat[uint32], u64: subSat[uint64]}

	mulSatFns = binFns{name: "mul_sat",
		s8: mulSat[int8], s16: mulSat[int16], s32: mulSat[int32], s64: mulSat[int64],
		u8: mulSat[uint8], u16: mulSat[uint16], u32: mulSat[uint32], u64: mulSat[uint64]}

	// atomic families
	atomAddFns = binFns{name: "atomic_add",
		s32: add[int32], s64: add[int64], u32: add[uint32], u64: add[uint64]}
	atomSubFns = binFns{name: "atomic_sub",
		s32: sub[int32], s64: sub[int64], u32: sub[uint32], u64: sub[uint64]}
	atomMaxFns = binFns{name: "atomic_max",
		s32: maxN[int32], s64: maxN[int64], u32: maxN[uint32], u64: maxN[uint64]}
	atomMinFns = binFns{name: "atomic_min",
		s32: minN[int32], s64: minN[int64], u32: minN[uint32], u64: minN[uint64]}
	atomAndFns = binFns{name: "atomic_and",
		b32: bitAnd[uint32], b64: bitAnd[uint64]}
	atomOrFns = binFns{name: "atomic_or",
		b32: bitOr[uint32], b64: bitOr[uint64]}
	atomXorFns = binFns{name: "atomic_xor",
		b32: bitXor[uint32], b64: bitXor[uint64]}
	atomExchFns = binFns{name: "atomic_exch",
		b32: second[uint32], b64: second[uint64]}
	atomIncFns = binFns{name: "atomic_wrapinc",
		u32: wrapInc[uint32], u64: wrapInc[uint64]}
	atomDecFns = binFns{name: "atomic_wrapdec",
		u32: wrapDec[uint32], u64: wrapDec[uint64]}
	atomCasFns = triFns{name: "atomic_cas",
		b32: casOp[uint32], b64: casOp[uint64]}
)
