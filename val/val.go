// Package val implements the tagged numeric value the emulator
// computes over: scalars of every BRIG type, 128-bit patterns, packed
// SIMD values with per-lane access, and short vectors of scalars.
//
// A zero Val is the "no value" state. Two further sentinels share it:
// Undef marks an outcome the instruction set leaves unspecified and
// must be accepted as matching any value; Unimplemented marks a known
// coverage gap and should be reported as a skip.
package val

import (
	"fmt"

	"github.com/gpuconf/hsailemu/brig"
)

type sentinel uint8

const (
	sentNone sentinel = iota
	sentUndef
	sentUnimplemented
)

// Val is one operand or result value. It has value semantics; the
// vector payload is shared and never mutated after construction.
type Val struct {
	typ  brig.Type
	sent sentinel
	lo   uint64
	hi   uint64
	vec  *vector
}

// vector holds the elements of a vector operand (2 to 4 same-typed
// scalars). It is immutable once built, so sharing it across copies
// and goroutines is safe without reference counting.
type vector struct {
	dim   int
	elems [4]Val
}

// Undef returns the undefined-result sentinel.
func Undef() Val { return Val{sent: sentUndef} }

// Unimplemented returns the unimplemented-feature sentinel.
func Unimplemented() Val { return Val{sent: sentUnimplemented} }

// Empty reports whether v carries no concrete value (including both
// sentinels).
func (v Val) Empty() bool { return v.typ == brig.TypeNone && v.vec == nil }

// IsUndef reports whether v is the undefined-result sentinel.
func (v Val) IsUndef() bool { return v.Empty() && v.sent == sentUndef }

// IsUnimplemented reports whether v is the unimplemented-feature
// sentinel.
func (v Val) IsUnimplemented() bool { return v.Empty() && v.sent == sentUnimplemented }

func widthMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// FromBits builds a scalar of type t (up to 64 bits wide) from a raw
// bit pattern. Excess bits are discarded.
func FromBits(t brig.Type, bits uint64) Val {
	if t == brig.TypeNone {
		return Val{}
	}
	if t.Bits() > 64 {
		panic(invariant("FromBits: %v is wider than 64 bits", t))
	}
	return Val{typ: t, lo: bits & widthMask(t.Bits())}
}

// FromBits128 builds a 128-bit scalar (b128 or a 128-bit packed type).
func FromBits128(t brig.Type, lo, hi uint64) Val {
	if t.Bits() != 128 {
		panic(invariant("FromBits128: %v is not 128 bits wide", t))
	}
	return Val{typ: t, lo: lo, hi: hi}
}

func B1(b bool) Val {
	if b {
		return Val{typ: brig.TypeB1, lo: 1}
	}
	return Val{typ: brig.TypeB1}
}

func B32(v uint32) Val { return Val{typ: brig.TypeB32, lo: uint64(v)} }
func B64(v uint64) Val { return Val{typ: brig.TypeB64, lo: v} }

func B128(lo, hi uint64) Val {
	return Val{typ: brig.TypeB128, lo: lo, hi: hi}
}

func U8(v uint8) Val   { return Val{typ: brig.TypeU8, lo: uint64(v)} }
func U16(v uint16) Val { return Val{typ: brig.TypeU16, lo: uint64(v)} }
func U32(v uint32) Val { return Val{typ: brig.TypeU32, lo: uint64(v)} }
func U64(v uint64) Val { return Val{typ: brig.TypeU64, lo: v} }

func S8(v int8) Val   { return Val{typ: brig.TypeS8, lo: uint64(uint8(v))} }
func S16(v int16) Val { return Val{typ: brig.TypeS16, lo: uint64(uint16(v))} }
func S32(v int32) Val { return Val{typ: brig.TypeS32, lo: uint64(uint32(v))} }
func S64(v int64) Val { return Val{typ: brig.TypeS64, lo: uint64(v)} }

func F32(v float32) Val { return Val{typ: brig.TypeF32, lo: uint64(f32bits(v))} }
func F64(v float64) Val { return Val{typ: brig.TypeF64, lo: f64bits(v)} }

// F16FromBits builds an f16 scalar from its raw encoding.
func F16FromBits(bits uint16) Val { return Val{typ: brig.TypeF16, lo: uint64(bits)} }

// Vec builds a vector value from 2 to 4 same-typed scalars.
func Vec(elems ...Val) Val {
	if len(elems) < 2 || len(elems) > 4 {
		panic(invariant("Vec: dim %d out of range", len(elems)))
	}
	var vec vector
	vec.dim = len(elems)
	for i, e := range elems {
		if e.Empty() || e.IsVector() {
			panic(invariant("Vec: element %d is not a scalar", i))
		}
		if e.Type() != elems[0].Type() {
			panic(invariant("Vec: mixed element types %v and %v", elems[0].Type(), e.Type()))
		}
		vec.elems[i] = e
	}
	return Val{vec: &vec}
}

// Type returns the type tag; TypeNone for empty and vector values.
func (v Val) Type() brig.Type { return v.typ }

// Size returns the value width in bits.
func (v Val) Size() uint { return v.typ.Bits() }

func (v Val) IsVector() bool { return v.vec != nil }

// Dim returns the number of vector elements, 1 for scalars.
func (v Val) Dim() int {
	if v.vec != nil {
		return v.vec.dim
	}
	return 1
}

// VecType returns the element type of a vector value.
func (v Val) VecType() brig.Type {
	if v.vec != nil {
		return v.vec.elems[0].typ
	}
	return brig.TypeNone
}

// At returns vector element i; a scalar is its own element 0.
func (v Val) At(i int) Val {
	if v.vec != nil {
		if i < 0 || i >= v.vec.dim {
			panic(invariant("At: index %d out of range for dim %d", i, v.vec.dim))
		}
		return v.vec.elems[i]
	}
	if i != 0 {
		panic(invariant("At: index %d on scalar", i))
	}
	return v
}

func (v Val) IsPacked() bool      { return v.typ.IsPacked() }
func (v Val) IsFloat() bool       { return v.typ.IsFloat() }
func (v Val) IsInt() bool         { return v.typ.IsInt() }
func (v Val) IsSignedInt() bool   { return v.typ.IsSigned() }
func (v Val) IsUnsignedInt() bool { return v.typ.IsUnsigned() }

// ElementType returns the lane type of a packed value.
func (v Val) ElementType() brig.Type { return v.typ.ElementType() }

// Raw accessors. The caller (a type-dispatch selector) has already
// established the type, so these reinterpret bits without checking.

func (v Val) B1() bool    { return v.lo&1 != 0 }
func (v Val) B8() uint8   { return uint8(v.lo) }
func (v Val) B16() uint16 { return uint16(v.lo) }
func (v Val) B32() uint32 { return uint32(v.lo) }
func (v Val) B64() uint64 { return v.lo }

// B128 returns the low and high 64-bit halves.
func (v Val) B128() (lo, hi uint64) { return v.lo, v.hi }

func (v Val) U8() uint8   { return uint8(v.lo) }
func (v Val) U16() uint16 { return uint16(v.lo) }
func (v Val) U32() uint32 { return uint32(v.lo) }
func (v Val) U64() uint64 { return v.lo }

func (v Val) S8() int8   { return int8(v.lo) }
func (v Val) S16() int16 { return int16(v.lo) }
func (v Val) S32() int32 { return int32(v.lo) }
func (v Val) S64() int64 { return int64(v.lo) }

func (v Val) F32() float32 { return f32frombits(uint32(v.lo)) }
func (v Val) F64() float64 { return f64frombits(v.lo) }

// F16Bits returns the raw f16 encoding.
func (v Val) F16Bits() uint16 { return uint16(v.lo) }

// F16Value returns the f16 value widened to float32.
func (v Val) F16Value() float32 { return f16ToF32(uint16(v.lo)) }

// AsB16 returns the low 16 bits.
func (v Val) AsB16() uint16 { return uint16(v.lo) }

// AsB32 returns 32-bit word idx (0..3) of the bit pattern.
func (v Val) AsB32(idx int) uint32 {
	switch idx {
	case 0:
		return uint32(v.lo)
	case 1:
		return uint32(v.lo >> 32)
	case 2:
		return uint32(v.hi)
	case 3:
		return uint32(v.hi >> 32)
	}
	panic(invariant("AsB32: word index %d out of range", idx))
}

// AsB64 returns 64-bit word idx (0 or 1) of the bit pattern.
func (v Val) AsB64(idx int) uint64 {
	switch idx {
	case 0:
		return v.lo
	case 1:
		return v.hi
	}
	panic(invariant("AsB64: word index %d out of range", idx))
}

// AsU64 returns the value zero-extended to 64 bits.
func (v Val) AsU64() uint64 { return v.lo & widthMask(v.Size()) }

// AsS64 returns the value extended to 64 bits: sign-extended for
// signed types, zero-extended otherwise.
func (v Val) AsS64() int64 {
	if v.typ.IsSigned() {
		bits := v.Size()
		shift := 64 - bits
		return int64(v.lo<<shift) >> shift
	}
	return int64(v.AsU64())
}

// GetElement returns the raw bits of lane idx of a packed value,
// zero-extended.
func (v Val) GetElement(idx int) uint64 {
	if !v.IsPacked() {
		panic(invariant("GetElement on non-packed %v", v.typ))
	}
	dim := int(v.typ.Dim())
	if idx < 0 || idx >= dim {
		panic(invariant("GetElement: lane %d out of range for %v", idx, v.typ))
	}
	w := v.typ.ElementType().Bits()
	start := uint(idx) * w
	if start < 64 {
		return (v.lo >> start) & widthMask(w)
	}
	return (v.hi >> (start - 64)) & widthMask(w)
}

// SetElement stores the low bits of x into lane idx.
func (v *Val) SetElement(idx int, x uint64) {
	if !v.IsPacked() {
		panic(invariant("SetElement on non-packed %v", v.typ))
	}
	dim := int(v.typ.Dim())
	if idx < 0 || idx >= dim {
		panic(invariant("SetElement: lane %d out of range for %v", idx, v.typ))
	}
	w := v.typ.ElementType().Bits()
	start := uint(idx) * w
	m := widthMask(w)
	if start < 64 {
		v.lo = v.lo&^(m<<start) | (x&m)<<start
	} else {
		s := start - 64
		v.hi = v.hi&^(m<<s) | (x&m)<<s
	}
}

// Eq reports bit-exact equality with the comparison conventions of the
// harness: any NaN equals any NaN of the same type, while +0.0 and
// -0.0 stay distinct.
func (v Val) Eq(o Val) bool {
	if v.Empty() || o.Empty() {
		panic(invariant("Eq on empty value"))
	}
	if v.IsVector() {
		if !o.IsVector() || v.Dim() != o.Dim() {
			return false
		}
		for i := 0; i < v.Dim(); i++ {
			if !v.At(i).Eq(o.At(i)) {
				return false
			}
		}
		return true
	}
	if v.typ != o.typ {
		return false
	}
	if v.IsNan() {
		return o.IsNan()
	}
	return v.lo == o.lo && v.hi == o.hi
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("val: invariant violation: "+format, args...)
}
