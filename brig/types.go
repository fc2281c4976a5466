// Package brig models the decoded HSAIL/BRIG instruction surface the
// emulator consumes: type tags, opcodes, modifiers and the read-only
// instruction descriptor. The emulator never mutates any of it.
package brig

import "fmt"

// Type is a BRIG operand type tag.
type Type uint8

const (
	TypeNone Type = iota

	TypeB1
	TypeB8
	TypeB16
	TypeB32
	TypeB64
	TypeB128

	TypeS8
	TypeS16
	TypeS32
	TypeS64

	TypeU8
	TypeU16
	TypeU32
	TypeU64

	TypeF16
	TypeF32
	TypeF64

	TypeU8X4
	TypeU8X8
	TypeU8X16
	TypeU16X2
	TypeU16X4
	TypeU16X8
	TypeU32X2
	TypeU32X4
	TypeU64X2

	TypeS8X4
	TypeS8X8
	TypeS8X16
	TypeS16X2
	TypeS16X4
	TypeS16X8
	TypeS32X2
	TypeS32X4
	TypeS64X2

	TypeF16X2
	TypeF16X4
	TypeF16X8
	TypeF32X2
	TypeF32X4
	TypeF64X2

	typeMax
)

// Kind classifies the numeric interpretation of a scalar type.
type Kind uint8

const (
	KindNone Kind = iota
	KindBits
	KindSigned
	KindUnsigned
	KindFloat
)

type typeInfo struct {
	name string
	bits uint16
	kind Kind
	elem Type // element type for packed variants
	dim  uint8
}

// typeProps is the single declarative table driving all type dispatch:
// width, numeric kind, and lane shape per tag.
var typeProps = [typeMax]typeInfo{
	TypeNone: {"none", 0, KindNone, TypeNone, 0},

	TypeB1:   {"b1", 1, KindBits, TypeNone, 0},
	TypeB8:   {"b8", 8, KindBits, TypeNone, 0},
	TypeB16:  {"b16", 16, KindBits, TypeNone, 0},
	TypeB32:  {"b32", 32, KindBits, TypeNone, 0},
	TypeB64:  {"b64", 64, KindBits, TypeNone, 0},
	TypeB128: {"b128", 128, KindBits, TypeNone, 0},

	TypeS8:  {"s8", 8, KindSigned, TypeNone, 0},
	TypeS16: {"s16", 16, KindSigned, TypeNone, 0},
	TypeS32: {"s32", 32, KindSigned, TypeNone, 0},
	TypeS64: {"s64", 64, KindSigned, TypeNone, 0},

	TypeU8:  {"u8", 8, KindUnsigned, TypeNone, 0},
	TypeU16: {"u16", 16, KindUnsigned, TypeNone, 0},
	TypeU32: {"u32", 32, KindUnsigned, TypeNone, 0},
	TypeU64: {"u64", 64, KindUnsigned, TypeNone, 0},

	TypeF16: {"f16", 16, KindFloat, TypeNone, 0},
	TypeF32: {"f32", 32, KindFloat, TypeNone, 0},
	TypeF64: {"f64", 64, KindFloat, TypeNone, 0},

	TypeU8X4:  {"u8x4", 32, KindUnsigned, TypeU8, 4},
	TypeU8X8:  {"u8x8", 64, KindUnsigned, TypeU8, 8},
	TypeU8X16: {"u8x16", 128, KindUnsigned, TypeU8, 16},
	TypeU16X2: {"u16x2", 32, KindUnsigned, TypeU16, 2},
	TypeU16X4: {"u16x4", 64, KindUnsigned, TypeU16, 4},
	TypeU16X8: {"u16x8", 128, KindUnsigned, TypeU16, 8},
	TypeU32X2: {"u32x2", 64, KindUnsigned, TypeU32, 2},
	TypeU32X4: {"u32x4", 128, KindUnsigned, TypeU32, 4},
	TypeU64X2: {"u64x2", 128, KindUnsigned, TypeU64, 2},

	TypeS8X4:  {"s8x4", 32, KindSigned, TypeS8, 4},
	TypeS8X8:  {"s8x8", 64, KindSigned, TypeS8, 8},
	TypeS8X16: {"s8x16", 128, KindSigned, TypeS8, 16},
	TypeS16X2: {"s16x2", 32, KindSigned, TypeS16, 2},
	TypeS16X4: {"s16x4", 64, KindSigned, TypeS16, 4},
	TypeS16X8: {"s16x8", 128, KindSigned, TypeS16, 8},
	TypeS32X2: {"s32x2", 64, KindSigned, TypeS32, 2},
	TypeS32X4: {"s32x4", 128, KindSigned, TypeS32, 4},
	TypeS64X2: {"s64x2", 128, KindSigned, TypeS64, 2},

	TypeF16X2: {"f16x2", 32, KindFloat, TypeF16, 2},
	TypeF16X4: {"f16x4", 64, KindFloat, TypeF16, 4},
	TypeF16X8: {"f16x8", 128, KindFloat, TypeF16, 8},
	TypeF32X2: {"f32x2", 64, KindFloat, TypeF32, 2},
	TypeF32X4: {"f32x4", 128, KindFloat, TypeF32, 4},
	TypeF64X2: {"f64x2", 128, KindFloat, TypeF64, 2},
}

func (t Type) info() typeInfo {
	if t >= typeMax {
		return typeProps[TypeNone]
	}
	return typeProps[t]
}

func (t Type) String() string {
	if t >= typeMax {
		return fmt.Sprintf("type(%d)", uint8(t))
	}
	return typeProps[t].name
}

// Bits returns the total width of the type in bits.
func (t Type) Bits() uint { return uint(t.info().bits) }

// Kind returns the numeric kind. For packed types this is the kind of
// the elements.
func (t Type) Kind() Kind { return t.info().kind }

func (t Type) IsBits() bool     { return t.Kind() == KindBits }
func (t Type) IsSigned() bool   { return t.Kind() == KindSigned && !t.IsPacked() }
func (t Type) IsUnsigned() bool { return t.Kind() == KindUnsigned && !t.IsPacked() }
func (t Type) IsInt() bool      { return t.IsSigned() || t.IsUnsigned() }
func (t Type) IsFloat() bool    { return t.Kind() == KindFloat && !t.IsPacked() }
func (t Type) IsPacked() bool   { return t.info().dim > 0 }

// Dim returns the lane count of a packed type, 0 otherwise.
func (t Type) Dim() uint { return uint(t.info().dim) }

// ElementType returns the per-lane scalar type of a packed type.
func (t Type) ElementType() Type { return t.info().elem }

// BaseType returns the scalar type lane values are computed in: the
// element type widened to at least 32 bits, same kind. Floats keep
// their element width.
func (t Type) BaseType() Type {
	elem := t.ElementType()
	if elem == TypeNone {
		return t
	}
	switch elem {
	case TypeU8, TypeU16:
		return TypeU32
	case TypeS8, TypeS16:
		return TypeS32
	default:
		return elem
	}
}

// ParseType resolves a type name like "u32" or "s8x4".
func ParseType(name string) (Type, bool) {
	for t := Type(0); t < typeMax; t++ {
		if typeProps[t].name == name && t != TypeNone {
			return t, true
		}
	}
	return TypeNone, false
}
