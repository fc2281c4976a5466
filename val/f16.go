package val

import "math"

// f16ToF32 widens an IEEE binary16 encoding. Every f16 value is
// exactly representable in float32.
func f16ToF32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign) // signed zero
		}
		// Subnormal: renormalize.
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3ff
		return math.Float32frombits(sign | e<<23 | mant<<13)
	case 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
	}
}

// f32ToF16 narrows a float32 to binary16 with round-to-nearest-even.
func f32ToF16(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp := int32(b>>23)&0xff - 127
	mant := b & 0x7fffff

	switch {
	case exp == 128: // inf or NaN
		if mant == 0 {
			return sign | 0x7c00
		}
		return sign | 0x7c00 | uint16(mant>>13) | 1 // keep it a NaN
	case exp > 15:
		return sign | 0x7c00 // overflow to inf
	case exp >= -14:
		// Normal range; round mantissa to 10 bits.
		m := mant | 0x800000
		shift := uint32(13)
		half := uint32(1) << (shift - 1)
		r := m >> shift
		rem := m & (1<<shift - 1)
		if rem > half || (rem == half && r&1 != 0) {
			r++
		}
		e := uint32(exp+15) + (r >> 11)
		r &= 0x3ff
		if e >= 0x1f {
			return sign | 0x7c00
		}
		return sign | uint16(e<<10) | uint16(r)
	case exp >= -24:
		// Subnormal result.
		m := mant | 0x800000
		shift := uint32(-exp - 1)
		half := uint32(1) << (shift - 1)
		r := m >> shift
		rem := m & (1<<shift - 1)
		if rem > half || (rem == half && r&1 != 0) {
			r++
		}
		return sign | uint16(r)
	default:
		return sign // underflow to zero
	}
}
