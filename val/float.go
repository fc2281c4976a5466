package val

import (
	"math"

	"github.com/gpuconf/hsailemu/brig"
)

func f32bits(f float32) uint32     { return math.Float32bits(f) }
func f32frombits(b uint32) float32 { return math.Float32frombits(b) }
func f64bits(f float64) uint64     { return math.Float64bits(f) }
func f64frombits(b uint64) float64 { return math.Float64frombits(b) }

// fprops describes one IEEE binary interchange format. All float-state
// predicates and bit surgery go through this table so f16, f32 and f64
// share one implementation.
type fprops struct {
	expBits  uint
	mantBits uint
}

var (
	f16props = fprops{expBits: 5, mantBits: 10}
	f32props = fprops{expBits: 8, mantBits: 23}
	f64props = fprops{expBits: 11, mantBits: 52}
)

func floatProps(t brig.Type) (fprops, bool) {
	switch t {
	case brig.TypeF16:
		return f16props, true
	case brig.TypeF32:
		return f32props, true
	case brig.TypeF64:
		return f64props, true
	}
	return fprops{}, false
}

func (p fprops) width() uint      { return 1 + p.expBits + p.mantBits }
func (p fprops) signMask() uint64 { return 1 << (p.width() - 1) }
func (p fprops) expMask() uint64  { return widthMask(p.expBits) << p.mantBits }
func (p fprops) mantMask() uint64 { return widthMask(p.mantBits) }
func (p fprops) quietBit() uint64 { return 1 << (p.mantBits - 1) }

func (p fprops) sign(b uint64) bool      { return b&p.signMask() != 0 }
func (p fprops) exponent(b uint64) uint64 { return (b & p.expMask()) >> p.mantBits }
func (p fprops) mantissa(b uint64) uint64 { return b & p.mantMask() }

func (p fprops) isNan(b uint64) bool { return b&p.expMask() == p.expMask() && p.mantissa(b) != 0 }
func (p fprops) isInf(b uint64) bool { return b&p.expMask() == p.expMask() && p.mantissa(b) == 0 }
func (p fprops) isZero(b uint64) bool { return b&^p.signMask()&widthMask(p.width()) == 0 }
func (p fprops) isSubnormal(b uint64) bool {
	return p.exponent(b) == 0 && p.mantissa(b) != 0
}
func (p fprops) isQuietNan(b uint64) bool { return p.isNan(b) && b&p.quietBit() != 0 }

func (v Val) props() (fprops, uint64) {
	p, ok := floatProps(v.typ)
	if !ok {
		panic(invariant("float operation on %v", v.typ))
	}
	return p, v.lo
}

// Float-state predicates. All of them are false for non-float values
// except IsNan-family callers that first check IsFloat themselves.

func (v Val) IsNan() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isNan(v.lo)
}

func (v Val) IsQuietNan() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isQuietNan(v.lo)
}

func (v Val) IsSignalingNan() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isNan(v.lo) && !p.isQuietNan(v.lo)
}

func (v Val) IsInf() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isInf(v.lo)
}

func (v Val) IsPositiveInf() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isInf(v.lo) && !p.sign(v.lo)
}

func (v Val) IsNegativeInf() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isInf(v.lo) && p.sign(v.lo)
}

// IsSpecialFloat reports a NaN or an infinity.
func (v Val) IsSpecialFloat() bool { return v.IsNan() || v.IsInf() }

func (v Val) IsZero() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isZero(v.lo)
}

func (v Val) IsPositiveZero() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isZero(v.lo) && !p.sign(v.lo)
}

func (v Val) IsNegativeZero() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isZero(v.lo) && p.sign(v.lo)
}

func (v Val) IsSubnormal() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isSubnormal(v.lo)
}

func (v Val) IsPositiveSubnormal() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isSubnormal(v.lo) && !p.sign(v.lo)
}

func (v Val) IsNegativeSubnormal() bool {
	p, ok := floatProps(v.typ)
	return ok && p.isSubnormal(v.lo) && p.sign(v.lo)
}

// IsPositive reports a clear sign bit.
func (v Val) IsPositive() bool {
	p, ok := floatProps(v.typ)
	return ok && !p.sign(v.lo)
}

// IsNegative reports a set sign bit.
func (v Val) IsNegative() bool {
	p, ok := floatProps(v.typ)
	return ok && p.sign(v.lo)
}

// IsRegularPositive reports a positive normal value (not zero, inf,
// NaN or subnormal).
func (v Val) IsRegularPositive() bool {
	p, ok := floatProps(v.typ)
	if !ok {
		return false
	}
	b := v.lo
	return !p.sign(b) && !p.isZero(b) && !p.isSubnormal(b) && b&p.expMask() != p.expMask()
}

// IsRegularNegative reports a negative normal value.
func (v Val) IsRegularNegative() bool {
	p, ok := floatProps(v.typ)
	if !ok {
		return false
	}
	b := v.lo
	return p.sign(b) && !p.isZero(b) && !p.isSubnormal(b) && b&p.expMask() != p.expMask()
}

// IsNatural reports whether the value is finite and integral.
func (v Val) IsNatural() bool {
	if !v.IsFloat() || v.IsSpecialFloat() {
		return false
	}
	f := v.FloatValue()
	return f == math.Trunc(f)
}

// FloatValue returns the value widened to float64; exact for every
// f16 and f32 value.
func (v Val) FloatValue() float64 {
	switch v.typ {
	case brig.TypeF16:
		return float64(f16ToF32(uint16(v.lo)))
	case brig.TypeF32:
		return float64(v.F32())
	case brig.TypeF64:
		return v.F64()
	}
	panic(invariant("FloatValue on %v", v.typ))
}

// Float constants in the value's own type.

func (v Val) PositiveZero() Val {
	v.props()
	return Val{typ: v.typ}
}

func (v Val) NegativeZero() Val {
	p, _ := v.props()
	return Val{typ: v.typ, lo: p.signMask()}
}

func (v Val) PositiveInf() Val {
	p, _ := v.props()
	return Val{typ: v.typ, lo: p.expMask()}
}

func (v Val) NegativeInf() Val {
	p, _ := v.props()
	return Val{typ: v.typ, lo: p.signMask() | p.expMask()}
}

// CopySign returns v with the sign bit of o.
func (v Val) CopySign(o Val) Val {
	p, b := v.props()
	if o.typ != v.typ {
		panic(invariant("CopySign: %v vs %v", v.typ, o.typ))
	}
	return Val{typ: v.typ, lo: b&^p.signMask() | o.lo&p.signMask()}
}

// QuietedSignalingNan returns the NaN with its quiet bit set.
func (v Val) QuietedSignalingNan() Val {
	p, b := v.props()
	return Val{typ: v.typ, lo: b | p.quietBit()}
}

// NanPayload returns the mantissa bits below the quiet bit.
func (v Val) NanPayload() uint64 {
	p, b := v.props()
	return p.mantissa(b) &^ p.quietBit()
}

// Ulp steps the value by delta positions in the magnitude ordering of
// its format (negative values order below positive ones).
func (v Val) Ulp(delta int64) Val {
	p, b := v.props()
	var ord int64
	if p.sign(b) {
		ord = -int64(b &^ p.signMask())
	} else {
		ord = int64(b)
	}
	ord += delta
	var nb uint64
	if ord < 0 {
		nb = p.signMask() | uint64(-ord)
	} else {
		nb = uint64(ord)
	}
	return Val{typ: v.typ, lo: nb & widthMask(p.width())}
}

// NormalizedFract returns the fractional part of |v| scaled by
// 2**delta. It backs the round-to-nearest tie-break: a tie has
// fraction 0.5, and scaling by 2**-1 exposes the parity of the
// integer part.
func (v Val) NormalizedFract(delta int) float64 {
	if !v.IsFloat() || v.IsSpecialFloat() {
		panic(invariant("NormalizedFract on %v", v.typ))
	}
	f := math.Abs(v.FloatValue()) * math.Ldexp(1, delta)
	return f - math.Floor(f)
}

// mapFloatBits applies f to the bits of a scalar float or to each lane
// of a packed float value; anything else passes through unchanged.
func (v Val) mapFloatBits(f func(p fprops, bits uint64) uint64) Val {
	if p, ok := floatProps(v.typ); ok {
		return Val{typ: v.typ, lo: f(p, v.lo) & widthMask(p.width())}
	}
	if v.IsPacked() {
		if p, ok := floatProps(v.typ.ElementType()); ok {
			out := v
			for i := 0; i < int(v.typ.Dim()); i++ {
				out.SetElement(i, f(p, v.GetElement(i)))
			}
			return out
		}
	}
	return v
}

// Normalize returns v with any NaN replaced by the canonical quiet
// NaN (payload cleared); the sign is also cleared unless the opcode
// preserves it. Non-NaN values pass through bit-exact. Vectors pass
// through unchanged.
func (v Val) Normalize(discardNanSign bool) Val {
	if v.Empty() || v.IsVector() {
		return v
	}
	return v.mapFloatBits(func(p fprops, b uint64) uint64 {
		if !p.isNan(b) {
			return b
		}
		nb := p.expMask() | p.quietBit()
		if !discardNanSign {
			nb |= b & p.signMask()
		}
		return nb
	})
}

// Ftz forces subnormal float values (scalar or per lane) to a
// correctly-signed zero.
func (v Val) Ftz() Val {
	if v.Empty() || v.IsVector() {
		return v
	}
	return v.mapFloatBits(func(p fprops, b uint64) uint64 {
		if p.isSubnormal(b) {
			return b & p.signMask()
		}
		return b
	})
}
