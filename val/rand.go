package val

import "math/rand"

// Randomize returns a type-valid pseudo-random value of the same type:
// random bytes, with any signaling NaN replaced by its quieted form
// and the payload renormalized so the result survives a round trip
// through hardware untouched.
func (v Val) Randomize(r *rand.Rand) Val {
	if v.Empty() || v.IsVector() {
		panic(invariant("Randomize on %v", v.typ))
	}

	out := v
	n := int(v.Size()) / 8 // 0 for b1, which keeps its value
	for i := 0; i < n; i++ {
		shift := uint(i) * 8
		b := uint64(r.Intn(256))
		if shift < 64 {
			out.lo = out.lo&^(0xff<<shift) | b<<shift
		} else {
			s := shift - 64
			out.hi = out.hi&^(0xff<<s) | b<<s
		}
	}

	out = out.mapFloatBits(func(p fprops, bits uint64) uint64 {
		if p.isNan(bits) && !p.isQuietNan(bits) {
			return bits | p.quietBit()
		}
		return bits
	})
	return out.Normalize(false)
}
