package val

import (
	"fmt"
	"strings"

	"github.com/gpuconf/hsailemu/brig"
)

func textWidth(t brig.Type) int {
	switch t {
	case brig.TypeF16:
		return 10
	case brig.TypeF32:
		return 16
	case brig.TypeF64:
		return 24
	}
	switch t.Bits() {
	case 8:
		return 4
	case 16:
		return 6
	case 32:
		return 11
	case 64:
		return 20
	}
	return 0
}

// DecString renders a scalar in decimal, right-aligned to a fixed
// per-type width.
func (v Val) DecString() string {
	if v.Empty() || v.IsVector() || v.IsPacked() || v.Size() == 128 {
		panic(invariant("DecString on %v", v.typ))
	}

	w := textWidth(v.typ)

	if v.IsSpecialFloat() {
		return fmt.Sprintf("%*s", w, v.nanString(true))
	}
	if v.IsNegativeZero() {
		return fmt.Sprintf("%*s", w, "-0")
	}

	switch v.typ {
	case brig.TypeF16:
		return fmt.Sprintf("%*.4g", w, v.F16Value())
	case brig.TypeF32:
		return fmt.Sprintf("%*.9g", w, v.F32())
	case brig.TypeF64:
		return fmt.Sprintf("%*.17g", w, v.F64())
	case brig.TypeS8:
		return fmt.Sprintf("%*d", w, int32(v.S8()))
	case brig.TypeS16:
		return fmt.Sprintf("%*d", w, v.S16())
	case brig.TypeS32:
		return fmt.Sprintf("%*d", w, v.S32())
	case brig.TypeS64:
		return fmt.Sprintf("%*d", w, v.S64())
	default:
		return fmt.Sprintf("%*d", w, v.AsU64())
	}
}

// HexString renders the raw bit pattern of a scalar.
func (v Val) HexString() string {
	if v.Empty() || v.IsVector() || v.Size() == 128 {
		panic(invariant("HexString on %v", v.typ))
	}
	digits := int(v.Size()) / 4
	if digits == 0 {
		digits = 1 // b1
	}
	return fmt.Sprintf("0x%0*x", digits, v.AsU64())
}

func hex128(lo, hi uint64) string {
	return fmt.Sprintf("0x%016x%016x", hi, lo)
}

// LuaString renders the value as a Lua literal the way the generated
// test scenarios embed expected values: integers as plain numbers,
// floats as quoted hex-float strings, f16 and special floats as quoted
// raw bit strings.
func (v Val) LuaString() string {
	if v.Empty() || v.IsVector() {
		panic(invariant("LuaString on %v", v.typ))
	}

	if v.IsSpecialFloat() {
		return v.nanString(false)
	}

	switch v.typ {
	case brig.TypeF16:
		return fmt.Sprintf("\"0H%04X\"", v.AsB16())
	case brig.TypeF32:
		return fmt.Sprintf("\"%.6X\"", v.F32())
	case brig.TypeF64:
		return fmt.Sprintf("\"%.13X\"", v.F64())
	case brig.TypeS8:
		return fmt.Sprintf("%d", int32(v.S8()))
	case brig.TypeS16:
		return fmt.Sprintf("%d", v.S16())
	case brig.TypeS32:
		return fmt.Sprintf("%d", v.S32())
	default:
		return fmt.Sprintf("%d", v.AsB32(0))
	}
}

func (v Val) nanString(forComment bool) string {
	if v.IsInf() {
		if v.IsNegative() {
			return "-INF"
		}
		if forComment {
			return "+INF"
		}
		return "INF"
	}
	if forComment {
		sign := "+"
		if v.IsNegative() {
			sign = "-"
		}
		kind := "q"
		if v.IsSignalingNan() {
			kind = "s"
		}
		return fmt.Sprintf("%s%sNAN(%d)", sign, kind, v.NanPayload())
	}
	switch v.typ {
	case brig.TypeF16:
		return fmt.Sprintf("\"0H%04X\"", v.AsB16())
	case brig.TypeF32:
		return fmt.Sprintf("\"0H%08X\"", v.AsB32(0))
	default:
		return fmt.Sprintf("\"0H%016X\"", v.AsB64(0))
	}
}

// String renders the value for diagnostics: vectors as element lists,
// packed values lane by lane, scalars as decimal plus hex.
func (v Val) String() string {
	switch {
	case v.IsUndef():
		return "undef"
	case v.IsUnimplemented():
		return "unimplemented"
	case v.Empty():
		return "empty"
	case v.IsVector() && v.VecType() == brig.TypeB128:
		parts := make([]string, v.Dim())
		for i := range parts {
			lo, hi := v.At(i).B128()
			parts[i] = hex128(lo, hi)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case v.IsVector():
		dec := make([]string, v.Dim())
		hex := make([]string, v.Dim())
		for i := range dec {
			dec[i] = strings.TrimSpace(v.At(i).DecString())
			hex[i] = v.At(i).HexString()
		}
		return "(" + strings.Join(dec, ", ") + ") [" + strings.Join(hex, ", ") + "]"
	case v.typ == brig.TypeB128:
		return hex128(v.lo, v.hi)
	case v.IsPacked():
		return v.packedString()
	default:
		return strings.TrimSpace(v.DecString()) + " [" + v.HexString() + "]"
	}
}

func (v Val) packedString() string {
	elem := v.typ.ElementType()
	dim := int(v.typ.Dim())

	var kind string
	switch v.typ.Kind() {
	case brig.KindSigned:
		kind = "_s"
	case brig.KindUnsigned:
		kind = "_u"
	default:
		kind = "_f"
	}

	dec := make([]string, dim)
	hex := make([]string, dim)
	for i := 0; i < dim; i++ {
		lane := FromBits(elem, v.GetElement(dim-i-1)) // high lane first
		dec[i] = strings.TrimSpace(lane.DecString())
		hex[i] = lane.HexString()
	}

	return fmt.Sprintf("%s%dx%d(%s) [%s]",
		kind, elem.Bits(), dim, strings.Join(dec, ", "), strings.Join(hex, ", "))
}
