package val

import (
	"math"
	"testing"

	"github.com/gpuconf/hsailemu/brig"
)

func TestFromBits_MasksToTypeWidth(t *testing.T) {
	tests := []struct {
		name string
		typ  brig.Type
		in   uint64
		want uint64
	}{
		{"u8 keeps low byte", brig.TypeU8, 0x1234, 0x34},
		{"s16 keeps low half", brig.TypeS16, 0xABCD1234, 0x1234},
		{"b1 keeps one bit", brig.TypeB1, 0xFF, 0x1},
		{"u64 keeps all", brig.TypeU64, 0xDEADBEEFCAFEBABE, 0xDEADBEEFCAFEBABE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromBits(tt.typ, tt.in)
			if got := v.AsU64(); got != tt.want {
				t.Errorf("FromBits(%v, %#x).AsU64() = %#x, want %#x", tt.typ, tt.in, got, tt.want)
			}
			if v.Type() != tt.typ {
				t.Errorf("type = %v, want %v", v.Type(), tt.typ)
			}
		})
	}
}

func TestAsS64_Extension(t *testing.T) {
	tests := []struct {
		name string
		v    Val
		want int64
	}{
		{"s8 negative sign-extends", S8(-1), -1},
		{"s16 negative sign-extends", S16(-32768), -32768},
		{"s32 positive stays", S32(7), 7},
		{"u8 zero-extends", U8(0xFF), 255},
		{"u32 zero-extends", U32(0xFFFFFFFF), 4294967295},
		{"b32 zero-extends", B32(0x80000000), 0x80000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsS64(); got != tt.want {
				t.Errorf("AsS64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPackedElements(t *testing.T) {
	v := FromBits(brig.TypeU8X4, 0x44332211)

	for i, want := range []uint64{0x11, 0x22, 0x33, 0x44} {
		if got := v.GetElement(i); got != want {
			t.Errorf("GetElement(%d) = %#x, want %#x", i, got, want)
		}
	}

	v.SetElement(2, 0xABC) // only the low byte lands in the lane
	if got := v.AsU64(); got != 0x44BC2211 {
		t.Errorf("after SetElement(2, 0xABC): bits = %#x, want 0x44BC2211", got)
	}
}

func TestPackedElements_128Bit(t *testing.T) {
	v := FromBits128(brig.TypeU64X2, 0x1111111111111111, 0x2222222222222222)

	if got := v.GetElement(0); got != 0x1111111111111111 {
		t.Errorf("GetElement(0) = %#x", got)
	}
	if got := v.GetElement(1); got != 0x2222222222222222 {
		t.Errorf("GetElement(1) = %#x", got)
	}

	v.SetElement(1, 0xFF)
	lo, hi := v.B128()
	if lo != 0x1111111111111111 || hi != 0xFF {
		t.Errorf("after SetElement(1): lo=%#x hi=%#x", lo, hi)
	}
}

func TestVec(t *testing.T) {
	v := Vec(B32(1), B32(2), B32(3))

	if !v.IsVector() {
		t.Fatal("IsVector() = false")
	}
	if v.Dim() != 3 {
		t.Fatalf("Dim() = %d, want 3", v.Dim())
	}
	if v.VecType() != brig.TypeB32 {
		t.Errorf("VecType() = %v, want b32", v.VecType())
	}
	for i, want := range []uint32{1, 2, 3} {
		if got := v.At(i).B32(); got != want {
			t.Errorf("At(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestEq(t *testing.T) {
	nan32 := F32(float32(math.NaN()))
	otherNan32 := FromBits(brig.TypeF32, 0x7F800001) // signaling payload

	tests := []struct {
		name string
		a, b Val
		want bool
	}{
		{"same bits equal", U32(42), U32(42), true},
		{"different bits unequal", U32(42), U32(43), false},
		{"same value different type unequal", U32(1), S32(1), false},
		{"any NaN equals any NaN", nan32, otherNan32, true},
		{"NaN unequal to number", nan32, F32(1), false},
		{"positive and negative zero distinct", F32(0), F32(float32(math.Copysign(0, -1))), false},
		{"vectors compare per element", Vec(B32(1), B32(2)), Vec(B32(1), B32(2)), true},
		{"vector dim mismatch", Vec(B32(1), B32(2)), Vec(B32(1), B32(2), B32(3)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Eq(tt.b); got != tt.want {
				t.Errorf("Eq = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	if !Undef().IsUndef() || !Undef().Empty() {
		t.Error("Undef() must be an empty undef sentinel")
	}
	if !Unimplemented().IsUnimplemented() || !Unimplemented().Empty() {
		t.Error("Unimplemented() must be an empty unimplemented sentinel")
	}
	if Undef().IsUnimplemented() || Unimplemented().IsUndef() {
		t.Error("sentinels must stay distinguishable")
	}
	if (Val{}).IsUndef() || (Val{}).IsUnimplemented() {
		t.Error("plain empty value is neither sentinel")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    Val
		want string
	}{
		{"undef", Undef(), "undef"},
		{"unimplemented", Unimplemented(), "unimplemented"},
		{"empty", Val{}, "empty"},
		{"u32", U32(5), "5 [0x00000005]"},
		{"s8", S8(-1), "-1 [0xff]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHexString(t *testing.T) {
	if got := U8(0xAB).HexString(); got != "0xab" {
		t.Errorf("u8 = %q", got)
	}
	if got := B1(true).HexString(); got != "0x1" {
		t.Errorf("b1 = %q", got)
	}
	if got := U64(0xDEAD).HexString(); got != "0x000000000000dead" {
		t.Errorf("u64 = %q", got)
	}
}
