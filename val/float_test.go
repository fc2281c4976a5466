package val

import (
	"math"
	"testing"

	"github.com/gpuconf/hsailemu/brig"
)

func TestFloatPredicates(t *testing.T) {
	qnan32 := FromBits(brig.TypeF32, 0x7FC00001)
	snan32 := FromBits(brig.TypeF32, 0x7F800001)
	tests := []struct {
		name string
		v    Val
		nan  bool
		qnan bool
		snan bool
		inf  bool
		zero bool
		sub  bool
		neg  bool
	}{
		{"qnan f32", qnan32, true, true, false, false, false, false, false},
		{"snan f32", snan32, true, false, true, false, false, false, false},
		{"+inf f32", F32(float32(math.Inf(1))), false, false, false, true, false, false, false},
		{"-inf f64", F64(math.Inf(-1)), false, false, false, true, false, false, true},
		{"+0 f32", F32(0), false, false, false, false, true, false, false},
		{"-0 f32", FromBits(brig.TypeF32, 0x80000000), false, false, false, false, true, false, true},
		{"+sub f32", FromBits(brig.TypeF32, 0x00000001), false, false, false, false, false, true, false},
		{"-sub f64", FromBits(brig.TypeF64, 0x8000000000000001), false, false, false, false, false, true, true},
		{"one f32", F32(1), false, false, false, false, false, false, false},
		{"qnan f16", FromBits(brig.TypeF16, 0x7E00), true, true, false, false, false, false, false},
		{"snan f16", FromBits(brig.TypeF16, 0x7C01), true, false, true, false, false, false, false},
		{"int is not float", U32(0x7FC00001), false, false, false, false, false, false, false},
	}
	for _, tc := range tests {
		if got := tc.v.IsNan(); got != tc.nan {
			t.Errorf("%s: IsNan = %v, want %v", tc.name, got, tc.nan)
		}
		if got := tc.v.IsQuietNan(); got != tc.qnan {
			t.Errorf("%s: IsQuietNan = %v, want %v", tc.name, got, tc.qnan)
		}
		if got := tc.v.IsSignalingNan(); got != tc.snan {
			t.Errorf("%s: IsSignalingNan = %v, want %v", tc.name, got, tc.snan)
		}
		if got := tc.v.IsInf(); got != tc.inf {
			t.Errorf("%s: IsInf = %v, want %v", tc.name, got, tc.inf)
		}
		if got := tc.v.IsZero(); got != tc.zero {
			t.Errorf("%s: IsZero = %v, want %v", tc.name, got, tc.zero)
		}
		if got := tc.v.IsSubnormal(); got != tc.sub {
			t.Errorf("%s: IsSubnormal = %v, want %v", tc.name, got, tc.sub)
		}
		if got := tc.v.IsNegative(); got != tc.neg {
			t.Errorf("%s: IsNegative = %v, want %v", tc.name, got, tc.neg)
		}
	}
}

func TestSignedVariants(t *testing.T) {
	if !F32(float32(math.Inf(1))).IsPositiveInf() {
		t.Error("+inf: IsPositiveInf = false")
	}
	if !F32(float32(math.Inf(-1))).IsNegativeInf() {
		t.Error("-inf: IsNegativeInf = false")
	}
	if !F64(0).IsPositiveZero() {
		t.Error("+0: IsPositiveZero = false")
	}
	if !FromBits(brig.TypeF64, 1<<63).IsNegativeZero() {
		t.Error("-0: IsNegativeZero = false")
	}
	if !FromBits(brig.TypeF32, 1).IsPositiveSubnormal() {
		t.Error("smallest subnormal: IsPositiveSubnormal = false")
	}
	if !F32(1.5).IsRegularPositive() {
		t.Error("1.5: IsRegularPositive = false")
	}
	if !F32(-1.5).IsRegularNegative() {
		t.Error("-1.5: IsRegularNegative = false")
	}
	if F32(float32(math.NaN())).IsRegularPositive() {
		t.Error("NaN: IsRegularPositive = true")
	}
}

func TestFloatConstants(t *testing.T) {
	v := F32(123)
	if got := v.PositiveZero().AsU64(); got != 0 {
		t.Errorf("PositiveZero bits = %#x", got)
	}
	if got := v.NegativeZero().AsU64(); got != 0x80000000 {
		t.Errorf("NegativeZero bits = %#x", got)
	}
	if got := v.PositiveInf().AsU64(); got != 0x7F800000 {
		t.Errorf("PositiveInf bits = %#x", got)
	}
	if got := v.NegativeInf().AsU64(); got != 0xFF800000 {
		t.Errorf("NegativeInf bits = %#x", got)
	}
}

func TestUlp(t *testing.T) {
	tests := []struct {
		name  string
		v     Val
		delta int64
		want  uint64
	}{
		{"f32 one up", F32(1), 1, 0x3F800001},
		{"f32 one down", F32(1), -1, 0x3F7FFFFF},
		{"f32 +0 down crosses to -min", F32(0), -1, 0x80000001},
		{"f32 -0 is ordinal zero", FromBits(brig.TypeF32, 0x80000000), 1, 0x00000001},
		{"f64 one up", F64(1), 1, 0x3FF0000000000001},
		{"f16 one up", FromBits(brig.TypeF16, 0x3C00), 1, 0x3C01},
	}
	for _, tc := range tests {
		if got := tc.v.Ulp(tc.delta).AsU64(); got != tc.want {
			t.Errorf("%s: Ulp(%d) = %#x, want %#x", tc.name, tc.delta, got, tc.want)
		}
	}
}

func TestNormalizedFract(t *testing.T) {
	// 2.5 scaled by 2**-1 is 1.25: fraction 0.25 exposes the odd
	// integer part used by the half-even tie break.
	if got := F64(2.5).NormalizedFract(-1); got != 0.25 {
		t.Errorf("NormalizedFract(2.5, -1) = %v, want 0.25", got)
	}
	if got := F64(3.5).NormalizedFract(-1); got != 0.75 {
		t.Errorf("NormalizedFract(3.5, -1) = %v, want 0.75", got)
	}
	if got := F32(-0.5).NormalizedFract(0); got != 0.5 {
		t.Errorf("NormalizedFract(-0.5, 0) = %v, want 0.5", got)
	}
}

func TestCopySign(t *testing.T) {
	v := F32(1.5).CopySign(F32(-2))
	if got := v.F32(); got != -1.5 {
		t.Errorf("CopySign(1.5, -2) = %v, want -1.5", got)
	}
	v = F64(-3).CopySign(F64(0))
	if got := v.F64(); got != 3 {
		t.Errorf("CopySign(-3, +0) = %v, want 3", got)
	}
}

func TestQuietedSignalingNan(t *testing.T) {
	s := FromBits(brig.TypeF32, 0x7F800001)
	q := s.QuietedSignalingNan()
	if !q.IsQuietNan() {
		t.Fatal("quieted NaN is not quiet")
	}
	if got := q.AsU64(); got != 0x7FC00001 {
		t.Errorf("quieted bits = %#x, want 0x7FC00001", got)
	}
	if got := q.NanPayload(); got != 1 {
		t.Errorf("NanPayload = %d, want 1", got)
	}
}

func TestNormalize(t *testing.T) {
	negQnan := FromBits(brig.TypeF32, 0xFFC01234)
	tests := []struct {
		name    string
		v       Val
		discard bool
		want    uint64
	}{
		{"payload cleared, sign discarded", negQnan, true, 0x7FC00000},
		{"payload cleared, sign kept", negQnan, false, 0xFFC00000},
		{"snan quieted", FromBits(brig.TypeF32, 0x7F800001), true, 0x7FC00000},
		{"non-nan untouched", F32(1.5), true, 0x3FC00000},
		{"f64 nan", FromBits(brig.TypeF64, 0xFFF8000000000001), true, 0x7FF8000000000000},
	}
	for _, tc := range tests {
		if got := tc.v.Normalize(tc.discard).AsU64(); got != tc.want {
			t.Errorf("%s: Normalize = %#x, want %#x", tc.name, got, tc.want)
		}
	}

	// Packed lanes normalize independently.
	var p Val = FromBits(brig.TypeF32X2, 0)
	p.SetElement(0, 0x7F800001) // sNaN
	p.SetElement(1, uint64(f32bits(1.0)))
	p = p.Normalize(true)
	if got := p.GetElement(0); got != 0x7FC00000 {
		t.Errorf("lane 0 = %#x, want canonical quiet NaN", got)
	}
	if got := p.GetElement(1); got != uint64(f32bits(1.0)) {
		t.Errorf("lane 1 = %#x, changed by Normalize", got)
	}
}

func TestFtz(t *testing.T) {
	tests := []struct {
		name string
		v    Val
		want uint64
	}{
		{"+sub flushes to +0", FromBits(brig.TypeF32, 0x00000001), 0},
		{"-sub flushes to -0", FromBits(brig.TypeF32, 0x807FFFFF), 0x80000000},
		{"normal untouched", F32(1), 0x3F800000},
		{"f64 sub flushes", FromBits(brig.TypeF64, 0x000FFFFFFFFFFFFF), 0},
		{"f16 sub flushes", FromBits(brig.TypeF16, 0x83FF), 0x8000},
	}
	for _, tc := range tests {
		if got := tc.v.Ftz().AsU64(); got != tc.want {
			t.Errorf("%s: Ftz = %#x, want %#x", tc.name, got, tc.want)
		}
	}

	var p Val = FromBits(brig.TypeF32X2, 0)
	p.SetElement(0, 0x00000001)
	p.SetElement(1, uint64(f32bits(2.0)))
	p = p.Ftz()
	if got := p.GetElement(0); got != 0 {
		t.Errorf("packed lane 0 = %#x, want flushed zero", got)
	}
	if got := p.GetElement(1); got != uint64(f32bits(2.0)) {
		t.Errorf("packed lane 1 = %#x, changed by Ftz", got)
	}
}

func TestIsNatural(t *testing.T) {
	tests := []struct {
		v    Val
		want bool
	}{
		{F32(3), true},
		{F32(3.5), false},
		{F64(-8), true},
		{F32(float32(math.Inf(1))), false},
		{F32(float32(math.NaN())), false},
	}
	for _, tc := range tests {
		if got := tc.v.IsNatural(); got != tc.want {
			t.Errorf("IsNatural(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
