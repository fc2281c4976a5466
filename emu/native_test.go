package emu

import (
	"math"
	"testing"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/val"
)

func TestNativeTrigDomain(t *testing.T) {
	nsin := modInst(brig.OpNSin, brig.TypeF32)
	ncos := modInst(brig.OpNCos, brig.TypeF32)

	// Precision is only guaranteed inside [-pi, pi].
	if got := run1(nsin, val.F32(4)); !got.IsUndef() {
		t.Errorf("nsin(4) = %v, want undef", got)
	}
	if got := run1(ncos, val.F32(-4)); !got.IsUndef() {
		t.Errorf("ncos(-4) = %v, want undef", got)
	}

	// Arguments close enough to zero hit the denormal band of the
	// hardware unit.
	tiny := val.FromBits(brig.TypeF32, 0x00000001)
	if got := run1(nsin, tiny); !got.IsUndef() {
		t.Errorf("nsin(denorm) = %v, want undef", got)
	}

	// Zero itself is exact.
	checkVal(t, "nsin(0)", run1(nsin, val.F32(0)), val.F32(0))
	checkVal(t, "ncos(0)", run1(ncos, val.F32(0)), val.F32(1))
}

func TestNativeTrigValues(t *testing.T) {
	nsin := modInst(brig.OpNSin, brig.TypeF32)
	ncos := modInst(brig.OpNCos, brig.TypeF32)

	got := run1(nsin, val.F32(float32(math.Pi/2)))
	if got.Empty() || math.Abs(float64(got.F32())-1) > 1e-6 {
		t.Errorf("nsin(pi/2) = %v, want ~1", got)
	}
	got = run1(ncos, val.F32(1))
	if got.Empty() || math.Abs(float64(got.F32())-math.Cos(1)) > 1e-6 {
		t.Errorf("ncos(1) = %v, want ~cos(1)", got)
	}
	got = run1(nsin, val.F32(-1))
	if got.Empty() || math.Abs(float64(got.F32())-math.Sin(-1)) > 1e-6 {
		t.Errorf("nsin(-1) = %v, want ~sin(-1)", got)
	}
}

func TestNativeTrigCompensation(t *testing.T) {
	// Near the representable value closest to pi the library cos is far
	// from the zero the hardware returns; the compensated result must
	// stay tiny.
	ncos := modInst(brig.OpNCos, brig.TypeF32)
	nearHalfPi := float32(math.Pi / 2)
	got := run1(ncos, val.F32(nearHalfPi))
	if got.IsUndef() {
		return // the compensated result landed in the denormal band
	}
	if math.Abs(float64(got.F32())) > 1e-6 {
		t.Errorf("ncos(pi/2) = %v, want ~0", got)
	}
}

func TestNativeFloatOps(t *testing.T) {
	checkVal(t, "nsqrt(4)", run1(modInst(brig.OpNSqrt, brig.TypeF32), val.F32(4)), val.F32(2))
	checkVal(t, "nrcp(4)", run1(modInst(brig.OpNRcp, brig.TypeF32), val.F32(4)), val.F32(0.25))
	checkVal(t, "nrsqrt(4)", run1(modInst(brig.OpNRsqrt, brig.TypeF64), val.F64(4)), val.F64(0.5))
	got := run1(modInst(brig.OpNExp2, brig.TypeF64), val.F64(3))
	if got.Empty() || math.Abs(got.F64()-8) > 1e-12 {
		t.Errorf("nexp2(3) = %v, want ~8", got)
	}
	got = run1(modInst(brig.OpNLog2, brig.TypeF64), val.F64(8))
	if got.Empty() || math.Abs(got.F64()-3) > 1e-12 {
		t.Errorf("nlog2(8) = %v, want ~3", got)
	}

	// f16 native ops are not modeled.
	got = run1(modInst(brig.OpNSqrt, brig.TypeF16), val.FromBits(brig.TypeF16, 0x4400))
	if !got.IsUnimplemented() {
		t.Errorf("nsqrt_f16 = %v, want unimplemented", got)
	}
}
