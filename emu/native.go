package emu

import (
	"math"

	"github.com/gpuconf/hsailemu/val"
)

// Native sin and cos. The ISA sets no precision requirement for these, so
// the emulation mirrors the behavior of the actual hardware implementation:
// precision is only guaranteed for arguments within [-pi, pi], and arguments
// or results close enough to zero to produce denormals at the hardware
// function unit are left undefined.

// nativeTrigUlps is the tolerated deviation of native sin/cos results.
const nativeTrigUlps = 8192 + 1

var (
	fltMinPosNorm = math.Float32frombits(0x00800000)
	fltMaxNegNorm = math.Float32frombits(0x80800000)
)

func isDenormF32(x float32) bool {
	return fltMaxNegNorm < x && x < fltMinPosNorm && x != 0
}

func trigArgNearZero(x float32) bool {
	lo := fltMaxNegNorm * 2 * float32(math.Pi)
	hi := fltMinPosNorm * 2 * float32(math.Pi)
	return lo < x && x < hi && x != 0
}

func trigArgOutOfRange(x float32) bool {
	return float64(x) < -math.Pi || math.Pi < float64(x)
}

// cosNearZero compensates the error of cos() around odd multiples of pi/2,
// where the library result can be hundreds of thousands of ULPs away from
// the exact zero the hardware returns. The correction is linear over each
// [N*pi, (N+1)*pi] range: zero at the ends, full at the midpoint.
func cosNearZero(x float32) float32 {
	pi := float32(math.Pi)
	halfPi := float32(0.5 * math.Pi)

	// find integer N for which N*pi < x <= (N+1)*pi
	var off float32
	if x < 0 {
		off = -pi
	}
	n := int32((x + off) / pi)

	middle := float32(n)*pi + halfPi
	errN := float32(0 - math.Cos(float64(middle)))

	dist := middle - x
	if x >= middle {
		dist = x - middle
	}
	comp := errN * (1 - dist/halfPi)

	return float32(math.Cos(float64(x)) + float64(comp))
}

// sinNearZero is the analog of cosNearZero for multiples of pi.
func sinNearZero(x float32) float32 {
	pi := float32(math.Pi)
	halfPi := float32(0.5 * math.Pi)

	// find integer N for which (N-0.5)*pi < x <= (N+0.5)*pi
	off := halfPi
	if x < 0 {
		off = -halfPi
	}
	n := int32((x + off) / pi)

	middle := float32(n) * pi
	errN := float32(0 - math.Sin(float64(middle)))

	dist := middle - x
	if x >= middle {
		dist = x - middle
	}
	comp := errN * (1 - dist/halfPi)

	return float32(math.Sin(float64(x)) + float64(comp))
}

func nsinF32(x float32) val.Val {
	if x != x {
		return val.F32(x)
	}
	if trigArgOutOfRange(x) || trigArgNearZero(x) {
		return val.Undef()
	}
	res := sinNearZero(x)
	if isDenormF32(res) {
		return val.Undef()
	}
	return val.F32(res)
}

func ncosF32(x float32) val.Val {
	if x != x {
		return val.F32(x)
	}
	if trigArgOutOfRange(x) || trigArgNearZero(x) {
		return val.Undef()
	}
	res := cosNearZero(x)
	if isDenormF32(res) {
		return val.Undef()
	}
	return val.F32(res)
}

var (
	nsinFns = unValFns{name: "nsin", f16: true, f32: nsinF32}
	ncosFns = unValFns{name: "ncos", f16: true, f32: ncosF32}
)
