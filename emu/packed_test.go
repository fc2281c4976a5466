package emu

import (
	"testing"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/val"
)

func packedVal(t brig.Type, lanes ...uint64) val.Val {
	v := zeroOf(t)
	for i, x := range lanes {
		v.SetElement(i, x)
	}
	return v
}

func packedInst(op brig.Opcode, t brig.Type, p brig.Packing) brig.Inst {
	return brig.Inst{Format: brig.FormatMod, Opcode: op, Type: t, Packing: p}
}

func TestPackedAddLaneWiring(t *testing.T) {
	a := packedVal(brig.TypeU8X4, 1, 2, 3, 4)
	b := packedVal(brig.TypeU8X4, 10, 20, 30, 40)

	got := run2(packedInst(brig.OpAdd, brig.TypeU8X4, brig.PackPP), a, b)
	checkVal(t, "add_pp_u8x4", got, packedVal(brig.TypeU8X4, 11, 22, 33, 44))

	// 'ps' broadcasts the second source's lowest lane.
	got = run2(packedInst(brig.OpAdd, brig.TypeU8X4, brig.PackPS), a, b)
	checkVal(t, "add_ps_u8x4", got, packedVal(brig.TypeU8X4, 11, 12, 13, 14))

	got = run2(packedInst(brig.OpAdd, brig.TypeU8X4, brig.PackSP), a, b)
	checkVal(t, "add_sp_u8x4", got, packedVal(brig.TypeU8X4, 11, 21, 31, 41))

	// 'ss' writes only the lowest destination lane.
	got = run2(packedInst(brig.OpAdd, brig.TypeU8X4, brig.PackSS), a, b)
	checkVal(t, "add_ss_u8x4", got, packedVal(brig.TypeU8X4, 11, 0, 0, 0))
}

func TestPackedLanesWrapIndependently(t *testing.T) {
	a := packedVal(brig.TypeU8X4, 0xFF, 1, 0xFF, 1)
	b := packedVal(brig.TypeU8X4, 1, 1, 1, 1)
	got := run2(packedInst(brig.OpAdd, brig.TypeU8X4, brig.PackPP), a, b)
	checkVal(t, "add_pp_u8x4 wrap", got, packedVal(brig.TypeU8X4, 0, 2, 0, 2))
}

func TestPackedSignedLanes(t *testing.T) {
	// Signed subword lanes sign-extend before the base-type op.
	a := packedVal(brig.TypeS8X4, 0xFF, 0x80, 1, 0) // -1, -128, 1, 0
	b := packedVal(brig.TypeS8X4, 1, 0, 0xFF, 0)    // 1, 0, -1, 0
	got := run2(packedInst(brig.OpMax, brig.TypeS8X4, brig.PackPP), a, b)
	checkVal(t, "max_pp_s8x4", got, packedVal(brig.TypeS8X4, 1, 0, 1, 0))
}

func TestPackedSaturation(t *testing.T) {
	a := packedVal(brig.TypeS8X4, 0x7F, 0x80, 10, 0xF0)
	b := packedVal(brig.TypeS8X4, 1, 0xFF, 10, 0xF0)
	got := run2(packedInst(brig.OpAdd, brig.TypeS8X4, brig.PackPPSat), a, b)
	// 127+1 and -128+-1 clamp, 10+10 and -16+-16 fit.
	checkVal(t, "add_pp_sat_s8x4", got, packedVal(brig.TypeS8X4, 0x7F, 0x80, 20, 0xE0))

	ua := packedVal(brig.TypeU16X2, 0xFFFF, 3)
	ub := packedVal(brig.TypeU16X2, 1, 5)
	got = run2(packedInst(brig.OpSub, brig.TypeU16X2, brig.PackPPSat), ub, ua)
	checkVal(t, "sub_pp_sat_u16x2", got, packedVal(brig.TypeU16X2, 0, 2))
}

func TestPackedShiftMasksToLaneWidth(t *testing.T) {
	a := packedVal(brig.TypeU16X2, 1, 0x8000)
	inst := packedInst(brig.OpShl, brig.TypeU16X2, brig.PackNone)
	got := run2(inst, a, val.U32(17)) // masked to 1
	checkVal(t, "shl_u16x2 by 17", got, packedVal(brig.TypeU16X2, 2, 0))

	inst = packedInst(brig.OpShr, brig.TypeS16X2, brig.PackNone)
	sa := packedVal(brig.TypeS16X2, 0x8000, 8) // -32768, 8
	got = run2(inst, sa, val.U32(1))
	checkVal(t, "shr_s16x2 by 1", got, packedVal(brig.TypeS16X2, 0xC000, 4))
}

func TestPackedMulHi(t *testing.T) {
	a := packedVal(brig.TypeU8X4, 0x80, 0x10, 2, 0xFF)
	b := packedVal(brig.TypeU8X4, 2, 0x10, 3, 0xFF)
	got := run2(packedInst(brig.OpMulHi, brig.TypeU8X4, brig.PackPP), a, b)
	// High byte of 0x100, 0x100, 6, 0xFE01.
	checkVal(t, "mulhi_pp_u8x4", got, packedVal(brig.TypeU8X4, 1, 1, 0, 0xFE))

	wa := packedVal(brig.TypeU32X2, 1<<31, 3)
	wb := packedVal(brig.TypeU32X2, 4, 5)
	got = run2(packedInst(brig.OpMulHi, brig.TypeU32X2, brig.PackPP), wa, wb)
	checkVal(t, "mulhi_pp_u32x2", got, packedVal(brig.TypeU32X2, 2, 0))
}

func TestPackedCmp(t *testing.T) {
	inst := brig.Inst{
		Format:     brig.FormatCmp,
		Opcode:     brig.OpCmp,
		Type:       brig.TypeS16X2,
		SourceType: brig.TypeS16X2,
		Compare:    brig.CmpLT,
		Packing:    brig.PackPP,
	}
	a := packedVal(brig.TypeS16X2, 1, 5)
	b := packedVal(brig.TypeS16X2, 2, 3)
	got := run2(inst, a, b)
	checkVal(t, "cmp_lt_pp_s16x2", got, packedVal(brig.TypeS16X2, 0xFFFF, 0))
}

func TestShuffle(t *testing.T) {
	a := packedVal(brig.TypeU8X4, 0x11, 0x22, 0x33, 0x44)
	b := packedVal(brig.TypeU8X4, 0x55, 0x66, 0x77, 0x88)
	inst := brig.Inst{Format: brig.FormatBasic, Opcode: brig.OpShuffle, Type: brig.TypeU8X4}

	// Identity control: lane i picks index i; the low half reads the
	// first source, the high half the second.
	got := EmulateDstVal(inst, none, a, b, val.B32(0xE4), none)
	checkVal(t, "shuffle identity", got, packedVal(brig.TypeU8X4, 0x11, 0x22, 0x77, 0x88))

	// Reversed control 0b00011011 picks 3, 2, 1, 0.
	got = EmulateDstVal(inst, none, a, b, val.B32(0x1B), none)
	checkVal(t, "shuffle reverse", got, packedVal(brig.TypeU8X4, 0x44, 0x33, 0x66, 0x55))
}

func TestUnpackHalves(t *testing.T) {
	a := packedVal(brig.TypeU8X4, 0x11, 0x22, 0x33, 0x44)
	b := packedVal(brig.TypeU8X4, 0x55, 0x66, 0x77, 0x88)

	lo := brig.Inst{Format: brig.FormatBasic, Opcode: brig.OpUnpackLo, Type: brig.TypeU8X4}
	got := run2(lo, a, b)
	checkVal(t, "unpacklo_u8x4", got, packedVal(brig.TypeU8X4, 0x11, 0x55, 0x22, 0x66))

	hi := brig.Inst{Format: brig.FormatBasic, Opcode: brig.OpUnpackHi, Type: brig.TypeU8X4}
	got = run2(hi, a, b)
	checkVal(t, "unpackhi_u8x4", got, packedVal(brig.TypeU8X4, 0x33, 0x77, 0x44, 0x88))
}

func TestPackUnpack(t *testing.T) {
	pack := brig.Inst{
		Format:     brig.FormatSourceType,
		Opcode:     brig.OpPack,
		Type:       brig.TypeU8X4,
		SourceType: brig.TypeU32,
	}
	a := packedVal(brig.TypeU8X4, 0x11, 0x22, 0x33, 0x44)
	got := EmulateDstVal(pack, none, a, val.U32(0xAA), val.U32(2), none)
	checkVal(t, "pack replaces lane 2", got, packedVal(brig.TypeU8X4, 0x11, 0x22, 0xAA, 0x44))

	unpack := brig.Inst{
		Format:     brig.FormatSourceType,
		Opcode:     brig.OpUnpack,
		Type:       brig.TypeU32,
		SourceType: brig.TypeS8X4,
	}
	sa := packedVal(brig.TypeS8X4, 0x11, 0x22, 0x33, 0x80)
	got = run2(unpack, sa, val.U32(3))
	checkVal(t, "unpack sign-extends", got, val.U32(0xFFFFFF80))
	got = run2(unpack, sa, val.U32(1))
	checkVal(t, "unpack positive lane", got, val.U32(0x22))
}

func TestCmovPacked(t *testing.T) {
	inst := packedInst(brig.OpCmov, brig.TypeU8X4, brig.PackNone)
	ctl := packedVal(brig.TypeU8X4, 0xFF, 0, 1, 0)
	a := packedVal(brig.TypeU8X4, 0x11, 0x22, 0x33, 0x44)
	b := packedVal(brig.TypeU8X4, 0x55, 0x66, 0x77, 0x88)
	got := EmulateDstVal(inst, none, ctl, a, b, none)
	checkVal(t, "cmov_u8x4", got, packedVal(brig.TypeU8X4, 0x11, 0x66, 0x33, 0x88))
}

func TestLerp(t *testing.T) {
	inst := brig.Inst{Format: brig.FormatBasic, Opcode: brig.OpLerp, Type: brig.TypeU8X4}
	a := packedVal(brig.TypeU8X4, 10, 21, 0xFF, 0)
	b := packedVal(brig.TypeU8X4, 20, 30, 0xFF, 0)
	c := packedVal(brig.TypeU8X4, 0, 1, 1, 0)
	got := EmulateDstVal(inst, none, a, b, c, none)
	// (a+b+(c&1))/2 per lane: 15, 26, 255, 0.
	checkVal(t, "lerp_u8x4", got, packedVal(brig.TypeU8X4, 15, 26, 255, 0))
}

func TestPackCvt(t *testing.T) {
	inst := brig.Inst{
		Format:     brig.FormatSourceType,
		Opcode:     brig.OpPackCvt,
		Type:       brig.TypeU8X4,
		SourceType: brig.TypeF32,
	}
	got := EmulateDstVal(inst, none, val.F32(1), val.F32(300), val.F32(-5), val.F32(2.5))
	// 300 saturates to 255, -5 to 0, 2.5 rounds to even 2.
	checkVal(t, "packcvt_u8x4_f32", got, packedVal(brig.TypeU8X4, 1, 255, 0, 2))
}

func TestUnpackCvt(t *testing.T) {
	inst := brig.Inst{
		Format:     brig.FormatSourceType,
		Opcode:     brig.OpUnpackCvt,
		Type:       brig.TypeF32,
		SourceType: brig.TypeU8X4,
	}
	a := packedVal(brig.TypeU8X4, 0, 100, 255, 7)
	checkVal(t, "unpackcvt lane 1", run2(inst, a, val.U32(1)), val.F32(100))
	checkVal(t, "unpackcvt lane 2", run2(inst, a, val.U32(2)), val.F32(255))
}

func TestSad(t *testing.T) {
	sad := brig.Inst{
		Format:     brig.FormatSourceType,
		Opcode:     brig.OpSad,
		Type:       brig.TypeU32,
		SourceType: brig.TypeU8X4,
	}
	a := packedVal(brig.TypeU8X4, 10, 0, 200, 50)
	b := packedVal(brig.TypeU8X4, 5, 10, 100, 50)
	got := EmulateDstVal(sad, none, a, b, val.U32(1000), none)
	checkVal(t, "sad_u32_u8x4", got, val.U32(1000+5+10+100))

	sad.SourceType = brig.TypeU32
	got = EmulateDstVal(sad, none, val.U32(7), val.U32(10), val.U32(0), none)
	checkVal(t, "sad_u32_u32", got, val.U32(3))
}

func TestSadHi(t *testing.T) {
	inst := brig.Inst{
		Format:     brig.FormatSourceType,
		Opcode:     brig.OpSadHi,
		Type:       brig.TypeU16X2,
		SourceType: brig.TypeU8X4,
	}
	a := packedVal(brig.TypeU8X4, 10, 0, 0, 0)
	b := packedVal(brig.TypeU8X4, 4, 0, 0, 0)
	acc := packedVal(brig.TypeU16X2, 0x1234, 100)
	got := EmulateDstVal(inst, none, a, b, acc, none)
	checkVal(t, "sadhi_u16x2_u8x4", got, packedVal(brig.TypeU16X2, 0x1234, 106))
}

func TestPackedUnarySentinelPropagates(t *testing.T) {
	// f16 lanes are not modeled; the per-lane dispatch must surface the
	// sentinel rather than a half-built result.
	inst := packedInst(brig.OpAdd, brig.TypeF16X2, brig.PackPP)
	a := packedVal(brig.TypeF16X2, 0x3C00, 0x3C00)
	got := run2(inst, a, a)
	if !got.IsUnimplemented() {
		t.Errorf("add_pp_f16x2 = %v, want unimplemented sentinel", got)
	}
}
