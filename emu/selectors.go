package emu

import (
	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/errors"
	"github.com/gpuconf/hsailemu/val"
)

// A selector family is a struct of typed handlers, one per operand type the
// operation accepts. A nil handler means the instruction decoder produced a
// type the operation does not support, which is a defect in the caller, so
// the apply functions panic with a dispatch error instead of returning one.
//
// The f16 flag marks families whose operations accept f16 operands but whose
// f16 evaluation is not implemented; dispatch on f16 then yields the
// unimplemented sentinel rather than a panic.

func checkOperand(op string, t brig.Type, v val.Val) {
	if v.Type() != t {
		panic(errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
			Opcode(op).
			Type(t.String()).
			Detail("operand has type %s", v.Type()).
			Build())
	}
}

func badType(op string, t brig.Type) *errors.Error {
	return errors.BadType(errors.PhaseDispatch, op, t.String())
}

func errBadModifier(op, detail string) *errors.Error {
	return errors.BadModifier(errors.PhaseValidate, op, detail)
}

// unFns selects a unary handler with a same-typed result. The 8 and 16 bit
// integer handlers exist for packed operations, which dispatch per element.
type unFns struct {
	name string
	f16  bool
	b1   func(bool) bool
	b32  func(uint32) uint32
	b64  func(uint64) uint64
	s8   func(int8) int8
	s16  func(int16) int16
	s32  func(int32) int32
	s64  func(int64) int64
	f32  func(float32) float32
	f64  func(float64) float64
}

func unOp(t brig.Type, fns *unFns, a val.Val) val.Val {
	checkOperand(fns.name, t, a)
	switch t {
	case brig.TypeB1:
		if fns.b1 != nil {
			return val.B1(fns.b1(a.B1()))
		}
	case brig.TypeB32:
		if fns.b32 != nil {
			return val.B32(fns.b32(a.B32()))
		}
	case brig.TypeB64:
		if fns.b64 != nil {
			return val.B64(fns.b64(a.B64()))
		}
	case brig.TypeS8:
		if fns.s8 != nil {
			return val.S8(fns.s8(a.S8()))
		}
	case brig.TypeS16:
		if fns.s16 != nil {
			return val.S16(fns.s16(a.S16()))
		}
	case brig.TypeS32:
		if fns.s32 != nil {
			return val.S32(fns.s32(a.S32()))
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return val.S64(fns.s64(a.S64()))
		}
	case brig.TypeF16:
		if fns.f16 {
			return val.Unimplemented()
		}
	case brig.TypeF32:
		if fns.f32 != nil {
			return val.F32(fns.f32(a.F32()))
		}
	case brig.TypeF64:
		if fns.f64 != nil {
			return val.F64(fns.f64(a.F64()))
		}
	}
	panic(badType(fns.name, t))
}

// unValFns selects a unary handler that builds its own result value, for
// operations whose edge cases do not fit a same-typed function.
type unValFns struct {
	name string
	f16  bool
	f32  func(float32) val.Val
	f64  func(float64) val.Val
}

func unValOp(t brig.Type, fns *unValFns, a val.Val) val.Val {
	checkOperand(fns.name, t, a)
	switch t {
	case brig.TypeF16:
		if fns.f16 {
			return val.Unimplemented()
		}
	case brig.TypeF32:
		if fns.f32 != nil {
			return fns.f32(a.F32())
		}
	case brig.TypeF64:
		if fns.f64 != nil {
			return fns.f64(a.F64())
		}
	}
	panic(badType(fns.name, t))
}

// binFns selects a binary handler with a same-typed result. The 8 and 16 bit
// integer handlers exist for packed operations, which dispatch per element.
type binFns struct {
	name string
	f16  bool
	b1   func(bool, bool) bool
	b32  func(uint32, uint32) uint32
	b64  func(uint64, uint64) uint64
	s8   func(int8, int8) int8
	s16  func(int16, int16) int16
	s32  func(int32, int32) int32
	s64  func(int64, int64) int64
	u8   func(uint8, uint8) uint8
	u16  func(uint16, uint16) uint16
	u32  func(uint32, uint32) uint32
	u64  func(uint64, uint64) uint64
	f32  func(float32, float32) float32
	f64  func(float64, float64) float64
}

func binOp(t brig.Type, fns *binFns, a1, a2 val.Val) val.Val {
	checkOperand(fns.name, t, a1)
	checkOperand(fns.name, t, a2)
	switch t {
	case brig.TypeB1:
		if fns.b1 != nil {
			return val.B1(fns.b1(a1.B1(), a2.B1()))
		}
	case brig.TypeB32:
		if fns.b32 != nil {
			return val.B32(fns.b32(a1.B32(), a2.B32()))
		}
	case brig.TypeB64:
		if fns.b64 != nil {
			return val.B64(fns.b64(a1.B64(), a2.B64()))
		}
	case brig.TypeS8:
		if fns.s8 != nil {
			return val.S8(fns.s8(a1.S8(), a2.S8()))
		}
	case brig.TypeS16:
		if fns.s16 != nil {
			return val.S16(fns.s16(a1.S16(), a2.S16()))
		}
	case brig.TypeS32:
		if fns.s32 != nil {
			return val.S32(fns.s32(a1.S32(), a2.S32()))
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return val.S64(fns.s64(a1.S64(), a2.S64()))
		}
	case brig.TypeU8:
		if fns.u8 != nil {
			return val.U8(fns.u8(a1.U8(), a2.U8()))
		}
	case brig.TypeU16:
		if fns.u16 != nil {
			return val.U16(fns.u16(a1.U16(), a2.U16()))
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return val.U32(fns.u32(a1.U32(), a2.U32()))
		}
	case brig.TypeU64:
		if fns.u64 != nil {
			return val.U64(fns.u64(a1.U64(), a2.U64()))
		}
	case brig.TypeF16:
		if fns.f16 {
			return val.Unimplemented()
		}
	case brig.TypeF32:
		if fns.f32 != nil {
			return val.F32(fns.f32(a1.F32(), a2.F32()))
		}
	case brig.TypeF64:
		if fns.f64 != nil {
			return val.F64(fns.f64(a1.F64(), a2.F64()))
		}
	}
	panic(badType(fns.name, t))
}

// binValFns selects a binary handler that builds its own result value, for
// operations that can produce the undefined sentinel (integer division).
type binValFns struct {
	name string
	f16  bool
	s32  func(int32, int32) val.Val
	s64  func(int64, int64) val.Val
	u32  func(uint32, uint32) val.Val
	u64  func(uint64, uint64) val.Val
	f32  func(float32, float32) val.Val
	f64  func(float64, float64) val.Val
}

func binValOp(t brig.Type, fns *binValFns, a1, a2 val.Val) val.Val {
	checkOperand(fns.name, t, a1)
	checkOperand(fns.name, t, a2)
	switch t {
	case brig.TypeS32:
		if fns.s32 != nil {
			return fns.s32(a1.S32(), a2.S32())
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return fns.s64(a1.S64(), a2.S64())
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return fns.u32(a1.U32(), a2.U32())
		}
	case brig.TypeU64:
		if fns.u64 != nil {
			return fns.u64(a1.U64(), a2.U64())
		}
	case brig.TypeF16:
		if fns.f16 {
			return val.Unimplemented()
		}
	case brig.TypeF32:
		if fns.f32 != nil {
			return fns.f32(a1.F32(), a2.F32())
		}
	case brig.TypeF64:
		if fns.f64 != nil {
			return fns.f64(a1.F64(), a2.F64())
		}
	}
	panic(badType(fns.name, t))
}

// shiftFns selects a shift handler; the shift count is always u32 and is
// masked to the element width by the handler.
type shiftFns struct {
	name string
	s8   func(int8, uint32) int8
	s16  func(int16, uint32) int16
	s32  func(int32, uint32) int32
	s64  func(int64, uint32) int64
	u8   func(uint8, uint32) uint8
	u16  func(uint16, uint32) uint16
	u32  func(uint32, uint32) uint32
	u64  func(uint64, uint32) uint64
}

func shiftOp(t brig.Type, fns *shiftFns, a val.Val, shift uint32) val.Val {
	checkOperand(fns.name, t, a)
	switch t {
	case brig.TypeS8:
		if fns.s8 != nil {
			return val.S8(fns.s8(a.S8(), shift))
		}
	case brig.TypeS16:
		if fns.s16 != nil {
			return val.S16(fns.s16(a.S16(), shift))
		}
	case brig.TypeS32:
		if fns.s32 != nil {
			return val.S32(fns.s32(a.S32(), shift))
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return val.S64(fns.s64(a.S64(), shift))
		}
	case brig.TypeU8:
		if fns.u8 != nil {
			return val.U8(fns.u8(a.U8(), shift))
		}
	case brig.TypeU16:
		if fns.u16 != nil {
			return val.U16(fns.u16(a.U16(), shift))
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return val.U32(fns.u32(a.U32(), shift))
		}
	case brig.TypeU64:
		if fns.u64 != nil {
			return val.U64(fns.u64(a.U64(), shift))
		}
	}
	panic(badType(fns.name, t))
}

// triFns selects a ternary handler with a same-typed result.
type triFns struct {
	name string
	f16  bool
	b1   func(bool, bool, bool) bool
	b32  func(uint32, uint32, uint32) uint32
	b64  func(uint64, uint64, uint64) uint64
	s32  func(int32, int32, int32) int32
	s64  func(int64, int64, int64) int64
	u32  func(uint32, uint32, uint32) uint32
	u64  func(uint64, uint64, uint64) uint64
	f32  func(float32, float32, float32) float32
	f64  func(float64, float64, float64) float64
}

func triOp(t brig.Type, fns *triFns, a1, a2, a3 val.Val) val.Val {
	checkOperand(fns.name, t, a1)
	checkOperand(fns.name, t, a2)
	checkOperand(fns.name, t, a3)
	switch t {
	case brig.TypeB1:
		if fns.b1 != nil {
			return val.B1(fns.b1(a1.B1(), a2.B1(), a3.B1()))
		}
	case brig.TypeB32:
		if fns.b32 != nil {
			return val.B32(fns.b32(a1.B32(), a2.B32(), a3.B32()))
		}
	case brig.TypeB64:
		if fns.b64 != nil {
			return val.B64(fns.b64(a1.B64(), a2.B64(), a3.B64()))
		}
	case brig.TypeS32:
		if fns.s32 != nil {
			return val.S32(fns.s32(a1.S32(), a2.S32(), a3.S32()))
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return val.S64(fns.s64(a1.S64(), a2.S64(), a3.S64()))
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return val.U32(fns.u32(a1.U32(), a2.U32(), a3.U32()))
		}
	case brig.TypeU64:
		if fns.u64 != nil {
			return val.U64(fns.u64(a1.U64(), a2.U64(), a3.U64()))
		}
	case brig.TypeF16:
		if fns.f16 {
			return val.Unimplemented()
		}
	case brig.TypeF32:
		if fns.f32 != nil {
			return val.F32(fns.f32(a1.F32(), a2.F32(), a3.F32()))
		}
	case brig.TypeF64:
		if fns.f64 != nil {
			return val.F64(fns.f64(a1.F64(), a2.F64(), a3.F64()))
		}
	}
	panic(badType(fns.name, t))
}

// triValFns selects a ternary 32-bit handler that builds its own result,
// for the mad24 family which validates its operand range.
type triValFns struct {
	name string
	s32  func(int32, int32, int32) val.Val
	u32  func(uint32, uint32, uint32) val.Val
}

func triValOp(t brig.Type, fns *triValFns, a1, a2, a3 val.Val) val.Val {
	checkOperand(fns.name, t, a1)
	checkOperand(fns.name, t, a2)
	checkOperand(fns.name, t, a3)
	switch t {
	case brig.TypeS32:
		if fns.s32 != nil {
			return fns.s32(a1.S32(), a2.S32(), a3.S32())
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return fns.u32(a1.U32(), a2.U32(), a3.U32())
		}
	}
	panic(badType(fns.name, t))
}

// bitFieldFns selects a handler for bitextract-style operations taking an
// offset and a width.
type bitFieldFns struct {
	name string
	s32  func(int32, uint32, uint32) val.Val
	s64  func(int64, uint32, uint32) val.Val
	u32  func(uint32, uint32, uint32) val.Val
	u64  func(uint64, uint32, uint32) val.Val
}

func bitFieldOp(t brig.Type, fns *bitFieldFns, a val.Val, offset, width uint32) val.Val {
	checkOperand(fns.name, t, a)
	switch t {
	case brig.TypeS32:
		if fns.s32 != nil {
			return fns.s32(a.S32(), offset, width)
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return fns.s64(a.S64(), offset, width)
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return fns.u32(a.U32(), offset, width)
		}
	case brig.TypeU64:
		if fns.u64 != nil {
			return fns.u64(a.U64(), offset, width)
		}
	}
	panic(badType(fns.name, t))
}

// bitInsertFns selects a handler for bitinsert, which takes two same-typed
// sources plus an offset and a width.
type bitInsertFns struct {
	name string
	s32  func(int32, int32, uint32, uint32) val.Val
	s64  func(int64, int64, uint32, uint32) val.Val
	u32  func(uint32, uint32, uint32, uint32) val.Val
	u64  func(uint64, uint64, uint32, uint32) val.Val
}

func bitInsertOp(t brig.Type, fns *bitInsertFns, a1, a2 val.Val, offset, width uint32) val.Val {
	checkOperand(fns.name, t, a1)
	checkOperand(fns.name, t, a2)
	switch t {
	case brig.TypeS32:
		if fns.s32 != nil {
			return fns.s32(a1.S32(), a2.S32(), offset, width)
		}
	case brig.TypeS64:
		if fns.s64 != nil {
			return fns.s64(a1.S64(), a2.S64(), offset, width)
		}
	case brig.TypeU32:
		if fns.u32 != nil {
			return fns.u32(a1.U32(), a2.U32(), offset, width)
		}
	case brig.TypeU64:
		if fns.u64 != nil {
			return fns.u64(a1.U64(), a2.U64(), offset, width)
		}
	}
	panic(badType(fns.name, t))
}
