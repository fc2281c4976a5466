package brig

// Opcode identifies an HSAIL instruction.
type Opcode uint8

const (
	OpNone Opcode = iota

	OpAbs
	OpNeg
	OpNot

	OpAdd
	OpSub
	OpMul
	OpMulHi
	OpDiv
	OpRem
	OpMax
	OpMin

	OpMul24
	OpMul24Hi
	OpMad24
	OpMad24Hi

	OpAnd
	OpOr
	OpXor

	OpCopySign
	OpCarry
	OpBorrow

	OpShl
	OpShr

	OpFract
	OpCeil
	OpFloor
	OpRint
	OpTrunc

	OpSqrt
	OpFma
	OpMad

	OpNCos
	OpNSin
	OpNExp2
	OpNLog2
	OpNSqrt
	OpNRsqrt
	OpNRcp
	OpNFma

	OpMov
	OpCmov

	OpBitMask
	OpBitSelect
	OpBitRev
	OpBitExtract
	OpBitInsert
	OpBitAlign
	OpByteAlign

	OpClass
	OpPopCount
	OpFirstBit
	OpLastBit

	OpCombine
	OpExpand

	OpCmp
	OpCvt

	OpShuffle
	OpUnpackHi
	OpUnpackLo
	OpPack
	OpUnpack

	OpPackCvt
	OpUnpackCvt
	OpLerp
	OpSad
	OpSadHi

	OpLd
	OpSt
	OpAtomic
	OpAtomicNoRet

	opcodeMax
)

var opcodeNames = [opcodeMax]string{
	OpNone: "none",
	OpAbs:  "abs", OpNeg: "neg", OpNot: "not",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpMulHi: "mulhi",
	OpDiv: "div", OpRem: "rem", OpMax: "max", OpMin: "min",
	OpMul24: "mul24", OpMul24Hi: "mul24hi", OpMad24: "mad24", OpMad24Hi: "mad24hi",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpCopySign: "copysign", OpCarry: "carry", OpBorrow: "borrow",
	OpShl: "shl", OpShr: "shr",
	OpFract: "fract", OpCeil: "ceil", OpFloor: "floor", OpRint: "rint", OpTrunc: "trunc",
	OpSqrt: "sqrt", OpFma: "fma", OpMad: "mad",
	OpNCos: "ncos", OpNSin: "nsin", OpNExp2: "nexp2", OpNLog2: "nlog2",
	OpNSqrt: "nsqrt", OpNRsqrt: "nrsqrt", OpNRcp: "nrcp", OpNFma: "nfma",
	OpMov: "mov", OpCmov: "cmov",
	OpBitMask: "bitmask", OpBitSelect: "bitselect", OpBitRev: "bitrev",
	OpBitExtract: "bitextract", OpBitInsert: "bitinsert",
	OpBitAlign: "bitalign", OpByteAlign: "bytealign",
	OpClass: "class", OpPopCount: "popcount", OpFirstBit: "firstbit", OpLastBit: "lastbit",
	OpCombine: "combine", OpExpand: "expand",
	OpCmp: "cmp", OpCvt: "cvt",
	OpShuffle: "shuffle", OpUnpackHi: "unpackhi", OpUnpackLo: "unpacklo",
	OpPack: "pack", OpUnpack: "unpack",
	OpPackCvt: "packcvt", OpUnpackCvt: "unpackcvt",
	OpLerp: "lerp", OpSad: "sad", OpSadHi: "sadhi",
	OpLd: "ld", OpSt: "st", OpAtomic: "atomic", OpAtomicNoRet: "atomicnoret",
}

func (op Opcode) String() string {
	if op >= opcodeMax {
		return "opcode(?)"
	}
	return opcodeNames[op]
}

// ParseOpcode resolves an opcode mnemonic.
func ParseOpcode(name string) (Opcode, bool) {
	for op := Opcode(1); op < opcodeMax; op++ {
		if opcodeNames[op] == name {
			return op, true
		}
	}
	return OpNone, false
}

// Opcodes lists all known opcodes in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, int(opcodeMax)-1)
	for op := Opcode(1); op < opcodeMax; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Compare is the comparison operator of a cmp instruction. The U forms
// are unordered (true when either operand is a NaN), the S forms are
// signaling.
type Compare uint8

const (
	CmpEQ Compare = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
	CmpEQU
	CmpNEU
	CmpLTU
	CmpLEU
	CmpGTU
	CmpGEU
	CmpNum
	CmpNan
	CmpSEQ
	CmpSNE
	CmpSLT
	CmpSLE
	CmpSGT
	CmpSGE
	CmpSEQU
	CmpSNEU
	CmpSLTU
	CmpSLEU
	CmpSGTU
	CmpSGEU
	CmpSNum
	CmpSNan

	compareMax
)

var compareNames = [compareMax]string{
	"eq", "ne", "lt", "le", "gt", "ge",
	"equ", "neu", "ltu", "leu", "gtu", "geu",
	"num", "nan",
	"seq", "sne", "slt", "sle", "sgt", "sge",
	"sequ", "sneu", "sltu", "sleu", "sgtu", "sgeu",
	"snum", "snan",
}

func (c Compare) String() string {
	if c >= compareMax {
		return "cmp(?)"
	}
	return compareNames[c]
}

// IsSignaling reports whether the operator is a signaling form.
func (c Compare) IsSignaling() bool { return c >= CmpSEQ }

// AtomicOp is the operation field of atomic/atomicnoret instructions.
type AtomicOp uint8

const (
	AtomicAdd AtomicOp = iota
	AtomicSub
	AtomicAnd
	AtomicOr
	AtomicXor
	AtomicExch
	AtomicCas
	AtomicLd
	AtomicSt
	AtomicMax
	AtomicMin
	AtomicWrapInc
	AtomicWrapDec

	atomicMax
)

var atomicNames = [atomicMax]string{
	"add", "sub", "and", "or", "xor", "exch", "cas", "ld", "st",
	"max", "min", "wrapinc", "wrapdec",
}

func (a AtomicOp) String() string {
	if a >= atomicMax {
		return "atomic(?)"
	}
	return atomicNames[a]
}

// Segment is the memory segment of a memory or atomic instruction.
type Segment uint8

const (
	SegFlat Segment = iota
	SegGlobal
	SegReadonly
	SegKernarg
	SegGroup
	SegPrivate
	SegSpill
	SegArg
)

func (s Segment) String() string {
	names := [...]string{"flat", "global", "readonly", "kernarg", "group", "private", "spill", "arg"}
	if int(s) < len(names) {
		return names[s]
	}
	return "segment(?)"
}

// Width is the width modifier of a memory instruction.
type Width uint8

const (
	WidthNone Width = 0
	Width1    Width = 1
	WidthAll  Width = 2
)
