package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/emu"
	"github.com/gpuconf/hsailemu/errors"
	"github.com/gpuconf/hsailemu/val"
)

func main() {
	var (
		opName      = flag.String("op", "", "Opcode mnemonic (e.g. add, cmp, cvt, atomic)")
		typeName    = flag.String("type", "", "Result type (e.g. u32, f64, u8x4)")
		stypeName   = flag.String("stype", "", "Source type for cmp/cvt/sourcetype ops")
		packName    = flag.String("packing", "", "Packing control (pp, ps, sp, ss, p, s, *_sat)")
		roundName   = flag.String("round", "", "Rounding mode (near, zero, up, down, neari, ...)")
		cmpName     = flag.String("cmp", "", "Compare operator for cmp (eq, ltu, sgt, ...)")
		atomicName  = flag.String("atomic", "", "Atomic operation for atomic/atomicnoret")
		segName     = flag.String("segment", "global", "Memory segment for mem/atomic ops")
		ftz         = flag.Bool("ftz", false, "Flush subnormal operands and result to zero")
		args        = flag.String("args", "", "Comma-separated operand values")
		list        = flag.Bool("list", false, "List known opcodes and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log emulation diagnostics to stderr")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		emu.SetLogger(l)
	}

	if *list {
		listOpcodes()
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *opName == "" || *typeName == "" {
		fmt.Fprintln(os.Stderr, "Usage: hsailemu -op <opcode> -type <type> [-stype t] [-packing p] [-round r] [-cmp c] [-ftz] -args v1,v2,...")
		fmt.Fprintln(os.Stderr, "       hsailemu -list")
		fmt.Fprintln(os.Stderr, "       hsailemu -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*opName, *typeName, *stypeName, *packName, *roundName, *cmpName, *atomicName, *segName, *ftz, *args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listOpcodes() {
	for _, op := range brig.Opcodes() {
		fmt.Println(op)
	}
}

func run(opName, typeName, stypeName, packName, roundName, cmpName, atomicName, segName string, ftz bool, argStr string) error {
	inst, err := buildInst(opName, typeName, stypeName, packName, roundName, cmpName, atomicName, segName, ftz)
	if err != nil {
		return err
	}

	operands, err := parseOperands(inst, argStr)
	if err != nil {
		return err
	}

	fmt.Printf("Instruction: %s\n", instString(inst))
	for i, a := range operands {
		if !a.Empty() {
			fmt.Printf("  arg%d = %s\n", i, a)
		}
	}

	if !emu.TestableInst(inst) {
		fmt.Println("Note: variant not coverable by generated tests")
	}

	dst := emu.EmulateDstVal(inst, operands[0], operands[1], operands[2], operands[3], operands[4])
	mem := emu.EmulateMemVal(inst, operands[0], operands[1], operands[2], operands[3], operands[4])

	fmt.Printf("\nRegister result: %s\n", resultString(dst))
	if !mem.Empty() || mem.IsUndef() || mem.IsUnimplemented() {
		fmt.Printf("Memory result:   %s\n", resultString(mem))
	}

	if p := emu.Precision(inst); p.Relative != 0 {
		fmt.Printf("Precision:       relative %g\n", p.Relative)
	} else if p.Ulps != 1 {
		fmt.Printf("Precision:       %g ULPs\n", p.Ulps)
	}

	return nil
}

func resultString(v val.Val) string {
	switch {
	case v.IsUndef():
		return "undefined"
	case v.IsUnimplemented():
		return "not modeled"
	case v.Empty():
		return "(none)"
	}
	return v.String()
}

// instFormat infers the instruction format from the opcode and the
// presence of alu modifiers.
func instFormat(op brig.Opcode, mod brig.AluMod) brig.Format {
	switch op {
	case brig.OpCmp:
		return brig.FormatCmp
	case brig.OpCvt:
		return brig.FormatCvt
	case brig.OpClass, brig.OpPopCount, brig.OpFirstBit, brig.OpLastBit,
		brig.OpCombine, brig.OpExpand,
		brig.OpPack, brig.OpUnpack, brig.OpPackCvt, brig.OpUnpackCvt,
		brig.OpSad, brig.OpSadHi:
		return brig.FormatSourceType
	case brig.OpAtomic, brig.OpAtomicNoRet:
		return brig.FormatAtomic
	case brig.OpLd, brig.OpSt:
		return brig.FormatMem
	}
	if mod != (brig.AluMod{}) {
		return brig.FormatMod
	}
	return brig.FormatBasic
}

func buildInst(opName, typeName, stypeName, packName, roundName, cmpName, atomicName, segName string, ftz bool) (brig.Inst, error) {
	var inst brig.Inst

	op, ok := brig.ParseOpcode(opName)
	if !ok {
		return inst, errors.InvalidInput(errors.PhaseParse, "unknown opcode %q", opName)
	}
	t, ok := brig.ParseType(typeName)
	if !ok {
		return inst, errors.InvalidInput(errors.PhaseParse, "unknown type %q", typeName)
	}

	inst.Opcode = op
	inst.Type = t
	inst.SourceType = t

	if stypeName != "" {
		st, ok := brig.ParseType(stypeName)
		if !ok {
			return inst, errors.InvalidInput(errors.PhaseParse, "unknown source type %q", stypeName)
		}
		inst.SourceType = st
	}

	if packName != "" {
		p, ok := brig.ParsePacking(packName)
		if !ok {
			return inst, errors.InvalidInput(errors.PhaseParse, "unknown packing %q", packName)
		}
		inst.Packing = p
		inst.Mod.Sat = p.IsSat()
	}

	if roundName != "" {
		r, ok := brig.ParseRound(roundName)
		if !ok {
			return inst, errors.InvalidInput(errors.PhaseParse, "unknown rounding %q", roundName)
		}
		inst.Mod.Round = r
	}
	inst.Mod.Ftz = ftz

	if cmpName != "" {
		c, found := parseCompare(cmpName)
		if !found {
			return inst, errors.InvalidInput(errors.PhaseParse, "unknown compare operator %q", cmpName)
		}
		inst.Compare = c
	}

	if atomicName != "" {
		a, found := parseAtomicOp(atomicName)
		if !found {
			return inst, errors.InvalidInput(errors.PhaseParse, "unknown atomic operation %q", atomicName)
		}
		inst.AtomicOp = a
	}

	if seg, found := parseSegment(segName); found {
		inst.Segment = seg
	} else {
		return inst, errors.InvalidInput(errors.PhaseParse, "unknown segment %q", segName)
	}

	inst.Format = instFormat(op, inst.Mod)
	return inst, nil
}

func parseCompare(name string) (brig.Compare, bool) {
	for c := brig.Compare(0); ; c++ {
		s := c.String()
		if s == "cmp(?)" {
			return 0, false
		}
		if s == name {
			return c, true
		}
	}
}

func parseAtomicOp(name string) (brig.AtomicOp, bool) {
	for a := brig.AtomicOp(0); ; a++ {
		s := a.String()
		if s == "atomic(?)" {
			return 0, false
		}
		if s == name {
			return a, true
		}
	}
}

func parseSegment(name string) (brig.Segment, bool) {
	for s := brig.Segment(0); ; s++ {
		str := s.String()
		if str == "segment(?)" {
			return 0, false
		}
		if str == name {
			return s, true
		}
	}
}

// operandTypes returns the expected operand slot types for parsing the
// -args list. Slot 0 holds the stored value for st/atomicnoret.
func operandTypes(inst brig.Inst) [5]brig.Type {
	t := inst.Type
	st := inst.SrcType()
	u32 := brig.TypeU32

	switch inst.Format {
	case brig.FormatCmp:
		return [5]brig.Type{brig.TypeNone, st, st}
	case brig.FormatCvt:
		return [5]brig.Type{brig.TypeNone, st}
	case brig.FormatSourceType:
		switch inst.Opcode {
		case brig.OpClass:
			return [5]brig.Type{brig.TypeNone, st, u32}
		case brig.OpPack:
			return [5]brig.Type{brig.TypeNone, t, st, u32}
		case brig.OpUnpack, brig.OpUnpackCvt:
			return [5]brig.Type{brig.TypeNone, st, u32}
		case brig.OpPackCvt:
			return [5]brig.Type{brig.TypeNone, st, st, st, st}
		case brig.OpSad, brig.OpSadHi:
			return [5]brig.Type{brig.TypeNone, st, st, t}
		}
		return [5]brig.Type{brig.TypeNone, st}
	case brig.FormatAtomic:
		if inst.Opcode == brig.OpAtomicNoRet {
			return [5]brig.Type{t, t, t}
		}
		return [5]brig.Type{brig.TypeNone, t, t, t}
	case brig.FormatMem:
		if inst.Opcode == brig.OpSt {
			return [5]brig.Type{t}
		}
		return [5]brig.Type{brig.TypeNone, t}
	}

	switch inst.Opcode {
	case brig.OpCmov:
		if !t.IsPacked() {
			return [5]brig.Type{brig.TypeNone, brig.TypeB1, t, t}
		}
		return [5]brig.Type{brig.TypeNone, t, t, t}
	case brig.OpShl, brig.OpShr:
		return [5]brig.Type{brig.TypeNone, t, u32}
	case brig.OpBitExtract:
		return [5]brig.Type{brig.TypeNone, t, u32, u32}
	case brig.OpBitInsert:
		return [5]brig.Type{brig.TypeNone, t, t, u32, u32}
	case brig.OpBitMask:
		return [5]brig.Type{brig.TypeNone, u32, u32}
	case brig.OpShuffle:
		return [5]brig.Type{brig.TypeNone, t, t, brig.TypeB32}
	}

	// Generic arithmetic: up to four same-typed operands.
	return [5]brig.Type{brig.TypeNone, t, t, t, t}
}

func parseOperands(inst brig.Inst, argStr string) ([5]val.Val, error) {
	var out [5]val.Val
	if argStr == "" {
		return out, nil
	}

	slots := operandTypes(inst)
	parts := strings.Split(argStr, ",")

	slot := 0
	if slots[0] == brig.TypeNone {
		slot = 1
	}
	for _, part := range parts {
		if slot >= len(slots) || slots[slot] == brig.TypeNone {
			return out, errors.InvalidInput(errors.PhaseParse, "too many operands for %s", inst.Opcode)
		}
		v, err := parseValue(slots[slot], strings.TrimSpace(part))
		if err != nil {
			return out, err
		}
		out[slot] = v
		slot++
	}

	return out, nil
}

// parseValue reads one operand literal. Decimal and 0x hex forms are
// accepted; packed and bit types take raw hex bits.
func parseValue(t brig.Type, s string) (val.Val, error) {
	if t.IsPacked() || t.IsBits() || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if t == brig.TypeB1 {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad b1 literal %q", s)
			}
			return val.B1(b), nil
		}
		if t.Bits() > 64 {
			lo, hi, err := parseHex128(s)
			if err != nil {
				return val.Val{}, err
			}
			return val.FromBits128(t, lo, hi), nil
		}
		bits, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), 16, 64)
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad hex literal %q", s)
		}
		return val.FromBits(t, bits), nil
	}

	switch {
	case t == brig.TypeB1:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad b1 literal %q", s)
		}
		return val.B1(b), nil
	case t.IsSigned():
		v, err := strconv.ParseInt(s, 10, int(t.Bits()))
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad %s literal %q", t, s)
		}
		return val.FromBits(t, uint64(v)), nil
	case t.IsUnsigned():
		v, err := strconv.ParseUint(s, 10, int(t.Bits()))
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad %s literal %q", t, s)
		}
		return val.FromBits(t, v), nil
	case t == brig.TypeF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad f32 literal %q", s)
		}
		return val.F32(float32(v)), nil
	case t == brig.TypeF64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "bad f64 literal %q", s)
		}
		return val.F64(v), nil
	case t == brig.TypeF16:
		bits, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return val.Val{}, errors.InvalidInput(errors.PhaseParse, "f16 takes raw bits, bad literal %q", s)
		}
		return val.F16FromBits(uint16(bits)), nil
	}
	return val.Val{}, errors.InvalidInput(errors.PhaseParse, "cannot parse operand of type %s", t)
}

func parseHex128(s string) (lo, hi uint64, err error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(digits) == 0 || len(digits) > 32 {
		return 0, 0, errors.InvalidInput(errors.PhaseParse, "bad 128-bit hex literal %q", s)
	}
	if len(digits) > 16 {
		hi, err = strconv.ParseUint(digits[:len(digits)-16], 16, 64)
		if err != nil {
			return 0, 0, errors.InvalidInput(errors.PhaseParse, "bad 128-bit hex literal %q", s)
		}
		digits = digits[len(digits)-16:]
	}
	lo, err = strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, 0, errors.InvalidInput(errors.PhaseParse, "bad 128-bit hex literal %q", s)
	}
	return lo, hi, nil
}

func instString(inst brig.Inst) string {
	var b strings.Builder
	b.WriteString(inst.Opcode.String())
	if inst.Format == brig.FormatAtomic {
		b.WriteString("_" + inst.AtomicOp.String())
	}
	if inst.Format == brig.FormatCmp {
		b.WriteString("_" + inst.Compare.String())
	}
	if inst.Packing != brig.PackNone {
		b.WriteString("_" + inst.Packing.String())
	}
	if inst.Mod.Ftz {
		b.WriteString("_ftz")
	}
	if inst.Mod.Round != brig.RoundNone {
		b.WriteString("_" + inst.Mod.Round.String())
	}
	b.WriteString("_" + inst.Type.String())
	if inst.SrcType() != inst.Type {
		b.WriteString("_" + inst.SrcType().String())
	}
	return b.String()
}
