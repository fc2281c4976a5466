package brig

// Packing is the packing-control field of an instruction operating on
// packed types. Each source operand has a control character: 'p' makes
// the operand contribute its lane at the destination index, 's'
// broadcasts its lowest lane. The Sat variants route integer
// arithmetic through the saturating functors.
type Packing uint8

const (
	PackNone Packing = iota
	PackPP
	PackPS
	PackSP
	PackSS
	PackP
	PackS
	PackPPSat
	PackPSSat
	PackSPSat
	PackSSSat
	PackPSat
	PackSSat

	packingMax
)

var packingNames = [packingMax]string{
	"", "pp", "ps", "sp", "ss", "p", "s",
	"pp_sat", "ps_sat", "sp_sat", "ss_sat", "p_sat", "s_sat",
}

func (p Packing) String() string {
	if p >= packingMax {
		return "pack(?)"
	}
	return packingNames[p]
}

// IsSat reports whether the packing carries a saturation suffix.
func (p Packing) IsSat() bool { return p >= PackPPSat }

// IsUnary reports whether the packing controls a single source operand.
func (p Packing) IsUnary() bool {
	return p == PackP || p == PackS || p == PackPSat || p == PackSSat
}

// Control returns the control character ('p' or 's') for source
// operand 0 or 1.
func (p Packing) Control(srcIdx int) byte {
	ctl := [packingMax][2]byte{
		PackPP: {'p', 'p'}, PackPS: {'p', 's'}, PackSP: {'s', 'p'}, PackSS: {'s', 's'},
		PackP: {'p', 0}, PackS: {'s', 0},
		PackPPSat: {'p', 'p'}, PackPSSat: {'p', 's'}, PackSPSat: {'s', 'p'}, PackSSSat: {'s', 's'},
		PackPSat: {'p', 0}, PackSSat: {'s', 0},
	}
	if p >= packingMax || srcIdx < 0 || srcIdx > 1 {
		return 0
	}
	return ctl[p][srcIdx]
}

// DstDim returns the number of destination lanes written by an
// operation on packed type t: all lanes when the leading control is
// 'p', only the lowest when it is 's'.
func (p Packing) DstDim(t Type) uint {
	if p.Control(0) == 'p' {
		return t.Dim()
	}
	return 1
}

// ParsePacking resolves a packing suffix such as "pp" or "ss_sat".
func ParsePacking(name string) (Packing, bool) {
	if name == "" {
		return PackNone, true
	}
	for p := Packing(1); p < packingMax; p++ {
		if packingNames[p] == name {
			return p, true
		}
	}
	return PackNone, false
}

// Round is a rounding mode. The I modes convert to integer, the rest
// round a floating-point result.
type Round uint8

const (
	RoundNone Round = iota
	RoundNearEven
	RoundZero
	RoundPlusInf
	RoundMinusInf
	RoundNearEvenInt
	RoundZeroInt
	RoundPlusInfInt
	RoundMinusInfInt

	roundMax
)

var roundNames = [roundMax]string{
	"", "near", "zero", "up", "down", "neari", "zeroi", "upi", "downi",
}

func (r Round) String() string {
	if r >= roundMax {
		return "round(?)"
	}
	return roundNames[r]
}

// IsIntRounding reports whether the mode rounds to an integer.
func (r Round) IsIntRounding() bool { return r >= RoundNearEvenInt }

// ParseRound resolves a rounding-mode suffix such as "neari".
func ParseRound(name string) (Round, bool) {
	if name == "" {
		return RoundNone, true
	}
	for r := Round(1); r < roundMax; r++ {
		if roundNames[r] == name {
			return r, true
		}
	}
	return RoundNone, false
}

// AluMod bundles the decoded instruction modifiers. It is built once
// when the instruction is decoded and never changes afterwards.
type AluMod struct {
	Round     Round
	Sat       bool
	Signaling bool
	Ftz       bool
}

// Modifier bit layout used by DecodeAluMod. This is the compact form
// the decoder hands over; bit 0..3 rounding, bit 4 saturate,
// bit 5 signaling, bit 6 ftz.
const (
	modRoundMask   = 0x0f
	modSatBit      = 1 << 4
	modSignalBit   = 1 << 5
	modFtzBit      = 1 << 6
)

// DecodeAluMod unpacks modifier bits into an AluMod.
func DecodeAluMod(bits uint16) AluMod {
	r := Round(bits & modRoundMask)
	if r >= roundMax {
		r = RoundNone
	}
	return AluMod{
		Round:     r,
		Sat:       bits&modSatBit != 0,
		Signaling: bits&modSignalBit != 0,
		Ftz:       bits&modFtzBit != 0,
	}
}

// Bits re-encodes the modifier in the DecodeAluMod layout.
func (m AluMod) Bits() uint16 {
	b := uint16(m.Round)
	if m.Sat {
		b |= modSatBit
	}
	if m.Signaling {
		b |= modSignalBit
	}
	if m.Ftz {
		b |= modFtzBit
	}
	return b
}

// Format is the instruction format, which decides which descriptor
// fields are meaningful and how the emulator dispatches.
type Format uint8

const (
	FormatBasic Format = iota
	FormatMod
	FormatCmp
	FormatCvt
	FormatSourceType
	FormatAtomic
	FormatMem
)

func (f Format) String() string {
	names := [...]string{"basic", "mod", "cmp", "cvt", "sourcetype", "atomic", "mem"}
	if int(f) < len(names) {
		return names[f]
	}
	return "format(?)"
}

// Inst is the read-only instruction descriptor handed to the emulator.
// Fields beyond the format's needs are left at their zero values.
type Inst struct {
	Format     Format
	Opcode     Opcode
	Type       Type // result type
	SourceType Type // FormatCmp/Cvt/SourceType
	Mod        AluMod
	Compare    Compare
	AtomicOp   AtomicOp
	Segment    Segment
	Packing    Packing
	Width      Width
	EquivClass uint8
	Const      bool
}

// SrcType returns the source type for formats that carry one and the
// result type otherwise.
func (i Inst) SrcType() Type {
	switch i.Format {
	case FormatCmp, FormatCvt, FormatSourceType:
		return i.SourceType
	default:
		return i.Type
	}
}
