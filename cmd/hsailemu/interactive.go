package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gpuconf/hsailemu/brig"
	"github.com/gpuconf/hsailemu/emu"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

// inputField names the instruction fields the argument form collects.
type inputField int

const (
	fieldType inputField = iota
	fieldSType
	fieldPacking
	fieldRound
	fieldCompare
	fieldAtomic
	fieldFtz
	fieldArgs
)

var fieldLabels = map[inputField]string{
	fieldType:    "type",
	fieldSType:   "stype",
	fieldPacking: "packing",
	fieldRound:   "round",
	fieldCompare: "cmp",
	fieldAtomic:  "atomic",
	fieldFtz:     "ftz",
	fieldArgs:    "args",
}

var fieldPlaceholders = map[inputField]string{
	fieldType:    "u32, f64, u8x4, ...",
	fieldSType:   "source type (optional)",
	fieldPacking: "pp, ss_sat, ... (optional)",
	fieldRound:   "near, zeroi, ... (optional)",
	fieldCompare: "eq, ltu, sgt, ...",
	fieldAtomic:  "add, cas, wrapinc, ...",
	fieldFtz:     "true/false (optional)",
	fieldArgs:    "comma-separated operands",
}

type interactiveModel struct {
	err      error
	opcodes  []brig.Opcode
	fields   []inputField
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	offset   int
	state    modelState
}

type evalResultMsg struct {
	err    error
	result string
}

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{
		opcodes: brig.Opcodes(),
		state:   stateSelectOp,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectOp {
				return m, tea.Quit
			}

		case "up", "ctrl+p":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "ctrl+n":
			if m.state == stateSelectOp && m.selected < len(m.opcodes)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.evaluate

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}
		}

	case evalResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// fieldsFor picks the input fields that make sense for the opcode.
func fieldsFor(op brig.Opcode) []inputField {
	fields := []inputField{fieldType}

	switch op {
	case brig.OpCmp:
		fields = append(fields, fieldSType, fieldCompare, fieldPacking, fieldFtz)
	case brig.OpCvt:
		fields = append(fields, fieldSType, fieldRound, fieldFtz)
	case brig.OpClass, brig.OpPopCount, brig.OpFirstBit, brig.OpLastBit,
		brig.OpCombine, brig.OpExpand,
		brig.OpPack, brig.OpUnpack, brig.OpPackCvt, brig.OpUnpackCvt,
		brig.OpSad, brig.OpSadHi:
		fields = append(fields, fieldSType)
	case brig.OpAtomic, brig.OpAtomicNoRet:
		fields = append(fields, fieldAtomic)
	case brig.OpLd, brig.OpSt:
		// segment defaults to global
	default:
		fields = append(fields, fieldPacking, fieldRound, fieldFtz)
	}

	return append(fields, fieldArgs)
}

func (m *interactiveModel) prepareInputs() {
	m.fields = fieldsFor(m.opcodes[m.selected])
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[f]
		ti.Prompt = fieldLabels[f] + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) fieldValue(f inputField) string {
	for i, have := range m.fields {
		if have == f {
			return strings.TrimSpace(m.inputs[i].Value())
		}
	}
	return ""
}

func (m *interactiveModel) evaluate() tea.Msg {
	op := m.opcodes[m.selected]
	ftz := m.fieldValue(fieldFtz) == "true" || m.fieldValue(fieldFtz) == "1"

	inst, err := buildInst(
		op.String(),
		m.fieldValue(fieldType),
		m.fieldValue(fieldSType),
		m.fieldValue(fieldPacking),
		m.fieldValue(fieldRound),
		m.fieldValue(fieldCompare),
		m.fieldValue(fieldAtomic),
		"global",
		ftz,
	)
	if err != nil {
		return evalResultMsg{err: err}
	}

	operands, err := parseOperands(inst, m.fieldValue(fieldArgs))
	if err != nil {
		return evalResultMsg{err: err}
	}

	dst := emu.EmulateDstVal(inst, operands[0], operands[1], operands[2], operands[3], operands[4])
	mem := emu.EmulateMemVal(inst, operands[0], operands[1], operands[2], operands[3], operands[4])

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", instString(inst))
	fmt.Fprintf(&b, "register: %s", resultString(dst))
	if !mem.Empty() || mem.IsUndef() || mem.IsUnimplemented() {
		fmt.Fprintf(&b, "\nmemory:   %s", resultString(mem))
	}
	if !dst.Empty() && !dst.IsVector() && dst.Size() != 128 {
		fmt.Fprintf(&b, "\nbits:     %s", dst.HexString())
	}
	if p := emu.Precision(inst); p.Relative != 0 {
		fmt.Fprintf(&b, "\nprecision: relative %g", p.Relative)
	} else if p.Ulps != 1 {
		fmt.Fprintf(&b, "\nprecision: %g ULPs", p.Ulps)
	}

	return evalResultMsg{result: b.String()}
}

const opPageSize = 20

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("HSAIL Oracle"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an opcode:\n\n")

		if m.selected < m.offset {
			m.offset = m.selected
		}
		if m.selected >= m.offset+opPageSize {
			m.offset = m.selected - opPageSize + 1
		}

		end := m.offset + opPageSize
		if end > len(m.opcodes) {
			end = len(m.opcodes)
		}
		for i := m.offset; i < end; i++ {
			line := "  " + m.opcodes[i].String()
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.opcodes[i].String()))
			} else {
				b.WriteString(opStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter configure • q quit"))

	case stateInputArgs:
		op := m.opcodes[m.selected]
		b.WriteString(fmt.Sprintf("Configuring %s\n\n", opStyle.Render(op.String())))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(fieldLabels[m.fields[i]]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter evaluate • esc back"))

	case stateShowResult:
		op := m.opcodes[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.String())))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • esc back • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
