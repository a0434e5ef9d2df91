package instr

import "strings"

// ParamKind tells which parameter, if any, follows an instruction word.
type ParamKind int

const (
	ParamNone ParamKind = iota
	ParamNumber
	ParamLabel
)

func (k ParamKind) String() string {
	switch k {
	case ParamNumber:
		return "number"
	case ParamLabel:
		return "label"
	default:
		return "none"
	}
}

// Param returns the kind of parameter the opcode takes.
func (op Opcode) Param() ParamKind {
	switch op {
	case Push, Copy, Slide:
		return ParamNumber
	case Label, Call, Jump, JumpIfZero, JumpIfNeg:
		return ParamLabel
	default:
		return ParamNone
	}
}

// Label digits. A label is kept as its raw bit pattern, space as LabelZero and
// tab as LabelOne.
const (
	LabelZero = '0'
	LabelOne  = '1'
)

// FormatLabel renders a label identifier for listings.
func FormatLabel(label string) string {
	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(label)

	return sb.String()
}
