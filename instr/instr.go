// Package instr defines the instruction set shared by the front end and the
// virtual machine.
package instr

import (
	"fmt"
	"strconv"
)

// Opcode identifies one instruction kind. The set is closed.
type Opcode uint8

const (
	Push Opcode = iota
	Dup
	Copy
	Swap
	Discard
	Slide

	Add
	Sub
	Mul
	Div
	Mod

	Store
	Retrieve

	Label
	Call
	Jump
	JumpIfZero
	JumpIfNeg
	Return
	End

	OutChar
	OutNum
	ReadChar
	ReadNum

	numOpcodes
)

var mnemonics = [numOpcodes]string{
	Push:       "push",
	Dup:        "dup",
	Copy:       "copy",
	Swap:       "swap",
	Discard:    "drop",
	Slide:      "slide",
	Add:        "add",
	Sub:        "sub",
	Mul:        "mul",
	Div:        "div",
	Mod:        "mod",
	Store:      "store",
	Retrieve:   "retrieve",
	Label:      "label",
	Call:       "call",
	Jump:       "jmp",
	JumpIfZero: "jz",
	JumpIfNeg:  "jn",
	Return:     "ret",
	End:        "end",
	OutChar:    "outc",
	OutNum:     "outn",
	ReadChar:   "readc",
	ReadNum:    "readn",
}

// Opcodes returns every opcode in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, numOpcodes)
	for op := Opcode(0); op < numOpcodes; op++ {
		ops = append(ops, op)
	}

	return ops
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	return op < numOpcodes
}

// String returns the listing mnemonic of the opcode.
func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("op(%d)", uint8(op))
	}

	return mnemonics[op]
}

// IsBranch reports whether the instruction carries a label reference that the
// resolver rewrites into a target index.
func (op Opcode) IsBranch() bool {
	switch op {
	case Call, Jump, JumpIfZero, JumpIfNeg:
		return true
	default:
		return false
	}
}

// Pops returns the minimum operand stack depth the instruction requires.
// Copy and Slide need more depending on their argument.
func (op Opcode) Pops() int {
	switch op {
	case Dup, Copy, Discard, Slide, JumpIfZero, JumpIfNeg,
		Retrieve, OutChar, OutNum, ReadChar, ReadNum:
		return 1
	case Swap, Add, Sub, Mul, Div, Mod, Store:
		return 2
	default:
		return 0
	}
}

// Inst is one decoded instruction. Only the fields that match the opcode's
// parameter kind are meaningful.
type Inst struct {
	Op Opcode

	// Arg is the numeric parameter of Push, Copy and Slide.
	Arg int64

	// Label is the label identifier of Label and of the branch instructions.
	Label string

	// Target is the resolved instruction index of a branch, -1 before
	// resolution.
	Target int

	// Offset is the byte offset of the instruction in the source text.
	Offset int
}

// New creates an instruction without parameter.
func New(op Opcode) Inst {
	return Inst{Op: op, Target: -1}
}

// WithNumber creates an instruction with a numeric parameter.
func WithNumber(op Opcode, n int64) Inst {
	return Inst{Op: op, Arg: n, Target: -1}
}

// WithLabel creates an instruction with a label parameter.
func WithLabel(op Opcode, label string) Inst {
	return Inst{Op: op, Label: label, Target: -1}
}

// Operand renders the parameter of the instruction, or the empty string when
// the opcode has none.
func (i Inst) Operand() string {
	switch i.Op.Param() {
	case ParamNumber:
		return strconv.FormatInt(i.Arg, 10)
	case ParamLabel:
		if i.Op.IsBranch() && i.Target >= 0 {
			return fmt.Sprintf("%d (%s)", i.Target, FormatLabel(i.Label))
		}
		return FormatLabel(i.Label)
	default:
		return ""
	}
}

func (i Inst) String() string {
	operand := i.Operand()
	if operand == "" {
		return i.Op.String()
	}

	return i.Op.String() + " " + operand
}
