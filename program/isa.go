package program

import (
	"fmt"
	"strings"

	"github.com/sarchlab/wspace/instr"
)

// ISA is the table of instruction words of a whitespace dialect. Instruction
// words must form a prefix-free set so that the tokenizer can stop at the
// first complete match.
type ISA struct {
	// name of the ISA.
	isaName string
	// map from instruction word to opcode.
	wordToOp map[string]instr.Opcode
	// map from opcode back to its instruction word.
	opToWord map[instr.Opcode]string
	// every proper prefix of a registered word.
	prefixes map[string]bool
}

// NewISA creates an empty ISA.
func NewISA(name string) *ISA {
	return &ISA{
		isaName:  name,
		wordToOp: make(map[string]instr.Opcode),
		opToWord: make(map[instr.Opcode]string),
		prefixes: make(map[string]bool),
	}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// registerNewInst adds an instruction word. It panics if the word would break
// the prefix-free property of the table.
func (isa *ISA) registerNewInst(word string, op instr.Opcode) {
	if word == "" {
		panic("empty instruction word")
	}

	if _, dup := isa.wordToOp[word]; dup || isa.prefixes[word] {
		panic(fmt.Sprintf("instruction word %s of %s is ambiguous", Visible(word), op))
	}

	for i := 1; i < len(word); i++ {
		if _, ok := isa.wordToOp[word[:i]]; ok {
			panic(fmt.Sprintf("instruction word %s of %s extends %s",
				Visible(word), op, Visible(word[:i])))
		}
	}

	isa.wordToOp[word] = op
	isa.opToWord[op] = word
	for i := 1; i < len(word); i++ {
		isa.prefixes[word[:i]] = true
	}
}

// lookup classifies a partially read instruction word. complete is true when
// the word names an instruction, known is false when no instruction starts
// with it.
func (isa *ISA) lookup(word string) (op instr.Opcode, complete, known bool) {
	if op, ok := isa.wordToOp[word]; ok {
		return op, true, true
	}

	return 0, false, isa.prefixes[word]
}

// Word returns the instruction word registered for op.
func (isa *ISA) Word(op instr.Opcode) (string, bool) {
	word, ok := isa.opToWord[op]
	return word, ok
}

// DefaultISA returns the standard whitespace instruction table.
func DefaultISA() *ISA {
	return defaultISA
}

// Visible spells a whitespace run with S, T and L so that it can be printed.
func Visible(ws string) string {
	var sb strings.Builder
	for i := 0; i < len(ws); i++ {
		switch ws[i] {
		case ' ':
			sb.WriteByte('S')
		case '\t':
			sb.WriteByte('T')
		case '\n':
			sb.WriteByte('L')
		}
	}

	return sb.String()
}

// FromVisible is the inverse of Visible: S, T and L become space, tab and
// line feed, every other byte is dropped.
func FromVisible(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'S':
			out = append(out, ' ')
		case 'T':
			out = append(out, '\t')
		case 'L':
			out = append(out, '\n')
		}
	}

	return out
}
