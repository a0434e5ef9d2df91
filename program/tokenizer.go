package program

import (
	"fmt"
	"math"
	"strings"

	"github.com/sarchlab/wspace/instr"
)

// Tokenize decodes source text with the default ISA. Bytes other than space,
// tab and line feed are comments.
func Tokenize(src []byte) ([]instr.Inst, error) {
	return defaultISA.Tokenize(src)
}

type tokenizer struct {
	isa *ISA
	src []byte
	pos int
}

// Tokenize decodes source text into symbolic instructions. Branches carry
// their label and an unresolved target.
func (isa *ISA) Tokenize(src []byte) ([]instr.Inst, error) {
	t := &tokenizer{isa: isa, src: src}
	insts := make([]instr.Inst, 0)

	for {
		start, ok := t.skipComments()
		if !ok {
			return insts, nil
		}

		inst, err := t.nextInst(start)
		if err != nil {
			return nil, err
		}

		insts = append(insts, inst)
	}
}

// skipComments moves to the next significant byte and returns its offset.
func (t *tokenizer) skipComments() (int, bool) {
	for t.pos < len(t.src) {
		if isSignificant(t.src[t.pos]) {
			return t.pos, true
		}
		t.pos++
	}

	return t.pos, false
}

// read returns the next significant byte.
func (t *tokenizer) read() (byte, bool) {
	if _, ok := t.skipComments(); !ok {
		return 0, false
	}

	c := t.src[t.pos]
	t.pos++

	return c, true
}

func (t *tokenizer) nextInst(start int) (instr.Inst, error) {
	var word strings.Builder

	for {
		c, ok := t.read()
		if !ok {
			return instr.Inst{}, t.errorf(start,
				"input ends inside instruction word %s", Visible(word.String()))
		}

		word.WriteByte(c)
		op, complete, known := t.isa.lookup(word.String())
		if !known {
			return instr.Inst{}, t.errorf(start,
				"unknown instruction word %s", Visible(word.String()))
		}
		if !complete {
			continue
		}

		inst := instr.New(op)
		inst.Offset = start

		var err error
		switch op.Param() {
		case instr.ParamNumber:
			inst.Arg, err = t.readNumber(start, op)
		case instr.ParamLabel:
			inst.Label, err = t.readLabel(start, op)
		}

		return inst, err
	}
}

// readNumber decodes a sign and magnitude parameter terminated by a line
// feed. A missing sign or an empty digit run is zero.
func (t *tokenizer) readNumber(start int, op instr.Opcode) (int64, error) {
	sign, ok := t.read()
	if !ok {
		return 0, t.errorf(start, "unterminated number after %s", op)
	}

	if sign == '\n' {
		return 0, nil
	}

	var magnitude int64
	for {
		c, ok := t.read()
		if !ok {
			return 0, t.errorf(start, "unterminated number after %s", op)
		}

		if c == '\n' {
			break
		}

		var bit int64
		if c == '\t' {
			bit = 1
		}

		if magnitude > (math.MaxInt64-bit)/2 {
			return 0, t.errorf(start, "number after %s overflows 64 bits", op)
		}
		magnitude = magnitude<<1 | bit
	}

	if sign == '\t' {
		return -magnitude, nil
	}

	return magnitude, nil
}

// readLabel decodes a label parameter into its bit pattern.
func (t *tokenizer) readLabel(start int, op instr.Opcode) (string, error) {
	var label strings.Builder

	for {
		c, ok := t.read()
		if !ok {
			return "", t.errorf(start, "unterminated label after %s", op)
		}

		switch c {
		case '\n':
			return label.String(), nil
		case ' ':
			label.WriteByte(instr.LabelZero)
		case '\t':
			label.WriteByte(instr.LabelOne)
		}
	}
}

func (t *tokenizer) errorf(offset int, format string, args ...interface{}) error {
	return &LexError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func isSignificant(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}
