// Package program implements the whitespace front end: the tokenizer that
// turns source text into symbolic instructions and the resolver that turns
// label references into instruction indices.
package program

import (
	"fmt"
	"os"

	"github.com/sarchlab/wspace/instr"
)

// Program is a resolved instruction sequence. Every branch target is the
// index of a Label instruction. A Program is not modified after Resolve
// returns it.
type Program struct {
	Insts []instr.Inst
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.Insts)
}

// At returns the instruction at index pc.
func (p Program) At(pc int) instr.Inst {
	return p.Insts[pc]
}

// Parse tokenizes and resolves source text.
func Parse(src []byte) (Program, error) {
	insts, err := Tokenize(src)
	if err != nil {
		return Program{}, err
	}

	return Resolve(insts)
}

// LoadProgramFile reads and parses a whitespace source file.
func LoadProgramFile(filePath string) (Program, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return Program{}, fmt.Errorf("failed to read program file: %w", err)
	}

	p, err := Parse(src)
	if err != nil {
		return Program{}, fmt.Errorf("%s: %w", filePath, err)
	}

	return p, nil
}
