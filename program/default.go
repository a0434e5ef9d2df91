package program

import "github.com/sarchlab/wspace/instr"

const (
	space = " "
	tab   = "\t"
	lf    = "\n"
)

var defaultISA = NewISA("Whitespace")

func init() {
	defaultISAinit()
}

// defaultISAinit registers the instruction words of the standard language.
// The first one or two characters select the instruction family.
func defaultISAinit() {
	// Stack manipulation: S
	defaultISA.registerNewInst(space+space, instr.Push)
	defaultISA.registerNewInst(space+lf+space, instr.Dup)
	defaultISA.registerNewInst(space+tab+space, instr.Copy)
	defaultISA.registerNewInst(space+lf+tab, instr.Swap)
	defaultISA.registerNewInst(space+lf+lf, instr.Discard)
	defaultISA.registerNewInst(space+tab+lf, instr.Slide)

	// Arithmetic: TS
	defaultISA.registerNewInst(tab+space+space+space, instr.Add)
	defaultISA.registerNewInst(tab+space+space+tab, instr.Sub)
	defaultISA.registerNewInst(tab+space+space+lf, instr.Mul)
	defaultISA.registerNewInst(tab+space+tab+space, instr.Div)
	defaultISA.registerNewInst(tab+space+tab+tab, instr.Mod)

	// Heap access: TT
	defaultISA.registerNewInst(tab+tab+space, instr.Store)
	defaultISA.registerNewInst(tab+tab+tab, instr.Retrieve)

	// Flow control: L
	defaultISA.registerNewInst(lf+space+space, instr.Label)
	defaultISA.registerNewInst(lf+space+tab, instr.Call)
	defaultISA.registerNewInst(lf+space+lf, instr.Jump)
	defaultISA.registerNewInst(lf+tab+space, instr.JumpIfZero)
	defaultISA.registerNewInst(lf+tab+tab, instr.JumpIfNeg)
	defaultISA.registerNewInst(lf+tab+lf, instr.Return)
	defaultISA.registerNewInst(lf+lf+lf, instr.End)

	// I/O: TL
	defaultISA.registerNewInst(tab+lf+space+space, instr.OutChar)
	defaultISA.registerNewInst(tab+lf+space+tab, instr.OutNum)
	defaultISA.registerNewInst(tab+lf+tab+space, instr.ReadChar)
	defaultISA.registerNewInst(tab+lf+tab+tab, instr.ReadNum)
}
