package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/wspace/instr"
)

// Fault kinds. A *Fault unwraps to exactly one of these.
var (
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrDivideByZero       = errors.New("divide by zero")
	ErrCallStackUnderflow = errors.New("call stack underflow")
	ErrInputExhausted     = errors.New("input exhausted")
	ErrUninitializedHeap  = errors.New("uninitialized heap read")
	ErrInvalidAddress     = errors.New("invalid heap address")
	ErrInvalidNumber      = errors.New("invalid number input")
	ErrMissingEnd         = errors.New("program ended without end")
)

// Fault is a runtime error raised by a Whitespace program. The faulting
// instruction has not changed the machine state and PC still points at it.
type Fault struct {
	Kind   error
	PC     int
	Inst   instr.Inst
	Detail string
}

func newFault(kind error, format string, args ...interface{}) *Fault {
	return &Fault{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (f *Fault) Error() string {
	var msg string
	if f.Kind == ErrMissingEnd {
		msg = fmt.Sprintf("%v at PC %d", f.Kind, f.PC)
	} else {
		msg = fmt.Sprintf("%v at PC %d (%s)", f.Kind, f.PC, f.Inst)
	}

	if f.Detail != "" {
		msg += ": " + f.Detail
	}

	return msg
}

func (f *Fault) Unwrap() error {
	return f.Kind
}
