package core

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sarchlab/wspace/instr"
)

type instEmulator struct{}

// RunInst executes one instruction against the state. On success PC has
// moved to the next instruction to run. A returned *Fault leaves the state
// exactly as it was.
func (i instEmulator) RunInst(inst instr.Inst, state *coreState) error {
	switch inst.Op {
	case instr.Push:
		return i.runPush(inst, state)
	case instr.Dup:
		return i.runCopy(0, state)
	case instr.Copy:
		return i.runCopy(inst.Arg, state)
	case instr.Swap:
		return i.runSwap(state)
	case instr.Discard:
		return i.runDiscard(state)
	case instr.Slide:
		return i.runSlide(inst.Arg, state)

	case instr.Add:
		return i.runArith(state, func(l, r int64) int64 { return l + r })
	case instr.Sub:
		return i.runArith(state, func(l, r int64) int64 { return l - r })
	case instr.Mul:
		return i.runArith(state, func(l, r int64) int64 { return l * r })
	case instr.Div:
		return i.runDivision(state, floorDiv)
	case instr.Mod:
		return i.runDivision(state, floorMod)

	case instr.Store:
		return i.runStore(state)
	case instr.Retrieve:
		return i.runRetrieve(state)

	case instr.Label:
		state.PC++
		return nil
	case instr.Call:
		return i.runCall(inst, state)
	case instr.Jump:
		state.PC = inst.Target
		return nil
	case instr.JumpIfZero:
		return i.runBranch(inst, state, func(v int64) bool { return v == 0 })
	case instr.JumpIfNeg:
		return i.runBranch(inst, state, func(v int64) bool { return v < 0 })
	case instr.Return:
		return i.runReturn(state)
	case instr.End:
		state.Halted = true
		return nil

	case instr.OutChar:
		return i.runOutChar(state)
	case instr.OutNum:
		return i.runOutNum(state)
	case instr.ReadChar:
		return i.runReadChar(state)
	case instr.ReadNum:
		return i.runReadNum(state)

	default:
		panic(fmt.Sprintf("unknown opcode %d at PC %d", inst.Op, state.PC))
	}
}

func (i instEmulator) runPush(inst instr.Inst, state *coreState) error {
	state.push(inst.Arg)
	state.PC++

	return nil
}

func (i instEmulator) runCopy(n int64, state *coreState) error {
	if n < 0 {
		return newFault(ErrStackUnderflow, "negative copy index %d", n)
	}

	if n >= int64(len(state.Stack)) {
		return newFault(ErrStackUnderflow,
			"copy index %d with %d values on the stack", n, len(state.Stack))
	}

	state.push(state.peek(int(n)))
	state.PC++

	return nil
}

func (i instEmulator) runSwap(state *coreState) error {
	if err := state.require(2); err != nil {
		return err
	}

	top := len(state.Stack) - 1
	state.Stack[top], state.Stack[top-1] = state.Stack[top-1], state.Stack[top]
	state.PC++

	return nil
}

func (i instEmulator) runDiscard(state *coreState) error {
	if err := state.require(1); err != nil {
		return err
	}

	state.pop()
	state.PC++

	return nil
}

func (i instEmulator) runSlide(n int64, state *coreState) error {
	if n < 0 {
		return newFault(ErrStackUnderflow, "negative slide count %d", n)
	}

	if n >= int64(len(state.Stack)) {
		return newFault(ErrStackUnderflow,
			"slide %d with %d values on the stack", n, len(state.Stack))
	}

	top := state.pop()
	state.Stack = append(state.Stack[:len(state.Stack)-int(n)], top)
	state.PC++

	return nil
}

func (i instEmulator) runArith(
	state *coreState,
	op func(l, r int64) int64,
) error {
	if err := state.require(2); err != nil {
		return err
	}

	r := state.pop()
	l := state.pop()
	state.push(op(l, r))
	state.PC++

	return nil
}

func (i instEmulator) runDivision(
	state *coreState,
	op func(l, r int64) int64,
) error {
	if err := state.require(2); err != nil {
		return err
	}

	if state.peek(0) == 0 {
		return newFault(ErrDivideByZero, "dividend %d", state.peek(1))
	}

	return i.runArith(state, op)
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(l, r int64) int64 {
	q := l / r
	if l%r != 0 && (l < 0) != (r < 0) {
		q--
	}

	return q
}

// floorMod returns a remainder with the sign of r.
func floorMod(l, r int64) int64 {
	m := l % r
	if m != 0 && (m < 0) != (r < 0) {
		m += r
	}

	return m
}

func (i instEmulator) checkAddress(addr int64) error {
	if addr < 0 {
		return newFault(ErrInvalidAddress, "address %d", addr)
	}

	return nil
}

func (i instEmulator) runStore(state *coreState) error {
	if err := state.require(2); err != nil {
		return err
	}

	if err := i.checkAddress(state.peek(1)); err != nil {
		return err
	}

	value := state.pop()
	addr := state.pop()
	state.Heap[addr] = value
	state.PC++

	return nil
}

func (i instEmulator) runRetrieve(state *coreState) error {
	if err := state.require(1); err != nil {
		return err
	}

	addr := state.peek(0)
	if err := i.checkAddress(addr); err != nil {
		return err
	}

	value, ok := state.Heap[addr]
	if !ok && state.heapPolicy == HeapStrict {
		return newFault(ErrUninitializedHeap, "address %d", addr)
	}

	state.Stack[len(state.Stack)-1] = value
	state.PC++

	return nil
}

func (i instEmulator) runCall(inst instr.Inst, state *coreState) error {
	state.Calls = append(state.Calls, state.PC+1)
	state.PC = inst.Target

	return nil
}

func (i instEmulator) runReturn(state *coreState) error {
	if len(state.Calls) == 0 {
		return newFault(ErrCallStackUnderflow, "")
	}

	state.PC = state.Calls[len(state.Calls)-1]
	state.Calls = state.Calls[:len(state.Calls)-1]

	return nil
}

func (i instEmulator) runBranch(
	inst instr.Inst,
	state *coreState,
	cond func(int64) bool,
) error {
	if err := state.require(1); err != nil {
		return err
	}

	if cond(state.pop()) {
		state.PC = inst.Target
	} else {
		state.PC++
	}

	return nil
}

func (i instEmulator) runOutChar(state *coreState) error {
	if err := state.require(1); err != nil {
		return err
	}

	r := utf8.RuneError
	if v := state.pop(); v >= 0 && v <= utf8.MaxRune {
		r = rune(v)
	}

	if _, err := state.out.WriteRune(r); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	state.PC++

	return nil
}

func (i instEmulator) runOutNum(state *coreState) error {
	if err := state.require(1); err != nil {
		return err
	}

	v := state.pop()
	if _, err := state.out.WriteString(strconv.FormatInt(v, 10)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	state.PC++

	return nil
}

func (i instEmulator) runReadChar(state *coreState) error {
	if err := state.require(1); err != nil {
		return err
	}

	addr := state.peek(0)
	if err := i.checkAddress(addr); err != nil {
		return err
	}

	if err := state.flush(); err != nil {
		return err
	}

	r, _, err := state.in.ReadRune()
	if errors.Is(err, io.EOF) {
		return newFault(ErrInputExhausted, "")
	} else if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	state.pop()
	state.Heap[addr] = int64(r)
	state.PC++

	return nil
}

func (i instEmulator) runReadNum(state *coreState) error {
	if err := state.require(1); err != nil {
		return err
	}

	addr := state.peek(0)
	if err := i.checkAddress(addr); err != nil {
		return err
	}

	if err := state.flush(); err != nil {
		return err
	}

	line, err := state.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if line == "" {
		return newFault(ErrInputExhausted, "")
	}

	text := strings.TrimSpace(line)
	value, perr := strconv.ParseInt(text, 10, 64)
	if perr != nil {
		return newFault(ErrInvalidNumber, "%q", text)
	}

	state.pop()
	state.Heap[addr] = value
	state.PC++

	return nil
}
