package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sarchlab/wspace/program"
)

// ctxPollInterval is how many instructions Run executes between checks of
// its context.
const ctxPollInterval = 1024

// Machine executes one resolved program. It is not safe for concurrent use.
type Machine struct {
	state coreState
	emu   instEmulator
	err   error
}

// NewMachine prepares p for execution from instruction 0 with empty stacks
// and heap.
func NewMachine(p program.Program, opts Options) *Machine {
	return &Machine{
		state: newCoreState(p, opts),
	}
}

// Step executes a single instruction. Once the machine has halted Step does
// nothing. Once it has failed Step keeps returning the same error.
func (m *Machine) Step() error {
	if m.err != nil {
		return m.err
	}

	if m.state.Halted {
		return nil
	}

	s := &m.state

	if s.PC >= s.Code.Len() {
		return m.fallOffEnd()
	}

	pc := s.PC
	inst := s.Code.At(pc)

	if slog.Default().Enabled(context.Background(), LevelTrace) {
		Trace("Inst",
			"PC", pc,
			"Op", inst.String(),
			"Depth", len(s.Stack),
		)
	}

	if err := m.emu.RunInst(inst, s); err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			fault.PC = pc
			fault.Inst = inst
		}

		return m.fail(err)
	}

	s.Steps++

	if s.Halted {
		return m.halt()
	}

	// Running off the end is noticed by the instruction that got there.
	if s.PC >= s.Code.Len() {
		return m.fallOffEnd()
	}

	return nil
}

func (m *Machine) fallOffEnd() error {
	if m.state.endPolicy == EndStrict {
		return m.fail(&Fault{Kind: ErrMissingEnd, PC: m.state.PC})
	}

	m.state.Halted = true

	return m.halt()
}

func (m *Machine) halt() error {
	if err := m.state.flush(); err != nil {
		m.err = err
		return err
	}

	slog.Debug("Halt", "PC", m.state.PC, "Steps", m.state.Steps)

	return nil
}

func (m *Machine) fail(err error) error {
	m.err = err

	// Output produced before the fault still reaches the sink.
	if ferr := m.state.flush(); ferr != nil {
		slog.Warn("Flush after fault failed", "error", ferr)
	}

	LogState(m)

	return err
}

// Run executes until the program halts or fails, or ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Done() {
		if m.state.Steps%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				if ferr := m.state.flush(); ferr != nil {
					return ferr
				}

				return err
			}
		}

		if err := m.Step(); err != nil {
			return err
		}
	}

	return m.err
}

// Flush writes buffered output to the output sink.
func (m *Machine) Flush() error {
	return m.state.flush()
}

// Done reports whether the machine will execute no further instructions.
func (m *Machine) Done() bool {
	return m.state.Halted || m.err != nil
}

// Halted reports whether the program finished normally.
func (m *Machine) Halted() bool {
	return m.state.Halted && m.err == nil
}

// Err returns the error that stopped the machine, if any.
func (m *Machine) Err() error {
	return m.err
}

// PC returns the index of the next instruction to execute.
func (m *Machine) PC() int {
	return m.state.PC
}

// Stack returns a copy of the value stack, bottom first.
func (m *Machine) Stack() []int64 {
	return append([]int64(nil), m.state.Stack...)
}

// Heap returns the value at addr and whether it was ever written.
func (m *Machine) Heap(addr int64) (int64, bool) {
	v, ok := m.state.Heap[addr]
	return v, ok
}

// CallDepth returns the number of pending return addresses.
func (m *Machine) CallDepth() int {
	return len(m.state.Calls)
}

// Steps returns the number of instructions executed successfully.
func (m *Machine) Steps() uint64 {
	return m.state.Steps
}

// Program returns the program the machine runs.
func (m *Machine) Program() program.Program {
	return m.state.Code
}
