package verify

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/wspace/core"
	"github.com/sarchlab/wspace/program"
)

// ErrStepLimit is reported when a functional run does not finish within its
// step budget.
var ErrStepLimit = errors.New("step limit reached")

// SimResult is the outcome of a functional run.
type SimResult struct {
	Steps  uint64
	Halted bool
	Output string
	Err    error

	machine *core.Machine
}

// OK reports whether the program halted normally.
func (r SimResult) OK() bool {
	return r.Halted && r.Err == nil
}

// RunFunctional executes p with the given input for at most maxSteps
// instructions.
func RunFunctional(p program.Program, input string, maxSteps int) SimResult {
	var out bytes.Buffer

	m := core.NewMachine(p, core.Options{
		Input:  strings.NewReader(input),
		Output: &out,
	})

	for step := 0; step < maxSteps && !m.Done(); step++ {
		if err := m.Step(); err != nil {
			break
		}
	}

	// A run cut off by the limit still has buffered output.
	flushErr := m.Flush()

	result := SimResult{
		Steps:   m.Steps(),
		Halted:  m.Halted(),
		Output:  out.String(),
		Err:     m.Err(),
		machine: m,
	}

	if !m.Done() {
		result.Err = fmt.Errorf("%w after %d instructions", ErrStepLimit, m.Steps())
	} else if result.Err == nil && flushErr != nil {
		result.Err = flushErr
	}

	return result
}

// StateTable renders the machine state at the end of the run.
func (r SimResult) StateTable() string {
	if r.machine == nil {
		return ""
	}

	return core.StateTable(r.machine)
}
