package core

import (
	"log/slog"
	"sync/atomic"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/wspace/program"
)

// Core runs a Machine as an akita component, one instruction per cycle.
type Core struct {
	*sim.TickingComponent

	opts        Options
	machine     *Machine
	interrupted atomic.Bool
}

// MapProgram sets the program that the core needs to run and schedules the
// first tick.
func (c *Core) MapProgram(p program.Program) {
	c.machine = NewMachine(p, c.opts)
	c.interrupted.Store(false)

	Trace("MapProgram",
		"Core", c.Name(),
		"Insts", p.Len(),
	)

	// TickingComponent does not schedule its first tick on its own.
	c.TickNow()
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.machine == nil || c.machine.Done() {
		return false
	}

	if c.interrupted.Load() {
		Trace("Interrupted",
			"Core", c.Name(),
			"PC", c.machine.PC(),
		)

		if err := c.machine.Flush(); err != nil {
			slog.Warn("Flush after interrupt failed", "error", err)
		}

		return false
	}

	if err := c.machine.Step(); err != nil {
		Trace("Fault",
			"Core", c.Name(),
			"Time", float64(c.Engine.CurrentTime()*1e9),
			"Error", err,
		)

		return false
	}

	return !c.machine.Done()
}

// Interrupt makes the core stop at its next tick, leaving the program
// neither halted nor failed. It is safe to call from another goroutine.
func (c *Core) Interrupt() {
	c.interrupted.Store(true)
}

// Machine returns the machine of the mapped program, or nil.
func (c *Core) Machine() *Machine {
	return c.machine
}

// Halted reports whether the mapped program finished normally.
func (c *Core) Halted() bool {
	return c.machine != nil && c.machine.Halted()
}

// Err returns the error that stopped the mapped program.
func (c *Core) Err() error {
	if c.machine == nil {
		return nil
	}

	return c.machine.Err()
}

// Steps returns the number of instructions the core has executed.
func (c *Core) Steps() uint64 {
	if c.machine == nil {
		return 0
	}

	return c.machine.Steps()
}
