// Package api defines the driver API that runs Whitespace programs on
// simulated devices.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/wspace/program"
)

var (
	// ErrNoDevice is returned by Run when no device has been registered.
	ErrNoDevice = errors.New("no device registered")

	// ErrNoProgram is returned by Run when no program has been mapped.
	ErrNoProgram = errors.New("no program mapped")

	// ErrNotHalted is returned by Run when the engine ran out of events
	// while the device had neither halted nor failed.
	ErrNotHalted = errors.New("device stopped without halting")
)

// Device is an execution target that can run one mapped program.
type Device interface {
	Name() string

	// MapProgram loads the program and schedules its execution.
	MapProgram(p program.Program)

	// Halted reports whether the program finished normally.
	Halted() bool

	// Err returns the error that stopped the program, if any.
	Err() error

	// Steps returns the number of instructions executed.
	Steps() uint64

	// Interrupt asks the device to stop at its next cycle. It may be called
	// from any goroutine.
	Interrupt()
}

// Driver provides the interface to control a device.
type Driver interface {
	// RegisterDevice registers the device that programs run on.
	RegisterDevice(device Device)

	// MapProgram sets the program to run on the registered device.
	MapProgram(p program.Program)

	// Run executes the mapped program until the simulation has no more
	// events or ctx is done, and reports how long it took.
	Run(ctx context.Context) (Report, error)
}

// Report summarizes a finished run.
type Report struct {
	Steps   uint64
	Cycles  uint64
	SimTime sim.VTimeInSec
}

func (r Report) String() string {
	return fmt.Sprintf("%d instructions in %d cycles (%.9fs simulated)",
		r.Steps, r.Cycles, float64(r.SimTime))
}

type driverImpl struct {
	name   string
	engine sim.Engine
	freq   sim.Freq

	device  Device
	program *program.Program
}

// RegisterDevice registers a device to the driver.
func (d *driverImpl) RegisterDevice(device Device) {
	d.device = device
}

// MapProgram records the program for the next Run.
func (d *driverImpl) MapProgram(p program.Program) {
	d.program = &p
}

// Run dispatches the program to the device and runs the engine. Cancelling
// ctx interrupts the device, which drains the engine.
func (d *driverImpl) Run(ctx context.Context) (Report, error) {
	if d.device == nil {
		return Report{}, ErrNoDevice
	}

	if d.program == nil {
		return Report{}, ErrNoProgram
	}

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	d.device.MapProgram(*d.program)

	stop := context.AfterFunc(ctx, d.device.Interrupt)
	engineErr := d.engine.Run()
	stop()

	if engineErr != nil {
		return Report{}, fmt.Errorf("engine failed: %w", engineErr)
	}

	report := d.report()

	slog.Debug("RunFinished",
		"Driver", d.name,
		"Device", d.device.Name(),
		"Steps", report.Steps,
		"Cycles", report.Cycles,
	)

	if err := d.device.Err(); err != nil {
		return report, err
	}

	if d.device.Halted() {
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	return report, ErrNotHalted
}

func (d *driverImpl) report() Report {
	now := d.engine.CurrentTime()

	r := Report{
		Steps:   d.device.Steps(),
		SimTime: now,
	}

	// The first instruction runs in cycle 0.
	if r.Steps > 0 || d.device.Err() != nil {
		r.Cycles = uint64(math.Round(float64(now)*float64(d.freq))) + 1
	}

	return r
}
