package api

import "github.com/sarchlab/akita/v4/sim"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency the driver converts simulated time with. It
// should match the frequency of the device.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver builder needs an engine")
	}

	freq := b.freq
	if freq == 0 {
		freq = 1 * sim.GHz
	}

	return &driverImpl{
		name:   name,
		engine: b.engine,
		freq:   freq,
	}
}
