package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	opts   Options
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithInput sets where ReadChar and ReadNum read from.
func (b Builder) WithInput(in io.Reader) Builder {
	b.opts.Input = in
	return b
}

// WithOutput sets where OutChar and OutNum write to.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.opts.Output = out
	return b
}

func (b Builder) WithHeapPolicy(p HeapPolicy) Builder {
	b.opts.Heap = p
	return b
}

func (b Builder) WithEndPolicy(p EndPolicy) Builder {
	b.opts.End = p
	return b
}

func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("core builder needs an engine")
	}

	c := &Core{opts: b.opts}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
