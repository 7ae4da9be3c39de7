package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// DispatcherBuilder can create new dispatchers.
type DispatcherBuilder struct {
	engine   sim.Engine
	freq     sim.Freq
	resolver *Resolver
	invoker  Invoker
	out      io.Writer
}

// WithEngine sets the engine.
func (b DispatcherBuilder) WithEngine(engine sim.Engine) DispatcherBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the dispatcher.
func (b DispatcherBuilder) WithFreq(freq sim.Freq) DispatcherBuilder {
	b.freq = freq
	return b
}

// WithResolver sets the symbol cache.
func (b DispatcherBuilder) WithResolver(r *Resolver) DispatcherBuilder {
	b.resolver = r
	return b
}

// WithInvoker sets how native functions are called.
func (b DispatcherBuilder) WithInvoker(fn Invoker) DispatcherBuilder {
	b.invoker = fn
	return b
}

// WithOutput sets where results are written. Results are discarded by
// default.
func (b DispatcherBuilder) WithOutput(w io.Writer) DispatcherBuilder {
	b.out = w
	return b
}

// Build creates a dispatcher.
func (b DispatcherBuilder) Build(name string) *Dispatcher {
	if b.engine == nil {
		panic("dispatcher needs an engine")
	}

	if b.freq <= 0 {
		panic("dispatcher needs a positive frequency")
	}

	if b.resolver == nil {
		panic("dispatcher needs a resolver")
	}

	if b.invoker == nil {
		panic("dispatcher needs an invoker")
	}

	d := &Dispatcher{
		resolver: b.resolver,
		invoke:   b.invoker,
		out:      b.out,
	}

	if d.out == nil {
		d.out = io.Discard
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
