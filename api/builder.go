package api

import (
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	out    io.Writer
	irSink io.Writer
	logger *slog.Logger
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency the instructions are dispatched at.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithOutput sets where results are written.
func (b DriverBuilder) WithOutput(w io.Writer) DriverBuilder {
	b.out = w
	return b
}

// WithIRSink makes the driver write the generated module as LLVM IR to w
// before compiling it.
func (b DriverBuilder) WithIRSink(w io.Writer) DriverBuilder {
	b.irSink = w
	return b
}

// WithLogger sets the logger. slog.Default is used otherwise.
func (b DriverBuilder) WithLogger(l *slog.Logger) DriverBuilder {
	b.logger = l
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver needs an engine")
	}

	if b.freq <= 0 {
		panic("driver needs a positive frequency")
	}

	d := &driverImpl{
		name:   name,
		engine: b.engine,
		freq:   b.freq,
		out:    b.out,
		irSink: b.irSink,
		logger: b.logger,
	}

	if d.out == nil {
		d.out = io.Discard
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}
