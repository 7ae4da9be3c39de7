// Package api wires the parser output, the IR builder, the JIT compiler and
// the dispatcher into a single run.
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/arithjit/core"
	"github.com/sarchlab/arithjit/irgen"
	"github.com/sarchlab/arithjit/jit"
	"github.com/sarchlab/arithjit/program"
)

// ErrAlreadyRun is returned when Run is called on a driver that has already
// run a program.
var ErrAlreadyRun = errors.New("driver has already run a program")

// Driver compiles the arithmetic operations for the host and runs programs on
// the compiled code.
type Driver interface {
	// Run builds and compiles the operation module, then executes every
	// instruction of p in order. The first failure aborts the run and is
	// returned; results of earlier instructions have already been written.
	// A driver runs at most one program.
	Run(p program.Program) error

	// State returns the current lifecycle state.
	State() State

	// Results returns the values computed so far.
	Results() []int64

	// Stats describes the compiled code and the symbol cache.
	Stats() Stats

	// Close releases the compiled code. It is safe to call more than once.
	Close() error
}

// Stats summarizes one run.
type Stats struct {
	Target   string
	CodeSize int
	Code     []jit.Symbol
	Executed int
	Symbols  core.ResolverStats
}

type driverImpl struct {
	name   string
	engine sim.Engine
	freq   sim.Freq
	out    io.Writer
	irSink io.Writer
	logger *slog.Logger

	state       State
	transitions []State

	target     *jit.Target
	artifact   *jit.Artifact
	dispatcher *core.Dispatcher
}

// Run executes p.
func (d *driverImpl) Run(p program.Program) error {
	if d.state != StateUninitialized {
		return ErrAlreadyRun
	}

	if err := d.run(p); err != nil {
		d.enter(StateAborted)
		d.logger.Debug("run aborted", "driver", d.name, "error", err)

		return err
	}

	return nil
}

func (d *driverImpl) run(p program.Program) error {
	target, err := jit.InitNativeTarget()
	if err != nil {
		return &jit.CompilationError{Err: err}
	}
	d.target = target

	mod := irgen.BuildModule()
	d.enter(StateModuleBuilt)

	if d.irSink != nil {
		if err := d.emitIR(mod); err != nil {
			return err
		}
	}

	artifact, err := jit.NewCompiler().WithLogger(d.logger).Compile(mod)
	if err != nil {
		return err
	}
	d.artifact = artifact
	d.enter(StateCompiled)

	d.dispatcher = core.DispatcherBuilder{}.
		WithEngine(d.engine).
		WithFreq(d.freq).
		WithResolver(core.NewResolver(artifact)).
		WithInvoker(jit.Call).
		WithOutput(d.out).
		Build(d.name + ".Dispatcher")

	d.enter(StateExecuting)
	d.dispatcher.MapProgram(p)
	d.engine.Run()

	if err := d.dispatcher.Err(); err != nil {
		return err
	}

	if !d.dispatcher.Done() {
		return fmt.Errorf("dispatcher stopped after %d of %d instructions",
			d.dispatcher.Executed(), p.Len())
	}

	d.enter(StateDone)

	return nil
}

func (d *driverImpl) emitIR(mod *irgen.Module) error {
	text, err := mod.IR()
	if err != nil {
		return err
	}

	if _, err := io.WriteString(d.irSink, text); err != nil {
		return fmt.Errorf("emitting IR: %w", err)
	}

	return nil
}

// enter moves the driver forward. Aborted is reachable from any state but
// Done; every other transition must move forward.
func (d *driverImpl) enter(s State) {
	switch {
	case s == StateAborted && d.state == StateDone:
		panic("cannot abort a finished run")
	case s != StateAborted && s <= d.state:
		panic(fmt.Sprintf("invalid state transition %s -> %s", d.state, s))
	case d.state == StateAborted:
		panic("run already aborted")
	}

	d.logger.Debug("state change", "driver", d.name, "from", d.state.String(), "to", s.String())

	d.state = s
	d.transitions = append(d.transitions, s)
}

func (d *driverImpl) State() State {
	return d.state
}

func (d *driverImpl) Results() []int64 {
	if d.dispatcher == nil {
		return nil
	}

	return d.dispatcher.Results()
}

func (d *driverImpl) Stats() Stats {
	s := Stats{}

	if d.target != nil {
		s.Target = d.target.String()
	}

	if d.artifact != nil {
		s.Target = d.artifact.Target().String()
		s.CodeSize = d.artifact.CodeSize()
		s.Code = d.artifact.Symbols()
	}

	if d.dispatcher != nil {
		s.Executed = d.dispatcher.Executed()
		s.Symbols = d.dispatcher.Resolver().Stats()
	}

	return s
}

func (d *driverImpl) Close() error {
	if d.artifact == nil {
		return nil
	}

	return d.artifact.Close()
}
