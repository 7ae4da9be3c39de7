// Package core executes parsed programs against compiled native functions.
//
// The Dispatcher is a ticking component that runs one instruction per cycle,
// in program order. Native entry points are obtained through a Resolver,
// which caches every address after its first lookup.
package core

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/arithjit/instr"
	"github.com/sarchlab/arithjit/program"
)

// Invoker calls the native function at addr with two operands.
type Invoker func(addr uintptr, a, b int64) int64

// Dispatcher walks a program and invokes the native function of each
// instruction. The first failure stops the walk; results already written stay
// written.
type Dispatcher struct {
	*sim.TickingComponent

	resolver *Resolver
	invoke   Invoker
	out      io.Writer

	prog    program.Program
	pc      int
	results []int64
	err     error
	buf     []byte
}

// MapProgram sets the program to run and schedules the first tick.
func (d *Dispatcher) MapProgram(p program.Program) {
	d.prog = p
	d.pc = 0
	d.results = make([]int64, 0, p.Len())
	d.err = nil

	if p.Len() > 0 {
		d.TickNow()
	}
}

// Tick runs the next instruction.
func (d *Dispatcher) Tick() (madeProgress bool) {
	if d.err != nil || d.pc >= d.prog.Len() {
		return false
	}

	inst := d.prog.Insts[d.pc]
	_, cached := d.resolver.Cached(inst.Op)

	result, err := d.runInst(inst)
	if err != nil {
		d.err = err

		slog.Debug("dispatch stopped",
			"script", d.prog.Name,
			"line", inst.Line,
			"error", err,
		)

		return false
	}

	d.results = append(d.results, result)
	d.pc++

	Trace("Dispatch",
		"Time", float64(d.Engine.CurrentTime()*1e9),
		"Line", inst.Line,
		"Op", inst.Token,
		"Src1", inst.Src1,
		"Src2", inst.Src2,
		"Cached", cached,
		"Result", result,
	)

	return true
}

func (d *Dispatcher) runInst(inst instr.Inst) (int64, error) {
	if !inst.Op.Valid() {
		return 0, &UnknownOpcodeError{Line: inst.Line, Token: inst.Token}
	}

	addr, err := d.resolver.Resolve(inst.Op)
	if err != nil {
		return 0, err
	}

	result := d.invoke(addr, inst.Src1, inst.Src2)

	d.buf = strconv.AppendInt(d.buf[:0], result, 10)
	d.buf = append(d.buf, '\n')

	if _, err := d.out.Write(d.buf); err != nil {
		return 0, fmt.Errorf("writing result of line %d: %w", inst.Line, err)
	}

	return result, nil
}

// Err returns the error that stopped the program, if any.
func (d *Dispatcher) Err() error {
	return d.err
}

// Done reports whether every instruction has run successfully.
func (d *Dispatcher) Done() bool {
	return d.err == nil && d.pc >= d.prog.Len()
}

// Results returns the values produced so far, in program order.
func (d *Dispatcher) Results() []int64 {
	return d.results
}

// Executed returns the number of instructions that completed.
func (d *Dispatcher) Executed() int {
	return d.pc
}

// Resolver returns the symbol cache used by the dispatcher.
func (d *Dispatcher) Resolver() *Resolver {
	return d.resolver
}
