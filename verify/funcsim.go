package verify

import (
	"github.com/sarchlab/arithjit/core"
	"github.com/sarchlab/arithjit/instr"
	"github.com/sarchlab/arithjit/program"
)

// FunctionalSimulator runs a program in plain Go. It follows the dispatcher:
// instructions run in file order and an unsupported opcode stops the run,
// keeping the results computed before it.
type FunctionalSimulator struct {
	prog    program.Program
	results []int64

	TraceOpPre  func(inst instr.Inst)
	TraceOpPost func(inst instr.Inst, result int64)
}

// NewFunctionalSimulator creates a simulator for p.
func NewFunctionalSimulator(p program.Program) *FunctionalSimulator {
	return &FunctionalSimulator{prog: p}
}

// Run executes the program once. The error, if any, is a
// *core.UnknownOpcodeError for the first unsupported instruction.
func (fs *FunctionalSimulator) Run() error {
	fs.results = make([]int64, 0, fs.prog.Len())

	for _, inst := range fs.prog.Insts {
		if fs.TraceOpPre != nil {
			fs.TraceOpPre(inst)
		}

		if !inst.Op.Valid() {
			return &core.UnknownOpcodeError{Line: inst.Line, Token: inst.Token}
		}

		result, err := Eval(inst.Op, inst.Src1, inst.Src2)
		if err != nil {
			return err
		}

		fs.results = append(fs.results, result)

		if fs.TraceOpPost != nil {
			fs.TraceOpPost(inst, result)
		}
	}

	return nil
}

// Results returns the values computed by the last Run.
func (fs *FunctionalSimulator) Results() []int64 {
	return fs.results
}
