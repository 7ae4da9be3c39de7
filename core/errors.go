package core

import (
	"fmt"

	"github.com/sarchlab/arithjit/instr"
)

// UnknownOpcodeError is raised when the dispatcher reaches an instruction
// whose token is not a supported operation.
type UnknownOpcodeError struct {
	Line  int
	Token string
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("line %d: unknown opcode %q", e.Line, e.Token)
}

// SymbolResolutionError is raised when the compiled artifact has no native
// function for an opcode.
type SymbolResolutionError struct {
	Op  instr.Opcode
	Err error
}

func (e *SymbolResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve native function %q: %v", e.Op.String(), e.Err)
}

func (e *SymbolResolutionError) Unwrap() error {
	return e.Err
}
