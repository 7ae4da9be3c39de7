// Package irgen builds the IR module holding one native function per
// supported arithmetic operation.
package irgen

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sarchlab/arithjit/instr"
)

// ModuleName is the identifier of every generated module.
const ModuleName = "arith_module"

// ErrModuleConsumed is returned when a module is used after its IR has been
// handed to the compiler.
var ErrModuleConsumed = errors.New("module already released to the compiler")

// Module owns a generated IR module until Release transfers it.
type Module struct {
	m *ir.Module
}

// BuildModule creates a new module with one function per opcode, named after
// the opcode token. Every call returns an independent module.
func BuildModule() *Module {
	m := ir.NewModule()
	m.SourceFilename = ModuleName

	for _, op := range instr.AllOpcodes() {
		addOperation(m, op)
	}

	return &Module{m: m}
}

// addOperation emits
//
//	define i64 @<op>(i64 %a, i64 %b) {
//	entry:
//	  %result = <op> i64 %a, %b
//	  ret i64 %result
//	}
func addOperation(m *ir.Module, op instr.Opcode) *ir.Func {
	a := ir.NewParam("a", types.I64)
	b := ir.NewParam("b", types.I64)

	f := m.NewFunc(op.String(), types.I64, a, b)
	f.Linkage = enum.LinkageExternal

	entry := f.NewBlock("entry")

	var result value.Named
	switch op {
	case instr.OpAdd:
		result = entry.NewAdd(a, b)
	case instr.OpSub:
		result = entry.NewSub(a, b)
	case instr.OpMul:
		result = entry.NewMul(a, b)
	case instr.OpXor:
		result = entry.NewXor(a, b)
	default:
		panic(fmt.Sprintf("no IR lowering for opcode %s", op))
	}

	result.SetName("result")
	entry.NewRet(result)

	return f
}

// FuncNames lists the functions defined in the module.
func (m *Module) FuncNames() ([]string, error) {
	if m.m == nil {
		return nil, ErrModuleConsumed
	}

	names := make([]string, 0, len(m.m.Funcs))
	for _, f := range m.m.Funcs {
		names = append(names, f.Name())
	}

	return names, nil
}

// IR returns the module as LLVM IR assembly.
func (m *Module) IR() (string, error) {
	if m.m == nil {
		return "", ErrModuleConsumed
	}

	return m.m.String(), nil
}

// Inspect lends the IR module to fn without transferring ownership. fn must
// not keep the pointer.
func (m *Module) Inspect(fn func(*ir.Module)) error {
	if m.m == nil {
		return ErrModuleConsumed
	}

	fn(m.m)

	return nil
}

// Released reports whether the IR has been handed over.
func (m *Module) Released() bool {
	return m.m == nil
}

// Release hands the IR module to the caller and drops the module's own
// reference. It succeeds exactly once.
func (m *Module) Release() (*ir.Module, error) {
	if m.m == nil {
		return nil, ErrModuleConsumed
	}

	out := m.m
	m.m = nil

	return out, nil
}
