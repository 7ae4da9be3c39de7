package jit

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sarchlab/arithjit/instr"
)

// reg is a machine register number in the backend's own numbering.
type reg uint8

// backend encodes the few machine instructions the lowering needs. Each
// backend value encodes a single function.
type backend interface {
	argRegs() []reg
	retReg() reg
	// pool lists the registers that may hold intermediate values.
	pool() []reg

	movReg(dst, src reg)
	movImm(dst reg, imm int64)
	binary(op instr.Opcode, dst, x, y reg)
	ret()

	// padByte fills the gap between two functions.
	padByte() byte
	code() []byte
}

// lowerFunc translates a single-block function over i64 values into machine
// code. Every value gets its own register, so an instruction never clobbers
// one of its operands.
func lowerFunc(f *ir.Func, be backend) ([]byte, error) {
	if len(f.Blocks) != 1 {
		return nil, fmt.Errorf("expected one basic block, found %d", len(f.Blocks))
	}

	if !f.Sig.RetType.Equal(types.I64) {
		return nil, fmt.Errorf("unsupported return type %s", f.Sig.RetType)
	}

	if f.Sig.Variadic {
		return nil, fmt.Errorf("variadic functions are not supported")
	}

	args := be.argRegs()
	if len(f.Params) > len(args) {
		return nil, fmt.Errorf("%d parameters exceed the %d argument registers",
			len(f.Params), len(args))
	}

	l := &lowering{
		be:   be,
		regs: make(map[value.Value]reg),
		free: append([]reg(nil), be.pool()...),
	}

	for i, p := range f.Params {
		if !p.Typ.Equal(types.I64) {
			return nil, fmt.Errorf("parameter %s has unsupported type %s", p.Ident(), p.Typ)
		}
		l.regs[p] = args[i]
	}

	block := f.Blocks[0]
	for _, inst := range block.Insts {
		if err := l.lowerInst(inst); err != nil {
			return nil, err
		}
	}

	if err := l.lowerTerm(block.Term); err != nil {
		return nil, err
	}

	return be.code(), nil
}

type lowering struct {
	be   backend
	regs map[value.Value]reg
	free []reg
}

func (l *lowering) alloc() (reg, error) {
	if len(l.free) == 0 {
		return 0, fmt.Errorf("out of registers")
	}

	r := l.free[0]
	l.free = l.free[1:]

	return r, nil
}

func (l *lowering) lowerInst(inst ir.Instruction) error {
	var (
		op   instr.Opcode
		x, y value.Value
	)

	switch i := inst.(type) {
	case *ir.InstAdd:
		op, x, y = instr.OpAdd, i.X, i.Y
	case *ir.InstSub:
		op, x, y = instr.OpSub, i.X, i.Y
	case *ir.InstMul:
		op, x, y = instr.OpMul, i.X, i.Y
	case *ir.InstXor:
		op, x, y = instr.OpXor, i.X, i.Y
	default:
		return fmt.Errorf("unsupported instruction %q", inst.LLString())
	}

	result := inst.(value.Value)
	if !result.Type().Equal(types.I64) {
		return fmt.Errorf("unsupported operand type in %q", inst.LLString())
	}

	rx, err := l.operand(x)
	if err != nil {
		return err
	}

	ry, err := l.operand(y)
	if err != nil {
		return err
	}

	dst, err := l.alloc()
	if err != nil {
		return err
	}

	l.be.binary(op, dst, rx, ry)
	l.regs[result] = dst

	return nil
}

func (l *lowering) operand(v value.Value) (reg, error) {
	if r, ok := l.regs[v]; ok {
		return r, nil
	}

	c, ok := v.(*constant.Int)
	if !ok {
		return 0, fmt.Errorf("unsupported operand %s", v.Ident())
	}

	if !c.Typ.Equal(types.I64) || !c.X.IsInt64() {
		return 0, fmt.Errorf("constant %s does not fit in i64", c.Ident())
	}

	r, err := l.alloc()
	if err != nil {
		return 0, err
	}

	l.be.movImm(r, c.X.Int64())
	l.regs[v] = r

	return r, nil
}

func (l *lowering) lowerTerm(term ir.Terminator) error {
	ret, ok := term.(*ir.TermRet)
	if !ok {
		return fmt.Errorf("unsupported terminator %q", term.LLString())
	}

	if ret.X == nil {
		return fmt.Errorf("function must return an i64 value")
	}

	r, err := l.operand(ret.X)
	if err != nil {
		return err
	}

	if r != l.be.retReg() {
		l.be.movReg(l.be.retReg(), r)
	}

	l.be.ret()

	return nil
}
