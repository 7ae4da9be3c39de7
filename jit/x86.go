package jit

import (
	"encoding/binary"

	"github.com/sarchlab/arithjit/instr"
)

// x86-64 general purpose registers.
const (
	rax reg = iota
	rcx
	rdx
	rbx
	rsp
	rbp
	rsi
	rdi
	r8
	r9
	r10
	r11
	r12
	r13
	r14
	r15
)

// Register-to-register forms "op r/m64, r64".
var x86Opcodes = map[instr.Opcode]byte{
	instr.OpAdd: 0x01,
	instr.OpSub: 0x29,
	instr.OpXor: 0x31,
}

// x86Backend follows the System V calling convention: arguments arrive in
// RDI and RSI, the result leaves in RAX. Only caller-saved registers are used.
type x86Backend struct {
	buf []byte
}

func newX86Backend() backend {
	return &x86Backend{}
}

func (e *x86Backend) argRegs() []reg {
	return []reg{rdi, rsi}
}

func (e *x86Backend) retReg() reg {
	return rax
}

func (e *x86Backend) pool() []reg {
	return []reg{rax, rcx, rdx, r8, r9, r10, r11}
}

// rex returns a REX.W prefix extended for the ModRM reg and rm fields.
func (e *x86Backend) rex(regField, rmField reg) byte {
	b := byte(0x48)
	if regField >= 8 {
		b |= 0x04
	}
	if rmField >= 8 {
		b |= 0x01
	}

	return b
}

func (e *x86Backend) modrm(regField, rmField reg) byte {
	return 0xC0 | byte(regField&7)<<3 | byte(rmField&7)
}

// rr encodes "op dst, src" where dst is the r/m operand.
func (e *x86Backend) rr(opcode byte, dst, src reg) {
	e.buf = append(e.buf, e.rex(src, dst), opcode, e.modrm(src, dst))
}

func (e *x86Backend) movReg(dst, src reg) {
	e.rr(0x89, dst, src)
}

// movImm encodes MOVABS dst, imm64.
func (e *x86Backend) movImm(dst reg, imm int64) {
	b := byte(0x48)
	if dst >= 8 {
		b |= 0x01
	}

	e.buf = append(e.buf, b, 0xB8+byte(dst&7))
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(imm))
}

// binary computes dst = x op y as "mov dst, x; op dst, y". dst is always a
// fresh register, distinct from x and y.
func (e *x86Backend) binary(op instr.Opcode, dst, x, y reg) {
	e.movReg(dst, x)

	if op == instr.OpMul {
		// IMUL r64, r/m64 puts the destination in the reg field.
		e.buf = append(e.buf, e.rex(dst, y), 0x0F, 0xAF, e.modrm(dst, y))
		return
	}

	opcode, ok := x86Opcodes[op]
	if !ok {
		panic("x86 backend: no encoding for " + op.String())
	}

	e.rr(opcode, dst, y)
}

func (e *x86Backend) ret() {
	e.buf = append(e.buf, 0xC3)
}

// padByte is INT3.
func (e *x86Backend) padByte() byte {
	return 0xCC
}

func (e *x86Backend) code() []byte {
	return e.buf
}
