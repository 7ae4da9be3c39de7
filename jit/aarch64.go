package jit

import (
	"encoding/binary"

	"github.com/sarchlab/arithjit/instr"
)

// arm64 base encodings of the 64-bit register forms.
const (
	arm64Add  uint32 = 0x8B000000 // ADD Xd, Xn, Xm
	arm64Sub  uint32 = 0xCB000000 // SUB Xd, Xn, Xm
	arm64Eor  uint32 = 0xCA000000 // EOR Xd, Xn, Xm
	arm64Mul  uint32 = 0x9B007C00 // MADD Xd, Xn, Xm, XZR
	arm64Mov  uint32 = 0xAA0003E0 // ORR Xd, XZR, Xm
	arm64Movz uint32 = 0xD2800000
	arm64Movk uint32 = 0xF2800000
	arm64Ret  uint32 = 0xD65F03C0
)

var arm64Opcodes = map[instr.Opcode]uint32{
	instr.OpAdd: arm64Add,
	instr.OpSub: arm64Sub,
	instr.OpMul: arm64Mul,
	instr.OpXor: arm64Eor,
}

// arm64Backend follows AAPCS64: arguments in X0 and X1, result in X0.
// Intermediate values live in X2-X15, which are caller-saved and not reserved
// by the Go runtime.
type arm64Backend struct {
	buf []byte
}

func newARM64Backend() backend {
	return &arm64Backend{}
}

func (e *arm64Backend) argRegs() []reg {
	return []reg{0, 1}
}

func (e *arm64Backend) retReg() reg {
	return 0
}

func (e *arm64Backend) pool() []reg {
	regs := make([]reg, 0, 14)
	for r := reg(2); r <= 15; r++ {
		regs = append(regs, r)
	}

	return regs
}

func (e *arm64Backend) word(w uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, w)
}

func (e *arm64Backend) movReg(dst, src reg) {
	e.word(arm64Mov | uint32(src)<<16 | uint32(dst))
}

// movImm emits MOVZ for the low half-word and MOVK for every other non-zero
// half-word.
func (e *arm64Backend) movImm(dst reg, imm int64) {
	u := uint64(imm)

	e.word(arm64Movz | uint32(u&0xFFFF)<<5 | uint32(dst))

	for hw := uint32(1); hw < 4; hw++ {
		chunk := uint32(u>>(16*hw)) & 0xFFFF
		if chunk == 0 {
			continue
		}
		e.word(arm64Movk | hw<<21 | chunk<<5 | uint32(dst))
	}
}

func (e *arm64Backend) binary(op instr.Opcode, dst, x, y reg) {
	base, ok := arm64Opcodes[op]
	if !ok {
		panic("arm64 backend: no encoding for " + op.String())
	}

	e.word(base | uint32(y)<<16 | uint32(x)<<5 | uint32(dst))
}

func (e *arm64Backend) ret() {
	e.word(arm64Ret)
}

// padByte yields UDF #0 words when repeated.
func (e *arm64Backend) padByte() byte {
	return 0x00
}

func (e *arm64Backend) code() []byte {
	return e.buf
}
