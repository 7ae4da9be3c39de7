// Package instr defines the closed set of arithmetic operations and the
// instruction record that flows from the script parser to the dispatcher.
package instr

import "fmt"

// Opcode identifies one of the fixed arithmetic operations.
type Opcode int

// The operation set is closed. OpInvalid marks a token that is not one of the
// supported operations; it is carried through parsing and rejected when the
// instruction is dispatched.
const (
	OpInvalid Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpXor
)

var opcodeTokens = map[Opcode]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpXor: "xor",
}

// AllOpcodes returns the supported operations in a stable order.
func AllOpcodes() []Opcode {
	return []Opcode{OpAdd, OpSub, OpMul, OpXor}
}

// ParseOpcode maps a case-sensitive token to its opcode. Unknown tokens map to
// OpInvalid.
func ParseOpcode(token string) Opcode {
	for op, t := range opcodeTokens {
		if t == token {
			return op
		}
	}

	return OpInvalid
}

// Valid reports whether the opcode is one of the supported operations.
func (o Opcode) Valid() bool {
	_, ok := opcodeTokens[o]
	return ok
}

// String returns the script token of the opcode, which is also the name of
// the native function implementing it.
func (o Opcode) String() string {
	if t, ok := opcodeTokens[o]; ok {
		return t
	}

	return fmt.Sprintf("Opcode(%d)", int(o))
}

// Inst is a single parsed script line. It is not modified after parsing.
type Inst struct {
	Op    Opcode
	Token string // the opcode text as written in the script
	Src1  int64
	Src2  int64

	Line int    // 1-based line number in the script
	Raw  string // the line as read
}

func (i Inst) String() string {
	return fmt.Sprintf("%s %d, %d", i.Token, i.Src1, i.Src2)
}
