// Package program loads arithmetic scripts.
//
// A script holds one instruction per line in the form
//
//	<opcode> <int64>, <int64>
//
// Parsing is fail-fast: the first malformed line aborts the whole load and no
// partial program is returned. The opcode token is classified at parse time,
// but an unknown token is not a format error; it is reported when the
// instruction is dispatched.
package program

import (
	"os"

	"github.com/sarchlab/arithjit/instr"
)

// Program is the ordered, immutable instruction sequence of a script.
type Program struct {
	Name  string
	Insts []instr.Inst
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.Insts)
}

// LoadScriptFile opens and parses the script at path.
func LoadScriptFile(path string, opts ...Option) (Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return Program{}, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	return Parse(f, path, opts...)
}
