package analysis

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
)

// DetectRecursion reports every function that calls itself directly. Each
// function is reported at most once. Indirect recursion through other
// functions is not detected.
func DetectRecursion(m *ir.Module, w io.Writer) {
	for _, f := range definedFuncs(m) {
		if callsItself(f) {
			fmt.Fprintf(w, "Recursion detected: %s\n", f.Name())
		}
	}
}

func callsItself(f *ir.Func) bool {
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}

			if callee, ok := call.Callee.(*ir.Func); ok && callee == f {
				return true
			}
		}
	}

	return false
}
