package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/llir/llvm/ir"
)

// GlobalVariables prints the name and type of every global variable.
func GlobalVariables(m *ir.Module, w io.Writer) {
	for _, g := range m.Globals {
		fmt.Fprintf(w, "Variable Name: %s\n", g.Name())
		fmt.Fprintf(w, "Variable Type: %s\n", g.Type().LLString())
	}
}

// UnusedGlobalVariables prints the globals that no instruction, terminator
// or global initializer refers to. A global named in its own initializer
// counts as used.
func UnusedGlobalVariables(m *ir.Module, w io.Writer) {
	texts := referenceTexts(m)

	for _, g := range m.Globals {
		used := false
		ident := g.Ident()

		for _, t := range texts {
			if refersTo(t, ident) {
				used = true
				break
			}
		}

		if !used {
			fmt.Fprintf(w, "Unused global variable: %s\n", g.Name())
		}
	}
}

// referenceTexts collects the IR text of everything that can use a global.
func referenceTexts(m *ir.Module) []string {
	var texts []string

	for _, g := range m.Globals {
		if g.Init != nil {
			texts = append(texts, g.Init.Ident())
		}
	}

	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			for _, inst := range b.Insts {
				texts = append(texts, inst.LLString())
			}

			if b.Term != nil {
				texts = append(texts, b.Term.LLString())
			}
		}
	}

	return texts
}

// refersTo reports whether text contains ident as a whole identifier.
func refersTo(text, ident string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], ident)
		if i < 0 {
			return false
		}

		end := start + i + len(ident)
		if end == len(text) || !isIdentChar(text[end]) {
			return true
		}

		start = end
	}
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '$' || c == '.' || c == '_'
}
