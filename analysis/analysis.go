// Package analysis prints diagnostic reports over LLVM IR modules.
//
// Every report reads the module and writes plain text; none of them changes
// the module. Reports are registered by name so that tools can select them:
//
//	pass, ok := analysis.Lookup("cfg-dfs")
//	pass.Run(m, os.Stdout)
package analysis

import (
	"io"
	"sort"

	"github.com/llir/llvm/ir"
)

const rule = "----------------------------------------------------------------"

// Pass is a read-only report over a module.
type Pass struct {
	Name        string
	Description string
	Run         func(m *ir.Module, w io.Writer)
}

var passes = map[string]Pass{
	"cfg-dfs": {
		Name:        "cfg-dfs",
		Description: "depth-first walk of each function's control-flow graph",
		Run:         CFGDFS,
	},
	"count-blocks": {
		Name:        "count-blocks",
		Description: "basic blocks of each function, with their count",
		Run:         CountBasicBlocks,
	},
	"detect-recursion": {
		Name:        "detect-recursion",
		Description: "functions that call themselves directly",
		Run:         DetectRecursion,
	},
	"globals": {
		Name:        "globals",
		Description: "global variables with their types",
		Run:         GlobalVariables,
	},
	"unused-globals": {
		Name:        "unused-globals",
		Description: "global variables that nothing refers to",
		Run:         UnusedGlobalVariables,
	},
}

// Lookup returns the pass registered under name.
func Lookup(name string) (Pass, bool) {
	p, ok := passes[name]
	return p, ok
}

// Passes returns every registered pass, sorted by name.
func Passes() []Pass {
	out := make([]Pass, 0, len(passes))
	for _, p := range passes {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func definedFuncs(m *ir.Module) []*ir.Func {
	var funcs []*ir.Func

	for _, f := range m.Funcs {
		if len(f.Blocks) > 0 {
			funcs = append(funcs, f)
		}
	}

	return funcs
}
