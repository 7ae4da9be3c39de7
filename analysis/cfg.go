package analysis

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
)

// CFGDFS walks the control-flow graph of every defined function depth-first
// from its entry block and prints each reached block once. Unreachable
// blocks are not printed.
func CFGDFS(m *ir.Module, w io.Writer) {
	for _, f := range definedFuncs(m) {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Running DFS for the function %s\n", f.Name())

		visited := make(map[*ir.Block]bool)
		dfs(f.Blocks[0], visited, w)
	}
}

func dfs(b *ir.Block, visited map[*ir.Block]bool, w io.Writer) {
	visited[b] = true

	fmt.Fprintf(w, "Visiting block %s\n", b.Ident())
	fmt.Fprintln(w, b.LLString())

	if b.Term == nil {
		return
	}

	for _, succ := range b.Term.Succs() {
		if !visited[succ] {
			dfs(succ, visited, w)
		}
	}
}

// CountBasicBlocks prints every basic block of each defined function,
// followed by the number of blocks.
func CountBasicBlocks(m *ir.Module, w io.Writer) {
	for _, f := range definedFuncs(m) {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Counting and printing basic blocks in the function %s\n", f.Name())

		for _, b := range f.Blocks {
			fmt.Fprintln(w, b.LLString())
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "Number of basic blocks: %d\n", len(f.Blocks))
	}
}
