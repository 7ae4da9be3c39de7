// Command irreport prints diagnostic reports over an LLVM IR file, or over
// the module of native arithmetic functions.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/arithjit/analysis"
	"github.com/sarchlab/arithjit/irgen"
)

func main() {
	pass := flag.String("pass", "all", "report to print, or all")
	builtin := flag.Bool("builtin", false, "report over the generated arithmetic module")
	list := flag.Bool("list", false, "list the available reports")
	flag.Parse()

	if *list {
		for _, p := range analysis.Passes() {
			fmt.Printf("%-18s %s\n", p.Name, p.Description)
		}
		atexit.Exit(0)
	}

	passes, err := selectPasses(*pass)
	if err != nil {
		slog.Error("bad -pass", "error", err)
		atexit.Exit(1)
	}

	if *builtin {
		mod := irgen.BuildModule()
		if err := mod.Inspect(func(m *ir.Module) { report(m, passes, os.Stdout) }); err != nil {
			slog.Error("cannot inspect module", "error", err)
			atexit.Exit(1)
		}
		atexit.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: irreport [-pass name] file.ll | irreport -builtin")
		atexit.Exit(1)
	}

	m, err := asm.ParseFile(flag.Arg(0))
	if err != nil {
		slog.Error("cannot parse IR", "file", flag.Arg(0), "error", err)
		atexit.Exit(1)
	}

	report(m, passes, os.Stdout)
	atexit.Exit(0)
}

func selectPasses(name string) ([]analysis.Pass, error) {
	if name == "all" {
		return analysis.Passes(), nil
	}

	p, ok := analysis.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown report %q", name)
	}

	return []analysis.Pass{p}, nil
}

func report(m *ir.Module, passes []analysis.Pass, w io.Writer) {
	for _, p := range passes {
		if len(passes) > 1 {
			fmt.Fprintf(w, "==== %s ====\n", p.Name)
		}
		p.Run(m, w)
	}
}
