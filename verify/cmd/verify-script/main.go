// Command verify-script lints an arithmetic script and runs it on the
// functional simulator, without generating native code.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/arithjit/config"
	"github.com/sarchlab/arithjit/instr"
	"github.com/sarchlab/arithjit/program"
	"github.com/sarchlab/arithjit/verify"
)

const banner = "=============================================================================="

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify-script", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "reject leading and trailing whitespace")
	reportPath := fs.String("report", "", "also save the report to this file")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	script := config.DefaultScript
	if fs.NArg() > 0 {
		script = fs.Arg(0)
	}

	var opts []program.Option
	if *strict {
		opts = append(opts, program.WithStrictWhitespace())
	}

	prog, err := program.LoadScriptFile(script, opts...)
	if err != nil {
		slog.Error("cannot load script", "error", err)
		return 1
	}

	fmt.Fprintln(stdout, banner)
	fmt.Fprintf(stdout, "SCRIPT VERIFICATION: %s (%d instructions)\n", script, prog.Len())
	fmt.Fprintln(stdout, banner)

	issues := verify.RunLint(prog)
	if len(issues) == 0 {
		fmt.Fprintln(stdout, "LINT PASSED - no issues found")
	} else {
		fmt.Fprintf(stdout, "LINT - found %d issues:\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(stdout, "  [%s] line %d: %s\n", issue.Type, issue.Line, issue.Message)
		}
	}

	if fatal, ok := verify.FatalIssue(issues); ok {
		fmt.Fprintf(stdout, "  execution stops at line %d; %d instructions unreachable\n",
			fatal.Line, fatal.Details["unreachable"])
	}

	sim := verify.NewFunctionalSimulator(prog)
	sim.TraceOpPost = func(inst instr.Inst, result int64) {
		fmt.Fprintf(stdout, "  %4d  %-40s = %d\n", inst.Line, inst.String(), result)
	}

	fmt.Fprintln(stdout, "\nFUNCTIONAL SIMULATION")
	runErr := sim.Run()

	report := verify.GenerateReport(prog, sim.Results(), runErr)
	if *reportPath != "" {
		if err := report.SaveReportToFile(*reportPath); err != nil {
			slog.Error("cannot save report", "error", err)
			return 1
		}
	}

	if runErr != nil {
		fmt.Fprintf(stdout, "SIMULATION STOPPED: %v\n", runErr)
		return 1
	}

	fmt.Fprintln(stdout, "SIMULATION PASSED")

	return 0
}
