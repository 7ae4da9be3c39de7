// Command arithjit compiles the arithmetic operations to native code and runs
// a script of arithmetic instructions on them, printing one result per line.
//
//	arithjit [flags] [script]
//
// The script defaults to code.txt. The exit code is 0 only if every
// instruction parsed and ran.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/arithjit/api"
	"github.com/sarchlab/arithjit/config"
	"github.com/sarchlab/arithjit/core"
	"github.com/sarchlab/arithjit/jit"
	"github.com/sarchlab/arithjit/program"
	"github.com/sarchlab/arithjit/verify"
)

func main() {
	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { stdout.Flush() })

	code := run(os.Args[1:], stdout, os.Stderr, func(f func()) { atexit.Register(f) })
	atexit.Exit(code)
}

type options struct {
	configPath string
	cfg        config.Config
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("arithjit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: arithjit [flags] [script]")
		fs.PrintDefaults()
	}

	def := config.Default()

	configPath := fs.String("config", "", "configuration file (.yaml, .yml or .toml)")
	logLevel := fs.String("log-level", def.LogLevel, "trace, debug, info, warn or error")
	logFormat := fs.String("log-format", def.LogFormat, "text or json")
	strict := fs.Bool("strict", false, "reject leading and trailing whitespace on a line")
	emitIR := fs.String("emit-ir", "", "write the generated IR to this file, - for stderr")
	stats := fs.Bool("stats", false, "print symbol cache statistics to stderr")
	verifyRun := fs.Bool("verify", false, "check native results against the reference simulator")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return options{}, fmt.Errorf("expected at most one script, got %d", fs.NArg())
	}

	opts := options{configPath: *configPath, cfg: def}

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return options{}, err
		}
		opts.cfg = cfg
	}

	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			opts.cfg.LogLevel = *logLevel
		case "log-format":
			opts.cfg.LogFormat = *logFormat
		case "strict":
			opts.cfg.StrictWhitespace = *strict
		case "emit-ir":
			opts.cfg.EmitIR = *emitIR
		case "stats":
			opts.cfg.Stats = *stats
		case "verify":
			opts.cfg.Verify = *verifyRun
		}
	})

	if fs.NArg() == 1 {
		opts.cfg.Script = fs.Arg(0)
	}

	return opts, opts.cfg.Validate()
}

// run executes the command and returns its exit code. Cleanups that must
// happen at process exit are handed to onExit.
func run(args []string, stdout, stderr io.Writer, onExit func(func())) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "arithjit: %v\n", err)
		return 1
	}

	cfg := opts.cfg

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "arithjit: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)

	var parseOpts []program.Option
	if cfg.StrictWhitespace {
		parseOpts = append(parseOpts, program.WithStrictWhitespace())
	}

	prog, err := program.LoadScriptFile(cfg.Script, parseOpts...)
	if err != nil {
		return fail(stderr, err)
	}

	logger.Debug("script loaded", "script", prog.Name, "instructions", prog.Len())

	builder := api.DriverBuilder{}.
		WithEngine(sim.NewSerialEngine()).
		WithFreq(1 * sim.GHz).
		WithOutput(stdout).
		WithLogger(logger)

	switch cfg.EmitIR {
	case "":
	case "-":
		builder = builder.WithIRSink(stderr)
	default:
		f, err := os.Create(cfg.EmitIR)
		if err != nil {
			return fail(stderr, fmt.Errorf("cannot create IR file: %w", err))
		}
		onExit(func() { f.Close() })
		builder = builder.WithIRSink(f)
	}

	driver := builder.Build("Driver")
	onExit(func() {
		if err := driver.Close(); err != nil {
			logger.Warn("cannot release compiled code", "error", err)
		}
	})

	runErr := driver.Run(prog)

	if cfg.Stats {
		s := driver.Stats()
		core.PrintStats(stderr, s.Symbols, s.Executed, s.CodeSize)
		jit.PrintSymbols(stderr, s.Code)
	}

	if cfg.Verify && !errors.As(runErr, new(*jit.CompilationError)) {
		report := verify.GenerateReport(prog, driver.Results(), runErr)
		if !report.OK() {
			report.WriteReport(stderr)
			if runErr == nil {
				runErr = errors.New("native results differ from the reference simulator")
			}
		}
	}

	if runErr != nil {
		return fail(stderr, runErr)
	}

	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "arithjit: %s: %v\n", errorKind(err), err)
	return 1
}

// errorKind names the class of a terminal error for diagnostics.
func errorKind(err error) string {
	switch {
	case errors.As(err, new(*program.IOError)):
		return "IOError"
	case errors.As(err, new(*program.FormatError)):
		return "FormatError"
	case errors.As(err, new(*core.UnknownOpcodeError)):
		return "UnknownOpcodeError"
	case errors.As(err, new(*jit.CompilationError)):
		return "CompilationError"
	case errors.As(err, new(*core.SymbolResolutionError)):
		return "SymbolResolutionError"
	default:
		return "error"
	}
}
