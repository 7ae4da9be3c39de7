package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/arithjit/api"
	"github.com/sarchlab/arithjit/core"
	"github.com/sarchlab/arithjit/program"
)

//go:embed arith.txt
var script string

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	prog, err := program.Parse(strings.NewReader(script), "arith.txt")
	if err != nil {
		slog.Error("cannot parse the embedded script", "error", err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithOutput(os.Stdout).
		Build("Driver")
	atexit.Register(func() { driver.Close() })

	if err := driver.Run(prog); err != nil {
		slog.Error("run failed", "state", driver.State().String(), "error", err)
		atexit.Exit(1)
	}

	stats := driver.Stats()
	fmt.Printf("target: %s\n", stats.Target)
	core.PrintStats(os.Stdout, stats.Symbols, stats.Executed, stats.CodeSize)
	fmt.Printf("cycles: %.0f\n", float64(engine.CurrentTime()*1e9))

	atexit.Exit(0)
}
