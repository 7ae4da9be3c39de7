package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace is below Debug and carries per-instruction events.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs at LevelTrace through the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintStats renders the symbol cache as a table. codeSize is the size of
// the compiled code in bytes; it is omitted when zero.
func PrintStats(w io.Writer, s ResolverStats, executed int, codeSize int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Native Symbols")
	t.AppendHeader(table.Row{"Symbol", "Address", "Cache Hits"})

	for _, sym := range s.Symbols {
		t.AppendRow(table.Row{sym.Op.String(), fmt.Sprintf("%#x", sym.Addr), sym.Hits})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"Lookups", s.Lookups, s.Hits})
	t.Render()

	fmt.Fprintf(w, "instructions executed: %s\n", humanize.Comma(int64(executed)))

	if codeSize > 0 {
		fmt.Fprintf(w, "native code: %s\n", humanize.Bytes(uint64(codeSize)))
	}
}
