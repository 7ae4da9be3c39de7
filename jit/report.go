package jit

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintSymbols renders the code layout of an artifact.
func PrintSymbols(w io.Writer, syms []Symbol) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Native Code")
	t.AppendHeader(table.Row{"Function", "Offset", "Size"})

	for _, s := range syms {
		t.AppendRow(table.Row{s.Name, fmt.Sprintf("%#x", s.Offset), humanize.Bytes(uint64(s.Size))})
	}

	t.Render()
}
