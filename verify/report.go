package verify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/arithjit/core"
	"github.com/sarchlab/arithjit/program"
)

// Mismatch is a line where native and reference execution disagree.
type Mismatch struct {
	Line      int
	Inst      string
	Native    string
	Reference string
}

// VerificationReport compares a native run against the functional simulator.
type VerificationReport struct {
	Script       string
	InstCount    int
	LintIssues   []Issue
	Native       []int64
	NativeErr    error
	Reference    []int64
	ReferenceErr error
	Mismatches   []Mismatch
}

// GenerateReport lints p, runs it on the functional simulator, and compares
// the reference outcome with the native results and error.
func GenerateReport(p program.Program, native []int64, nativeErr error) *VerificationReport {
	fs := NewFunctionalSimulator(p)
	refErr := fs.Run()

	r := &VerificationReport{
		Script:       p.Name,
		InstCount:    p.Len(),
		LintIssues:   RunLint(p),
		Native:       native,
		NativeErr:    nativeErr,
		Reference:    fs.Results(),
		ReferenceErr: refErr,
	}

	r.compare(p)

	return r
}

func (r *VerificationReport) compare(p program.Program) {
	n := len(r.Native)
	if len(r.Reference) > n {
		n = len(r.Reference)
	}

	for i := 0; i < n && i < p.Len(); i++ {
		native, okN := valueAt(r.Native, i)
		ref, okR := valueAt(r.Reference, i)

		if okN && okR && native == ref {
			continue
		}

		r.Mismatches = append(r.Mismatches, Mismatch{
			Line:      p.Insts[i].Line,
			Inst:      p.Insts[i].String(),
			Native:    describe(native, okN),
			Reference: describe(ref, okR),
		})
	}
}

func valueAt(vals []int64, i int) (int64, bool) {
	if i < len(vals) {
		return vals[i], true
	}

	return 0, false
}

func describe(v int64, ok bool) string {
	if !ok {
		return "(none)"
	}

	return fmt.Sprintf("%d", v)
}

// sameAbort reports whether both runs stopped for the same reason. Only
// unknown opcodes are compared by line; other native failures have no
// reference counterpart.
func sameAbort(native, ref error) bool {
	if native == nil || ref == nil {
		return native == nil && ref == nil
	}

	var n, r *core.UnknownOpcodeError
	if errors.As(native, &n) && errors.As(ref, &r) {
		return n.Line == r.Line
	}

	return false
}

// OK reports whether native execution matched the reference exactly.
func (r *VerificationReport) OK() bool {
	return len(r.Mismatches) == 0 && sameAbort(r.NativeErr, r.ReferenceErr)
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s\n", r.Script)
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Instructions: %d\n", r.InstCount)

	fmt.Fprintln(w, "\nSTAGE 1: STATIC LINT CHECKS")
	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	}
	for _, issue := range r.LintIssues {
		fatal := ""
		if issue.Fatal {
			fatal = " (fatal)"
		}
		fmt.Fprintf(w, "  [%s line %d]%s %s\n", issue.Type, issue.Line, fatal, issue.Message)
	}

	fmt.Fprintln(w, "\nSTAGE 2: NATIVE VS REFERENCE")
	fmt.Fprintf(w, "Native:    %d results, error: %v\n", len(r.Native), r.NativeErr)
	fmt.Fprintf(w, "Reference: %d results, error: %v\n", len(r.Reference), r.ReferenceErr)

	if len(r.Mismatches) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Line", "Instruction", "Native", "Reference"})
		for _, m := range r.Mismatches {
			t.AppendRow(table.Row{m.Line, m.Inst, m.Native, m.Reference})
		}
		t.Render()
	}

	fmt.Fprintln(w, "\n"+separator)
	if r.OK() {
		fmt.Fprintln(w, "RESULT: MATCH")
	} else {
		fmt.Fprintf(w, "RESULT: MISMATCH (%d lines differ)\n", len(r.Mismatches))
	}
	fmt.Fprintln(w, separator)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
