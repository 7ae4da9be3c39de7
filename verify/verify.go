// Package verify provides debugging tools for arithmetic scripts that do not
// depend on native code generation.
//
// It implements two complementary stages:
//
// 1. Static Lint (lint.go): checks a parsed program without running it
//   - OPCODE checks: tokens that are not supported operations, and the
//     instructions that can never run because an earlier one aborts the run
//   - OVERFLOW checks: results that wrap around the signed 64-bit range
//
// 2. Functional Simulator (funcsim.go): a plain Go interpreter
//   - Executes the program with the same ordering and abort rules as the
//     dispatcher
//   - Gives reference results to compare native output against
//
// # Usage Example
//
//	prog, err := program.LoadScriptFile("code.txt")
//	...
//	for _, issue := range verify.RunLint(prog) {
//	    log.Printf("[%s] line %d: %s", issue.Type, issue.Line, issue.Message)
//	}
//
//	fs := verify.NewFunctionalSimulator(prog)
//	if err := fs.Run(); err != nil {
//	    ...
//	}
//
//	report := verify.GenerateReport(prog, nativeResults, nativeErr)
//	report.WriteReport(os.Stderr)
package verify

import (
	"fmt"
	"math"

	"github.com/sarchlab/arithjit/instr"
)

// IssueType classifies lint findings.
type IssueType string

const (
	IssueOpcode   IssueType = "OPCODE"   // unsupported operation, aborts the run
	IssueOverflow IssueType = "OVERFLOW" // result wraps around
)

// Issue is one lint finding.
type Issue struct {
	Type    IssueType
	Line    int    // 1-based script line
	Token   string // opcode text of the instruction
	Message string
	Fatal   bool // the run cannot complete past this line
	Details map[string]interface{}
}

// Eval computes op on a and b the way the native functions do: add, sub and
// mul wrap modulo 2^64, xor is bitwise.
func Eval(op instr.Opcode, a, b int64) (int64, error) {
	switch op {
	case instr.OpAdd:
		return a + b, nil
	case instr.OpSub:
		return a - b, nil
	case instr.OpMul:
		return a * b, nil
	case instr.OpXor:
		return a ^ b, nil
	default:
		return 0, fmt.Errorf("no reference semantics for %s", op)
	}
}

// overflows reports whether op on a and b leaves the int64 range before
// wrapping.
func overflows(op instr.Opcode, a, b int64) bool {
	switch op {
	case instr.OpAdd:
		r := a + b
		return (a >= 0 && b >= 0 && r < 0) || (a < 0 && b < 0 && r >= 0)
	case instr.OpSub:
		r := a - b
		return (a >= 0 && b < 0 && r < 0) || (a < 0 && b >= 0 && r >= 0)
	case instr.OpMul:
		if a == 0 || b == 0 {
			return false
		}
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return true
		}
		return (a*b)/b != a
	default:
		return false
	}
}
