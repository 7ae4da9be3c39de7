package verify

import (
	"fmt"

	"github.com/sarchlab/arithjit/program"
)

// RunLint performs static checks on a program. Every unsupported opcode is
// reported, not only the first. The first one is fatal and makes the
// instructions after it unreachable.
func RunLint(p program.Program) []Issue {
	var issues []Issue

	aborted := false

	for i, inst := range p.Insts {
		if !inst.Op.Valid() {
			issue := Issue{
				Type:    IssueOpcode,
				Line:    inst.Line,
				Token:   inst.Token,
				Message: fmt.Sprintf("unknown opcode %q", inst.Token),
				Fatal:   !aborted,
			}

			if !aborted {
				issue.Details = map[string]interface{}{
					"unreachable": len(p.Insts) - i - 1,
				}
			}

			issues = append(issues, issue)
			aborted = true

			continue
		}

		if overflows(inst.Op, inst.Src1, inst.Src2) {
			result, _ := Eval(inst.Op, inst.Src1, inst.Src2)

			issues = append(issues, Issue{
				Type:    IssueOverflow,
				Line:    inst.Line,
				Token:   inst.Token,
				Message: fmt.Sprintf("%s wraps around to %d", inst.String(), result),
				Details: map[string]interface{}{"result": result},
			})
		}
	}

	return issues
}

// FatalIssue returns the first fatal issue, if any.
func FatalIssue(issues []Issue) (Issue, bool) {
	for _, issue := range issues {
		if issue.Fatal {
			return issue, true
		}
	}

	return Issue{}, false
}
