package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sarchlab/arithjit/instr"
)

const maxLineLength = 1 << 20

type parseOptions struct {
	strictWhitespace bool
}

// Option configures the parser.
type Option func(*parseOptions)

// WithStrictWhitespace rejects lines with leading or trailing whitespace.
// Whitespace between the opcode, the operands and the comma is always allowed.
func WithStrictWhitespace() Option {
	return func(o *parseOptions) {
		o.strictWhitespace = true
	}
}

// Parse reads a whole script from r. The name is used in diagnostics.
func Parse(r io.Reader, name string, opts ...Option) (Program, error) {
	o := parseOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	prog := Program{Name: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		inst, err := parseLine(scanner.Text(), lineNo, o)
		if err != nil {
			err.Script = name
			return Program{}, err
		}

		prog.Insts = append(prog.Insts, inst)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Program{}, &FormatError{
				Script: name,
				Line:   lineNo + 1,
				Reason: fmt.Sprintf("line longer than %d bytes", maxLineLength),
			}
		}

		return Program{}, &IOError{Path: name, Err: err}
	}

	return prog, nil
}

func parseLine(raw string, lineNo int, o parseOptions) (instr.Inst, *FormatError) {
	line := strings.TrimSuffix(raw, "\r")

	fail := func(format string, args ...any) *FormatError {
		return &FormatError{
			Line:   lineNo,
			Text:   line,
			Reason: fmt.Sprintf(format, args...),
		}
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return instr.Inst{}, fail("blank line")
	}

	if o.strictWhitespace && trimmed != line {
		return instr.Inst{}, fail("leading or trailing whitespace")
	}

	sep := strings.IndexFunc(trimmed, unicode.IsSpace)
	if sep < 0 {
		return instr.Inst{}, fail("missing operands")
	}

	token := trimmed[:sep]

	lhs, rhs, found := strings.Cut(trimmed[sep:], ",")
	if !found {
		return instr.Inst{}, fail("missing comma between operands")
	}

	src1, err := parseOperand(lhs)
	if err != nil {
		return instr.Inst{}, fail("first operand: %v", err)
	}

	src2, err := parseOperand(rhs)
	if err != nil {
		return instr.Inst{}, fail("second operand: %v", err)
	}

	return instr.Inst{
		Op:    instr.ParseOpcode(token),
		Token: token,
		Src1:  src1,
		Src2:  src2,
		Line:  lineNo,
		Raw:   line,
	}, nil
}

func parseOperand(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.New("missing")
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("%q overflows int64", text)
		}

		return 0, fmt.Errorf("%q is not an integer", text)
	}

	return v, nil
}
