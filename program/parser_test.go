package program_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arithjit/instr"
	"github.com/sarchlab/arithjit/program"
)

var _ = Describe("Parse", func() {
	parse := func(src string, opts ...program.Option) (program.Program, error) {
		return program.Parse(strings.NewReader(src), "code.txt", opts...)
	}

	expectFormatError := func(err error, line int) *program.FormatError {
		var fe *program.FormatError
		ExpectWithOffset(1, errors.As(err, &fe)).To(BeTrue(), "got %v", err)
		ExpectWithOffset(1, fe.Line).To(Equal(line))
		ExpectWithOffset(1, fe.Script).To(Equal("code.txt"))
		return fe
	}

	It("should parse instructions in file order", func() {
		prog, err := parse("add 2, 3\nmul 4, 5\nxor 6, 3\n")

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Len()).To(Equal(3))
		Expect(prog.Insts[0]).To(Equal(instr.Inst{
			Op: instr.OpAdd, Token: "add", Src1: 2, Src2: 3,
			Line: 1, Raw: "add 2, 3",
		}))
		Expect(prog.Insts[1].Op).To(Equal(instr.OpMul))
		Expect(prog.Insts[2].Op).To(Equal(instr.OpXor))
		Expect(prog.Insts[2].Line).To(Equal(3))
	})

	It("should accept a final line without newline", func() {
		prog, err := parse("sub 10, 4")

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Insts).To(HaveLen(1))
		Expect(prog.Insts[0].Op).To(Equal(instr.OpSub))
	})

	It("should return an empty program for empty input", func() {
		prog, err := parse("")

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Len()).To(BeZero())
	})

	DescribeTable("whitespace around tokens",
		func(line string, a, b int64) {
			prog, err := parse(line)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Insts[0].Src1).To(Equal(a))
			Expect(prog.Insts[0].Src2).To(Equal(b))
		},
		Entry("no space after comma", "add 1,2", int64(1), int64(2)),
		Entry("space before comma", "add 1 , 2", int64(1), int64(2)),
		Entry("tabs", "add\t1\t,\t2", int64(1), int64(2)),
		Entry("surrounding spaces", "  add 1, 2  ", int64(1), int64(2)),
		Entry("CRLF line ending", "add 1, 2\r\n", int64(1), int64(2)),
		Entry("signed operands", "add -7, +8", int64(-7), int64(8)),
		Entry("int64 bounds", "add -9223372036854775808, 9223372036854775807",
			int64(math.MinInt64), int64(math.MaxInt64)),
	)

	It("should keep unknown opcodes for dispatch time", func() {
		prog, err := parse("add 1, 2\ndiv 3, 4\n")

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Insts[1].Op).To(Equal(instr.OpInvalid))
		Expect(prog.Insts[1].Token).To(Equal("div"))
	})

	It("should treat opcodes as case-sensitive", func() {
		prog, err := parse("ADD 1, 2")

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Insts[0].Op).To(Equal(instr.OpInvalid))
	})

	DescribeTable("malformed lines",
		func(src string, line int, reason string) {
			prog, err := parse(src)

			fe := expectFormatError(err, line)
			Expect(fe.Reason).To(ContainSubstring(reason))
			Expect(prog.Insts).To(BeEmpty())
		},
		Entry("no operands", "foo bar", 1, "missing comma"),
		Entry("only a token", "add", 1, "missing operands"),
		Entry("missing comma", "add 1 2", 1, "missing comma"),
		Entry("non-numeric operand", "add x, 2", 1, "first operand"),
		Entry("missing second operand", "add 1,", 1, "second operand"),
		Entry("too many operands", "add 1, 2, 3", 1, "second operand"),
		Entry("overflow", "add 9223372036854775808, 1", 1, "overflows"),
		Entry("blank line", "add 1, 2\n\nsub 1, 2\n", 2, "blank line"),
		Entry("whitespace-only line", "add 1, 2\n   \n", 2, "blank line"),
		Entry("error after valid lines", "add 1, 2\nsub 3, 4\nmul 5\n", 3, "missing comma"),
	)

	It("should report an overlong line as a format error", func() {
		src := "add 1, 2\nadd " + strings.Repeat("1", 1<<20) + ", 2\n"

		_, err := parse(src)

		fe := expectFormatError(err, 2)
		Expect(fe.Reason).To(ContainSubstring("longer than"))
		var ioErr *program.IOError
		Expect(errors.As(err, &ioErr)).To(BeFalse())
	})

	It("should include the offending line in the message", func() {
		_, err := parse("add 1, 2\nfoo bar\n")

		Expect(err).To(MatchError(ContainSubstring(`"foo bar"`)))
		Expect(err).To(MatchError(ContainSubstring("code.txt:2")))
	})

	Context("with strict whitespace", func() {
		It("should reject trailing whitespace", func() {
			_, err := parse("add 1, 2 \n", program.WithStrictWhitespace())

			fe := expectFormatError(err, 1)
			Expect(fe.Reason).To(ContainSubstring("whitespace"))
		})

		It("should reject leading whitespace", func() {
			_, err := parse(" add 1, 2\n", program.WithStrictWhitespace())

			expectFormatError(err, 1)
		})

		It("should still allow spaces between tokens", func() {
			prog, err := parse("add 1 ,  2\n", program.WithStrictWhitespace())

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Insts[0].Src2).To(Equal(int64(2)))
		})
	})
})

var _ = Describe("LoadScriptFile", func() {
	It("should load a script from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "code.txt")
		Expect(os.WriteFile(path, []byte("xor 6, 3\n"), 0o644)).To(Succeed())

		prog, err := program.LoadScriptFile(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Name).To(Equal(path))
		Expect(prog.Insts[0].Op).To(Equal(instr.OpXor))
	})

	It("should fail with an IOError for a missing file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "missing.txt")

		_, err := program.LoadScriptFile(path)

		var ioErr *program.IOError
		Expect(errors.As(err, &ioErr)).To(BeTrue())
		Expect(ioErr.Path).To(Equal(path))
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})
})
