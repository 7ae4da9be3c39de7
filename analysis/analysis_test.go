package analysis_test

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arithjit/analysis"
	"github.com/sarchlab/arithjit/irgen"
)

var visitRE = regexp.MustCompile(`Visiting block (%\S+)`)

// sections splits report output at the per-function rules.
func sections(out string) []string {
	parts := strings.Split(out, "----------------------------------------------------------------\n")
	return parts[1:]
}

var _ = Describe("Reports", func() {
	var m *ir.Module

	BeforeEach(func() {
		var err error
		m, err = asm.ParseFile("testdata/sample.ll")
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CFGDFS", func() {
		It("should walk each defined function from its entry", func() {
			buf := new(bytes.Buffer)
			analysis.CFGDFS(m, buf)

			secs := sections(buf.String())
			Expect(secs).To(HaveLen(3))
			Expect(secs[0]).To(HavePrefix("Running DFS for the function fact\n"))
			Expect(secs[1]).To(HavePrefix("Running DFS for the function loop\n"))
		})

		It("should visit blocks depth-first, once each", func() {
			buf := new(bytes.Buffer)
			analysis.CFGDFS(m, buf)
			secs := sections(buf.String())

			Expect(visited(secs[0])).To(Equal([]string{"%entry", "%base", "%rec"}))
			Expect(visited(secs[1])).To(Equal([]string{"%entry", "%head", "%body", "%exit"}))
		})

		It("should print the block bodies", func() {
			buf := new(bytes.Buffer)
			analysis.CFGDFS(m, buf)

			Expect(buf.String()).To(ContainSubstring("call i32 @fact(i32 %m)"))
		})
	})

	Describe("CountBasicBlocks", func() {
		It("should count every block, reachable or not", func() {
			buf := new(bytes.Buffer)
			analysis.CountBasicBlocks(m, buf)
			secs := sections(buf.String())

			Expect(secs).To(HaveLen(3))
			Expect(secs[0]).To(ContainSubstring("in the function fact\n"))
			Expect(secs[0]).To(HaveSuffix("Number of basic blocks: 3\n"))
			Expect(secs[1]).To(HaveSuffix("Number of basic blocks: 5\n"))
			Expect(secs[2]).To(HaveSuffix("Number of basic blocks: 1\n"))
		})
	})

	Describe("DetectRecursion", func() {
		It("should report only direct self calls", func() {
			buf := new(bytes.Buffer)
			analysis.DetectRecursion(m, buf)

			Expect(buf.String()).To(Equal("Recursion detected: fact\n"))
		})
	})

	Describe("GlobalVariables", func() {
		It("should list every global with its type", func() {
			buf := new(bytes.Buffer)
			analysis.GlobalVariables(m, buf)
			out := buf.String()

			Expect(strings.Count(out, "Variable Name: ")).To(Equal(5))
			Expect(out).To(ContainSubstring("Variable Name: counter\nVariable Type: i32*\n"))
			Expect(out).To(ContainSubstring("Variable Name: table\nVariable Type: [2 x i32]*\n"))
		})
	})

	Describe("UnusedGlobalVariables", func() {
		It("should report globals without references", func() {
			buf := new(bytes.Buffer)
			analysis.UnusedGlobalVariables(m, buf)

			Expect(buf.String()).To(Equal(
				"Unused global variable: unused\n" +
					"Unused global variable: table_ptr\n" +
					"Unused global variable: counter2\n"))
		})

		It("should count a reference from the global's own initializer", func() {
			self, err := asm.ParseString("self.ll",
				"@self = global i8* bitcast (i8** @self to i8*)\n"+
					"@lone = global i64 1\n")
			Expect(err).NotTo(HaveOccurred())

			buf := new(bytes.Buffer)
			analysis.UnusedGlobalVariables(self, buf)

			Expect(buf.String()).To(Equal("Unused global variable: lone\n"))
		})
	})

	It("should leave the module unchanged", func() {
		before := m.String()

		for _, p := range analysis.Passes() {
			p.Run(m, new(bytes.Buffer))
		}

		Expect(m.String()).To(Equal(before))
	})
})

var _ = Describe("Generated module", func() {
	It("should have one block per operation and no recursion", func() {
		mod := irgen.BuildModule()

		var counts, recursion bytes.Buffer
		Expect(mod.Inspect(func(m *ir.Module) {
			analysis.CountBasicBlocks(m, &counts)
			analysis.DetectRecursion(m, &recursion)
		})).To(Succeed())

		Expect(strings.Count(counts.String(), "Number of basic blocks: 1\n")).To(Equal(4))
		Expect(recursion.String()).To(BeEmpty())
	})
})

var _ = Describe("Registry", func() {
	It("should list the passes by name", func() {
		var names []string
		for _, p := range analysis.Passes() {
			names = append(names, p.Name)
		}

		Expect(names).To(Equal([]string{
			"cfg-dfs", "count-blocks", "detect-recursion", "globals", "unused-globals",
		}))
	})

	It("should look passes up", func() {
		p, ok := analysis.Lookup("globals")
		Expect(ok).To(BeTrue())
		Expect(p.Run).NotTo(BeNil())

		_, ok = analysis.Lookup("inline")
		Expect(ok).To(BeFalse())
	})
})

func visited(section string) []string {
	var out []string
	for _, m := range visitRE.FindAllStringSubmatch(section, -1) {
		out = append(out, m[1])
	}

	return out
}
