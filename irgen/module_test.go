package irgen_test

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arithjit/irgen"
)

var _ = Describe("BuildModule", func() {
	var mod *irgen.Module

	BeforeEach(func() {
		mod = irgen.BuildModule()
	})

	It("should define one function per operation", func() {
		names, err := mod.FuncNames()

		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(Equal([]string{"add", "sub", "mul", "xor"}))
	})

	It("should give every function the i64 (i64, i64) signature", func() {
		Expect(mod.Inspect(func(m *ir.Module) {
			for _, f := range m.Funcs {
				Expect(f.Linkage).To(Equal(enum.LinkageExternal))
				Expect(f.Sig.RetType.Equal(types.I64)).To(BeTrue())
				Expect(f.Params).To(HaveLen(2))
				for _, p := range f.Params {
					Expect(p.Typ.Equal(types.I64)).To(BeTrue())
				}
				Expect(f.Blocks).To(HaveLen(1))
				Expect(f.Blocks[0].Insts).To(HaveLen(1))
				Expect(f.Blocks[0].Term).To(BeAssignableToTypeOf(&ir.TermRet{}))
			}
		})).To(Succeed())
	})

	It("should emit the matching IR instruction", func() {
		Expect(mod.Inspect(func(m *ir.Module) {
			Expect(m.Funcs[0].Blocks[0].Insts[0]).To(BeAssignableToTypeOf(&ir.InstAdd{}))
			Expect(m.Funcs[1].Blocks[0].Insts[0]).To(BeAssignableToTypeOf(&ir.InstSub{}))
			Expect(m.Funcs[2].Blocks[0].Insts[0]).To(BeAssignableToTypeOf(&ir.InstMul{}))
			Expect(m.Funcs[3].Blocks[0].Insts[0]).To(BeAssignableToTypeOf(&ir.InstXor{}))
		})).To(Succeed())
	})

	It("should render LLVM IR text", func() {
		text, err := mod.IR()

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("@add(i64 %a, i64 %b)"))
		Expect(text).To(ContainSubstring("%result = xor i64 %a, %b"))
		Expect(text).To(ContainSubstring("ret i64 %result"))
	})

	It("should build independent modules", func() {
		other := irgen.BuildModule()

		_, err := other.Release()
		Expect(err).NotTo(HaveOccurred())

		Expect(mod.Released()).To(BeFalse())
		_, err = mod.FuncNames()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Release", func() {
		It("should transfer the IR exactly once", func() {
			m, err := mod.Release()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Funcs).To(HaveLen(4))

			_, err = mod.Release()
			Expect(err).To(MatchError(irgen.ErrModuleConsumed))
		})

		It("should invalidate every accessor", func() {
			_, err := mod.Release()
			Expect(err).NotTo(HaveOccurred())

			Expect(mod.Released()).To(BeTrue())
			_, err = mod.IR()
			Expect(err).To(MatchError(irgen.ErrModuleConsumed))
			_, err = mod.FuncNames()
			Expect(err).To(MatchError(irgen.ErrModuleConsumed))
			Expect(mod.Inspect(func(*ir.Module) {})).To(MatchError(irgen.ErrModuleConsumed))
		})
	})
})
