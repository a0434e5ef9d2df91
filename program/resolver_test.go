package program

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wspace/instr"
)

var _ = Describe("Resolver", func() {
	var symbolic []instr.Inst

	BeforeEach(func() {
		symbolic = []instr.Inst{
			instr.WithLabel(instr.Call, "1"),
			instr.WithLabel(instr.Jump, "10"),
			instr.WithLabel(instr.Label, "1"),
			instr.WithNumber(instr.Push, 0),
			instr.WithLabel(instr.JumpIfZero, "10"),
			instr.New(instr.Return),
			instr.WithLabel(instr.Label, "10"),
			instr.WithLabel(instr.JumpIfNeg, "1"),
			instr.New(instr.End),
		}
	})

	It("should rewrite branches to the index of their label", func() {
		p, err := Resolve(symbolic)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(len(symbolic)))
		Expect(p.At(0).Target).To(Equal(2))
		Expect(p.At(1).Target).To(Equal(6))
		Expect(p.At(4).Target).To(Equal(6))
		Expect(p.At(7).Target).To(Equal(2))
	})

	It("should keep label instructions in place", func() {
		p, err := Resolve(symbolic)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.At(2).Op).To(Equal(instr.Label))
		Expect(p.At(6).Op).To(Equal(instr.Label))
		Expect(p.At(3)).To(Equal(symbolic[3]))
	})

	It("should not modify its input", func() {
		_, err := Resolve(symbolic)

		Expect(err).NotTo(HaveOccurred())
		for _, inst := range symbolic {
			Expect(inst.Target).To(Equal(-1))
		}
	})

	It("should be deterministic", func() {
		first, err := Resolve(symbolic)
		Expect(err).NotTo(HaveOccurred())

		second, err := Resolve(symbolic)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(Encode(second.Insts)).To(Equal(Encode(first.Insts)))
	})

	It("should fail on a duplicate label", func() {
		symbolic = append(symbolic, instr.WithLabel(instr.Label, "10"))

		_, err := Resolve(symbolic)

		Expect(err).To(MatchError(ErrDuplicateLabel))
		var labelErr *LabelError
		Expect(errors.As(err, &labelErr)).To(BeTrue())
		Expect(labelErr.Label).To(Equal("10"))
		Expect(labelErr.Index).To(Equal(len(symbolic) - 1))
		Expect(err.Error()).To(ContainSubstring("@10"))
	})

	It("should fail on a reference to an undefined label", func() {
		symbolic[4] = instr.WithLabel(instr.JumpIfZero, "111")

		_, err := Resolve(symbolic)

		Expect(err).To(MatchError(ErrUndefinedLabel))
		var labelErr *LabelError
		Expect(errors.As(err, &labelErr)).To(BeTrue())
		Expect(labelErr.Label).To(Equal("111"))
		Expect(labelErr.Index).To(Equal(4))
	})

	It("should resolve the empty label", func() {
		p, err := Resolve([]instr.Inst{
			instr.WithLabel(instr.Jump, ""),
			instr.WithLabel(instr.Label, ""),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(p.At(0).Target).To(Equal(1))
	})

	It("should resolve an empty program", func() {
		p, err := Resolve(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(BeZero())
	})
})

var _ = Describe("Parse", func() {
	It("should report duplicate labels found in source", func() {
		_, err := Parse(FromVisible("LSS TL LSS TL LLL"))
		Expect(err).To(MatchError(ErrDuplicateLabel))
	})

	It("should report lex errors before label errors", func() {
		_, err := Parse(FromVisible("LST TL TTL"))
		Expect(err).To(MatchError(ErrLex))
	})

	It("should produce a resolved program", func() {
		p, err := Parse(FromVisible("LSL TL LSS TL LLL"))

		Expect(err).NotTo(HaveOccurred())
		Expect(p.At(0).Op).To(Equal(instr.Jump))
		Expect(p.At(0).Target).To(Equal(1))
	})
})
