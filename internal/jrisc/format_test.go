package jrisc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jdis/internal/jrisc"
)

func decodeOne(mode jrisc.Mode, code []byte) jrisc.Instruction {
	d, err := jrisc.New(mode)
	Expect(err).NotTo(HaveOccurred())
	in, err := d.Decode(code, 0x1000)
	Expect(err).NotTo(HaveOccurred())
	return in
}

var _ = Describe("Operand rendering", func() {
	DescribeTable("instructions common to both processors",
		func(code []byte, want string) {
			Expect(decodeOne(jrisc.GPU, code).Text()).To(Equal(want))
			Expect(decodeOne(jrisc.DSP, code).Text()).To(Equal(want))
		},
		Entry("register pair", word(0, 1, 2), "add\tr1, r2"),
		Entry("quick add of 32", word(2, 0, 3), "addq\t#32, r3"),
		Entry("quick subtract", word(6, 8, 3), "subq\t#8, r3"),
		Entry("single register", word(8, 0, 9), "neg\tr9"),
		Entry("bit test of bit zero", word(13, 0, 4), "btst\t#0, r4"),
		Entry("bit set", word(14, 31, 4), "bset\t#31, r4"),
		Entry("shift left by one", word(24, 31, 5), "shlq\t#1, r5"),
		Entry("shift left by zero", word(24, 0, 5), "shlq\t#0, r5"),
		Entry("shift right", word(25, 4, 5), "shrq\t#4, r5"),
		Entry("negative compare", word(31, 0x1f, 6), "cmpq\t#-1, r6"),
		Entry("most negative compare", word(31, 0x10, 6), "cmpq\t#-16, r6"),
		Entry("positive compare", word(31, 15, 6), "cmpq\t#15, r6"),
		Entry("quick move", word(35, 17, 7), "moveq\t#17, r7"),
		Entry("move to alternate bank", word(36, 1, 2), "moveta\tr1, r2"),
		Entry("byte load", word(39, 3, 4), "loadb\t(r3), r4"),
		Entry("word store", word(46, 3, 4), "storew\tr4, (r3)"),
		Entry("r14 indexed load", word(43, 1, 5), "load\t(r14+1), r5"),
		Entry("r15 indexed load", word(44, 0, 5), "load\t(r15+32), r5"),
		Entry("r14 indexed store", word(49, 2, 5), "store\tr5, (r14+2)"),
		Entry("r15 indexed store", word(50, 7, 5), "store\tr5, (r15+7)"),
		Entry("r14 register load", word(58, 2, 3), "load\t(r14+r2), r3"),
		Entry("r15 register load", word(59, 2, 3), "load\t(r15+r2), r3"),
		Entry("r14 register store", word(60, 2, 3), "store\tr3, (r14+r2)"),
		Entry("r15 register store", word(61, 2, 3), "store\tr3, (r15+r2)"),
		Entry("program counter", word(51, 0, 4), "move\tPC, r4"),
		Entry("unconditional jump", word(52, 5, 0), "jump\tT, (r5)"),
		Entry("jump if equal", word(52, 5, 2), "jump\tEQ, (r5)"),
		Entry("jump if carry set", word(52, 5, 8), "jump\tCS, (r5)"),
		Entry("jump on plus", word(52, 5, 0x14), "jump\tPL, (r5)"),
		Entry("jump on unnamed condition", word(52, 5, 3), "jump\t$3, (r5)"),
		Entry("branch forward", word(53, 3, 1), "jr\tNE, *+8"),
		Entry("branch to the next word", word(53, 0, 0x18), "jr\tMI, *+2"),
		Entry("branch back onto itself", word(53, 0x1f, 5), "jr\tHI, *+0"),
		Entry("no operands", word(57, 0, 0), "nop"),
		Entry("matrix multiply", word(54, 1, 2), "mmult\tr1, r2"),
		Entry("normalise", word(56, 1, 2), "normi\tr1, r2"),
	)

	DescribeTable("slots that differ between processors",
		func(code []byte, gpu, dsp string) {
			Expect(decodeOne(jrisc.GPU, code).Text()).To(Equal(gpu))
			Expect(decodeOne(jrisc.DSP, code).Text()).To(Equal(dsp))
		},
		Entry("32", word(32, 4, 1), "sat8\tr1", "subqmod\t#4, r1"),
		Entry("33", word(33, 0, 1), "sat16\tr1", "sat16s\tr1"),
		Entry("42", word(42, 2, 1), "loadp\t(r2), r1", "sat32s\tr1"),
		Entry("48", word(48, 2, 1), "storep\tr1, (r2)", "mirror\tr1"),
		Entry("62", word(62, 0, 1), "sat24\tr1", "dc.w\t$f801"),
		Entry("63 pack", word(63, 0, 7), "pack\tr7", "addqmod\t#32, r7"),
		Entry("63 unpack", word(63, 1, 7), "unpack\tr7", "addqmod\t#1, r7"),
	)

	Describe("absolute branch targets", func() {
		It("should count the offset in words from the next instruction", func() {
			d, err := jrisc.New(jrisc.DSP, jrisc.WithAbsoluteBranches(true))
			Expect(err).NotTo(HaveOccurred())

			in, err := d.Decode(word(53, 0x10, 0), 0xf1b040)
			Expect(err).NotTo(HaveOccurred())
			Expect(in.Text()).To(Equal("jr\tT, $f1b022"))

			in, err = d.Decode(word(53, 15, 2), 0xf1b040)
			Expect(err).NotTo(HaveOccurred())
			Expect(in.Text()).To(Equal("jr\tEQ, $f1b060"))
		})
	})

	Describe("DSP single-register forms", func() {
		It("should print only the destination of mirror and sat32s", func() {
			mirror := decodeOne(jrisc.DSP, word(48, 9, 3))
			Expect(mirror.Op).To(Equal(jrisc.OpMirror))
			Expect(mirror.Text()).To(Equal("mirror\tr3"))
			Expect(mirror.WritesDst()).To(BeTrue())

			Expect(decodeOne(jrisc.DSP, word(42, 9, 3)).Text()).To(Equal("sat32s\tr3"))
		})

		It("should list mirror without a source operand", func() {
			for _, e := range jrisc.Opcodes(jrisc.DSP) {
				if e.Op == jrisc.OpMirror {
					Expect(e.Opcode).To(Equal(uint8(48)))
					Expect(e.Src).To(Equal(jrisc.KindUnused))
					Expect(e.Dst).To(Equal(jrisc.KindReg))
					return
				}
			}
			Fail("mirror missing from the DSP opcode list")
		})
	})

	Describe("condition names", func() {
		It("should name the common conditions", func() {
			Expect(jrisc.ConditionName(0)).To(Equal("T"))
			Expect(jrisc.ConditionName(4)).To(Equal("CC"))
			Expect(jrisc.ConditionName(0x18)).To(Equal("MI"))
			Expect(jrisc.ConditionName(0x1f)).To(Equal("$1f"))
		})
	})
})
