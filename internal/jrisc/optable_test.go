package jrisc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jdis/internal/jrisc"
)

var _ = Describe("Opcode tables", func() {
	It("should define every GPU slot, with pack and unpack sharing one", func() {
		entries := jrisc.Opcodes(jrisc.GPU)

		Expect(entries).To(HaveLen(jrisc.NumOpcodes + 1))
		Expect(entries[len(entries)-2].Op).To(Equal(jrisc.OpPack))
		Expect(entries[len(entries)-1].Op).To(Equal(jrisc.OpUnpack))
		Expect(entries[len(entries)-1].Opcode).To(Equal(uint8(63)))
	})

	It("should leave only slot 62 undefined on the DSP", func() {
		entries := jrisc.Opcodes(jrisc.DSP)

		Expect(entries).To(HaveLen(jrisc.NumOpcodes - 1))
		for _, e := range entries {
			Expect(e.Opcode).NotTo(Equal(uint8(62)))
		}
	})

	It("should list opcodes in order", func() {
		for _, mode := range []jrisc.Mode{jrisc.GPU, jrisc.DSP} {
			prev := -1
			for _, e := range jrisc.Opcodes(mode) {
				Expect(int(e.Opcode)).To(BeNumerically(">=", prev))
				prev = int(e.Opcode)
			}
		}
	})

	It("should only make movei longer than one word", func() {
		for _, e := range jrisc.Opcodes(jrisc.GPU) {
			if e.Op == jrisc.OpMovei {
				Expect(e.Words).To(Equal(3))
				Expect(e.Opcode).To(Equal(uint8(38)))
			} else {
				Expect(e.Words).To(Equal(1))
			}
		}
	})

	It("should give indexed forms their assembler spelling", func() {
		Expect(jrisc.OpLoadr14n.String()).To(Equal("loadr14n"))
		Expect(jrisc.OpLoadr14n.Mnemonic()).To(Equal("load"))
		Expect(jrisc.OpStorer15r.Mnemonic()).To(Equal("store"))
		Expect(jrisc.OpMovepc.Mnemonic()).To(Equal("move"))
		Expect(jrisc.OpIllegal.Mnemonic()).To(Equal("dc.w"))
	})

	Describe("reserved slots", func() {
		It("should decode to dc.w without an error in either mode", func() {
			for _, code := range [][]byte{word(62, 3, 4), word(63, 2, 0), word(63, 31, 31)} {
				dsp := decodeOne(jrisc.DSP, code)
				gpu := decodeOne(jrisc.GPU, code)
				for _, in := range []jrisc.Instruction{dsp, gpu} {
					if in.Reserved() {
						Expect(in.Mnemonic).To(Equal("dc.w"))
						Expect(in.Size()).To(Equal(2))
						Expect(in.WritesDst()).To(BeFalse())
					}
				}
			}

			Expect(decodeOne(jrisc.DSP, word(62, 3, 4)).Text()).To(Equal("dc.w\t$f864"))
			Expect(decodeOne(jrisc.GPU, word(63, 2, 0)).Text()).To(Equal("dc.w\t$fc40"))
		})
	})

	Describe("register effects", func() {
		It("should tell writes from reads", func() {
			Expect(decodeOne(jrisc.GPU, word(34, 1, 2)).WritesDst()).To(BeTrue())
			Expect(decodeOne(jrisc.GPU, word(30, 1, 2)).WritesDst()).To(BeFalse())
			Expect(decodeOne(jrisc.GPU, word(47, 1, 2)).WritesDst()).To(BeFalse())
			Expect(decodeOne(jrisc.GPU, word(51, 0, 2)).WritesDst()).To(BeTrue())
			Expect(decodeOne(jrisc.GPU, word(53, 1, 0)).IsBranch()).To(BeTrue())
		})
	})
})
