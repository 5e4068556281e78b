package jrisc_test

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jdis/internal/jrisc"
)

func texts(insts []jrisc.Instruction) []string {
	out := make([]string, 0, len(insts))
	for _, in := range insts {
		out = append(out, in.Text())
	}
	return out
}

var _ = Describe("Decoder", func() {
	var decoder *jrisc.Decoder

	BeforeEach(func() {
		var err error
		decoder, err = jrisc.New(jrisc.GPU, jrisc.WithMachineCode(true))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("register setup sequence", func() {
		It("should reproduce the reference listing", func() {
			insts, err := decoder.All(regset, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(texts(insts)).To(Equal(regsetText))
		})

		It("should place every instruction after the previous one", func() {
			insts, err := decoder.All(regset, 0)
			Expect(err).NotTo(HaveOccurred())

			var addrs []uint32
			for _, in := range insts {
				addrs = append(addrs, in.Addr)
			}
			Expect(addrs).To(Equal([]uint32{0, 6, 8, 10, 12, 18, 20, 22, 24, 26}))
		})

		It("should keep the bytes behind each instruction", func() {
			insts, err := decoder.All(regset, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(insts[0].Raw).To(Equal([]byte{0x98, 0x1f, 0x05, 0xbc, 0x00, 0x00}))
			Expect(insts[0].Words).To(Equal([]uint16{0x981f, 0x05bc, 0x0000}))
			Expect(insts[1].Raw).To(Equal([]byte{0xbf, 0xe0}))

			var joined []byte
			for _, in := range insts {
				joined = append(joined, in.Raw...)
			}
			Expect(joined).To(Equal(regset))
		})

		It("should assemble the movei immediate low word first", func() {
			insts, err := decoder.All(regset, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(insts[4].Op).To(Equal(jrisc.OpMovei))
			Expect(insts[4].Imm).To(Equal(uint32(0xf02114)))
			Expect(insts[4].Size()).To(Equal(6))
		})

		It("should resolve the jr target", func() {
			insts, err := decoder.All(regset, 0)
			Expect(err).NotTo(HaveOccurred())

			target, ok := insts[7].Target()
			Expect(ok).To(BeTrue())
			Expect(target).To(Equal(uint32(20)))

			_, ok = insts[6].Target()
			Expect(ok).To(BeFalse())
		})

		It("should print absolute targets when asked", func() {
			abs, err := jrisc.New(jrisc.GPU, jrisc.WithAbsoluteBranches(true))
			Expect(err).NotTo(HaveOccurred())

			insts, err := abs.All(regset, jrisc.GPURAM)
			Expect(err).NotTo(HaveOccurred())
			Expect(insts[7].Text()).To(Equal("jr\tT, $f03014"))
			Expect(insts[7].Raw).To(BeNil())
		})

		It("should give the same output on every run", func() {
			first, err := decoder.All(regset, 0x1000)
			Expect(err).NotTo(HaveOccurred())
			second, err := decoder.All(regset, 0x1000)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
		})
	})

	Describe("lazy sequence", func() {
		It("should yield nothing for empty input", func() {
			count := 0
			for range decoder.Instructions(nil, 0) {
				count++
			}
			Expect(count).To(BeZero())

			insts, err := decoder.All([]byte{}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(insts).To(BeEmpty())
		})

		It("should stop when the caller breaks", func() {
			var seen []uint32
			for in, err := range decoder.Instructions(regset, 0) {
				Expect(err).NotTo(HaveOccurred())
				seen = append(seen, in.Addr)
				if len(seen) == 2 {
					break
				}
			}
			Expect(seen).To(Equal([]uint32{0, 6}))
		})

		It("should account for every byte of every single-word instruction", func() {
			var code []byte
			for w := 0; w <= 0xffff; w++ {
				if w>>10 == 38 { // movei
					continue
				}
				code = append(code, byte(w>>8), byte(w))
			}

			for _, mode := range []jrisc.Mode{jrisc.GPU, jrisc.DSP} {
				d, err := jrisc.New(mode)
				Expect(err).NotTo(HaveOccurred())

				next := uint32(0x800000)
				total := 0
				for in, err := range d.Instructions(code, 0x800000) {
					Expect(err).NotTo(HaveOccurred())
					Expect(in.Addr).To(Equal(next))
					Expect(in.Size()).To(Equal(2))
					Expect(in.Mnemonic).NotTo(BeEmpty())
					next = in.End()
					total += in.Size()
				}
				Expect(total).To(Equal(len(code)))
			}
		})

		It("should be safe to share between goroutines", func() {
			want, err := decoder.All(regset, 0)
			Expect(err).NotTo(HaveOccurred())

			var wg sync.WaitGroup
			results := make([][]jrisc.Instruction, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = decoder.All(regset, 0)
				}(i)
			}
			wg.Wait()

			for _, got := range results {
				Expect(got).To(Equal(want))
			}
		})
	})

	Describe("truncated input", func() {
		It("should report an odd trailing byte", func() {
			code := append(word(57, 0, 0), 0xe4)

			insts, err := decoder.All(code, 0x100)

			Expect(texts(insts)).To(Equal([]string{"nop"}))
			Expect(errors.Is(err, jrisc.ErrTruncatedInput)).To(BeTrue())

			var te *jrisc.TruncatedError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Addr).To(Equal(uint32(0x102)))
			Expect(te.Need).To(Equal(2))
			Expect(te.Have).To(Equal(1))
		})

		It("should report a movei without its immediate", func() {
			_, err := decoder.All([]byte{0x98, 0x1f, 0x05, 0xbc}, 0)

			var te *jrisc.TruncatedError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Need).To(Equal(6))
			Expect(te.Have).To(Equal(4))
		})

		It("should end the sequence at the error", func() {
			code := []byte{0xe4, 0x00, 0x98, 0x1f}
			var errs []error
			count := 0
			for _, err := range decoder.Instructions(code, 0) {
				count++
				if err != nil {
					errs = append(errs, err)
				}
			}
			Expect(count).To(Equal(2))
			Expect(errs).To(HaveLen(1))
		})
	})

	Describe("modes", func() {
		It("should reject an unknown mode", func() {
			d, err := jrisc.New(jrisc.Mode(7))
			Expect(d).To(BeNil())
			Expect(err).To(MatchError(jrisc.ErrInvalidMode))

			_, err = jrisc.Disassemble(regset, 0, jrisc.Mode(-1))
			Expect(err).To(MatchError(jrisc.ErrInvalidMode))
		})

		It("should parse mode names", func() {
			m, err := jrisc.ParseMode("Jerry")
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(jrisc.DSP))

			m, err = jrisc.ParseMode(" gpu ")
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(jrisc.GPU))

			_, err = jrisc.ParseMode("68000")
			Expect(errors.Is(err, jrisc.ErrInvalidMode)).To(BeTrue())
		})

		It("should know each processor's RAM", func() {
			Expect(jrisc.GPU.DefaultBase()).To(Equal(uint32(0xf03000)))
			Expect(jrisc.DSP.DefaultBase()).To(Equal(uint32(0xf1b000)))
			Expect(jrisc.DSP.String()).To(Equal("dsp"))
		})
	})
})
