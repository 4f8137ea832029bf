package pe_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DerekYu177/eyeriss-model/costtracker"
	"github.com/DerekYu177/eyeriss-model/pe"
)

func rangeInts(start, stop int) []int {
	out := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		out = append(out, i)
	}
	return out
}

func arithmeticProgression(start, stop, step int) []int {
	var out []int
	for v := start; v < stop; v += step {
		out = append(out, v)
	}
	return out
}

var _ = Describe("ProcessingElement", func() {
	var p *pe.ProcessingElement

	BeforeEach(func() {
		p = pe.New(pe.UUID{Row: 0, Col: 0}, pe.Stride{Row: 1, Col: 1})
	})

	Describe("readiness", func() {
		It("is not ready before kernel and ifmap are set", func() {
			Expect(p.Ready()).To(BeFalse())
		})

		It("becomes ready once both kernel and ifmap are set", func() {
			p.SetKernel([]int{1, 2}, costtracker.DRAM)
			p.SetIfmap(rangeInts(0, 5), costtracker.DRAM, nil)

			Expect(p.Ready()).To(BeTrue())
		})
	})

	Describe("small ifmap convolution", func() {
		BeforeEach(func() {
			p.SetKernel([]int{1, 2}, costtracker.DRAM)
			p.SetIfmap(rangeInts(0, 5), costtracker.DRAM, nil)
		})

		It("computes the correct ofmap length", func() {
			Expect(p.Ofmap()).To(Equal(4))
		})

		It("does a vector multiply-accumulate into the psum", func() {
			Expect(p.Conv()).To(BeTrue())
			Expect(p.GetPsum(costtracker.DRAM)).To(Equal([]int{2, 5, 8, 11}))
		})

		It("tallies memory transactions per spec scenario 1", func() {
			p.Conv()

			t := p.Tracker()
			Expect(t.DRAMWrites()).To(Equal(2))
			Expect(t.DRAMReads()).To(Equal(0))
			Expect(t.SpadWrites()).To(Equal(4))
			Expect(t.SpadReads()).To(Equal(12))
			Expect(t.Add()).To(Equal(4))
			Expect(t.Mult()).To(Equal(8))
		})
	})

	Describe("length-28 convolution", func() {
		BeforeEach(func() {
			p.SetKernel([]int{1, 2}, costtracker.DRAM)
			p.SetIfmap(rangeInts(0, 28), costtracker.DRAM, nil)
		})

		It("computes the correct ofmap length", func() {
			Expect(p.Ofmap()).To(Equal(27))
		})

		It("produces a 27-term arithmetic progression, step 3", func() {
			p.Conv()
			Expect(p.GetPsum(costtracker.DRAM)).To(Equal(arithmeticProgression(2, 83, 3)))
		})

		It("tallies 27 adds and 54 mults", func() {
			p.Conv()

			t := p.Tracker()
			Expect(t.Add()).To(Equal(27))
			Expect(t.Mult()).To(Equal(54))
		})
	})

	Describe("two PEs connected vertically", func() {
		var top, bottom *pe.ProcessingElement

		BeforeEach(func() {
			top = pe.New(pe.UUID{Row: 1, Col: 0}, pe.Stride{Row: 1, Col: 1})
			top.SetKernel([]int{1, 2}, costtracker.DRAM)
			top.SetIfmap(rangeInts(0, 28), costtracker.DRAM, nil)

			bottom = pe.New(pe.UUID{Row: 0, Col: 0}, pe.Stride{Row: 1, Col: 1})
			bottom.SetKernel([]int{3, 4}, costtracker.DRAM)
			bottom.SetIfmap(rangeInts(28, 56), costtracker.DRAM, nil)
		})

		It("runs the top PE exactly as a lone PE would", func() {
			top.Conv()
			Expect(top.GetPsum(costtracker.DRAM)).To(Equal(arithmeticProgression(2, 83, 3)))
		})

		It("accumulates the bottom PE's psum into the top PE on shift", func() {
			bottom.Conv()
			Expect(bottom.GetPsum(costtracker.DRAM)).To(Equal(arithmeticProgression(200, 389, 7)))

			bottom.TShiftPsumTo(top)
			top.Conv()

			Expect(top.GetPsum(costtracker.DRAM)).To(Equal(arithmeticProgression(202, 472, 10)))
		})
	})

	Describe("conv precondition", func() {
		It("returns false and leaves state untouched when not ready", func() {
			Expect(p.Conv()).To(BeFalse())
			Expect(p.GetPsum(costtracker.DRAM)).To(BeNil())
		})
	})

	Describe("neighbor shifts deliver independent copies", func() {
		It("does not alias kernel rows", func() {
			p.SetKernel([]int{1, 2}, costtracker.DRAM)
			other := pe.New(pe.UUID{Row: 0, Col: 1}, pe.Stride{Row: 1, Col: 1})

			p.TShiftKernelTo(other)
			p.SetKernel([]int{9, 9}, costtracker.DRAM)

			Expect(other.GetKernel(costtracker.DRAM)).To(Equal([]int{1, 2}))
		})

		It("does not alias psums", func() {
			p.SetKernel([]int{1, 2}, costtracker.DRAM)
			p.SetIfmap(rangeInts(0, 5), costtracker.DRAM, nil)
			p.Conv()

			other := pe.New(pe.UUID{Row: 1, Col: 0}, pe.Stride{Row: 1, Col: 1})
			other.SetKernel([]int{1, 2}, costtracker.DRAM)
			other.SetIfmap(rangeInts(0, 5), costtracker.DRAM, nil)

			p.TShiftPsumTo(other)
			p.SetPsumZero()

			Expect(other.GetPsum(costtracker.DRAM)).To(Equal([]int{2, 5, 8, 11}))
		})
	})
})
