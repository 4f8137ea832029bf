package accelerator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DerekYu177/eyeriss-model/accelerator"
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

// fullIfmap builds a size x size matrix where cell (r,c) = size*r + c.
func fullIfmap(size int) [][]int {
	out := make([][]int, size)
	for r := range out {
		out[r] = rangeInts(size*r, size*r+size)
	}
	return out
}

// squareKernel builds a size x size matrix where cell (r,c) = size*r + c.
func squareKernel(size int) [][]int {
	return fullIfmap(size)
}

var _ = Describe("Accelerator", func() {
	Describe("conv precondition", func() {
		It("returns false with neither kernel nor ifmap loaded", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()
			Expect(a.Conv()).To(BeFalse())
		})
	})

	Describe("kernel placement", func() {
		It("assigns the top kernel row to the top-left PE", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()
			a.SetKernel([][]int{{1, 2}, {3, 4}})

			Expect(a.Grid().At(0, 0).GetKernel(0)).To(Equal([]int{3, 4}))
			Expect(a.Grid().At(1, 0).GetKernel(0)).To(Equal([]int{1, 2}))
		})
	})

	Describe("ifmap placement", func() {
		It("distributes rows across the edge PEs with diagonal delay", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()

			ifmapRows := make([][]int, 6)
			for i := range ifmapRows {
				ifmapRows[i] = rangeInts(28*i, 28*i+28)
			}
			a.SetIfmap(ifmapRows)

			Expect(a.Grid().At(1, 0).GetIfmap(0)).To(Equal(ifmapRows[0]))
			Expect(a.Grid().At(0, 0).GetIfmap(0)).To(Equal(ifmapRows[1]))
			Expect(a.Grid().At(0, 1).GetIfmap(0)).To(Equal(make([]int, 28)))
			Expect(a.Grid().At(0, 1).IfmapIndex).To(BeNil())
			Expect(a.Grid().At(1, 1).HasIfmap()).To(BeFalse())
		})
	})

	Describe("kernel propagation", func() {
		It("shifts each row's kernel one column to the right", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()
			a.SetKernel([][]int{{1, 2}, {3, 4}})

			a.PropagateKernel()

			Expect(a.Grid().At(1, 1).GetKernel(0)).To(Equal([]int{1, 2}))
			Expect(a.Grid().At(0, 1).GetKernel(0)).To(Equal([]int{3, 4}))
		})
	})

	Describe("2x2 grid, 2x2 kernel, 2-row ifmap", func() {
		It("produces the single expected ofmap row", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()
			a.SetKernel([][]int{{1, 2}, {3, 4}})
			a.SetIfmap([][]int{rangeInts(0, 28), rangeInts(28, 56)})

			Expect(a.Conv()).To(BeTrue())
			Expect(a.Ofmap()).To(HaveLen(1))
			Expect(a.Ofmap()[0]).To(Equal(arithmeticProgression(202, 472, 10)))
		})
	})

	Describe("2x2 grid, 2x2 kernel, full 28x28 ifmap", func() {
		It("matches the closed-form ofmap", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()
			a.SetKernel([][]int{{0, 1}, {2, 3}})
			a.SetIfmap(fullIfmap(28))

			Expect(a.Conv()).To(BeTrue())
			Expect(a.Ofmap()).To(HaveLen(27))
			for r := 0; r < 27; r++ {
				Expect(a.Ofmap()[r]).To(HaveLen(27))
				for c := 0; c < 27; c++ {
					want := 144 + 6*c + 168*r
					Expect(a.Ofmap()[r][c]).To(Equal(want), "r=%d c=%d", r, c)
				}
			}
		})
	})

	Describe("7x7 grid, 7x7 kernel, full 28x28 ifmap", func() {
		It("matches the closed-form ofmap", func() {
			a := accelerator.NewBuilder().WithDimensions(7, 7).Build()
			a.SetKernel(squareKernel(7))
			a.SetIfmap(fullIfmap(28))

			Expect(a.Conv()).To(BeTrue())
			Expect(a.Ofmap()).To(HaveLen(22))
			for r := 0; r < 22; r++ {
				Expect(a.Ofmap()[r]).To(HaveLen(22))
				for c := 0; c < 22; c++ {
					want := 140924 + 1176*c + 32928*r
					Expect(a.Ofmap()[r][c]).To(Equal(want), "r=%d c=%d", r, c)
				}
			}
		})
	})

	Describe("7x7 grid with stride (3,3), same kernel and ifmap", func() {
		It("matches the closed-form ofmap", func() {
			a := accelerator.NewBuilder().WithDimensions(7, 7).WithStride(3, 3).Build()
			a.SetKernel(squareKernel(7))
			a.SetIfmap(fullIfmap(28))

			Expect(a.Conv()).To(BeTrue())
			Expect(a.Ofmap()).To(HaveLen(8))
			for r := 0; r < 8; r++ {
				Expect(a.Ofmap()[r]).To(HaveLen(8))
				for c := 0; c < 8; c++ {
					want := 140824 + 3528*c + 98784*r
					Expect(a.Ofmap()[r][c]).To(Equal(want), "r=%d c=%d", r, c)
				}
			}
		})
	})

	Describe("counters", func() {
		It("aggregates grid-wide counters after a run", func() {
			a := accelerator.NewBuilder().WithDimensions(2, 2).Build()
			a.SetKernel([][]int{{1, 2}, {3, 4}})
			a.SetIfmap([][]int{rangeInts(0, 28), rangeInts(28, 56)})
			a.Conv()

			counters := a.Counters()
			Expect(counters.Mult).To(BeNumerically(">", 0))
			Expect(counters.Add).To(BeNumerically(">", 0))

			per := a.PerPECounters()
			Expect(per).To(HaveLen(4))
			Expect(per[pe.UUID{Row: 0, Col: 0}].DRAMWrites).To(BeNumerically(">=", 1))
		})
	})
})
