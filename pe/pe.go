// Package pe implements a single processing element (PE) of the row-stationary
// 2D array: it holds one kernel row, one ifmap row, and one psum accumulator,
// performs the 1D convolve-accumulate for its row, and transports its state to
// a neighbor PE on request.
package pe

import "github.com/DerekYu177/eyeriss-model/costtracker"

// UUID addresses a PE within the grid. Row 0 is the bottom of the grid, row
// H-1 is the top.
type UUID struct {
	Row, Col int
}

// Stride is the vertical/horizontal skip used both by the 1D convolution and
// by diagonal ifmap propagation.
type Stride struct {
	Row, Col int
}

// ProcessingElement is the unit of the PE grid. Zero value is not usable;
// construct with New.
type ProcessingElement struct {
	UUID   UUID
	Stride Stride

	// IfmapIndex is the original ifmap row index carried alongside the
	// stored ifmap row. nil means "no index" (a zero-padding delivery).
	IfmapIndex *int

	kernel []int
	ifmap  []int
	psum   []int

	kernelSet bool
	ifmapSet  bool

	tracker *costtracker.CostTracker
}

// New builds a fresh, empty PE at uuid with the given stride.
func New(uuid UUID, stride Stride) *ProcessingElement {
	return &ProcessingElement{
		UUID:    uuid,
		Stride:  stride,
		tracker: costtracker.New(),
	}
}

// Ready reports whether both a kernel and an ifmap have been set at least
// once.
func (p *ProcessingElement) Ready() bool {
	return p.kernelSet && p.ifmapSet
}

// Ofmap is the length of this PE's local psum/output row. Zero until the PE
// is ready.
func (p *ProcessingElement) Ofmap() int {
	if !p.Ready() {
		return 0
	}
	return (len(p.ifmap) - len(p.kernel) + p.Stride.Col) / p.Stride.Col
}

// Tracker exposes the PE's cost tracker for counter aggregation.
func (p *ProcessingElement) Tracker() *costtracker.CostTracker {
	return p.tracker
}

// SetKernel stores a copy of kernel, marks the PE as having a kernel, and
// lazily allocates a zero psum once the PE becomes ready.
func (p *ProcessingElement) SetKernel(kernel []int, tier costtracker.Tier) {
	p.tracker.Record(tier, costtracker.Write, "kernel")

	p.kernel = append([]int(nil), kernel...)
	p.kernelSet = true
	p.setPsumIfReady()
}

// GetKernel returns the stored kernel row.
func (p *ProcessingElement) GetKernel(tier costtracker.Tier) []int {
	p.tracker.Record(tier, costtracker.Read, "kernel")
	return p.kernel
}

// SetIfmap stores a copy of row, its originating ifmap row index, marks the
// PE as having an ifmap, and lazily allocates a zero psum once ready.
func (p *ProcessingElement) SetIfmap(row []int, tier costtracker.Tier, ifmapIndex *int) {
	p.tracker.Record(tier, costtracker.Write, "ifmap")

	p.ifmap = append([]int(nil), row...)
	p.IfmapIndex = ifmapIndex
	p.ifmapSet = true
	p.setPsumIfReady()
}

// GetIfmap returns the stored ifmap row.
func (p *ProcessingElement) GetIfmap(tier costtracker.Tier) []int {
	p.tracker.Record(tier, costtracker.Read, "ifmap")
	return p.ifmap
}

// HasIfmap reports whether an ifmap row has ever been set, independent of
// readiness.
func (p *ProcessingElement) HasIfmap() bool {
	return p.ifmap != nil
}

// GetPsum returns the current psum accumulator.
func (p *ProcessingElement) GetPsum(tier costtracker.Tier) []int {
	p.tracker.Record(tier, costtracker.Read, "psum")
	return p.psum
}

// SetPsum stores an independent copy of psum.
func (p *ProcessingElement) SetPsum(psum []int, tier costtracker.Tier) {
	p.tracker.Record(tier, costtracker.Write, "psum")
	p.psum = append([]int(nil), psum...)
}

// SetPsumZero replaces the psum with a fresh zero slice of length Ofmap.
func (p *ProcessingElement) SetPsumZero() {
	p.psum = make([]int, p.Ofmap())
}

func (p *ProcessingElement) setPsumIfReady() {
	if p.Ready() {
		p.psum = make([]int, p.Ofmap())
	}
}

// mult is the compute-op wrap for a vectorized multiply: it counts as
// len(a) scalar multiplies.
func (p *ProcessingElement) mult(a, b []int) int {
	p.tracker.BumpMult(len(a))

	sum := 0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// add is the compute-op wrap for a scalar add.
func (p *ProcessingElement) add(a, b int) int {
	p.tracker.BumpAdd()
	return a + b
}

// Conv performs the 1D convolve-accumulate of this PE's kernel against its
// ifmap row, writing into its psum. Returns false if the PE is not ready;
// state is unchanged in that case.
func (p *ProcessingElement) Conv() bool {
	if !p.Ready() {
		return false
	}

	if p.psum == nil {
		p.SetPsumZero()
	}

	sc := p.Stride.Col
	kernelLen := len(p.kernel)
	for i := 0; i < len(p.ifmap); i += sc {
		if i+kernelLen > len(p.ifmap) {
			continue
		}

		kernel := p.GetKernel(costtracker.SPAD)
		ifmap := p.GetIfmap(costtracker.SPAD)
		window := ifmap[i : i+len(kernel)]
		multResult := p.mult(kernel, window)

		prevPsum := p.GetPsum(costtracker.SPAD)
		j := i / sc
		prevPsum[j] = p.add(multResult, prevPsum[j])
		p.SetPsum(prevPsum, costtracker.SPAD)
	}

	return true
}

// TShiftKernelTo copies this PE's kernel into other. The read at the source
// is free (acc); the cost is paid at the destination's write (ipe).
func (p *ProcessingElement) TShiftKernelTo(other *ProcessingElement) {
	other.SetKernel(p.GetKernel(costtracker.Acc), costtracker.IPE)
}

// TShiftIfmapTo copies this PE's ifmap row (and its row index) into other.
func (p *ProcessingElement) TShiftIfmapTo(other *ProcessingElement) {
	other.SetIfmap(p.GetIfmap(costtracker.Acc), costtracker.IPE, p.IfmapIndex)
}

// TShiftPsumTo copies this PE's psum into other.
func (p *ProcessingElement) TShiftPsumTo(other *ProcessingElement) {
	other.SetPsum(p.GetPsum(costtracker.Acc), costtracker.IPE)
}
