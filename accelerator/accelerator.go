// Package accelerator wires a grid of PEs and an ifmap pipe coordinator
// together into the full row-stationary convolution sweep: kernel and ifmap
// placement, the per-step compute/shift passes, and ofmap assembly.
package accelerator

import (
	"github.com/DerekYu177/eyeriss-model/costtracker"
	"github.com/DerekYu177/eyeriss-model/ifmap"
	"github.com/DerekYu177/eyeriss-model/pe"
)

// Builder configures an Accelerator before construction. Value receivers:
// every WithX call returns a modified copy, finished by Build.
type Builder struct {
	width, height int
	stride        pe.Stride
}

// NewBuilder returns a Builder defaulting to a unit stride.
func NewBuilder() Builder {
	return Builder{stride: pe.Stride{Row: 1, Col: 1}}
}

// WithDimensions sets the grid's column count (width) and row count (height).
func (b Builder) WithDimensions(width, height int) Builder {
	b.width = width
	b.height = height
	return b
}

// WithStride sets the convolution stride, shared by the 1D convolve and the
// diagonal ifmap propagation.
func (b Builder) WithStride(row, col int) Builder {
	b.stride = pe.Stride{Row: row, Col: col}
	return b
}

// Build constructs the grid and returns a ready-to-load Accelerator.
func (b Builder) Build() *Accelerator {
	return &Accelerator{
		grid:   newGrid(b.width, b.height, b.stride),
		width:  b.width,
		height: b.height,
		stride: b.stride,
	}
}

// Accelerator owns the PE grid, the ifmap pipe coordinator, and the outer
// convolution sweep. Construct with Builder.
type Accelerator struct {
	grid   *Grid
	width  int
	height int
	stride pe.Stride

	kernelSet bool
	ifmapSet  bool

	kernelHeight, kernelWidth int
	ifmapRows                 [][]int

	coordinator *ifmap.PipeCoordinator
	ofmap       [][]int
}

// Width is the grid's column count.
func (a *Accelerator) Width() int { return a.width }

// Height is the grid's row count.
func (a *Accelerator) Height() int { return a.height }

// Grid exposes the underlying PE grid for direct inspection.
func (a *Accelerator) Grid() *Grid { return a.grid }

// SetKernel loads a kernel, one row per element, into the left column of the
// grid: kernel[i] goes to row height-1-i, so kernel[0] lands on the top PE,
// mirroring how the row-stationary dataflow seeds its left edge.
func (a *Accelerator) SetKernel(kernel [][]int) {
	a.kernelHeight = len(kernel)
	if a.kernelHeight > 0 {
		a.kernelWidth = len(kernel[0])
	}

	for i, row := range kernel {
		target := a.grid.At(a.height-1-i, 0)
		target.SetKernel(row, costtracker.DRAM)
	}
	a.kernelSet = true
}

// SetIfmap loads the ifmap, builds the pipe coordinator for this grid and
// ifmap row width, and delivers the first row to every edge PE.
func (a *Accelerator) SetIfmap(ifmapRows [][]int) {
	a.ifmapRows = ifmapRows

	rowWidth := 0
	if len(ifmapRows) > 0 {
		rowWidth = len(ifmapRows[0])
	}

	a.coordinator = ifmap.NewPipeCoordinator(a.grid.Rows(), rowWidth)
	a.coordinator.Setup(ifmapRows)
	a.coordinator.UpdatePEs()
	a.ifmapSet = true
}

// Ready reports whether both a kernel and an ifmap have been loaded.
func (a *Accelerator) Ready() bool {
	return a.kernelSet && a.ifmapSet
}

// Ofmap returns the assembled output feature map from the last Conv call, or
// nil if Conv has not run.
func (a *Accelerator) Ofmap() [][]int {
	return a.ofmap
}

func (a *Accelerator) ofmapDimensions() (oh, ow int) {
	ih := len(a.ifmapRows)
	iw := 0
	if ih > 0 {
		iw = len(a.ifmapRows[0])
	}
	oh = (ih - a.kernelHeight + a.stride.Row) / a.stride.Row
	ow = (iw - a.kernelWidth + a.stride.Col) / a.stride.Col
	return oh, ow
}

// RunReadyPEs runs the convolve-accumulate step for every PE in row that has
// both a kernel and an ifmap loaded.
func (a *Accelerator) RunReadyPEs(row int) {
	for col := 0; col < a.width; col++ {
		p := a.grid.At(row, col)
		if p.Ready() {
			p.Conv()
		}
	}
}

// PropagatePsums shifts row's psums up into row+1, a fixed (1,0) step
// independent of the configured convolution stride.
func (a *Accelerator) PropagatePsums(row int) {
	if row+1 >= a.height {
		return
	}
	for col := 0; col < a.width; col++ {
		a.grid.At(row, col).TShiftPsumTo(a.grid.At(row+1, col))
	}
}

// PropagateKernel shifts every row's kernels one column to the right.
// Columns are processed left to right, which means column j's write lands
// before column j+1 reads it as a source in the same pass: within a single
// call, the leftmost column's kernel cascades across the whole row rather
// than advancing one column at a time. That broadcast is load-bearing, not a
// bug to route around — the column-0 kernel is the only one populated when
// the sweep starts, and broadcasting it lets every column downstream of it
// become ready in the same call instead of waiting one step per column.
func (a *Accelerator) PropagateKernel() {
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width-1; col++ {
			a.grid.At(row, col).TShiftKernelTo(a.grid.At(row, col+1))
		}
	}
}

// PropagateIfmaps shifts ifmap rows diagonally by the configured stride, from
// the top row down to the bottom. Each source row lies below its destination
// and is visited after it, so every PE receives its source's ifmap from
// before the pass and a delivery advances one diagonal step per call. It
// finishes by pulling the next row off every edge pipe.
func (a *Accelerator) PropagateIfmaps() {
	for row := a.height - 1; row >= 0; row-- {
		for col := 0; col < a.width; col++ {
			srcRow := row - a.stride.Row
			srcCol := col - a.stride.Col
			if srcRow < 0 || srcCol < 0 {
				continue
			}

			src := a.grid.At(srcRow, srcCol)
			if !src.HasIfmap() {
				continue
			}
			src.TShiftIfmapTo(a.grid.At(row, col))
		}
	}
	a.coordinator.UpdatePEs()
}

// scaleOfmapIndex maps a top-row PE's carried ifmap index back to an ofmap
// row index. When the ifmap's seed row started at global index 0 (the common
// case), seedScale is 0 and the index passes through unchanged; otherwise the
// index is rescaled and shifted down by one row. Truncation matches the
// original float-to-int cast exactly. A nil idx (no delivery yet) always
// yields nil.
func scaleOfmapIndex(idx *int, seedScale float64) *int {
	if idx == nil {
		return nil
	}
	if int(seedScale) == 0 {
		v := *idx
		return &v
	}
	v := int(float64(*idx)/seedScale) - 1
	return &v
}

// Conv runs the full convolution sweep: Oh steps of (compute, psum shift,
// ofmap harvest, kernel shift, ifmap shift). Returns false without running if
// a kernel or ifmap has not been loaded.
func (a *Accelerator) Conv() bool {
	if !a.Ready() {
		return false
	}

	seedScale := 0.0
	if len(a.ifmapRows) > 0 && len(a.ifmapRows[0]) > 0 {
		seedScale = float64(a.ifmapRows[0][0]) / float64(len(a.ifmapRows[0]))
	}

	oh, ow := a.ofmapDimensions()
	ofmap := make([][]int, oh)
	for i := range ofmap {
		ofmap[i] = make([]int, ow)
	}

	for step := 0; step < oh; step++ {
		for row := 0; row < a.height; row++ {
			a.RunReadyPEs(row)
			a.PropagatePsums(row)
		}

		for col := 0; col < a.width; col++ {
			a.grid.At(0, col).SetPsumZero()
		}

		for col := 0; col < a.width; col++ {
			top := a.grid.At(a.height-1, col)
			idx := scaleOfmapIndex(top.IfmapIndex, seedScale)
			if idx == nil || *idx < 0 || *idx >= oh {
				continue
			}
			copy(ofmap[*idx], top.GetPsum(costtracker.DRAM))
		}

		a.PropagateKernel()
		a.PropagateIfmaps()
	}

	a.ofmap = ofmap
	return true
}

// PerPECounters returns a snapshot of every PE's cost counters, keyed by its
// grid UUID.
func (a *Accelerator) PerPECounters() map[pe.UUID]costtracker.Counters {
	out := make(map[pe.UUID]costtracker.Counters, a.width*a.height)
	for _, p := range a.grid.All() {
		out[p.UUID] = p.Tracker().Snapshot()
	}
	return out
}

// Counters returns the grid-wide total of every PE's cost counters.
func (a *Accelerator) Counters() costtracker.Counters {
	all := make([]costtracker.Counters, 0, a.width*a.height)
	for _, p := range a.grid.All() {
		all = append(all, p.Tracker().Snapshot())
	}
	return costtracker.Sum(all)
}
