package ifmap

import (
	"github.com/DerekYu177/eyeriss-model/costtracker"
	"github.com/DerekYu177/eyeriss-model/pe"
)

// PipeCoordinator builds the set of input-edge PEs, constructs their pipes
// with the correct leading zero-padding and row interleaving, and advances
// all pipes in lockstep.
type PipeCoordinator struct {
	pes          [][]*pe.ProcessingElement // [row][col], row 0 is the bottom
	ifmapRowSize int

	edgePEs []*pe.ProcessingElement
	pipes   map[*pe.ProcessingElement]*Pipe
}

// NewPipeCoordinator computes the ordered set of edge PEs for pes: the left
// column (column 0), visited top row to bottom row, followed by the bottom
// row excluding its already-visited corner.
func NewPipeCoordinator(pes [][]*pe.ProcessingElement, ifmapRowSize int) *PipeCoordinator {
	c := &PipeCoordinator{
		pes:          pes,
		ifmapRowSize: ifmapRowSize,
		pipes:        make(map[*pe.ProcessingElement]*Pipe),
	}
	c.edgePEs = c.inputEdgePEs()
	return c
}

func (c *PipeCoordinator) inputEdgePEs() []*pe.ProcessingElement {
	var edges []*pe.ProcessingElement

	for row := len(c.pes) - 1; row >= 0; row-- {
		edges = append(edges, c.pes[row][0])
	}

	for col, p := range c.pes[0] {
		if col == 0 {
			continue
		}
		edges = append(edges, p)
	}

	return edges
}

// EdgePEs returns the edge PEs in the fixed insertion order used to
// interleave ifmap row delivery.
func (c *PipeCoordinator) EdgePEs() []*pe.ProcessingElement {
	return c.edgePEs
}

// PipeFor returns the pipe feeding p, or nil if p is not an edge PE or Setup
// has not run yet.
func (c *PipeCoordinator) PipeFor(p *pe.ProcessingElement) *Pipe {
	return c.pipes[p]
}

// Setup attaches a pipe to every edge PE, pads each for its diagonal delay,
// then fills every pipe with its interleaved slice of ifmap.
func (c *PipeCoordinator) Setup(ifmapRows [][]int) {
	c.attachPipes()
	c.padWithZeros()
	c.fill(ifmapRows)
}

func (c *PipeCoordinator) attachPipes() {
	for _, p := range c.edgePEs {
		c.pipes[p] = NewPipe(c.ifmapRowSize)
	}
}

func (c *PipeCoordinator) padWithZeros() {
	for _, p := range c.edgePEs {
		c.pipes[p].PadWithZeros(p.UUID.Col)
	}
}

// fill gives the k-th edge PE (in insertion order) every ifmap row whose
// index is congruent to k modulo the grid height — rows k, k+H, k+2H, ...
func (c *PipeCoordinator) fill(ifmapRows [][]int) {
	height := len(c.pes)

	for k, p := range c.edgePEs {
		pipe := c.pipes[p]
		for idx := k; idx < len(ifmapRows); idx += height {
			pipe.Append(ifmapRows[idx])
		}
	}
}

// UpdatePEs pops one entry from every pipe and delivers it to its owning PE.
// Must be called exactly once per outer step, for every pipe, before any
// compute runs for that step.
func (c *PipeCoordinator) UpdatePEs() {
	for _, p := range c.edgePEs {
		row, idx := c.pipes[p].Pop()
		p.SetIfmap(row, costtracker.DRAM, idx)
	}
}
