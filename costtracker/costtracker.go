// Package costtracker records, per processing element, every memory
// transaction by storage tier and direction, plus the arithmetic operation
// counts a convolution sweep performs.
package costtracker

import "fmt"

// Tier names the storage tier a memory access was made against.
type Tier int

const (
	SPAD Tier = iota
	IPE
	GLB
	DRAM
	// Acc is a free pass-through: it tags the source-side read of a neighbor
	// shift, whose cost is recorded once as the destination's ipe write.
	Acc
)

func (t Tier) String() string {
	switch t {
	case SPAD:
		return "spad"
	case IPE:
		return "ipe"
	case GLB:
		return "glb"
	case DRAM:
		return "dram"
	case Acc:
		return "acc"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Direction is read or write.
type Direction int

const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	if d == Write {
		return "write"
	}
	return "read"
}

// CostTracker is a concrete per-PE collaborator: every memory accessor and
// compute operator on a ProcessingElement calls into it explicitly. There is
// no dynamic interception and no shared state across PEs.
type CostTracker struct {
	spadReads, spadWrites []string
	ipeReads, ipeWrites   []string
	glbReads, glbWrites   []string
	dramReads, dramWrites []string

	addOps  int
	multOps int
}

// New returns a zeroed CostTracker.
func New() *CostTracker {
	return &CostTracker{}
}

// Record logs one memory transaction made by caller against tier in the
// given direction. acc is a free pass-through and records nothing. Any other
// value outside {spad, ipe, glb, dram, acc} is a programming error and
// panics rather than silently dropping the transaction.
func (c *CostTracker) Record(tier Tier, dir Direction, caller string) {
	switch tier {
	case Acc:
		return
	case SPAD:
		if dir == Write {
			c.spadWrites = append(c.spadWrites, caller)
		} else {
			c.spadReads = append(c.spadReads, caller)
		}
	case IPE:
		if dir == Write {
			c.ipeWrites = append(c.ipeWrites, caller)
		} else {
			c.ipeReads = append(c.ipeReads, caller)
		}
	case GLB:
		if dir == Write {
			c.glbWrites = append(c.glbWrites, caller)
		} else {
			c.glbReads = append(c.glbReads, caller)
		}
	case DRAM:
		if dir == Write {
			c.dramWrites = append(c.dramWrites, caller)
		} else {
			c.dramReads = append(c.dramReads, caller)
		}
	default:
		panic(fmt.Sprintf("costtracker: someone forgot to assign tier %v a cost", tier))
	}
}

// BumpMult counts a vectorized multiply of length n as n scalar multiplies.
func (c *CostTracker) BumpMult(n int) {
	c.multOps += n
}

// BumpAdd counts one scalar add (a single reduction of a multiply result
// into a psum slot, regardless of how many terms fed the multiply).
func (c *CostTracker) BumpAdd() {
	c.addOps++
}

func (c *CostTracker) SpadReads() int  { return len(c.spadReads) }
func (c *CostTracker) SpadWrites() int { return len(c.spadWrites) }
func (c *CostTracker) IPEReads() int   { return len(c.ipeReads) }
func (c *CostTracker) IPEWrites() int  { return len(c.ipeWrites) }
func (c *CostTracker) GLBReads() int   { return len(c.glbReads) }
func (c *CostTracker) GLBWrites() int  { return len(c.glbWrites) }
func (c *CostTracker) DRAMReads() int  { return len(c.dramReads) }
func (c *CostTracker) DRAMWrites() int { return len(c.dramWrites) }
func (c *CostTracker) Add() int        { return c.addOps }
func (c *CostTracker) Mult() int       { return c.multOps }

// Counters is a plain-data snapshot of a CostTracker, suitable for
// aggregation across a PE grid.
type Counters struct {
	SpadReads, SpadWrites int
	IPEReads, IPEWrites   int
	GLBReads, GLBWrites   int
	DRAMReads, DRAMWrites int
	Add, Mult             int
}

// Snapshot returns the current counts as a plain Counters value.
func (c *CostTracker) Snapshot() Counters {
	return Counters{
		SpadReads:  c.SpadReads(),
		SpadWrites: c.SpadWrites(),
		IPEReads:   c.IPEReads(),
		IPEWrites:  c.IPEWrites(),
		GLBReads:   c.GLBReads(),
		GLBWrites:  c.GLBWrites(),
		DRAMReads:  c.DRAMReads(),
		DRAMWrites: c.DRAMWrites(),
		Add:        c.Add(),
		Mult:       c.Mult(),
	}
}

// Sum reduces a slice of per-PE counters into the grid-wide total.
func Sum(all []Counters) Counters {
	var total Counters
	for _, c := range all {
		total.SpadReads += c.SpadReads
		total.SpadWrites += c.SpadWrites
		total.IPEReads += c.IPEReads
		total.IPEWrites += c.IPEWrites
		total.GLBReads += c.GLBReads
		total.GLBWrites += c.GLBWrites
		total.DRAMReads += c.DRAMReads
		total.DRAMWrites += c.DRAMWrites
		total.Add += c.Add
		total.Mult += c.Mult
	}
	return total
}
