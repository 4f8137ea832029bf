// Package ifmap implements the delivery pipeline that feeds ifmap rows to
// the edge PEs of the grid: a Pipe is a FIFO of rows for one edge PE, and a
// PipeCoordinator builds and advances the whole set of pipes in lockstep.
package ifmap

// Pipe is a FIFO of ifmap rows (plus their original row index) for one edge
// PE, with an advancing read cursor.
type Pipe struct {
	ifmapSize int

	rows    [][]int
	indices []*int

	cursor int
}

// NewPipe returns an empty pipe whose zero-padding rows will have length
// ifmapSize.
func NewPipe(ifmapSize int) *Pipe {
	return &Pipe{ifmapSize: ifmapSize}
}

// Len is the number of entries appended to the pipe (padding included),
// regardless of how many have been popped.
func (p *Pipe) Len() int {
	return len(p.rows)
}

// Empty is true only before anything has ever been appended — distinct from
// a drained pipe, whose Pop keeps returning zero rows.
func (p *Pipe) Empty() bool {
	return len(p.rows) == 0 && len(p.indices) == 0
}

// PadWithZeros appends n zero-ifmap rows with no row index. Used to create
// the diagonal delay for edge PEs at column c > 0.
func (p *Pipe) PadWithZeros(n int) {
	for i := 0; i < n; i++ {
		p.rows = append(p.rows, make([]int, p.ifmapSize))
		p.indices = append(p.indices, nil)
	}
}

// Append pushes one ifmap row, deriving its original row index from its
// first element.
func (p *Pipe) Append(row []int) {
	p.rows = append(p.rows, row)

	idx := row[0] / p.ifmapSize
	p.indices = append(p.indices, &idx)
}

// Rows returns the pipe's full row sequence, padding included. Intended for
// introspection (tests, debugging) — Pop is the production read path.
func (p *Pipe) Rows() [][]int {
	return p.rows
}

// Indices returns the pipe's full index sequence, in lockstep with Rows.
func (p *Pipe) Indices() []*int {
	return p.indices
}

// Pop returns the entry at the cursor and advances it. Once the cursor is
// past the end, it keeps returning a fresh zero row with a nil index.
func (p *Pipe) Pop() ([]int, *int) {
	if p.cursor >= len(p.rows) {
		return make([]int, p.ifmapSize), nil
	}

	row := p.rows[p.cursor]
	idx := p.indices[p.cursor]
	p.cursor++

	return row, idx
}
