package testmatrix

// Builder assembles the arguments to Create one field at a time, following
// the same fluent, value-receiver shape as accelerator.Builder: each With*
// call returns a modified copy, and Build produces the final matrix.
type Builder struct {
	seed          int
	colInc, rowInc int
	rows, cols    int
}

// NewBuilder returns a Builder seeded at zero with a column increment of 1
// and a row increment of 0: with only WithDimensions set, Build returns
// Create(0, 1, 0, rows, cols).
func NewBuilder() Builder {
	return Builder{colInc: 1}
}

// WithSeed sets the value of cell (0, 0).
func (b Builder) WithSeed(seed int) Builder {
	b.seed = seed
	return b
}

// WithIncrements sets the per-column and per-row step sizes.
func (b Builder) WithIncrements(colInc, rowInc int) Builder {
	b.colInc = colInc
	b.rowInc = rowInc
	return b
}

// WithDimensions sets the matrix shape.
func (b Builder) WithDimensions(rows, cols int) Builder {
	b.rows = rows
	b.cols = cols
	return b
}

// Build synthesizes the matrix described so far.
func (b Builder) Build() [][]int {
	return Create(b.seed, b.colInc, b.rowInc, b.rows, b.cols)
}
