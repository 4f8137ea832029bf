package accelerator

import "github.com/DerekYu177/eyeriss-model/pe"

// Grid is the 2D array of PEs, stored as a contiguous slice indexed
// row*width+col so that no row or column aliases another's backing array.
// Row 0 is the bottom of the grid, row height-1 is the top.
type Grid struct {
	width, height int
	cells         []*pe.ProcessingElement
}

func newGrid(width, height int, stride pe.Stride) *Grid {
	cells := make([]*pe.ProcessingElement, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			cells[row*width+col] = pe.New(pe.UUID{Row: row, Col: col}, stride)
		}
	}
	return &Grid{width: width, height: height, cells: cells}
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the PE at (row, col).
func (g *Grid) At(row, col int) *pe.ProcessingElement {
	return g.cells[row*g.width+col]
}

// Rows returns a [row][col] view of the grid, suitable for the ifmap
// package's pipe coordinator.
func (g *Grid) Rows() [][]*pe.ProcessingElement {
	rows := make([][]*pe.ProcessingElement, g.height)
	for r := 0; r < g.height; r++ {
		rows[r] = g.cells[r*g.width : (r+1)*g.width]
	}
	return rows
}

// All returns every PE in the grid, in row-major order.
func (g *Grid) All() []*pe.ProcessingElement {
	return g.cells
}
