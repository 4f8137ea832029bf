// Package testmatrix synthesizes deterministic integer matrices for driving
// and cross-checking a convolution run, without depending on any
// floating-point RNG.
package testmatrix

// Create builds a rows x cols matrix where cell (r, c) = seed + c*colInc +
// r*rowInc. Used to generate both kernels and ifmaps whose every entry is
// analytically predictable, so an end-to-end run's ofmap can be checked
// against a closed-form expression instead of a golden file.
func Create(seed, colInc, rowInc, rows, cols int) [][]int {
	m := make([][]int, rows)
	for r := range m {
		row := make([]int, cols)
		for c := range row {
			row[c] = seed + c*colInc + r*rowInc
		}
		m[r] = row
	}
	return m
}
