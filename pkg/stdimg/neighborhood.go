package stdimg

import "fmt"

// SampleSize is the number of neighbors surrounding an interior pixel.
const SampleSize = 8

// Sample holds one channel's values for the 8 pixels around an interior pixel.
type Sample [SampleSize]uint8

// neighborOffsets are (row, col) deltas starting at the top-left neighbor,
// in the order Neighbors returns them.
var neighborOffsets = [SampleSize][2]int{
	{-1, -1},
	{0, -1},
	{+1, -1},
	{+1, 0},
	{+1, +1},
	{0, +1},
	{-1, +1},
	{-1, 0},
}

// Neighbors returns channel ch of the 8 pixels surrounding (row, col).
//
// (row, col) must be interior (see Matrix.IsInterior). Border and
// out-of-range coordinates panic rather than wrapping to the opposite edge.
func Neighbors(m *Matrix, row, col int, ch Channel) Sample {
	if !m.IsInterior(row, col) {
		panic(fmt.Sprintf("stdimg: Neighbors(%d, %d) outside interior of %dx%d matrix", row, col, m.Rows, m.Cols))
	}
	var s Sample
	for k, d := range neighborOffsets {
		s[k] = m.Pix[m.Offset(row+d[0], col+d[1])+int(ch)]
	}
	return s
}
