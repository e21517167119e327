package stdimg

import "fmt"

// NumChannels is the number of color channels stored per pixel.
const NumChannels = 3

// Channel identifies one of the red, green or blue components of a pixel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Channels lists the channels in storage order.
var Channels = [NumChannels]Channel{Red, Green, Blue}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Matrix is a dense rows x cols x 3 grid of 8-bit channel values.
// Pix holds the values row-major: Pix[(row*Cols+col)*3+channel].
type Matrix struct {
	Pix  []uint8
	Rows int
	Cols int
}

// NewMatrix allocates a zeroed matrix. Negative sizes are treated as 0.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{
		Pix:  make([]uint8, rows*cols*NumChannels),
		Rows: rows,
		Cols: cols,
	}
}

// Shape returns (rows, cols, channels).
func (m *Matrix) Shape() (int, int, int) {
	return m.Rows, m.Cols, NumChannels
}

// Offset returns the index in Pix of the first channel of pixel (row, col).
func (m *Matrix) Offset(row, col int) int {
	return (row*m.Cols + col) * NumChannels
}

// At returns the value of channel ch at (row, col).
func (m *Matrix) At(row, col int, ch Channel) uint8 {
	return m.Pix[m.Offset(row, col)+int(ch)]
}

// Set stores v into channel ch at (row, col).
func (m *Matrix) Set(row, col int, ch Channel, v uint8) {
	m.Pix[m.Offset(row, col)+int(ch)] = v
}

// Pixel returns the three channel values at (row, col).
func (m *Matrix) Pixel(row, col int) [NumChannels]uint8 {
	i := m.Offset(row, col)
	return [NumChannels]uint8{m.Pix[i+0], m.Pix[i+1], m.Pix[i+2]}
}

// SetPixel stores all three channel values at (row, col).
func (m *Matrix) SetPixel(row, col int, px [NumChannels]uint8) {
	i := m.Offset(row, col)
	m.Pix[i+0] = px[0]
	m.Pix[i+1] = px[1]
	m.Pix[i+2] = px[2]
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}
	out := &Matrix{Pix: make([]uint8, len(m.Pix)), Rows: m.Rows, Cols: m.Cols}
	copy(out.Pix, m.Pix)
	return out
}

// IsInterior reports whether (row, col) has a full set of 8 neighbors.
func (m *Matrix) IsInterior(row, col int) bool {
	return row >= 1 && row <= m.Rows-2 && col >= 1 && col <= m.Cols-2
}

// Equal reports whether m and o have the same shape and values.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Rows != o.Rows || m.Cols != o.Cols || len(m.Pix) != len(o.Pix) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}
