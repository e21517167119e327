package stdimg

import (
	"image"
)

// ToNRGBA converts any image.Image to *image.NRGBA (non-premultiplied RGBA).
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		// copy row by row; sub-images share their parent's stride
		out := image.NewNRGBA(n.Rect)
		rowLen := 4 * n.Rect.Dx()
		for y := n.Rect.Min.Y; y < n.Rect.Max.Y; y++ {
			si := n.PixOffset(n.Rect.Min.X, y)
			di := out.PixOffset(n.Rect.Min.X, y)
			copy(out.Pix[di:di+rowLen], n.Pix[si:si+rowLen])
		}
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := src.At(x, y).RGBA()
			// r,g,b,a are premultiplied 16-bit; undo the premultiplication before narrowing
			if a != 0 && a != 0xffff {
				r = r * 0xffff / a
				g = g * 0xffff / a
				b_ = b_ * 0xffff / a
			}
			out.Pix[idx+0] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b_ >> 8)
			out.Pix[idx+3] = uint8(a >> 8)
			idx += 4
		}
	}
	return out
}

// MatrixFromImage copies the red, green and blue channels of img into a new
// Matrix. Alpha is dropped.
func MatrixFromImage(img image.Image) *Matrix {
	if img == nil {
		return nil
	}
	src := ToNRGBA(img)
	b := src.Bounds()
	m := NewMatrix(b.Dy(), b.Dx())
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			i := src.PixOffset(b.Min.X+col, b.Min.Y+row)
			j := m.Offset(row, col)
			m.Pix[j+0] = src.Pix[i+0]
			m.Pix[j+1] = src.Pix[i+1]
			m.Pix[j+2] = src.Pix[i+2]
		}
	}
	return m
}

// ToNRGBA returns an opaque *image.NRGBA holding the matrix values.
func (m *Matrix) ToNRGBA() *image.NRGBA {
	if m == nil {
		return nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			i := out.PixOffset(col, row)
			j := m.Offset(row, col)
			out.Pix[i+0] = m.Pix[j+0]
			out.Pix[i+1] = m.Pix[j+1]
			out.Pix[i+2] = m.Pix[j+2]
			out.Pix[i+3] = 255
		}
	}
	return out
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
