// Package chart draws channel frequency tables as bar charts.
package chart

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// DPI used for TrueType faces.
const DPI = 72

// XTickStep is the spacing of the level axis ticks.
const XTickStep = 50

// Options controls the chart geometry.
type Options struct {
	Width    int
	Height   int
	FontSize float64
}

// DefaultOptions returns a 640x480 chart with 12pt labels.
func DefaultOptions() Options {
	return Options{Width: 640, Height: 480, FontSize: 12}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// ChannelColor is the bar color used for ch.
func ChannelColor(ch stdimg.Channel) color.NRGBA {
	switch ch {
	case stdimg.Red:
		return color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	case stdimg.Green:
		return color.NRGBA{R: 40, G: 160, B: 60, A: 255}
	case stdimg.Blue:
		return color.NRGBA{R: 40, G: 80, B: 220, A: 255}
	}
	return black
}

// Title, XLabel and YLabel return the chart captions for ch.
func Title(ch stdimg.Channel) string  { return "Histogram for " + ch.String() }
func XLabel(ch stdimg.Channel) string { return "Level of " + ch.String() }
func YLabel() string                  { return "Pixels frequency" }

var (
	ttOnce sync.Once
	ttFont *truetype.Font
)

// newFace returns a Go Regular face of the given size, or the 7x13 bitmap
// face if the embedded TTF cannot be parsed.
func newFace(size float64) font.Face {
	ttOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			ttFont = f
		}
	})
	if ttFont == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(ttFont, &truetype.Options{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
}

// plotArea is the rectangle bars are drawn into, in canvas coordinates.
type plotArea struct {
	left, top, right, bottom int
}

func (p plotArea) width() int  { return p.right - p.left }
func (p plotArea) height() int { return p.bottom - p.top }

// levelSpan returns the [x0,x1) column range covering level.
func (p plotArea) levelSpan(level int) (int, int) {
	x0 := p.left + level*p.width()/stdimg.Levels
	x1 := p.left + (level+1)*p.width()/stdimg.Levels
	if x1 <= x0 {
		x1 = x0 + 1
	}
	return x0, x1
}

// barHeight scales count against maxv onto the plot height.
func (p plotArea) barHeight(count, maxv int) int {
	if maxv <= 0 || count <= 0 {
		return 0
	}
	return count * p.height() / maxv
}

func layout(o Options, lineHeight int) plotArea {
	p := plotArea{
		left:   lineHeight*2 + 48,
		top:    lineHeight*2 + 8,
		right:  o.Width - 16,
		bottom: o.Height - lineHeight*3,
	}
	// tiny canvases still get a usable plot
	if p.right-p.left < stdimg.Levels/4 {
		p.left, p.right = 0, o.Width
	}
	if p.bottom-p.top < 8 {
		p.top, p.bottom = 0, o.Height
	}
	return p
}

func newCanvas(w, h int, bg color.Color) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return out
}

func fillRect(dst *image.NRGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// RenderChannel draws t as a bar chart for ch with title, axis labels and ticks.
func RenderChannel(t stdimg.FrequencyTable, ch stdimg.Channel, opts Options) *image.NRGBA {
	o := opts.normalized()
	face := newFace(o.FontSize)
	lineHeight := face.Metrics().Height.Ceil()
	out := newCanvas(o.Width, o.Height, white)
	p := layout(o, lineHeight)

	maxv := t.Max()
	bar := ChannelColor(ch)
	for level, count := range t {
		h := p.barHeight(count, maxv)
		if h == 0 {
			continue
		}
		x0, x1 := p.levelSpan(level)
		fillRect(out, image.Rect(x0, p.bottom-h, x1, p.bottom), bar)
	}

	// axes
	fillRect(out, image.Rect(p.left-1, p.top, p.left, p.bottom+1), black)
	fillRect(out, image.Rect(p.left-1, p.bottom, p.right, p.bottom+1), black)

	for level := 0; level < stdimg.Levels; level += XTickStep {
		x, _ := p.levelSpan(level)
		fillRect(out, image.Rect(x, p.bottom, x+1, p.bottom+5), black)
		drawCentered(out, face, strconv.Itoa(level), x, p.bottom+6+lineHeight)
	}
	for _, v := range []int{0, maxv / 2, maxv} {
		y := p.bottom - p.barHeight(v, maxv)
		fillRect(out, image.Rect(p.left-5, y, p.left, y+1), black)
		label := strconv.Itoa(v)
		w := font.MeasureString(face, label).Ceil()
		drawText(out, face, label, p.left-8-w, y+lineHeight/3)
	}

	drawCentered(out, face, Title(ch), (p.left+p.right)/2, lineHeight+4)
	drawCentered(out, face, XLabel(ch), (p.left+p.right)/2, o.Height-lineHeight/2)
	drawVertical(out, face, YLabel(), 4, (p.top+p.bottom)/2)
	return out
}

// RenderOverlay draws the three channel tables of h on one canvas.
// Covered columns light up their channel's component, so overlapping
// bars mix additively.
func RenderOverlay(h stdimg.Histogram, width, height int) *image.NRGBA {
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 120
	}
	out := newCanvas(width, height, black)

	var tables [stdimg.NumChannels]stdimg.FrequencyTable
	maxv := 1
	for _, ch := range stdimg.Channels {
		tables[ch] = h.Channel(ch)
		if m := tables[ch].Max(); m > maxv {
			maxv = m
		}
	}

	for x := 0; x < width; x++ {
		bin := x * stdimg.Levels / width
		if bin >= stdimg.Levels {
			bin = stdimg.Levels - 1
		}
		for _, ch := range stdimg.Channels {
			bh := tables[ch][bin] * height / maxv
			for y := 0; y < bh; y++ {
				i := out.PixOffset(x, height-1-y)
				out.Pix[i+int(ch)] = 255
			}
		}
	}
	return out
}

func drawText(dst draw.Image, face font.Face, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// drawCentered draws s horizontally centered on cx with its baseline at y.
func drawCentered(dst draw.Image, face font.Face, s string, cx, y int) {
	w := font.MeasureString(face, s).Ceil()
	drawText(dst, face, s, cx-w/2, y)
}

// drawVertical draws s rotated 90 degrees counter-clockwise, centered on cy,
// with its top edge at x.
func drawVertical(dst *image.NRGBA, face font.Face, s string, x, cy int) {
	m := face.Metrics()
	w := font.MeasureString(face, s).Ceil()
	h := m.Height.Ceil()
	if w <= 0 || h <= 0 {
		return
	}
	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	drawText(tmp, face, s, 0, m.Ascent.Ceil())

	top := cy - w/2
	b := dst.Bounds()
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			i := tmp.PixOffset(tx, ty)
			if tmp.Pix[i+3] == 0 {
				continue
			}
			dx, dy := x+ty, top+(w-1-tx)
			if !(image.Point{X: dx, Y: dy}).In(b) {
				continue
			}
			a := uint32(tmp.Pix[i+3])
			j := dst.PixOffset(dx, dy)
			for c := 0; c < 3; c++ {
				under := uint32(dst.Pix[j+c])
				over := uint32(tmp.Pix[i+c])
				dst.Pix[j+c] = uint8((over*a + under*(255-a)) / 255)
			}
		}
	}
}
