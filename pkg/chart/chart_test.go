package chart

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

func TestCaptions(t *testing.T) {
	if got := Title(stdimg.Green); got != "Histogram for green" {
		t.Fatalf("title = %q", got)
	}
	if got := XLabel(stdimg.Blue); got != "Level of blue" {
		t.Fatalf("x label = %q", got)
	}
	if got := YLabel(); got != "Pixels frequency" {
		t.Fatalf("y label = %q", got)
	}
}

func TestRenderChannelSizeAndBars(t *testing.T) {
	var tab stdimg.FrequencyTable
	tab[128] = 100
	opts := Options{Width: 640, Height: 480, FontSize: 12}
	img := RenderChannel(tab, stdimg.Red, opts)
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}

	face := newFace(opts.FontSize)
	p := layout(opts, face.Metrics().Height.Ceil())
	x0, _ := p.levelSpan(128)
	// the full-height bar reaches just below the top of the plot area
	want := ChannelColor(stdimg.Red)
	if got := img.NRGBAAt(x0, p.bottom-2); got != want {
		t.Fatalf("bar bottom = %v, want %v", got, want)
	}
	if got := img.NRGBAAt(x0, p.top+1); got != want {
		t.Fatalf("bar top = %v, want %v", got, want)
	}
	// an empty level stays background
	xe, _ := p.levelSpan(201)
	if got := img.NRGBAAt(xe, p.bottom-2); got != white {
		t.Fatalf("empty level = %v, want white", got)
	}
}

func TestRenderChannelDrawsText(t *testing.T) {
	img := RenderChannel(stdimg.FrequencyTable{}, stdimg.Blue, DefaultOptions())
	// the title band must contain some non-white pixels
	dark := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.NRGBAAt(x, y) != white {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("no title text drawn")
	}
}

func TestRenderChannelTinyCanvas(t *testing.T) {
	var tab stdimg.FrequencyTable
	tab[0] = 1
	img := RenderChannel(tab, stdimg.Green, Options{Width: 20, Height: 10, FontSize: 8})
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
}

func TestRenderOverlayMixesChannels(t *testing.T) {
	var h stdimg.Histogram
	h.Red[0] = 10
	h.Green[0] = 10
	h.Blue[255] = 5
	img := RenderOverlay(h, 256, 100)
	if got := img.NRGBAAt(0, 99); got != (color.NRGBA{R: 255, G: 255, A: 255}) {
		t.Fatalf("red+green column = %v, want yellow", got)
	}
	if got := img.NRGBAAt(255, 99); got != (color.NRGBA{B: 255, A: 255}) {
		t.Fatalf("blue column = %v", got)
	}
	// blue bar is half height
	if got := img.NRGBAAt(255, 40); got != black {
		t.Fatalf("above blue bar = %v, want black", got)
	}
	if got := img.NRGBAAt(128, 99); got != black {
		t.Fatalf("empty column = %v, want black", got)
	}
}

func TestFileRenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRenderer()
	var tab stdimg.FrequencyTable
	tab[10] = 3
	path := filepath.Join(dir, "sub", "img_red_histogram.png")
	if err := r.RenderHistogram(path, stdimg.Red, tab); err != nil {
		t.Fatalf("RenderHistogram failed: %v", err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("reading chart back: %v", err)
	}
	if img.Bounds().Dx() != r.Options.Width || img.Bounds().Dy() != r.Options.Height {
		t.Fatalf("unexpected chart size %v", img.Bounds())
	}

	overlay := filepath.Join(dir, "img_rgb_histogram.png")
	if err := r.RenderOverlay(overlay, stdimg.Histogram{Red: tab}); err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if _, err := os.Stat(overlay); err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
}

func TestFileRendererErrors(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRenderer()
	if err := r.RenderHistogram(filepath.Join(dir, "chart.jpg"), stdimg.Red, stdimg.FrequencyTable{}); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender for non-png path, got %v", err)
	}
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.RenderHistogram(filepath.Join(blocker, "c.png"), stdimg.Red, stdimg.FrequencyTable{}); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender when directory cannot be created, got %v", err)
	}
}
