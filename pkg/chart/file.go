package chart

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// ErrRender is returned when a chart cannot be written to disk.
var ErrRender = errors.New("chart render failed")

// FileRenderer writes charts as PNG files.
type FileRenderer struct {
	Options Options
	// OverlayWidth and OverlayHeight size the combined RGB chart.
	OverlayWidth  int
	OverlayHeight int
}

// NewFileRenderer returns a renderer using DefaultOptions.
func NewFileRenderer() *FileRenderer {
	return &FileRenderer{Options: DefaultOptions(), OverlayWidth: 512, OverlayHeight: 200}
}

// RenderHistogram draws the chart for one channel table and saves it at path.
func (r *FileRenderer) RenderHistogram(path string, ch stdimg.Channel, t stdimg.FrequencyTable) error {
	return savePNG(path, RenderChannel(t, ch, r.Options))
}

// RenderOverlay draws all three channels of h on one chart and saves it at path.
func (r *FileRenderer) RenderOverlay(path string, h stdimg.Histogram) error {
	return savePNG(path, RenderOverlay(h, r.OverlayWidth, r.OverlayHeight))
}

func savePNG(path string, img image.Image) error {
	if filepath.Ext(path) != ".png" {
		return fmt.Errorf("%w: %s: charts are written as .png", ErrRender, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, path, err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, path, err)
	}
	return nil
}
