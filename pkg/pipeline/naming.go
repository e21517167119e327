package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// Stem returns the base name of path up to its first ".".
// "photos/cat.small.jpg" has stem "cat".
func Stem(path string) string {
	stem, _, _ := strings.Cut(filepath.Base(path), ".")
	return stem
}

// ImagePath names the image a stage derives from src: <dir>/<stem>_<suffix>.png.
func ImagePath(dir, src, suffix string) string {
	return filepath.Join(dir, Stem(src)+"_"+suffix+".png")
}

// HistogramPath names the chart of one channel of img: <dir>/<stem>_<color>_histogram.png.
func HistogramPath(dir, img string, ch stdimg.Channel) string {
	return filepath.Join(dir, Stem(img)+"_"+ch.String()+"_histogram.png")
}

// OverlayPath names the combined RGB chart of img.
func OverlayPath(dir, img string) string {
	return filepath.Join(dir, Stem(img)+"_rgb_histogram.png")
}
