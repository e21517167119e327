// Package imageio decodes image files into stdimg matrices and encodes them
// back to disk.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

var (
	ErrNotFound          = errors.New("image file not found")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image decode failed")
	ErrEncode            = errors.New("image encode failed")
)

// decodeExts lists the extensions LoadImage accepts. WebP can be read but not written.
var decodeExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".tif": true, ".tiff": true, ".bmp": true, ".webp": true,
}

// Codec reads and writes images as stdimg matrices.
type Codec struct {
	// JPEGQuality is used when encoding .jpg/.jpeg files (1-100).
	JPEGQuality int
}

// NewCodec returns a Codec that writes JPEGs at quality 92.
func NewCodec() *Codec {
	return &Codec{JPEGQuality: 92}
}

// Decode loads path and returns its RGB matrix.
func (c *Codec) Decode(path string) (*stdimg.Matrix, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return stdimg.MatrixFromImage(img), nil
}

// Encode writes m to path. The format is chosen from the extension.
func (c *Codec) Encode(path string, m *stdimg.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix for %s", ErrEncode, path)
	}
	return SaveImage(path, m.ToNRGBA(), c.JPEGQuality)
}

// LoadImage decodes the file at path, applying EXIF orientation for JPEGs.
func LoadImage(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !decodeExts[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

// SaveImage encodes img to path using the format implied by its extension.
// Parent directories are created as needed.
func SaveImage(path string, img image.Image, jpegQuality int) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
		}
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 92
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
	}
	return nil
}
