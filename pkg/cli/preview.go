package cli

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/Fepozopo/histofilter/pkg/imageio"
)

// Terminal preview for kitty, iTerm2-style inline images, sixel and chafa.
//
// Backend order: PREVIEW_BACKEND (kitty, inline, sixel, chafa) when set, then
// inline-capable terminals, kitty, sixel terminals, and chafa when it is on
// PATH. Images are scaled down to the terminal before they are sent.
// PREVIEW_DEBUG=1 traces the decision on stderr; NO_CHAFA=1 disables chafa.

// ErrNoPreviewBackend is returned when the terminal supports none of the backends.
var ErrNoPreviewBackend = errors.New("no terminal preview backend available")

// Preview backends.
const (
	BackendKitty  = "kitty"
	BackendInline = "inline"
	BackendSixel  = "sixel"
	BackendChafa  = "chafa"
)

// TerminalPreviewer draws image files in the terminal.
type TerminalPreviewer struct {
	Out      io.Writer
	Getenv   func(string) string
	LookPath func(string) (string, error)
	// TermSize reports the terminal size in character cells.
	TermSize func() (cols, rows int, ok bool)
}

// NewTerminalPreviewer returns a previewer writing to stdout.
func NewTerminalPreviewer() *TerminalPreviewer {
	return &TerminalPreviewer{
		Out:      os.Stdout,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		TermSize: terminalSize,
	}
}

func (p *TerminalPreviewer) debugf(format string, args ...interface{}) {
	if v := p.Getenv("PREVIEW_DEBUG"); v == "1" || v == "true" {
		fmt.Fprintf(os.Stderr, "histofilter-preview: "+format+"\n", args...)
	}
}

func (p *TerminalPreviewer) isKitty() bool {
	if p.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(p.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	return p.Getenv("KONSOLE_VERSION") != ""
}

func (p *TerminalPreviewer) isInlineImageCapable() bool {
	switch p.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	term := strings.ToLower(p.Getenv("TERM"))
	if strings.Contains(term, "wezterm") || strings.Contains(term, "warp") || strings.Contains(term, "tabby") ||
		strings.Contains(term, "vscode") {
		return true
	}
	return p.Getenv("ITERM_SESSION_ID") != ""
}

func (p *TerminalPreviewer) isSixelCapable() bool {
	if p.Getenv("SIXEL_PREVIEW") == "1" {
		return true
	}
	term := strings.ToLower(p.Getenv("TERM"))
	if strings.Contains(term, "foot") || strings.Contains(term, "mlterm") {
		return true
	}
	// newer Windows Terminal builds
	return p.Getenv("WT_SESSION") != ""
}

func (p *TerminalPreviewer) hasChafa() bool {
	if p.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := p.LookPath("chafa")
	return err == nil
}

// Backends lists the backends to try, most preferred first.
func (p *TerminalPreviewer) Backends() []string {
	var out []string
	seen := map[string]bool{}
	add := func(b string) {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	switch v := strings.ToLower(p.Getenv("PREVIEW_BACKEND")); v {
	case "kitty":
		add(BackendKitty)
	case "inline", "iterm", "wezterm":
		add(BackendInline)
	case "sixel":
		add(BackendSixel)
	case "chafa":
		add(BackendChafa)
	case "":
	default:
		p.debugf("unknown PREVIEW_BACKEND value: %s", v)
	}
	if p.isInlineImageCapable() {
		add(BackendInline)
	}
	if p.isKitty() {
		add(BackendKitty)
	}
	if p.isSixelCapable() {
		add(BackendSixel)
	}
	if p.hasChafa() {
		add(BackendChafa)
	}
	return out
}

// Supported reports whether any backend is available.
func (p *TerminalPreviewer) Supported() bool {
	return len(p.Backends()) > 0
}

// Preview loads path and draws it.
func (p *TerminalPreviewer) Preview(path string) error {
	img, err := imageio.LoadImage(path)
	if err != nil {
		return err
	}
	return p.PreviewImage(img)
}

// PreviewImage scales img to the terminal and sends it through the first
// backend that accepts it.
func (p *TerminalPreviewer) PreviewImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	backends := p.Backends()
	if len(backends) == 0 {
		return ErrNoPreviewBackend
	}
	cols, rows, ok := 0, 0, false
	if p.TermSize != nil {
		cols, rows, ok = p.TermSize()
	}
	if !ok {
		cols, rows = 0, 0
	}
	size := computePreviewSize(img.Bounds().Dx(), img.Bounds().Dy(), cols, rows)

	thumb := imaging.Fit(img, size.PixelWidth, size.PixelHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}

	var errs []error
	for _, b := range backends {
		p.debugf("trying %s backend (%dx%d cells)", b, size.Cols, size.Rows)
		err := p.send(b, buf.Bytes(), size)
		if err == nil {
			return nil
		}
		p.debugf("%s backend failed: %v", b, err)
		errs = append(errs, fmt.Errorf("%s: %w", b, err))
	}
	return fmt.Errorf("terminal preview failed: %w", errors.Join(errs...))
}

func (p *TerminalPreviewer) send(backend string, data []byte, size PreviewSize) error {
	switch backend {
	case BackendKitty:
		return p.sendKittyImage(data, size)
	case BackendInline:
		return p.sendInlineImage(data, size)
	case BackendSixel:
		return p.runRenderer(size, data, "img2sixel", "-")
	case BackendChafa:
		return p.runRenderer(size, data, "chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	}
	return fmt.Errorf("unknown backend %q", backend)
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // approximate pixel width (Cols * cellWidth)
	PixelHeight int // approximate pixel height (Rows * cellHeight)
}

// computePreviewSize maps an image's pixel dimensions onto character cells,
// preserving the aspect ratio and never scaling up. termCols and termRows
// cap the result when they are known (non-zero).
func computePreviewSize(w, h, termCols, termRows int) PreviewSize {
	const charW = 8
	const charH = 16
	const minCols = 6
	const minRows = 3
	maxCols := 80
	maxRows := 40
	if termCols > 0 && termCols-2 < maxCols {
		maxCols = termCols - 2
	}
	if termRows > 0 && termRows-4 < maxRows {
		maxRows = termRows - 4
	}
	if maxCols < minCols {
		maxCols = minCols
	}
	if maxRows < minRows {
		maxRows = minRows
	}
	if w <= 0 || h <= 0 {
		return PreviewSize{Cols: minCols, Rows: minRows, PixelWidth: minCols * charW, PixelHeight: minRows * charH}
	}

	scale := math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)

	return PreviewSize{
		Cols:        cols,
		Rows:        rows,
		PixelWidth:  cols * charW,
		PixelHeight: rows * charH,
	}
}

// postImageNewlines returns how many lines to advance after an image so the
// next output lands below it.
func postImageNewlines(requestedRows int) int {
	switch {
	case requestedRows <= 0:
		return 1
	case requestedRows <= 2:
		return 1
	case requestedRows <= 6:
		return 2
	case requestedRows <= 20:
		return 3
	}
	return 4
}

func (p *TerminalPreviewer) newlines(n int) error {
	_, err := io.WriteString(p.Out, strings.Repeat("\n", n))
	return err
}

// sendKittyImage transmits PNG data with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. Only the first chunk carries the
// control keys; q=2 suppresses terminal replies.
func (p *TerminalPreviewer) sendKittyImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(p.Out, seq); err != nil {
			return err
		}
	}
	return p.newlines(postImageNewlines(size.Rows))
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func (p *TerminalPreviewer) sendInlineImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	if _, err := io.WriteString(p.Out, seq); err != nil {
		return err
	}
	return p.newlines(postImageNewlines(0))
}

// runRenderer pipes data into an external renderer (img2sixel, chafa) that
// writes terminal output.
func (p *TerminalPreviewer) runRenderer(size PreviewSize, data []byte, name string, args ...string) error {
	if name == "chafa" && p.Getenv("NO_CHAFA") == "1" {
		return fmt.Errorf("chafa usage disabled via NO_CHAFA=1")
	}
	bin, err := p.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.Out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return p.newlines(postImageNewlines(size.Rows))
}
