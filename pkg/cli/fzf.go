package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// ErrNoSelection is returned when the picker exits without a choice.
var ErrNoSelection = errors.New("nothing selected")

// FzfAvailable reports whether fzf is on PATH.
func FzfAvailable() bool {
	_, err := exec.LookPath("fzf")
	return err == nil
}

// SelectCommandWithFzf lists the registry commands in fzf and returns the chosen name.
func SelectCommandWithFzf(commands []stdimg.CommandSpec) (string, error) {
	cmd := exec.Command("fzf", "--prompt=Command> ")
	cmd.Stdin = strings.NewReader(commandMenu(commands))
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}
	return commandFromSelection(out.String())
}

// commandMenu lists commands one per line as "name: description".
func commandMenu(commands []stdimg.CommandSpec) string {
	var b strings.Builder
	for _, c := range commands {
		b.WriteString(fmt.Sprintf("%s: %s\n", c.Name, c.Description))
	}
	return b.String()
}

// commandFromSelection extracts the command name from a commandMenu line.
func commandFromSelection(line string) (string, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(line), ":")
	if name = strings.TrimSpace(name); name == "" {
		return "", ErrNoSelection
	}
	return name, nil
}

// fzfPreviewCommand picks the fzf --preview command for the first backend
// the terminal supports.
func fzfPreviewCommand(p *TerminalPreviewer) string {
	const chafa = "chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	backends := p.Backends()
	if len(backends) == 0 {
		return chafa
	}
	switch backends[0] {
	case BackendKitty:
		return "printf \"\\x1b_Ga=d\\x1b\\\\\"; kitty +kitten icat --silent {} 2>/dev/null || " + chafa
	case BackendInline:
		return "imgcat {} 2>/dev/null || " + chafa
	case BackendSixel:
		return "img2sixel {} 2>/dev/null || " + chafa
	}
	return chafa
}

// fzfFileCommand builds the shell pipeline listing decodable images under
// startDir into fzf.
func fzfFileCommand(startDir, previewCmd string) string {
	return fmt.Sprintf(
		"find %s -type f \\( -iname '*.jpg' -o -iname '*.jpeg' -o -iname '*.png' -o -iname '*.gif' -o -iname '*.tif' -o -iname '*.tiff' -o -iname '*.bmp' -o -iname '*.webp' \\) | fzf --height 100%% --border --prompt='Image> ' --ansi --preview=%q --preview-window='right:60%%'",
		strconv.Quote(startDir),
		previewCmd,
	)
}

// SelectFileWithFzf lets the user pick an image under startDir with fzf.
// It needs find, bash and fzf on PATH. The kitty graphics left behind by the
// preview pane are cleared on return.
func SelectFileWithFzf(startDir string, p *TerminalPreviewer) (string, error) {
	cmd := exec.Command("bash", "-lc", fzfFileCommand(startDir, fzfPreviewCommand(p)))
	var out bytes.Buffer
	cmd.Stdout = &out

	err := cmd.Run()
	clearKittyImages(p.Out)
	if err != nil {
		return "", fmt.Errorf("error running fzf for files: %w", err)
	}
	selection := strings.TrimSpace(out.String())
	if selection == "" {
		return "", ErrNoSelection
	}
	return selection, nil
}

// clearKittyImages emits the kitty graphics "delete" control sequence.
// Terminals that don't understand it ignore it.
func clearKittyImages(w io.Writer) {
	fmt.Fprint(w, "\x1b_Ga=d\x1b\\")
}
