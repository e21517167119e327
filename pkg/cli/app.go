// Package cli wires the histofilter command line: flags, subcommands,
// configuration, logging, terminal preview and self-update.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	ucli "github.com/urfave/cli/v2"

	"github.com/Fepozopo/histofilter/pkg/chart"
	"github.com/Fepozopo/histofilter/pkg/imageio"
	"github.com/Fepozopo/histofilter/pkg/pipeline"
	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// Deps are the collaborators the commands run against.
type Deps struct {
	Out       io.Writer // command output
	LogOut    io.Writer // log output
	Codec     *imageio.Codec
	Renderer  *chart.FileRenderer
	Previewer *TerminalPreviewer
	Updater   *Updater
	// PickFile chooses an input image interactively; nil disables picking.
	PickFile func() (string, error)
	// PickCommand chooses a filter command for apply; nil disables picking.
	PickCommand func() (string, error)
}

// DefaultDeps returns the production collaborators.
func DefaultDeps() Deps {
	prev := NewTerminalPreviewer()
	return Deps{
		Out:       os.Stdout,
		LogOut:    os.Stderr,
		Codec:     imageio.NewCodec(),
		Renderer:  chart.NewFileRenderer(),
		Previewer: prev,
		Updater:   NewUpdater(),
		PickFile: func() (string, error) {
			if !FzfAvailable() {
				return "", fmt.Errorf("fzf not found in PATH")
			}
			return SelectFileWithFzf(".", prev)
		},
		PickCommand: func() (string, error) {
			if !FzfAvailable() {
				return "", fmt.Errorf("fzf not found in PATH")
			}
			return SelectCommandWithFzf(stdimg.Commands)
		},
	}
}

// Run loads .env and runs the application with args (os.Args layout).
func Run(ctx context.Context, args []string) error {
	if err := LoadDotEnv(); err != nil {
		return ucli.Exit(err.Error(), 2)
	}
	return NewApp(DefaultDeps()).RunContext(ctx, args)
}

// NewApp builds the command line application around d.
func NewApp(d Deps) *ucli.App {
	cfg := &Config{}
	var log logrus.FieldLogger = logrus.New()

	app := &ucli.App{
		Name:    "histofilter",
		Usage:   "Per-channel RGB histograms and neighborhood filters for one image",
		Version: Version,
		Writer:  d.Out,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:        "img",
				Aliases:     []string{"i"},
				Usage:       "Input image; picked with fzf when empty",
				EnvVars:     []string{EnvImg},
				Destination: &cfg.Img,
			},
			&ucli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Directory the derived images and charts are written to",
				Value:       ".",
				EnvVars:     []string{EnvOutput},
				Destination: &cfg.Output,
			},
			&ucli.IntFlag{
				Name:        "level",
				Usage:       "Brightness offset added to every channel",
				Value:       stdimg.DefaultBrightnessLevel,
				EnvVars:     []string{EnvLevel},
				Destination: &cfg.Level,
			},
			&ucli.StringFlag{
				Name:        "steps",
				Usage:       "Comma separated filters applied in order",
				Value:       DefaultSteps,
				EnvVars:     []string{EnvSteps},
				Destination: &cfg.Steps,
			},
			&ucli.BoolFlag{
				Name:        "preview",
				Usage:       "Show every written file in the terminal",
				EnvVars:     []string{EnvPreview},
				Destination: &cfg.Preview,
			},
			&ucli.BoolFlag{
				Name:        "overlay",
				Usage:       "Also write a combined RGB chart per image",
				EnvVars:     []string{EnvOverlay},
				Destination: &cfg.Overlay,
			},
			&ucli.BoolFlag{
				Name:        "debug",
				Usage:       "Enable debug logging",
				EnvVars:     []string{EnvDebug},
				Destination: &cfg.Debug,
			},
		},
		Before: func(c *ucli.Context) error {
			logger := NewLogger(cfg.Debug, d.LogOut)
			log = logger
			logger.WithFields(logrus.Fields{
				"version":    Version,
				"debug_mode": cfg.Debug,
			}).Debug("Starting histofilter")
			return nil
		},
		Action: func(c *ucli.Context) error {
			return runPipeline(c, d, cfg, log)
		},
		Commands: []*ucli.Command{
			{
				Name:      "histogram",
				Usage:     "Write the red, green and blue charts of one image",
				ArgsUsage: "<image>",
				Action: func(c *ucli.Context) error {
					return runHistogram(c, d, cfg, log)
				},
			},
			{
				Name:      "stats",
				Usage:     "Print per-channel summary statistics of one image",
				ArgsUsage: "<image>",
				Action: func(c *ucli.Context) error {
					return runStats(c, d, log)
				},
			},
			{
				Name:      "apply",
				Usage:     "Apply one filter command to an image",
				ArgsUsage: "--out OUT [--img IN] <command> [args...]",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "img", Usage: "Input image (defaults to the global --img)"},
					&ucli.StringFlag{Name: "out", Usage: "Output image path", Required: true},
				},
				Action: func(c *ucli.Context) error {
					return runApply(c, d, cfg, log)
				},
			},
			{
				Name:  "commands",
				Usage: "List the available filter commands",
				Action: func(c *ucli.Context) error {
					for _, spec := range stdimg.Commands {
						fmt.Fprintln(d.Out, CommandHelp(spec))
					}
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Check GitHub for a newer release and install it",
				Action: func(c *ucli.Context) error {
					if d.Updater == nil {
						return ucli.Exit("updates are not available in this build", 1)
					}
					if err := d.Updater.CheckForUpdates(c.Context); err != nil {
						log.WithError(err).Error("update failed")
						return ucli.Exit(err.Error(), 1)
					}
					return nil
				},
			},
		},
		// exit codes are handled by the caller
		ExitErrHandler: func(*ucli.Context, error) {},
	}
	return app
}

func resolveInput(d Deps, img string) (string, error) {
	if img = strings.TrimSpace(img); img != "" {
		return img, nil
	}
	if d.PickFile == nil {
		return "", ucli.Exit("no input image: pass --img or set "+EnvImg, 2)
	}
	picked, err := d.PickFile()
	if err != nil {
		return "", ucli.Exit(fmt.Sprintf("no input image: pass --img or set %s (%v)", EnvImg, err), 2)
	}
	return picked, nil
}

func runPipeline(c *ucli.Context, d Deps, cfg *Config, log logrus.FieldLogger) error {
	img, err := resolveInput(d, cfg.Img)
	if err != nil {
		return err
	}
	pcfg, err := cfg.PipelineConfig()
	if err != nil {
		return ucli.Exit(err.Error(), 2)
	}
	driver := pipeline.New(pcfg, d.Codec, d.Codec, d.Renderer, log)
	if cfg.Preview && d.Previewer != nil {
		driver.SetPreviewer(d.Previewer)
	}

	rep, err := driver.Run(c.Context, img)
	if rep != nil {
		for _, f := range rep.Files() {
			fmt.Fprintln(d.Out, f)
		}
	}
	if err != nil {
		fields := logrus.Fields{"input": img}
		var se *pipeline.StageError
		if errors.As(err, &se) {
			fields["stage"] = se.Stage
			fields["step"] = se.Step
		}
		log.WithFields(fields).WithError(err).Error("pipeline failed")
		return ucli.Exit(err.Error(), 1)
	}
	log.WithFields(logrus.Fields{"input": img, "stages": len(rep.Stages)}).Info("pipeline complete")
	return nil
}

func imageArg(c *ucli.Context, d Deps, cfg *Config) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	return resolveInput(d, cfg.Img)
}

func runHistogram(c *ucli.Context, d Deps, cfg *Config, log logrus.FieldLogger) error {
	img, err := imageArg(c, d, cfg)
	if err != nil {
		return err
	}
	m, err := d.Codec.Decode(img)
	if err != nil {
		log.WithError(err).Error("decode failed")
		return ucli.Exit(err.Error(), 1)
	}
	out := strings.TrimSpace(cfg.Output)
	if out == "" {
		out = "."
	}
	h := stdimg.CountFrequencies(m)
	var written []string
	for _, ch := range stdimg.Channels {
		path := pipeline.HistogramPath(out, img, ch)
		if err := d.Renderer.RenderHistogram(path, ch, h.Channel(ch)); err != nil {
			log.WithError(err).Error("chart failed")
			return ucli.Exit(err.Error(), 1)
		}
		written = append(written, path)
	}
	if cfg.Overlay {
		path := pipeline.OverlayPath(out, img)
		if err := d.Renderer.RenderOverlay(path, h); err != nil {
			log.WithError(err).Error("chart failed")
			return ucli.Exit(err.Error(), 1)
		}
		written = append(written, path)
	}
	for _, p := range written {
		fmt.Fprintln(d.Out, p)
		if cfg.Preview && d.Previewer != nil {
			if err := d.Previewer.Preview(p); err != nil {
				log.WithField("path", p).WithError(err).Warn("preview failed")
			}
		}
	}
	return nil
}

func runStats(c *ucli.Context, d Deps, log logrus.FieldLogger) error {
	if c.NArg() == 0 {
		return ucli.Exit("usage: histofilter stats <image>", 2)
	}
	img := c.Args().First()
	m, err := d.Codec.Decode(img)
	if err != nil {
		log.WithError(err).Error("decode failed")
		return ucli.Exit(err.Error(), 1)
	}
	sums, err := stdimg.SummarizeHistogram(stdimg.CountFrequencies(m))
	if err != nil {
		return ucli.Exit(fmt.Sprintf("%s: %v", img, err), 1)
	}
	return writeStats(d.Out, sums)
}

func writeStats(w io.Writer, sums [stdimg.NumChannels]stdimg.ChannelSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "channel\tpixels\tmin\tmax\tmean\tmedian\tstddev\tmode\t")
	for _, ch := range stdimg.Channels {
		s := sums[ch]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.1f\t%.2f\t%d\t\n",
			ch, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev, s.Mode)
	}
	return tw.Flush()
}

func runApply(c *ucli.Context, d Deps, cfg *Config, log logrus.FieldLogger) error {
	const usage = "usage: histofilter apply --out OUT [--img IN] <command> [args...]"
	name, rest := c.Args().First(), c.Args().Tail()
	if c.NArg() == 0 {
		if d.PickCommand == nil {
			return ucli.Exit(usage, 2)
		}
		picked, err := d.PickCommand()
		if err != nil {
			return ucli.Exit(fmt.Sprintf("%s (%v)", usage, err), 2)
		}
		name, rest = picked, nil
	}
	args, err := NormalizeArgs(name, rest)
	if err != nil {
		return ucli.Exit(err.Error(), 2)
	}
	in := c.String("img")
	if in == "" {
		in = cfg.Img
	}
	in, err = resolveInput(d, in)
	if err != nil {
		return err
	}
	out := c.String("out")

	m, err := d.Codec.Decode(in)
	if err != nil {
		log.WithError(err).Error("decode failed")
		return ucli.Exit(err.Error(), 1)
	}
	res, err := stdimg.ApplyCommand(m, name, args)
	if err != nil {
		return ucli.Exit(err.Error(), 2)
	}
	if err := d.Codec.Encode(out, res); err != nil {
		log.WithError(err).Error("encode failed")
		return ucli.Exit(err.Error(), 1)
	}
	log.WithFields(logrus.Fields{"command": name, "args": args, "input": in, "output": out}).Info("command applied")
	fmt.Fprintln(d.Out, out)
	if cfg.Preview && d.Previewer != nil {
		if err := d.Previewer.Preview(out); err != nil {
			log.WithField("path", out).WithError(err).Warn("preview failed")
		}
	}
	return nil
}
