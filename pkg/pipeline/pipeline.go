// Package pipeline runs the histogram and filter stages over one input image.
//
// Every stage writes its derived image, decodes it again from disk and
// charts the three channels of what was actually stored, so each chart
// matches the file next to it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// Decoder loads an image file as a matrix.
type Decoder interface {
	Decode(path string) (*stdimg.Matrix, error)
}

// Encoder stores a matrix as an image file.
type Encoder interface {
	Encode(path string, m *stdimg.Matrix) error
}

// HistogramRenderer writes the chart of one channel table.
type HistogramRenderer interface {
	RenderHistogram(path string, ch stdimg.Channel, t stdimg.FrequencyTable) error
}

// OverlayRenderer writes a combined chart of all three channels.
// The driver uses it when Config.Overlay is set and the renderer supports it.
type OverlayRenderer interface {
	RenderOverlay(path string, h stdimg.Histogram) error
}

// Previewer shows a written file to the user.
type Previewer interface {
	Preview(path string) error
}

// OriginalStage names the stage that charts the input image.
const OriginalStage = "original"

// Sub-steps reported by StageError.
const (
	StepDecode    = "decode"
	StepApply     = "apply"
	StepEncode    = "encode"
	StepHistogram = "histogram"
	StepOverlay   = "overlay"
	StepCancel    = "cancel"
)

// StageError reports which stage of a run failed and at which sub-step.
type StageError struct {
	Stage string
	Step  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Step, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Config selects the steps and outputs of a run.
type Config struct {
	OutputDir string
	Steps     []Step
	Overlay   bool
	Preview   bool
}

// StageResult lists what one stage produced.
type StageResult struct {
	Stage      string
	Image      string // derived image, empty for the original stage
	Histograms []string
	Overlay    string
	Histogram  stdimg.Histogram
}

// Report collects the results of every completed stage in order.
type Report struct {
	Stages []StageResult
}

// Files returns every path written during the run.
func (r *Report) Files() []string {
	var out []string
	for _, s := range r.Stages {
		if s.Image != "" {
			out = append(out, s.Image)
		}
		out = append(out, s.Histograms...)
		if s.Overlay != "" {
			out = append(out, s.Overlay)
		}
	}
	return out
}

// Driver sequences decode, count, render, filter and encode.
type Driver struct {
	cfg       Config
	dec       Decoder
	enc       Encoder
	renderer  HistogramRenderer
	previewer Previewer
	log       logrus.FieldLogger
}

// New builds a driver. A nil logger discards log output. Steps default to
// DefaultSteps(stdimg.DefaultBrightnessLevel).
func New(cfg Config, dec Decoder, enc Encoder, renderer HistogramRenderer, log logrus.FieldLogger) *Driver {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if len(cfg.Steps) == 0 {
		cfg.Steps = DefaultSteps(stdimg.DefaultBrightnessLevel)
	}
	return &Driver{cfg: cfg, dec: dec, enc: enc, renderer: renderer, log: log}
}

// SetPreviewer installs p; it is called for every written file when
// Config.Preview is set.
func (d *Driver) SetPreviewer(p Previewer) {
	d.previewer = p
}

// Run charts imgPath, then applies each configured step to the image the
// previous stage stored. The run stops at the first failing stage; files
// written by earlier stages are left in place.
func (d *Driver) Run(ctx context.Context, imgPath string) (*Report, error) {
	rep := &Report{}
	log := d.log.WithField("input", imgPath)

	m, err := d.dec.Decode(imgPath)
	if err != nil {
		return rep, &StageError{Stage: OriginalStage, Step: StepDecode, Err: err}
	}
	rows, cols, _ := m.Shape()
	log.WithFields(logrus.Fields{"rows": rows, "cols": cols}).Debug("decoded input")

	res, err := d.chart(OriginalStage, imgPath, m)
	if err != nil {
		return rep, err
	}
	rep.Stages = append(rep.Stages, res)
	log.WithField("stage", OriginalStage).Info("stage complete")

	for _, st := range d.cfg.Steps {
		stage := st.Suffix()
		if err := ctx.Err(); err != nil {
			return rep, &StageError{Stage: stage, Step: StepCancel, Err: err}
		}
		out, err := stdimg.ApplyCommand(m, st.Name, st.Args)
		if err != nil {
			return rep, &StageError{Stage: stage, Step: StepApply, Err: err}
		}
		path := ImagePath(d.cfg.OutputDir, imgPath, stage)
		if err := d.enc.Encode(path, out); err != nil {
			return rep, &StageError{Stage: stage, Step: StepEncode, Err: err}
		}
		d.preview(path)

		stored, err := d.dec.Decode(path)
		if err != nil {
			return rep, &StageError{Stage: stage, Step: StepDecode, Err: err}
		}
		res, err := d.chart(stage, path, stored)
		if err != nil {
			return rep, err
		}
		res.Image = path
		rep.Stages = append(rep.Stages, res)
		log.WithFields(logrus.Fields{"stage": stage, "step": st.String(), "output": path}).Info("stage complete")
		m = stored
	}
	return rep, nil
}

// chart counts m and writes one chart per channel named after img.
func (d *Driver) chart(stage, img string, m *stdimg.Matrix) (StageResult, error) {
	res := StageResult{Stage: stage, Histogram: stdimg.CountFrequencies(m)}
	for _, ch := range stdimg.Channels {
		path := HistogramPath(d.cfg.OutputDir, img, ch)
		if err := d.renderer.RenderHistogram(path, ch, res.Histogram.Channel(ch)); err != nil {
			return res, &StageError{Stage: stage, Step: StepHistogram, Err: err}
		}
		res.Histograms = append(res.Histograms, path)
		d.preview(path)
	}
	if d.cfg.Overlay {
		if or, ok := d.renderer.(OverlayRenderer); ok {
			path := OverlayPath(d.cfg.OutputDir, img)
			if err := or.RenderOverlay(path, res.Histogram); err != nil {
				return res, &StageError{Stage: stage, Step: StepOverlay, Err: err}
			}
			res.Overlay = path
			d.preview(path)
		}
	}
	d.logSummary(stage, res.Histogram)
	return res, nil
}

func (d *Driver) logSummary(stage string, h stdimg.Histogram) {
	sums, err := stdimg.SummarizeHistogram(h)
	if err != nil {
		if !errors.Is(err, stdimg.ErrEmptyTable) {
			d.log.WithField("stage", stage).WithError(err).Warn("summary failed")
		}
		return
	}
	fields := logrus.Fields{"stage": stage}
	for _, ch := range stdimg.Channels {
		fields[ch.String()+"_mean"] = sums[ch].Mean
	}
	d.log.WithFields(fields).Debug("channel means")
}

// preview failures are logged and never stop the run.
func (d *Driver) preview(path string) {
	if !d.cfg.Preview || d.previewer == nil {
		return
	}
	if err := d.previewer.Preview(path); err != nil {
		d.log.WithField("path", path).WithError(err).Warn("preview failed")
	}
}
