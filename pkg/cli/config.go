package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/histofilter/pkg/pipeline"
)

// Environment variables read by the global flags.
const (
	EnvImg     = "HISTOFILTER_IMG"
	EnvOutput  = "HISTOFILTER_OUTPUT"
	EnvLevel   = "HISTOFILTER_LEVEL"
	EnvSteps   = "HISTOFILTER_STEPS"
	EnvPreview = "HISTOFILTER_PREVIEW"
	EnvOverlay = "HISTOFILTER_OVERLAY"
	EnvDebug   = "HISTOFILTER_DEBUG"
)

// DefaultSteps is the --steps default.
const DefaultSteps = "brightness,average,median"

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the environment without overriding variables that are
// already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Config holds the resolved global options of one invocation.
type Config struct {
	Img     string
	Output  string
	Level   int
	Steps   string
	Preview bool
	Overlay bool
	Debug   bool
}

// PipelineConfig converts c into the driver's configuration.
func (c Config) PipelineConfig() (pipeline.Config, error) {
	steps, err := pipeline.ParseSteps(c.Steps, c.Level)
	if err != nil {
		return pipeline.Config{}, err
	}
	out := strings.TrimSpace(c.Output)
	if out == "" {
		out = "."
	}
	return pipeline.Config{
		OutputDir: out,
		Steps:     steps,
		Overlay:   c.Overlay,
		Preview:   c.Preview,
	}, nil
}
