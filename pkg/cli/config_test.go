package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Fepozopo/histofilter/pkg/pipeline"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nHISTOFILTER_TEST_A=from-file\nexport HISTOFILTER_TEST_B=\"quoted value\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("HISTOFILTER_TEST_A")
		os.Unsetenv("HISTOFILTER_TEST_B")
	})
	t.Setenv("HISTOFILTER_TEST_A", "already-set")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("HISTOFILTER_TEST_A"); got != "already-set" {
		t.Fatalf("existing variable overridden: %q", got)
	}
	if got := os.Getenv("HISTOFILTER_TEST_B"); got != "quoted value" {
		t.Fatalf("HISTOFILTER_TEST_B = %q", got)
	}
}

func TestConfigPipelineConfig(t *testing.T) {
	c := Config{Output: "  ", Level: -5, Steps: "median,brightness", Overlay: true}
	pc, err := c.PipelineConfig()
	if err != nil {
		t.Fatalf("PipelineConfig failed: %v", err)
	}
	if pc.OutputDir != "." || !pc.Overlay || pc.Preview {
		t.Fatalf("unexpected config %+v", pc)
	}
	if len(pc.Steps) != 2 || pc.Steps[1].Args[0] != "-5" {
		t.Fatalf("unexpected steps %v", pc.Steps)
	}

	c.Steps = "sharpen"
	if _, err := c.PipelineConfig(); !errors.Is(err, pipeline.ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(false, &buf)
	if l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v", l.GetLevel())
	}
	l.WithField("stage", "median").Info("stage complete")
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q", buf.String())
	}
	if entry["stage"] != "median" || entry["msg"] != "stage complete" {
		t.Fatalf("unexpected entry %v", entry)
	}

	buf.Reset()
	d := NewLogger(true, &buf)
	if d.GetLevel() != logrus.DebugLevel {
		t.Fatalf("debug level = %v", d.GetLevel())
	}
	if !strings.Contains(buf.String(), "Debug logging enabled") {
		t.Fatalf("debug logger output %q", buf.String())
	}
}

func TestNormalizeArgs(t *testing.T) {
	got, err := NormalizeArgs("Brightness", []string{" +15 "})
	if err != nil || len(got) != 1 || got[0] != "15" {
		t.Fatalf("NormalizeArgs = %v, %v", got, err)
	}
	got, err = NormalizeArgs("brightness", nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("optional level: %v, %v", got, err)
	}
	if _, err := NormalizeArgs("brightness", []string{"loud"}); err == nil {
		t.Fatalf("expected integer error")
	}
	if _, err := NormalizeArgs("median", []string{"3"}); err == nil {
		t.Fatalf("expected too-many-args error")
	}
	if _, err := NormalizeArgs("blur", nil); err == nil {
		t.Fatalf("expected unknown command error")
	}
}
