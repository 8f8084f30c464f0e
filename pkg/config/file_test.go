package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charlie0129/calibrate-racks/pkg/utils/ptr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	for _, name := range []string{"missing", "empty"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if name == "empty" {
				path = writeConfig(t, "  \n")
			}
			f, err := NewFile(path)
			if err != nil {
				t.Fatalf("NewFile() error = %v", err)
			}
			if got := f.InputDir(); got != "data/measurements" {
				t.Errorf("InputDir() = %q", got)
			}
			if got := f.OutputDir(); got != "data/results" {
				t.Errorf("OutputDir() = %q", got)
			}
			if f.RampStartDBm() != -30 || f.RampEndDBm() != 6 || f.RampPoints() != 37 {
				t.Errorf("ramp = %g..%g/%d", f.RampStartDBm(), f.RampEndDBm(), f.RampPoints())
			}
			if f.FieldDelimiter() != "\t" || f.DecimalSeparator() != "," || f.OutputDelimiter() != "\t" {
				t.Errorf("delimiters = %q %q %q", f.FieldDelimiter(), f.DecimalSeparator(), f.OutputDelimiter())
			}
			if f.SampleColumn() != "Sample index" || f.VoltageColumn() != "NI9205_Arc2" {
				t.Errorf("columns = %q %q", f.SampleColumn(), f.VoltageColumn())
			}
			if f.StuckLevelTolerancePercent() != 10 || f.Workers() != 1 || f.WritePreamble() {
				t.Errorf("tolerance = %g, workers = %d, preamble = %v", f.StuckLevelTolerancePercent(), f.Workers(), f.WritePreamble())
			}
			if f.FigureWidthInch() != 8 || f.FigureHeightInch() != 6 || f.MinRSquared() != 0.999 {
				t.Errorf("figure = %gx%g, minRSquared = %g", f.FigureWidthInch(), f.FigureHeightInch(), f.MinRSquared())
			}
			if err := f.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
inputDir: /srv/bench
rampPoints: 19
voltageColumn: NI9205_Arc1
writePreamble: true
workers: 4
`)
	f, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.InputDir() != "/srv/bench" || f.RampPoints() != 19 || f.VoltageColumn() != "NI9205_Arc1" {
		t.Errorf("got %q %d %q", f.InputDir(), f.RampPoints(), f.VoltageColumn())
	}
	if !f.WritePreamble() || f.Workers() != 4 {
		t.Errorf("got preamble = %v, workers = %d", f.WritePreamble(), f.Workers())
	}
	// Untouched keys keep their default.
	if f.OutputDir() != "data/results" {
		t.Errorf("OutputDir() = %q", f.OutputDir())
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, `{"fieldDelimiter": ";", "decimalSeparator": ".", "rampStartDbm": -20}`)
	f, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.FieldDelimiter() != ";" || f.DecimalSeparator() != "." || f.RampStartDBm() != -20 {
		t.Errorf("got %q %q %g", f.FieldDelimiter(), f.DecimalSeparator(), f.RampStartDBm())
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "rampPoints: [1, 2\n")
	if _, err := NewFile(path); err == nil {
		t.Fatal("NewFile() error = nil, want error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	f := NewFileFromConfig(&RawFileConfig{RampPoints: ptr.To(25), WritePreamble: ptr.To(false)}, path)
	f.SetInputDir("in")
	f.SetOutputDir("out")
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "workers") {
		t.Errorf("unset key was saved:\n%s", b)
	}

	g, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.InputDir() != "in" || g.OutputDir() != "out" || g.RampPoints() != 25 || g.WritePreamble() {
		t.Errorf("got %q %q %d %v", g.InputDir(), g.OutputDir(), g.RampPoints(), g.WritePreamble())
	}
}

func TestEffective(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	b, err := Effective(f)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"inputDir: data/measurements", "rampPoints: 37", "writePreamble: false", "minRSquared: 0.999"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("Effective() missing %q:\n%s", want, b)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    *RawFileConfig
	}{
		{"one point", &RawFileConfig{RampPoints: ptr.To(1)}},
		{"flat ramp", &RawFileConfig{RampStartDBm: ptr.To(6.0)}},
		{"no delimiter", &RawFileConfig{FieldDelimiter: ptr.To("")}},
		{"no output delimiter", &RawFileConfig{OutputDelimiter: ptr.To("")}},
		{"no decimal", &RawFileConfig{DecimalSeparator: ptr.To("")}},
		{"negative tolerance", &RawFileConfig{StuckLevelTolerancePercent: ptr.To(-1.0)}},
		{"no workers", &RawFileConfig{Workers: ptr.To(0)}},
		{"flat figure", &RawFileConfig{FigureHeightInch: ptr.To(0.0)}},
		{"r squared", &RawFileConfig{MinRSquared: ptr.To(1.5)}},
		{"no input", &RawFileConfig{InputDir: ptr.To("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFileFromConfig(tt.c, "").Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLogrusFields(t *testing.T) {
	fields := NewFileFromConfig(nil, "").LogrusFields()
	if fields["rampPoints"] != 37 || fields["voltageColumn"] != "NI9205_Arc2" {
		t.Errorf("LogrusFields() = %v", fields)
	}
}
