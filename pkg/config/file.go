package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/calibrate-racks/pkg/fileutil"
	"github.com/charlie0129/calibrate-racks/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		InputDir:                   ptr.To("data/measurements"),
		OutputDir:                  ptr.To("data/results"),
		RampStartDBm:               ptr.To(-30.0),
		RampEndDBm:                 ptr.To(6.0),
		RampPoints:                 ptr.To(37),
		FieldDelimiter:             ptr.To("\t"),
		DecimalSeparator:           ptr.To(","),
		SampleColumn:               ptr.To("Sample index"),
		VoltageColumn:              ptr.To("NI9205_Arc2"),
		StuckLevelTolerancePercent: ptr.To(10.0),
		OutputDelimiter:            ptr.To("\t"),
		WritePreamble:              ptr.To(false),
		Workers:                    ptr.To(1),
		FigureWidthInch:            ptr.To(8.0),
		FigureHeightInch:           ptr.To(6.0),
		// Only used to color the summary table.
		MinRSquared: ptr.To(0.999),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk form. Unset fields fall back to the defaults.
// JSON files are accepted too since yaml.v3 reads JSON documents.
type RawFileConfig struct {
	InputDir  *string `yaml:"inputDir,omitempty" json:"inputDir,omitempty"`
	OutputDir *string `yaml:"outputDir,omitempty" json:"outputDir,omitempty"`

	RampStartDBm               *float64 `yaml:"rampStartDbm,omitempty" json:"rampStartDbm,omitempty"`
	RampEndDBm                 *float64 `yaml:"rampEndDbm,omitempty" json:"rampEndDbm,omitempty"`
	RampPoints                 *int     `yaml:"rampPoints,omitempty" json:"rampPoints,omitempty"`
	FieldDelimiter             *string  `yaml:"fieldDelimiter,omitempty" json:"fieldDelimiter,omitempty"`
	DecimalSeparator           *string  `yaml:"decimalSeparator,omitempty" json:"decimalSeparator,omitempty"`
	SampleColumn               *string  `yaml:"sampleColumn,omitempty" json:"sampleColumn,omitempty"`
	VoltageColumn              *string  `yaml:"voltageColumn,omitempty" json:"voltageColumn,omitempty"`
	StuckLevelTolerancePercent *float64 `yaml:"stuckLevelTolerancePercent,omitempty" json:"stuckLevelTolerancePercent,omitempty"`

	OutputDelimiter  *string  `yaml:"outputDelimiter,omitempty" json:"outputDelimiter,omitempty"`
	WritePreamble    *bool    `yaml:"writePreamble,omitempty" json:"writePreamble,omitempty"`
	Workers          *int     `yaml:"workers,omitempty" json:"workers,omitempty"`
	FigureWidthInch  *float64 `yaml:"figureWidthInch,omitempty" json:"figureWidthInch,omitempty"`
	FigureHeightInch *float64 `yaml:"figureHeightInch,omitempty" json:"figureHeightInch,omitempty"`
	MinRSquared      *float64 `yaml:"minRSquared,omitempty" json:"minRSquared,omitempty"`
}

// NewRawFileConfigFromConfig returns a fully populated RawFileConfig holding
// the effective values of c.
func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		InputDir:                   ptr.To(c.InputDir()),
		OutputDir:                  ptr.To(c.OutputDir()),
		RampStartDBm:               ptr.To(c.RampStartDBm()),
		RampEndDBm:                 ptr.To(c.RampEndDBm()),
		RampPoints:                 ptr.To(c.RampPoints()),
		FieldDelimiter:             ptr.To(c.FieldDelimiter()),
		DecimalSeparator:           ptr.To(c.DecimalSeparator()),
		SampleColumn:               ptr.To(c.SampleColumn()),
		VoltageColumn:              ptr.To(c.VoltageColumn()),
		StuckLevelTolerancePercent: ptr.To(c.StuckLevelTolerancePercent()),
		OutputDelimiter:            ptr.To(c.OutputDelimiter()),
		WritePreamble:              ptr.To(c.WritePreamble()),
		Workers:                    ptr.To(c.Workers()),
		FigureWidthInch:            ptr.To(c.FigureWidthInch()),
		FigureHeightInch:           ptr.To(c.FigureHeightInch()),
		MinRSquared:                ptr.To(c.MinRSquared()),
	}

	return rawConfig, nil
}

// get reads one field of the raw config under the read lock, falling back
// to its default.
func get[T any](f *File, field func(c *RawFileConfig) *T) T {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(field(f.c), *field(defaultFileConfig))
}

func (f *File) InputDir() string {
	return get(f, func(c *RawFileConfig) *string { return c.InputDir })
}

func (f *File) OutputDir() string {
	return get(f, func(c *RawFileConfig) *string { return c.OutputDir })
}

func (f *File) RampStartDBm() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.RampStartDBm })
}

func (f *File) RampEndDBm() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.RampEndDBm })
}

func (f *File) RampPoints() int {
	return get(f, func(c *RawFileConfig) *int { return c.RampPoints })
}

func (f *File) FieldDelimiter() string {
	return get(f, func(c *RawFileConfig) *string { return c.FieldDelimiter })
}

func (f *File) DecimalSeparator() string {
	return get(f, func(c *RawFileConfig) *string { return c.DecimalSeparator })
}

func (f *File) SampleColumn() string {
	return get(f, func(c *RawFileConfig) *string { return c.SampleColumn })
}

func (f *File) VoltageColumn() string {
	return get(f, func(c *RawFileConfig) *string { return c.VoltageColumn })
}

func (f *File) StuckLevelTolerancePercent() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.StuckLevelTolerancePercent })
}

func (f *File) OutputDelimiter() string {
	return get(f, func(c *RawFileConfig) *string { return c.OutputDelimiter })
}

func (f *File) WritePreamble() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.WritePreamble })
}

func (f *File) Workers() int {
	return get(f, func(c *RawFileConfig) *int { return c.Workers })
}

func (f *File) FigureWidthInch() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.FigureWidthInch })
}

func (f *File) FigureHeightInch() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.FigureHeightInch })
}

func (f *File) MinRSquared() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.MinRSquared })
}

func (f *File) SetInputDir(dir string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.InputDir = &dir
}

func (f *File) SetOutputDir(dir string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.OutputDir = &dir
}

func (f *File) Validate() error {
	switch {
	case f.InputDir() == "":
		return fmt.Errorf("%w: inputDir is empty", ErrInvalid)
	case f.RampPoints() < 2:
		return fmt.Errorf("%w: rampPoints must be at least 2, got %d", ErrInvalid, f.RampPoints())
	case f.RampStartDBm() == f.RampEndDBm():
		return fmt.Errorf("%w: rampStartDbm and rampEndDbm are both %g", ErrInvalid, f.RampStartDBm())
	case f.FieldDelimiter() == "" || f.OutputDelimiter() == "":
		return fmt.Errorf("%w: delimiters must not be empty", ErrInvalid)
	case f.DecimalSeparator() == "":
		return fmt.Errorf("%w: decimalSeparator is empty", ErrInvalid)
	case f.StuckLevelTolerancePercent() < 0:
		return fmt.Errorf("%w: stuckLevelTolerancePercent must not be negative, got %g", ErrInvalid, f.StuckLevelTolerancePercent())
	case f.Workers() < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, f.Workers())
	case f.FigureWidthInch() <= 0 || f.FigureHeightInch() <= 0:
		return fmt.Errorf("%w: figure size must be positive", ErrInvalid)
	case math.IsNaN(f.MinRSquared()) || f.MinRSquared() > 1:
		return fmt.Errorf("%w: minRSquared must be at most 1, got %g", ErrInvalid, f.MinRSquared())
	}
	return nil
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = yaml.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	return fileutil.WriteFile(f.filepath, 0o644, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f.c); err != nil {
			return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
		}
		return enc.Close()
	})
}

// Effective returns every value, defaults included, as a YAML document.
func Effective(c Config) ([]byte, error) {
	raw, err := NewRawFileConfigFromConfig(c)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(raw)
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"inputDir":                   f.InputDir(),
		"outputDir":                  f.OutputDir(),
		"rampStartDbm":               f.RampStartDBm(),
		"rampEndDbm":                 f.RampEndDBm(),
		"rampPoints":                 f.RampPoints(),
		"voltageColumn":              f.VoltageColumn(),
		"stuckLevelTolerancePercent": f.StuckLevelTolerancePercent(),
		"workers":                    f.Workers(),
	}
}
