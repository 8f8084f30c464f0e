package config

import "errors"

// ErrInvalid is returned by Validate when a value cannot be used.
var ErrInvalid = errors.New("invalid configuration")

type Config interface {
	InputDir() string
	OutputDir() string

	RampStartDBm() float64
	RampEndDBm() float64
	RampPoints() int
	FieldDelimiter() string
	DecimalSeparator() string
	SampleColumn() string
	VoltageColumn() string
	StuckLevelTolerancePercent() float64

	OutputDelimiter() string
	WritePreamble() bool
	Workers() int
	FigureWidthInch() float64
	FigureHeightInch() float64
	MinRSquared() float64

	SetInputDir(string)
	SetOutputDir(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
	// Validate reports the first value that cannot be used.
	Validate() error
}
