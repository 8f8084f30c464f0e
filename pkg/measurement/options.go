package measurement

import (
	"fmt"
	"math"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
)

// Options describes the power ramp and the layout of acquisition files.
type Options struct {
	// PowerStartDBm and PowerEndDBm bound the reference power ramp.
	PowerStartDBm float64
	PowerEndDBm   float64
	// Points is the number of equal steps of the ramp.
	Points int

	// Delimiter separates fields, Decimal is the decimal separator.
	Delimiter string
	Decimal   string

	SampleColumn  string
	VoltageColumn string

	// TolerancePercent is how much higher than the second retained voltage
	// the first one may be before it is treated as a stuck RF level.
	TolerancePercent float64
}

// DefaultOptions returns the settings of the MULTIPAC test bench racks.
func DefaultOptions() Options {
	return Options{
		PowerStartDBm:    -30,
		PowerEndDBm:      6,
		Points:           37,
		Delimiter:        "\t",
		Decimal:          ",",
		SampleColumn:     "Sample index",
		VoltageColumn:    "NI9205_Arc2",
		TolerancePercent: 10,
	}
}

// Validate checks that o can drive a fit.
func (o Options) Validate() error {
	switch {
	case o.Points < 2:
		return fmt.Errorf("%w: ramp needs at least 2 points, got %d", ErrInvalidOptions, o.Points)
	case math.IsNaN(o.PowerStartDBm) || math.IsNaN(o.PowerEndDBm):
		return fmt.Errorf("%w: ramp bounds must be numbers", ErrInvalidOptions)
	case o.PowerStartDBm == o.PowerEndDBm:
		return fmt.Errorf("%w: ramp start and end are both %g dBm", ErrInvalidOptions, o.PowerStartDBm)
	case utf8.RuneCountInString(o.Delimiter) != 1:
		return fmt.Errorf("%w: field delimiter must be a single character, got %q", ErrInvalidOptions, o.Delimiter)
	case o.Decimal == "":
		return fmt.Errorf("%w: decimal separator is empty", ErrInvalidOptions)
	case o.Decimal == o.Delimiter:
		return fmt.Errorf("%w: decimal separator and field delimiter are both %q", ErrInvalidOptions, o.Delimiter)
	case o.SampleColumn == "" || o.VoltageColumn == "":
		return fmt.Errorf("%w: column names must not be empty", ErrInvalidOptions)
	case o.TolerancePercent < 0:
		return fmt.Errorf("%w: tolerance must not be negative, got %g%%", ErrInvalidOptions, o.TolerancePercent)
	}
	return nil
}

// Powers returns the reference power ramp in dBm.
func (o Options) Powers() []float64 {
	return floats.Span(make([]float64, o.Points), o.PowerStartDBm, o.PowerEndDBm)
}
