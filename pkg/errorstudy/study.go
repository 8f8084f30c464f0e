package errorstudy

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/charlie0129/calibrate-racks/pkg/measurement"
	"github.com/charlie0129/calibrate-racks/pkg/plot"
)

// ErrInvalidParams is returned by Study for unusable parameters.
var ErrInvalidParams = errors.New("invalid error study parameters")

// VCoaxFromAcqui returns the coax voltage in V for an acquisition voltage v
// in [0, 10] V.
func VCoaxFromAcqui(v, a, b, gProbe, z0 float64) float64 {
	exp := (math.Abs(gProbe+3) + a*v + b) / 10
	return math.Sqrt(2e-3 * z0 * math.Pow(10, exp))
}

// Params of a study. Deltas are absolute errors and must not be negative.
type Params struct {
	A, B, GProbe, Z0 float64

	DeltaA, DeltaB, DeltaGProbe float64

	// Acquisition voltage grid, VMin..VMax in Points points.
	VMin, VMax float64
	Points     int
}

// DefaultParams are the constants of rack E1 at 120 MHz, without any error.
func DefaultParams() Params {
	return Params{
		A:      10.30,
		B:      -51.74,
		GProbe: -77.2,
		Z0:     50,
		VMin:   0,
		VMax:   10,
		Points: 1001,
	}
}

func (p Params) validate() error {
	switch {
	case p.Points < 2:
		return fmt.Errorf("%w: grid needs at least 2 points, got %d", ErrInvalidParams, p.Points)
	case p.VMin >= p.VMax:
		return fmt.Errorf("%w: empty voltage range %g..%g V", ErrInvalidParams, p.VMin, p.VMax)
	case p.Z0 <= 0:
		return fmt.Errorf("%w: impedance must be positive, got %g", ErrInvalidParams, p.Z0)
	case p.DeltaA < 0 || p.DeltaB < 0 || p.DeltaGProbe < 0:
		return fmt.Errorf("%w: errors must be given positive", ErrInvalidParams)
	}
	return nil
}

// Envelope holds the coax voltage computed with the nominal constants and
// with the constants shifted by their errors, on the same acquisition grid.
type Envelope struct {
	VAcqui  []float64
	Mini    []float64
	Nominal []float64
	Maxi    []float64
	// Relative errors in percent.
	ErrMinPercent []float64
	ErrMaxPercent []float64
}

// Study computes the envelope. The lower bound uses (a-da, b-db, g+dg) and
// the upper one (a+da, b+db, g-dg).
func Study(p Params) (*Envelope, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	n := p.Points
	e := &Envelope{
		VAcqui:        floats.Span(make([]float64, n), p.VMin, p.VMax),
		Mini:          make([]float64, n),
		Nominal:       make([]float64, n),
		Maxi:          make([]float64, n),
		ErrMinPercent: make([]float64, n),
		ErrMaxPercent: make([]float64, n),
	}
	for i, v := range e.VAcqui {
		e.Mini[i] = VCoaxFromAcqui(v, p.A-p.DeltaA, p.B-p.DeltaB, p.GProbe+p.DeltaGProbe, p.Z0)
		e.Nominal[i] = VCoaxFromAcqui(v, p.A, p.B, p.GProbe, p.Z0)
		e.Maxi[i] = VCoaxFromAcqui(v, p.A+p.DeltaA, p.B+p.DeltaB, p.GProbe-p.DeltaGProbe, p.Z0)
		e.ErrMinPercent[i] = 100 * math.Abs((e.Nominal[i]-e.Mini[i])/e.Nominal[i])
		e.ErrMaxPercent[i] = 100 * math.Abs((e.Nominal[i]-e.Maxi[i])/e.Nominal[i])
	}
	return e, nil
}

var tableHeader = []string{
	"Acquisition voltage [V]",
	"mini",
	"nominal",
	"maxi",
	"Between nominal and min [%]",
	"Between nominal and max [%]",
}

// Encode writes the envelope as a delimited table with a header line.
func (e *Envelope) Encode(w io.Writer, delimiter string) error {
	if delimiter == "" {
		delimiter = "\t"
	}
	if _, err := io.WriteString(w, strings.Join(tableHeader, delimiter)+"\n"); err != nil {
		return err
	}
	fields := make([]string, len(tableHeader))
	for i := range e.VAcqui {
		for j, col := range [][]float64{e.VAcqui, e.Mini, e.Nominal, e.Maxi, e.ErrMinPercent, e.ErrMaxPercent} {
			fields[j] = measurement.FormatFloat(col[i])
		}
		if _, err := io.WriteString(w, strings.Join(fields, delimiter)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// DrawVoltage draws the three coax voltages. Use a logarithmic y axis.
func (e *Envelope) DrawVoltage(s plot.Surface) error {
	for _, series := range []plot.Series{
		{Label: "mini", X: e.VAcqui, Y: e.Mini, Style: plot.StyleLine},
		{Label: "nominal", X: e.VAcqui, Y: e.Nominal, Style: plot.StyleLine},
		{Label: "maxi", X: e.VAcqui, Y: e.Maxi, Style: plot.StyleLine},
	} {
		if err := s.Plot(series); err != nil {
			return err
		}
	}
	return nil
}

// DrawRelativeError draws both relative errors.
func (e *Envelope) DrawRelativeError(s plot.Surface) error {
	if err := s.Plot(plot.Series{Label: "Between nominal and min", X: e.VAcqui, Y: e.ErrMinPercent, Style: plot.StyleLine}); err != nil {
		return err
	}
	return s.Plot(plot.Series{Label: "Between nominal and max", X: e.VAcqui, Y: e.ErrMaxPercent, Style: plot.StyleLine})
}
