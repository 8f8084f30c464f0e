package measurement

import (
	"fmt"

	"github.com/charlie0129/calibrate-racks/pkg/plot"
)

func (r *Record) label() string {
	return fmt.Sprintf("%s @%gMHz", r.rack, r.frequencyMHz)
}

// DrawAsMeasured draws every sample of the file, with the samples kept for
// the fit highlighted.
func (r *Record) DrawAsMeasured(s plot.Surface) error {
	return s.Plot(
		plot.Series{Label: r.label(), X: r.fullSamples, Y: r.fullVoltages, Style: plot.StyleLine},
		plot.Series{Label: "For fit", X: r.samples, Y: r.voltages, Style: plot.StyleHighlight},
	)
}

// DrawFit draws the retained power against voltage and the fitted line.
func (r *Record) DrawFit(s plot.Surface) error {
	return s.Plot(
		plot.Series{Label: r.label(), X: r.voltages, Y: r.powers, Style: plot.StyleLine},
		plot.Series{Label: r.FitLabel(), X: r.voltages, Y: r.result.Evaluate(r.voltages), Style: plot.StyleDashed},
	)
}

// FitLabel annotates the fit with its coefficients and R².
func (r *Record) FitLabel() string {
	return fmt.Sprintf("a = %3.2f, b = %3.2f, R2 = %3.4f", r.result.A, r.result.B, r.result.RSquared)
}
