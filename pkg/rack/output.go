package rack

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charlie0129/calibrate-racks/pkg/fileutil"
	"github.com/charlie0129/calibrate-racks/pkg/measurement"
	"github.com/charlie0129/calibrate-racks/pkg/plot"
	"github.com/charlie0129/calibrate-racks/pkg/version"
)

// now is replaced in tests.
var now = time.Now

// SaveOptions controls how calibration files are written.
type SaveOptions struct {
	// Delimiter separates fields, "\t" when empty.
	Delimiter string
	// Preamble prepends "#" comment lines with the creation date and the
	// tool version.
	Preamble bool
}

func (o SaveOptions) delimiter() string {
	if o.Delimiter == "" {
		return "\t"
	}
	return o.Delimiter
}

// CalibrationFileName is the name of the calibration file of a rack.
func CalibrationFileName(rackName string) string {
	return rackName + "_fit_calibration.csv"
}

// Encode writes the header once, then one line per measurement in frequency
// order.
func (r *Rack) Encode(w io.Writer, opts SaveOptions) error {
	if opts.Preamble {
		if _, err := io.WriteString(w, preamble()); err != nil {
			return err
		}
	}
	d := opts.delimiter()
	if _, err := io.WriteString(w, measurement.Header(d)); err != nil {
		return err
	}
	for _, m := range r.measurements {
		if _, err := io.WriteString(w, m.Serialize(d, false)); err != nil {
			return err
		}
	}
	return nil
}

func preamble() string {
	return fmt.Sprintf("# File created on %s.\n# Created with calibrate-racks %s (%s).\n#\n",
		now().Format(time.RFC3339), version.Version, version.GitCommit)
}

// SaveAsFile writes the calibration file of the rack into outDir and returns
// its path. The file is replaced as a whole or not at all.
func (r *Rack) SaveAsFile(outDir string, opts SaveOptions) (string, error) {
	path := filepath.Join(outDir, CalibrationFileName(r.name))
	err := fileutil.WriteFile(path, 0o644, func(w io.Writer) error {
		return r.Encode(w, opts)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// MeasuredFigureNumber and FitFigureNumber give each rack a stable figure
// identity: rack number times ten, plus one for the fit.
func (r *Rack) MeasuredFigureNumber() int { return r.number * 10 }

// FitFigureNumber see MeasuredFigureNumber.
func (r *Rack) FitFigureNumber() int { return r.number*10 + 1 }

// PlotAsMeasured draws every measurement as recorded, highlighting the
// samples kept for the fit. The figure is saved into outDir as
// "<rack>_measured.png" unless outDir is empty. It returns the saved path.
func (r *Rack) PlotAsMeasured(figs *plot.Figures, outDir string) (string, error) {
	fig := figs.Figure(r.MeasuredFigureNumber())
	fig.SetTitle(r.name)
	fig.SetLabels("Sample index", "Voltage [V]")
	for _, m := range r.measurements {
		if err := m.DrawAsMeasured(fig); err != nil {
			return "", fmt.Errorf("rack %s: failed to draw %s: %w", r.name, m, err)
		}
	}
	return r.saveFigure(fig, outDir, "_measured.png")
}

// PlotFit draws power against voltage and the fitted line for every
// measurement. The figure is saved into outDir as "<rack>_fit.png" unless
// outDir is empty.
func (r *Rack) PlotFit(figs *plot.Figures, outDir string) (string, error) {
	fig := figs.Figure(r.FitFigureNumber())
	fig.SetTitle(r.name)
	fig.SetLabels("Measured voltage [V]", "RF power [dBm]")
	for _, m := range r.measurements {
		if err := m.DrawFit(fig); err != nil {
			return "", fmt.Errorf("rack %s: failed to draw %s: %w", r.name, m, err)
		}
	}
	return r.saveFigure(fig, outDir, "_fit.png")
}

func (r *Rack) saveFigure(fig *plot.Figure, outDir, suffix string) (string, error) {
	if outDir == "" {
		return "", nil
	}
	path := filepath.Join(outDir, r.name+suffix)
	if err := fig.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
