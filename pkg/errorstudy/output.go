package errorstudy

import (
	"io"
	"path/filepath"

	"github.com/charlie0129/calibrate-racks/pkg/fileutil"
	"github.com/charlie0129/calibrate-racks/pkg/plot"
)

// Figure numbers, clear of the ones used by racks 0 to 9.
const (
	VoltageFigureNumber = 100
	ErrorFigureNumber   = 101
)

const (
	TableFileName   = "error_study.tsv"
	VoltageFileName = "error_study_voltage.png"
	ErrorFileName   = "error_study_error.png"
)

// Save writes the table and both figures into outDir and returns the paths
// in that order.
func (e *Envelope) Save(figs *plot.Figures, outDir, delimiter string) ([]string, error) {
	table := filepath.Join(outDir, TableFileName)
	err := fileutil.WriteFile(table, 0o644, func(w io.Writer) error {
		return e.Encode(w, delimiter)
	})
	if err != nil {
		return nil, err
	}

	voltage := figs.Figure(VoltageFigureNumber)
	voltage.SetLabels("Acquisition voltage [V]", "Actual voltage [V]")
	voltage.SetLogY()
	if err := e.DrawVoltage(voltage); err != nil {
		return nil, err
	}
	voltagePath := filepath.Join(outDir, VoltageFileName)
	if err := voltage.Save(voltagePath); err != nil {
		return nil, err
	}

	relErr := figs.Figure(ErrorFigureNumber)
	relErr.SetLabels("Acquisition voltage [V]", "Relative error [%]")
	if err := e.DrawRelativeError(relErr); err != nil {
		return nil, err
	}
	errPath := filepath.Join(outDir, ErrorFileName)
	if err := relErr.Save(errPath); err != nil {
		return nil, err
	}

	return []string{table, voltagePath, errPath}, nil
}
