package measurement

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calibrate-racks/pkg/fit"
)

// Record is one fitted acquisition of a rack at a frequency.
type Record struct {
	rack         string
	frequencyMHz float64

	fullSamples  []float64
	fullVoltages []float64

	// samples, voltages and powers are the points used for the fit, all of
	// the same length.
	samples  []float64
	voltages []float64
	powers   []float64

	corrected bool
	result    fit.Result
}

// Open loads the acquisition file at path and fits it.
func Open(path, rackName string, opts Options, logger logrus.FieldLogger) (*Record, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("path", path).Debug("loading acquisition file")

	raw, err := Load(path, rackName, opts)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"rack":         rackName,
		"frequencyMHz": raw.FrequencyMHz,
		"samples":      len(raw.Voltages),
	}).Infof("Loading %gMHz", raw.FrequencyMHz)

	return New(raw, opts, logger)
}

// New selects the useful samples of raw and fits them.
func New(raw *Raw, opts Options, logger logrus.FieldLogger) (*Record, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(raw.Samples) != len(raw.Voltages) {
		return nil, &FileFormatError{
			Path:   raw.Path,
			Reason: fmt.Sprintf("%d sample indexes for %d voltages", len(raw.Samples), len(raw.Voltages)),
		}
	}

	start, end, err := UsefulWindow(raw.Voltages, opts.Points)
	if err != nil {
		return nil, &FileFormatError{Path: raw.Path, Err: err}
	}

	r := &Record{
		rack:         raw.Rack,
		frequencyMHz: raw.FrequencyMHz,
		fullSamples:  slices.Clone(raw.Samples),
		fullVoltages: slices.Clone(raw.Voltages),
		powers:       opts.Powers(),
	}
	r.samples = r.fullSamples[start:end:end]
	r.voltages = r.fullVoltages[start:end:end]

	if stuck, threshold := stuckLevel(r.voltages, opts.TolerancePercent); stuck {
		logger.WithFields(logrus.Fields{
			"rack":             r.rack,
			"frequencyMHz":     r.frequencyMHz,
			"firstVoltage":     r.voltages[0],
			"secondVoltage":    r.voltages[1],
			"thresholdVoltage": threshold,
		}).Warnf("%s: measure point @ %gdBm too high, RF level was likely stuck; ignoring it for the fit", r, opts.PowerStartDBm)

		r.samples = r.samples[1:]
		r.voltages = r.voltages[1:]
		r.powers = r.powers[1:]
		r.corrected = true
	}

	r.result, err = fit.Linear(r.voltages, r.powers)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// String returns "<rack> @ <frequency>MHz".
func (r *Record) String() string {
	return fmt.Sprintf("%s @ %3.0fMHz", r.rack, r.frequencyMHz)
}

// Rack is the name of the rack the acquisition belongs to.
func (r *Record) Rack() string { return r.rack }

// FrequencyMHz is the tested frequency.
func (r *Record) FrequencyMHz() float64 { return r.frequencyMHz }

// A is the fitted slope in dBm / V.
func (r *Record) A() float64 { return r.result.A }

// B is the fitted offset in dBm.
func (r *Record) B() float64 { return r.result.B }

// RSquared is the coefficient of determination of the fit.
func (r *Record) RSquared() float64 { return r.result.RSquared }

// Line is the fitted model.
func (r *Record) Line() fit.Line { return r.result.Line }

// Corrected reports whether the first ramp point was dropped because the RF
// level was stuck.
func (r *Record) Corrected() bool { return r.corrected }

// Samples returns the sample indexes used for the fit.
func (r *Record) Samples() []float64 { return slices.Clone(r.samples) }

// Voltages returns the acquisition voltages used for the fit.
func (r *Record) Voltages() []float64 { return slices.Clone(r.voltages) }

// Powers returns the reference powers used for the fit, in dBm.
func (r *Record) Powers() []float64 { return slices.Clone(r.powers) }

// FullSamples returns every sample index of the file.
func (r *Record) FullSamples() []float64 { return slices.Clone(r.fullSamples) }

// FullVoltages returns every acquisition voltage of the file.
func (r *Record) FullVoltages() []float64 { return slices.Clone(r.fullVoltages) }
