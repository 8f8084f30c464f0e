package rack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/charlie0129/calibrate-racks/pkg/measurement"
)

// Rack holds the measurements of one rack at every tested frequency.
type Rack struct {
	name   string
	number int
	// measurements are sorted by ascending frequency.
	measurements []*measurement.Record
}

// ParseNumber returns the rack number carried by the second character of
// name, e.g. 3 for "E3".
func ParseNumber(name string) (int, error) {
	if len(name) < 2 || name[1] < '0' || name[1] > '9' {
		return 0, fmt.Errorf("%w %q: second character must be a digit", ErrInvalidName, name)
	}
	return int(name[1] - '0'), nil
}

// New loads and fits every file directly inside folder. The first file that
// fails aborts the whole rack.
func New(folder, name string, opts measurement.Options, logger logrus.FieldLogger) (*Rack, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	number, err := ParseNumber(name)
	if err != nil {
		return nil, err
	}

	files, err := listFiles(folder)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("rack %s: %w in %s", name, ErrNoMeasurements, folder)
	}

	logger.WithFields(logrus.Fields{
		"rack":   name,
		"folder": folder,
		"files":  len(files),
	}).Debug("loading rack")

	measurements := make([]*measurement.Record, 0, len(files))
	for _, path := range files {
		m, err := measurement.Open(path, name, opts, logger)
		if err != nil {
			return nil, &LoadError{Rack: name, Path: path, Err: err}
		}
		measurements = append(measurements, m)
	}

	sort.SliceStable(measurements, func(i, j int) bool {
		return measurements[i].FrequencyMHz() < measurements[j].FrequencyMHz()
	})

	return &Rack{
		name:         name,
		number:       number,
		measurements: measurements,
	}, nil
}

// listFiles returns the regular files directly inside folder, following
// symbolic links, sorted by name.
func listFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list rack folder %s", folder)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(folder, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to stat %s", path)
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	return files, nil
}

// Name is the rack label, e.g. "E1".
func (r *Rack) Name() string { return r.name }

// Number is the rack number parsed from its name.
func (r *Rack) Number() int { return r.number }

// Len is the number of measurements.
func (r *Rack) Len() int { return len(r.measurements) }

// Measurements returns the measurements by ascending frequency.
func (r *Rack) Measurements() []*measurement.Record {
	out := make([]*measurement.Record, len(r.measurements))
	copy(out, r.measurements)
	return out
}

// Frequencies returns the tested frequencies in ascending order.
func (r *Rack) Frequencies() []float64 {
	out := make([]float64, len(r.measurements))
	for i, m := range r.measurements {
		out[i] = m.FrequencyMHz()
	}
	return out
}

// FittingConstants returns a 2xN matrix: row 0 holds the slopes a, row 1 the
// offsets b, one column per measurement in frequency order.
func (r *Rack) FittingConstants() *mat.Dense {
	n := len(r.measurements)
	if n == 0 {
		return nil
	}
	c := mat.NewDense(2, n, nil)
	for j, m := range r.measurements {
		c.Set(0, j, m.A())
		c.Set(1, j, m.B())
	}
	return c
}
