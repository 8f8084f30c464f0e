package rackset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/calibrate-racks/pkg/measurement"
	"github.com/charlie0129/calibrate-racks/pkg/plot"
	"github.com/charlie0129/calibrate-racks/pkg/rack"
)

// Options configures how a Set is loaded.
type Options struct {
	Measurement measurement.Options
	// Workers is the number of racks loaded at the same time. Values below
	// 2 load racks one after the other.
	Workers int
	Logger  logrus.FieldLogger
}

// Set holds every rack of a calibration campaign, ordered by rack number.
type Set struct {
	racks []*rack.Rack
}

// New loads one rack per subdirectory of base, named after the folder.
//
// Expected layout:
//
//	base/
//	├── E1
//	│   ├── MesureE1-100MHz.txt
//	│   └── MesureE1-80MHz.txt
//	└── E2
//	    └── MesureE2-100MHz.txt
func New(base string, opts Options) (*Set, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	folders, err := listFolders(base)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		logger.WithField("base", base).Warn("no rack folder found")
	}

	seen := map[int]string{}
	for _, name := range folders {
		n, err := rack.ParseNumber(name)
		if err != nil {
			return nil, &Error{Rack: name, Reason: "folder name has no rack number", Err: err}
		}
		if other, ok := seen[n]; ok {
			return nil, &Error{Rack: name, Reason: fmt.Sprintf("same number as %s", other), Err: ErrDuplicateRack}
		}
		seen[n] = name
	}

	racks, err := loadRacks(base, folders, opts.Measurement, opts.Workers, logger)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(racks, func(i, j int) bool {
		return racks[i].Number() < racks[j].Number()
	})

	return &Set{racks: racks}, nil
}

// loadRacks returns the racks in folders order. With several workers the
// reported error is still the one of the first failing folder in that order.
func loadRacks(base string, folders []string, opts measurement.Options, workers int, logger logrus.FieldLogger) ([]*rack.Rack, error) {
	racks := make([]*rack.Rack, len(folders))
	errs := make([]error, len(folders))

	if workers <= 1 {
		for i, name := range folders {
			racks[i], errs[i] = rack.New(filepath.Join(base, name), name, opts, logger)
			if errs[i] != nil {
				break
			}
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(workers)
		for i, name := range folders {
			g.Go(func() error {
				racks[i], errs[i] = rack.New(filepath.Join(base, name), name, opts, logger)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, rack.ErrNoMeasurements) {
			return nil, &Error{Rack: folders[i], Reason: "empty rack folder", Err: err}
		}
		return nil, err
	}

	return racks, nil
}

func listFolders(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list base folder %s", base)
	}

	var names []string
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(base, e.Name()))
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to stat %s", e.Name())
		}
		if info.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Len is the number of racks.
func (s *Set) Len() int { return len(s.racks) }

// Racks returns the racks by ascending rack number.
func (s *Set) Racks() []*rack.Rack {
	out := make([]*rack.Rack, len(s.racks))
	copy(out, s.racks)
	return out
}

// Names returns the rack names by ascending rack number.
func (s *Set) Names() []string {
	out := make([]string, len(s.racks))
	for i, r := range s.racks {
		out[i] = r.Name()
	}
	return out
}

// Each calls fn on every rack in order and stops at the first error.
func (s *Set) Each(fn func(r *rack.Rack) error) error {
	for _, r := range s.racks {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// PlotAsMeasured draws and saves the measured figure of every rack.
func (s *Set) PlotAsMeasured(figs *plot.Figures, outDir string) ([]string, error) {
	return s.collect(func(r *rack.Rack) (string, error) {
		return r.PlotAsMeasured(figs, outDir)
	})
}

// PlotFit draws and saves the fit figure of every rack.
func (s *Set) PlotFit(figs *plot.Figures, outDir string) ([]string, error) {
	return s.collect(func(r *rack.Rack) (string, error) {
		return r.PlotFit(figs, outDir)
	})
}

// SaveAll writes the calibration file of every rack into outDir.
func (s *Set) SaveAll(outDir string, opts rack.SaveOptions) ([]string, error) {
	return s.collect(func(r *rack.Rack) (string, error) {
		return r.SaveAsFile(outDir, opts)
	})
}

func (s *Set) collect(fn func(r *rack.Rack) (string, error)) ([]string, error) {
	var paths []string
	err := s.Each(func(r *rack.Rack) error {
		p, err := fn(r)
		if err != nil {
			return err
		}
		if p != "" {
			paths = append(paths, p)
		}
		return nil
	})
	return paths, err
}
