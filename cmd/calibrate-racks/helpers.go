package main

import (
	"os"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calibrate-racks/pkg/config"
	"github.com/charlie0129/calibrate-racks/pkg/measurement"
	"github.com/charlie0129/calibrate-racks/pkg/plot"
	"github.com/charlie0129/calibrate-racks/pkg/rack"
	"github.com/charlie0129/calibrate-racks/pkg/rackset"
)

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

// loadConfig reads the config file and applies the --input and --output
// overrides.
func loadConfig() (*config.File, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, err
	}
	if inputDir != "" {
		conf.SetInputDir(inputDir)
	}
	if outputDir != "" {
		conf.SetOutputDir(outputDir)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(conf.LogrusFields()).Debug("configuration loaded")

	return conf, nil
}

func measurementOptions(c config.Config) measurement.Options {
	return measurement.Options{
		PowerStartDBm:    c.RampStartDBm(),
		PowerEndDBm:      c.RampEndDBm(),
		Points:           c.RampPoints(),
		Delimiter:        c.FieldDelimiter(),
		Decimal:          c.DecimalSeparator(),
		SampleColumn:     c.SampleColumn(),
		VoltageColumn:    c.VoltageColumn(),
		TolerancePercent: c.StuckLevelTolerancePercent(),
	}
}

func saveOptions(c config.Config) rack.SaveOptions {
	return rack.SaveOptions{
		Delimiter: c.OutputDelimiter(),
		Preamble:  c.WritePreamble(),
	}
}

func loadRackSet(c config.Config) (*rackset.Set, error) {
	logrus.WithField("input", c.InputDir()).Info("loading racks")
	set, err := rackset.New(c.InputDir(), rackset.Options{
		Measurement: measurementOptions(c),
		Workers:     c.Workers(),
		Logger:      logrus.StandardLogger(),
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("racks", set.Names()).Infof("loaded %d racks", set.Len())
	return set, nil
}

func ensureOutputDir(c config.Config) (string, error) {
	dir := c.OutputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to create output folder %s", dir)
	}
	return dir, nil
}

func newFigures(c config.Config) *plot.Figures {
	return plot.NewFigures(c.FigureWidthInch(), c.FigureHeightInch())
}

func logWritten(paths []string) {
	for _, p := range paths {
		logrus.WithField("path", p).Info("written")
	}
}
