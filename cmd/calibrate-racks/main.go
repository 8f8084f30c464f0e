package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/calibrate-racks/pkg/config"
	"github.com/charlie0129/calibrate-racks/pkg/measurement"
	"github.com/charlie0129/calibrate-racks/pkg/rack"
	"github.com/charlie0129/calibrate-racks/pkg/rackset"
)

var (
	logLevel   = "info"
	configPath = "calibrate-racks.yaml"
	inputDir   = ""
	outputDir  = ""
)

var (
	gPipeline     = "Pipeline:"
	gTools        = "Tools:"
	commandGroups = []string{
		gPipeline,
		gTools,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	var (
		formatErr *measurement.FileFormatError
		freqErr   *measurement.FrequencyParseError
		setErr    *rackset.Error
	)
	switch {
	case errors.Is(err, config.ErrInvalid):
		fmt.Fprintf(os.Stderr, "\nError: the configuration in %s cannot be used\n", configPath)
		fmt.Fprintln(os.Stderr, "Run 'calibrate-racks config' to see the effective values.")
	case errors.Is(err, measurement.ErrWindowOutOfRange):
		fmt.Fprintln(os.Stderr, "\nError: the voltage peak comes before the end of the power ramp")
		fmt.Fprintln(os.Stderr, "Check that rampPoints matches the acquisition, and that the acquisition started before the ramp.")
	case errors.As(err, &freqErr):
		fmt.Fprintf(os.Stderr, "\nError: cannot read the frequency from %s\n", freqErr.Filename)
		fmt.Fprintln(os.Stderr, "Acquisition files must be named like 'MesureE1-120MHz.txt'.")
	case errors.As(err, &formatErr):
		fmt.Fprintf(os.Stderr, "\nError: cannot read %s\n", formatErr.Path)
		fmt.Fprintln(os.Stderr, "Check fieldDelimiter, decimalSeparator, sampleColumn and voltageColumn in the configuration.")
	case errors.As(err, &setErr):
		fmt.Fprintln(os.Stderr, "\nError: unexpected content in the input folder")
		fmt.Fprintln(os.Stderr, "The input folder must hold one folder per rack, named like 'E1', each holding its acquisition files.")
	case errors.Is(err, rack.ErrNoMeasurements):
		fmt.Fprintln(os.Stderr, "\nError: a rack folder is empty")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate-racks",
		Short: "calibrate-racks fits the RF power calibration of acquisition racks",
		Long: `calibrate-racks fits the RF power calibration of acquisition racks.

Every rack folder of the input directory holds one acquisition file per
frequency, recorded while the RF power ramps from rampStartDbm to rampEndDbm.
For each file the ramp is located, and power = a * voltage + b is fitted.
The constants are written to one <rack>_fit_calibration.csv per rack.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", "calibrate-racks.yaml", "config file path (YAML or JSON)")
	globalFlags.StringVarP(&inputDir, "input", "i", "", "folder holding one folder per rack (overrides inputDir)")
	globalFlags.StringVarP(&outputDir, "output", "o", "", "folder receiving calibration files and figures (overrides outputDir)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewRunCommand(),
		NewSaveCommand(),
		NewPlotCommand(),
		NewShowCommand(),
		NewErrorStudyCommand(),
		NewConfigCommand(),
		NewVersionCommand(),
	)

	return cmd
}
