package main

import (
	"os"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calibrate-racks/pkg/measurement"
)

func NewShowCommand() *cobra.Command {
	var fromFile bool

	cmd := &cobra.Command{
		Use:     "show [calibration-file...]",
		Short:   "Print the fitted constants of every rack",
		GroupID: gPipeline,
		Long: `Print the fitted constants of every rack.

Fits whose R2 is below minRSquared are shown in red, and a mark tells which
fits ignored a stuck first ramp point.

With --from-file, the given calibration files are printed instead, without
fitting anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile {
				if len(args) == 0 {
					return pkgerrors.New("--from-file needs at least one calibration file")
				}
				return showFiles(cmd, args)
			}
			if len(args) != 0 {
				return pkgerrors.New("calibration files are only accepted with --from-file")
			}
			return showFits(cmd)
		},
	}

	cmd.Flags().BoolVar(&fromFile, "from-file", false, "read saved calibration files instead of fitting")

	return cmd
}

func showFits(cmd *cobra.Command) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	set, err := loadRackSet(conf)
	if err != nil {
		return err
	}

	for _, r := range set.Racks() {
		cmd.Println(bold("Rack %s:", r.Name()))
		for _, m := range r.Measurements() {
			r2 := color.New(color.Bold, color.FgGreen).Sprintf("%.4f", m.RSquared())
			if m.RSquared() < conf.MinRSquared() {
				r2 = color.New(color.Bold, color.FgRed).Sprintf("%.4f", m.RSquared())
			}
			cmd.Printf("  %4.0f MHz  a = %s  b = %s  R2 = %s  full ramp: %s\n",
				m.FrequencyMHz(), bold("%.2f", m.A()), bold("%.2f", m.B()), r2, bool2Text(!m.Corrected()))
		}
		cmd.Println()
	}

	return nil
}

func showFiles(cmd *cobra.Command, paths []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	for _, path := range paths {
		rows, err := readRows(path, conf.OutputDelimiter())
		if err != nil {
			return err
		}
		cmd.Println(bold("%s:", path))
		for _, row := range rows {
			cmd.Printf("  %s %4.0f MHz  a = %s  b = %s\n",
				row.Rack, row.FrequencyMHz, bold("%.2f", row.A), bold("%.2f", row.B))
		}
		cmd.Println()
	}

	return nil
}

func readRows(path, delimiter string) ([]measurement.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open file %s", path)
	}
	defer f.Close()

	rows, err := measurement.ParseRows(f, delimiter)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read calibration file %s", path)
	}
	return rows, nil
}
