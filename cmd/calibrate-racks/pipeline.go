package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calibrate-racks/pkg/config"
	"github.com/charlie0129/calibrate-racks/pkg/rackset"
)

func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   "Fit every rack, save the calibration files and the figures",
		GroupID: gPipeline,
		Long: `Fit every rack, save the calibration files and the figures.

For every rack of the input folder, this writes into the output folder:
  <rack>_fit_calibration.csv  fitted a and b for each frequency
  <rack>_measured.png         acquisitions, with the samples kept for the fit
  <rack>_fit.png              power against voltage, with the fitted lines`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPipeline(true, true)
		},
	}
}

func NewSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "save",
		Short:   "Fit every rack and save the calibration files only",
		GroupID: gPipeline,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPipeline(true, false)
		},
	}
}

func NewPlotCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "plot",
		Short:   "Fit every rack and save the figures only",
		GroupID: gPipeline,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPipeline(false, true)
		},
	}
}

func runPipeline(save, plots bool) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	set, err := loadRackSet(conf)
	if err != nil {
		return err
	}

	dir, err := ensureOutputDir(conf)
	if err != nil {
		return err
	}

	if plots {
		if err := savePlots(conf, set, dir); err != nil {
			return err
		}
	}

	if save {
		paths, err := set.SaveAll(dir, saveOptions(conf))
		if err != nil {
			return err
		}
		logWritten(paths)
	}

	logrus.Infof("done, results are in %s", dir)

	return nil
}

func savePlots(conf config.Config, set *rackset.Set, dir string) error {
	figs := newFigures(conf)

	paths, err := set.PlotAsMeasured(figs, dir)
	if err != nil {
		return err
	}
	logWritten(paths)

	paths, err = set.PlotFit(figs, dir)
	if err != nil {
		return err
	}
	logWritten(paths)

	return nil
}
