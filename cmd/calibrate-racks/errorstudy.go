package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calibrate-racks/pkg/errorstudy"
)

func NewErrorStudyCommand() *cobra.Command {
	p := errorstudy.DefaultParams()

	cmd := &cobra.Command{
		Use:     "error-study",
		Short:   "Estimate how calibration errors affect the coax voltage",
		GroupID: gTools,
		Long: `Estimate how calibration errors affect the coax voltage.

The coax voltage is computed over the acquisition voltage range with the
nominal constants, then with every constant shifted by its error in the
direction that lowers it, and in the direction that raises it.

The output folder receives a table (` + errorstudy.TableFileName + `) and two figures:
the voltage envelope on a log scale and the relative error in percent.

Default constants are the ones of rack E1 at 120 MHz.`,
		Example: `  calibrate-racks error-study --delta-a 0.02 --delta-b 0.6 --v-max 4`,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			env, err := errorstudy.Study(p)
			if err != nil {
				return err
			}

			dir, err := ensureOutputDir(conf)
			if err != nil {
				return err
			}

			paths, err := env.Save(newFigures(conf), dir, conf.OutputDelimiter())
			if err != nil {
				return err
			}
			logWritten(paths)

			last := len(env.VAcqui) - 1
			logrus.WithFields(logrus.Fields{
				"vAcqui":        env.VAcqui[last],
				"errMinPercent": env.ErrMinPercent[last],
				"errMaxPercent": env.ErrMaxPercent[last],
			}).Info("relative error at the top of the range")

			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&p.A, "rack-a", "a", p.A, "rack slope [dBm/V]")
	flags.Float64VarP(&p.B, "rack-b", "b", p.B, "rack intercept [dBm]")
	flags.Float64VarP(&p.GProbe, "g-probe", "g", p.GProbe, "probe coupling [dB]")
	flags.Float64Var(&p.Z0, "z0", p.Z0, "line impedance [Ohm]")
	flags.Float64Var(&p.DeltaA, "delta-a", p.DeltaA, "error on the rack slope")
	flags.Float64Var(&p.DeltaB, "delta-b", p.DeltaB, "error on the rack intercept")
	flags.Float64Var(&p.DeltaGProbe, "delta-g", p.DeltaGProbe, "error on the probe coupling")
	flags.Float64Var(&p.VMin, "v-min", p.VMin, "lowest acquisition voltage [V]")
	flags.Float64Var(&p.VMax, "v-max", p.VMax, "highest acquisition voltage [V]")
	flags.IntVar(&p.Points, "points", p.Points, "number of acquisition voltages")

	return cmd
}
