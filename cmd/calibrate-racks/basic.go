package main

import (
	"github.com/spf13/cobra"

	"github.com/charlie0129/calibrate-racks/pkg/config"
	"github.com/charlie0129/calibrate-racks/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewConfigCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Print the effective configuration",
		GroupID: gTools,
		Long: `Print the effective configuration, defaults included, as YAML.

With --write, the effective configuration is also saved to the config file,
which gives a complete file to start editing from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			b, err := config.Effective(conf)
			if err != nil {
				return err
			}
			cmd.Print(string(b))

			if !write {
				return nil
			}

			raw, err := config.NewRawFileConfigFromConfig(conf)
			if err != nil {
				return err
			}
			if err := config.NewFileFromConfig(raw, configPath).Save(); err != nil {
				return err
			}
			cmd.PrintErrf("saved to %s\n", configPath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config file")

	return cmd
}
