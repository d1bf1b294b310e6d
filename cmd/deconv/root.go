// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/deconv/config"
	"github.com/katalvlaran/deconv/logging"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	verbose    bool
	configPath string
	v          *viper.Viper
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "deconv",
		Short: "NNLS cell-type deconvolution of bulk expression",
		Long: `deconv z-scores a features × cell-types reference profile, aligns it with a
features × samples expression table and solves one non-negative least squares
problem per sample. Proportions, residuals and a run summary are written under
perform_deconvolution/ in the configured output store.`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")

	root.AddCommand(newRunCmd(a), newVersionCmd())

	return root
}

// setup loads configuration and builds the logger. Flags bound into a.v
// take precedence over the config file and the environment.
func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg, a.logger = cfg, logger

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deconv %s\n", version)
		},
	}
}
