package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sartorproj/salescast/internal/config"
	"github.com/sartorproj/salescast/internal/logger"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	out io.Writer

	configFile string
	logLevel   string
	logDev     bool

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "salescast",
		Short: "Monthly sales forecasting and forward-chaining model evaluation",
		Long: `salescast aggregates order-level sales into a cleaned monthly series,
compares forecasting strategies by rolling-origin evaluation and produces
Holt-Winters and lag-regression forecasts.

Settings come from defaults, SALESCAST_* environment variables, a YAML file
(--config) and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.logDev, "log-dev", false, "Human-readable console logs")

	rootCmd.AddCommand(
		a.overviewCmd(),
		a.evaluateCmd(),
		a.forecastCmd(),
		a.trainCmd(),
		a.predictCmd(),
	)
	return rootCmd
}

// init loads configuration and builds the logger. Flags win over the file,
// the environment and defaults.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-dev") {
		cfg.Logging.Development = a.logDev
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.WithFields("command", cmd.Name())
	return nil
}
