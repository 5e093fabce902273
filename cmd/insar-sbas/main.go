// Package main is the entry point for the insar-sbas CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the insar-sbas CLI.
var rootCmd = &cobra.Command{
	Use:   "insar-sbas",
	Short: "Small-baseline InSAR pipeline tooling",
	Long: `insar-sbas prepares small-baseline (SBAS) InSAR time series: it searches
the satellite catalog for scenes, selects short-baseline interferogram
pairs, submits them to the on-demand processing service, downloads and
clips the products to a common grid, and writes the time-series analysis
configuration.

Each pipeline stage is a subcommand; run composes them end to end from a
YAML definition, and serve exposes batch tracking state over HTTP.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the environment configuration and builds the logger
// it specifies.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, setupLogger(cfg.Logging.Level, cfg.Logging.Format), nil
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
