package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfoltran/colorserve/internal/appconfig"
	"github.com/jfoltran/colorserve/internal/metrics"
)

var (
	cfg        appconfig.Config
	logger     zerolog.Logger
	logOutput  io.Writer
	collector  *metrics.Collector
	configPath string
	colorsPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "colorserve",
	Short: "Serve a colors document to a client-rendered web app",
	Long: `colorserve serves the JSON document at assets/jsonfiles/colors.json
from /api/colors, re-reading it on every request, alongside the embedded
single-page frontend that renders it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := appconfig.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		f := cmd.Flags()
		if f.Changed("colors") {
			cfg.Colors.Path = colorsPath
		}
		if f.Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if f.Changed("log-format") {
			cfg.Logging.Format = logFormat
		}
		applyServeFlags(cmd)

		if err := cfg.Validate(); err != nil {
			return err
		}

		collector = metrics.NewCollector(cfg.Colors.Path)

		switch cfg.Logging.Format {
		case "json":
			logOutput = os.Stdout
		default:
			logOutput = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		}
		// Everything logged is also kept for /api/logs.
		logger = zerolog.New(zerolog.MultiLevelWriter(logOutput, metrics.NewLogWriter(collector))).
			With().Timestamp().Logger()

		// Validate has already rejected unknown levels.
		level, _ := zerolog.ParseLevel(cfg.Logging.Level)
		logger = logger.Level(level)

		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()

	f.StringVar(&configPath, "config", "", "Path to config.toml (default: ~/.colorserve/config.toml, /etc/colorserve/config.toml)")
	f.StringVar(&colorsPath, "colors", appconfig.DefaultColorsPath, "Path to the colors JSON document")

	// Logging flags.
	f.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
}
