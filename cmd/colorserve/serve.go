package main

import (
	"github.com/spf13/cobra"

	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/server"
)

var (
	serveListen string
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and API server",
	Long: `Serve starts the HTTP server. The colors document is read from disk
on every request to /api/colors; edits to the file are visible immediately
and pushed to connected browsers over /api/colors/ws.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := colors.NewSource(cfg.Colors.Path)

		// Surface a bad backing file at startup; requests still re-read it.
		if _, err := source.Load(cmd.Context()); err != nil {
			logger.Warn().Err(err).Msg("colors document is not readable yet")
		}

		srv := server.New(cfg, source, collector, logger)
		return srv.Start(cmd.Context())
	},
}

// applyServeFlags copies explicitly set serve flags over the loaded config.
func applyServeFlags(cmd *cobra.Command) {
	if cmd != serveCmd {
		return
	}
	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = serveListen
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "127.0.0.1", "HTTP listen address")
	serveCmd.Flags().IntVar(&servePort, "port", 7654, "HTTP server port")
	rootCmd.AddCommand(serveCmd)
}
