package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jfoltran/colorserve/internal/client"
	"github.com/jfoltran/colorserve/internal/tui"
)

var paletteInterval time.Duration

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Launch terminal palette viewer",
	Long: `Palette starts a Bubble Tea terminal viewer that polls /api/colors of a
running colorserve instance and renders every hex value as a swatch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := resolveAPIAddr()
		logger.Debug().Str("api", addr).Msg("starting palette viewer")
		return tui.Run(client.New(addr), addr, paletteInterval)
	},
}

func init() {
	paletteCmd.Flags().DurationVar(&paletteInterval, "interval", time.Second, "Poll interval")
	rootCmd.AddCommand(paletteCmd)
}
