package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfoltran/colorserve/internal/client"
)

var apiAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show request counters of a running server",
	Long:  `Status queries /api/status of a running colorserve instance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(resolveAPIAddr())
		snap, err := c.Status(cmd.Context())
		if err != nil {
			fmt.Printf("No server reachable at %s. Is colorserve running?\n", c.BaseURL())
			fmt.Printf("  (error: %v)\n", err)
			return nil
		}

		fmt.Printf("Server:       %s\n", c.BaseURL())
		fmt.Printf("Colors file:  %s\n", snap.ColorsPath)
		fmt.Printf("Uptime:       %s\n", time.Duration(snap.UptimeSec*float64(time.Second)).Truncate(time.Second))
		fmt.Printf("Requests:     %d (%.1f/s)\n", snap.Requests, snap.RequestsSec)
		fmt.Printf("Served:       %d\n", snap.Served)
		fmt.Printf("Failed:       %d\n", snap.Failed)
		if snap.Limited > 0 {
			fmt.Printf("Rate limited: %d\n", snap.Limited)
		}
		fmt.Printf("WS clients:   %d\n", snap.WSClients)
		if snap.LastServed != nil {
			fmt.Printf("Last served:  %s ago\n", time.Since(*snap.LastServed).Truncate(time.Second))
		}
		if snap.LastError != "" {
			fmt.Printf("Last error:   %s\n", snap.LastError)
		}

		// Probe the document itself so a broken file is obvious.
		if _, err := c.Colors(cmd.Context()); err != nil {
			fmt.Printf("\nColors:       unavailable (%v)\n", err)
		} else {
			fmt.Printf("\nColors:       ok\n")
		}
		return nil
	},
}

// resolveAPIAddr returns --api-addr or the address serve would bind to.
func resolveAPIAddr() string {
	if apiAddr != "" {
		return apiAddr
	}
	return "http://" + cfg.Addr()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", "", "Address of a running colorserve API (default: derived from config)")
	rootCmd.AddCommand(statusCmd)
}
