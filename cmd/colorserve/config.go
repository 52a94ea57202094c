package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
