package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/report"
)

var (
	inspectStyle string
	inspectWidth int
	inspectRaw   bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a report of the local colors document",
	Long: `Inspect reads the colors document straight from disk, the same way the
server does, and prints every value as a markdown table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := colors.NewSource(cfg.Colors.Path)
		doc, err := source.Load(cmd.Context())
		if err != nil {
			return err
		}
		entries, err := doc.Flatten()
		if err != nil {
			return err
		}

		md := report.Markdown(source.Path(), entries)
		if inspectRaw {
			fmt.Print(md)
			return nil
		}

		style := inspectStyle
		if style == "" {
			style = report.StyleFor(cfg.App.ColorMode.Preference)
		}
		out, err := report.Render(md, style, inspectWidth)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectStyle, "style", "", "Glamour style (dark, light, notty, auto; default: from color mode)")
	inspectCmd.Flags().IntVar(&inspectWidth, "width", 100, "Word wrap width")
	inspectCmd.Flags().BoolVar(&inspectRaw, "raw", false, "Print markdown without rendering")
	rootCmd.AddCommand(inspectCmd)
}
