package cmd

import (
	"fmt"

	"github.com/KaramelBytes/samarth/internal/render"
	"github.com/KaramelBytes/samarth/internal/utils"
	"github.com/spf13/cobra"
)

var (
	rainChartPath string
	rainChartW    float64
	rainChartH    float64
)

var rainfallCmd = &cobra.Command{
	Use:   "rainfall",
	Short: "Average rainfall per year across all subdivisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		yr, err := snap.RainfallByYear()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		render.WriteYearly(out, yr)

		if rainChartPath == "" {
			return nil
		}
		opt := chartOptions()
		if cmd.Flags().Changed("width") {
			opt.WidthIn = rainChartW
		}
		if cmd.Flags().Changed("height") {
			opt.HeightIn = rainChartH
		}
		if first, last, ok := yr.Span(); ok {
			opt.Title = fmt.Sprintf("%s (%s–%s)", opt.Title, first, last)
		}
		png, err := render.RainfallChart(yr, opt)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(rainChartPath, png); err != nil {
			return err
		}
		printOK(out, "Wrote chart to %s", rainChartPath)
		return nil
	},
}

// chartOptions applies the configured chart size to the defaults.
func chartOptions() render.ChartOptions {
	opt := render.DefaultChartOptions()
	if cfg != nil {
		if cfg.ChartWidthIn > 0 {
			opt.WidthIn = cfg.ChartWidthIn
		}
		if cfg.ChartHeightIn > 0 {
			opt.HeightIn = cfg.ChartHeightIn
		}
	}
	return opt
}

func init() {
	rootCmd.AddCommand(rainfallCmd)
	rainfallCmd.Flags().StringVar(&rainChartPath, "chart", "", "also write a PNG line chart to this path")
	rainfallCmd.Flags().Float64Var(&rainChartW, "width", 0, "chart width in inches (overrides config)")
	rainfallCmd.Flags().Float64Var(&rainChartH, "height", 0, "chart height in inches (overrides config)")
}
