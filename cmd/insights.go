package cmd

import (
	"fmt"

	"github.com/KaramelBytes/samarth/internal/insight"
	"github.com/spf13/cobra"
)

var insightsPlain bool

var insightsCmd = &cobra.Command{
	Use:   "insights <crop>",
	Short: "Summarize a crop's production, yield and the rainfall record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		sum, err := insight.ForCrop(snap, args[0], periodLabel())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if insightsPlain {
			for _, l := range sum.Lines() {
				fmt.Fprintf(out, "- %s\n", l)
			}
			return nil
		}
		md, err := sum.Markdown()
		if err != nil {
			return err
		}
		fmt.Fprint(out, md)
		return nil
	},
}

func periodLabel() string {
	if cfg != nil && cfg.PeriodLabel != "" {
		return cfg.PeriodLabel
	}
	return insight.DefaultPeriod
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().BoolVar(&insightsPlain, "plain", false, "print plain sentences instead of Markdown")
}
