package cmd

import (
	"fmt"

	"github.com/KaramelBytes/samarth/internal/analysis"
	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/utils"
	"github.com/spf13/cobra"
)

var (
	profOutputPath string
	profSampleRows int
	profOutliers   bool
	profOutlierThr float64
)

var profileCmd = &cobra.Command{
	Use:       "profile <rainfall|crops>",
	Short:     "Profile a dataset: column kinds, missing values, numeric stats",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"rainfall", "crops"},
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		var t dataset.Table
		switch args[0] {
		case "rainfall":
			t = snap.Rainfall
		case "crops":
			t = snap.Crops
		default:
			return fmt.Errorf("unknown dataset: %s (use rainfall or crops)", args[0])
		}

		opt := analysis.DefaultOptions()
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = profSampleRows
		}
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = profOutliers
		}
		if profOutlierThr > 0 {
			opt.OutlierThreshold = profOutlierThr
		}
		rep, err := analysis.Profile(t, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()

		out := cmd.OutOrStdout()
		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			printOK(out, "Wrote profile to %s", profOutputPath)
			return nil
		}
		fmt.Fprintln(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 5, "number of sample rows to include")
	profileCmd.Flags().BoolVar(&profOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	profileCmd.Flags().Float64Var(&profOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
