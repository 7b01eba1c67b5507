package cmd

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/samarth/internal/insight"
	"github.com/KaramelBytes/samarth/internal/render"
	"github.com/KaramelBytes/samarth/internal/utils"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <crop>",
	Short: "Write a crop's figures, the yearly rainfall and the insights to an .xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutput == "" {
			return errors.New("--output is required")
		}
		if !strings.EqualFold(filepath.Ext(exportOutput), ".xlsx") {
			return errors.New("--output must end in .xlsx")
		}
		crop := args[0]
		ov, err := cropOverview(crop)
		if err != nil {
			return err
		}
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		yr, err := snap.RainfallByYear()
		if err != nil {
			return err
		}
		sum, err := insight.ForCrop(snap, crop, periodLabel())
		if err != nil {
			return err
		}
		b, err := render.Workbook(render.Report{
			Title:    crop,
			Overview: ov,
			Rainfall: yr,
			Insights: sum.Lines(),
		})
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(exportOutput, b); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "Exported %s to %s", crop, exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "path of the .xlsx file to write")
}
