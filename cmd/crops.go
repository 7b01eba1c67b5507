package cmd

import (
	"fmt"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/render"
	"github.com/KaramelBytes/samarth/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cropsJSON bool
	cropJSON  bool
)

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "List the crops available for selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		names, err := snap.CropNames()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cropsJSON {
			if names == nil {
				names = []string{}
			}
			b, err := utils.PrettyJSON(names)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	},
}

var cropCmd = &cobra.Command{
	Use:   "crop <name>",
	Short: "Show production and yield for one crop",
	Long:  "Show the Crop, Production (Lakh Tons) and Yield (kg/ha) of every row whose crop name matches exactly (case-sensitive).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ov, err := cropOverview(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cropJSON {
			b, err := utils.PrettyJSON(map[string]any{"crop": args[0], "columns": ov.Columns(), "rows": ov.Rows()})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		render.WriteTable(out, ov)
		return nil
	},
}

// cropOverview selects name and fails with dataset.SelectionError when no
// row matches.
func cropOverview(name string) (dataset.Table, error) {
	snap, err := loadSnapshot()
	if err != nil {
		return dataset.Table{}, err
	}
	sel, err := snap.Crop(name)
	if err != nil {
		return dataset.Table{}, err
	}
	if sel.Empty() {
		return dataset.Table{}, &dataset.SelectionError{Crop: name}
	}
	return sel.Overview()
}

func init() {
	rootCmd.AddCommand(cropsCmd)
	rootCmd.AddCommand(cropCmd)
	cropsCmd.Flags().BoolVar(&cropsJSON, "json", false, "print the names as a JSON array")
	cropCmd.Flags().BoolVar(&cropJSON, "json", false, "print the rows as JSON")
}
