// Package render turns tables and aggregates into terminal grids, PNG charts
// and spreadsheet workbooks.
package render

import (
	"io"
	"math"
	"strconv"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/olekukonko/tablewriter"
)

// WriteTable renders every row of t as a grid.
func WriteTable(w io.Writer, t dataset.Table) {
	tw := newGrid(w, t.Columns())
	tw.AppendBulk(t.Rows())
	tw.Render()
}

// WriteYearly renders per-year means rounded to two decimals. Years without
// data for a measure are left blank.
func WriteYearly(w io.Writer, y *dataset.YearlyRainfall) {
	tw := newGrid(w, y.Columns())
	for _, r := range y.Rows {
		rec := make([]string, 0, len(r.Values)+1)
		rec = append(rec, r.Year)
		for _, v := range r.Values {
			rec = append(rec, roundCell(v))
		}
		tw.Append(rec)
	}
	tw.Render()
}

func newGrid(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	return tw
}

func roundCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
