package render

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by Workbook.
const (
	CropSheet     = "Crop"
	RainfallSheet = "Rainfall"
	InsightsSheet = "Insights"
)

// Report is the content of an exported workbook.
type Report struct {
	Title    string
	Overview dataset.Table
	Rainfall *dataset.YearlyRainfall
	Insights []string
}

// Workbook writes the report as an .xlsx document and returns its bytes.
// Numeric cells are stored as numbers so spreadsheets can chart them.
func Workbook(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{Title: r.Title, Creator: "samarth"}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}
	if err := f.SetSheetName("Sheet1", CropSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRecords(f, CropSheet, r.Overview.Records()); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(RainfallSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if r.Rainfall != nil {
		rows := make([][]interface{}, 0, len(r.Rainfall.Rows)+1)
		rows = append(rows, toCells(r.Rainfall.Columns()))
		for _, yr := range r.Rainfall.Rows {
			row := make([]interface{}, 0, len(yr.Values)+1)
			row = append(row, numberOrText(yr.Year))
			for _, v := range yr.Values {
				if math.IsNaN(v) {
					row = append(row, nil)
					continue
				}
				row = append(row, v)
			}
			rows = append(rows, row)
		}
		if err := writeRows(f, RainfallSheet, rows); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(InsightsSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	lines := make([][]interface{}, len(r.Insights))
	for i, l := range r.Insights {
		lines[i] = []interface{}{l}
	}
	if err := writeRows(f, InsightsSheet, lines); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRecords(f *excelize.File, sheet string, recs [][]string) error {
	rows := make([][]interface{}, len(recs))
	for i, rec := range recs {
		if i == 0 {
			rows[i] = toCells(rec)
			continue
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = numberOrText(v)
		}
		rows[i] = row
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toCells(vals []string) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func numberOrText(s string) interface{} {
	if f, ok := dataset.ParseNumber(s); ok {
		return f
	}
	return s
}
