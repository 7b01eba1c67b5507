package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func yearly() *dataset.YearlyRainfall {
	return &dataset.YearlyRainfall{
		YearColumn: "year",
		Measures:   []string{"annual", "jan"},
		Rows: []dataset.YearRow{
			{Year: "1901", Values: []float64{1000, 10.556}},
			{Year: "1902", Values: []float64{1100.5, math.NaN()}},
		},
	}
}

func TestWriteYearly(t *testing.T) {
	var buf bytes.Buffer
	WriteYearly(&buf, yearly())
	out := buf.String()

	assert.Contains(t, out, "year")
	assert.Contains(t, out, "annual")
	assert.Contains(t, out, "1100.50")
	assert.Contains(t, out, "10.56")
	assert.NotContains(t, out, "NaN")
}

func TestWriteTable_KeepsHeaderCase(t *testing.T) {
	tbl, err := dataset.NewTable("crops", []string{"Crop", "Yield (kg/ha)"}, [][]string{{"Wheat", "3200.5"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteTable(&buf, tbl)
	assert.Contains(t, buf.String(), "Yield (kg/ha)")
	assert.Contains(t, buf.String(), "Wheat")
}

func TestRainfallChart_PNG(t *testing.T) {
	png, err := RainfallChart(yearly(), ChartOptions{Title: "Rainfall Trends (1901–1902)", WidthIn: 4, HeightIn: 3})
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), png[:8])
}

func TestRainfallChart_NoData(t *testing.T) {
	empty := &dataset.YearlyRainfall{YearColumn: "year", Measures: []string{"annual"}}

	_, err := RainfallChart(empty, DefaultChartOptions())
	assert.True(t, errors.Is(err, ErrNoChartData))
}

func TestWorkbook_Sheets(t *testing.T) {
	ov, err := dataset.NewTable("crops",
		[]string{dataset.CropColumn, dataset.ProductionColumn, dataset.YieldColumn},
		[][]string{{"Wheat", "1100.25", "3200.5"}})
	require.NoError(t, err)

	b, err := Workbook(Report{
		Title:    "Wheat",
		Overview: ov,
		Rainfall: yearly(),
		Insights: []string{"Wheat had a total production of 1,100.25 Lakh Tons in 2023–24."},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{CropSheet, RainfallSheet, InsightsSheet}, f.GetSheetList())

	v, err := f.GetCellValue(CropSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1100.25", v)

	v, err = f.GetCellValue(RainfallSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "1902", v)

	v, err = f.GetCellValue(InsightsSheet, "A1")
	require.NoError(t, err)
	assert.Contains(t, v, "1,100.25 Lakh Tons")
}
