package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const rainfallCSV = `SUBDIVISION,YEAR,JAN,ANNUAL
A,1901,10,100
B,1901,20,200
A,1902,,150
B,1902,30,
`

const cropsCSV = `Crop,Production (Lakh Tons) - 2023-24,Productivity (Yield in kg/ha) - 2023-24
Wheat,1100.25,3200.5
Rice,1378.25,2882
`

// resetFlags clears values and Changed state left behind by a previous run.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args against isolated HOME and
// dataset fixtures, returning what the command printed.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// fixtures isolates HOME and writes both datasets, returning the data flags.
func fixtures(t *testing.T) (home string, dataFlags []string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	rp := filepath.Join(home, "rain.csv")
	cp := filepath.Join(home, "crops.csv")
	require.NoError(t, os.WriteFile(rp, []byte(rainfallCSV), 0o644))
	require.NoError(t, os.WriteFile(cp, []byte(cropsCSV), 0o644))
	return home, []string{"--rainfall", rp, "--crops", cp}
}

func TestCLI_Crops(t *testing.T) {
	_, data := fixtures(t)

	out, err := runCmd(t, append([]string{"crops"}, data...)...)
	require.NoError(t, err)
	assert.Equal(t, "Rice\nWheat\n", out)

	out, err = runCmd(t, append([]string{"crops", "--json"}, data...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `["Rice","Wheat"]`, out)
}

func TestCLI_CropOverview(t *testing.T) {
	_, data := fixtures(t)

	out, err := runCmd(t, append([]string{"crop", "Wheat"}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Production (Lakh Tons)")
	assert.Contains(t, out, "Yield (kg/ha)")
	assert.Contains(t, out, "1100.25")
	assert.NotContains(t, out, "Rice")
}

func TestCLI_UnknownCropFails(t *testing.T) {
	_, data := fixtures(t)

	_, err := runCmd(t, append([]string{"crop", "wheat"}, data...)...)
	var sel *dataset.SelectionError
	require.True(t, errors.As(err, &sel), "got %v", err)
	assert.Equal(t, "wheat", sel.Crop)

	_, err = runCmd(t, append([]string{"insights", "Barley"}, data...)...)
	assert.True(t, errors.As(err, &sel), "got %v", err)
}

func TestCLI_RainfallWithChart(t *testing.T) {
	home, data := fixtures(t)
	png := filepath.Join(home, "charts", "rain.png")

	out, err := runCmd(t, append([]string{"rainfall", "--chart", png, "--width", "4", "--height", "3"}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1901")
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "Wrote chart to")

	b, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))

	// the chart flag must not leak into the next run
	out, err = runCmd(t, append([]string{"rainfall"}, data...)...)
	require.NoError(t, err)
	assert.NotContains(t, out, "Wrote chart")
}

func TestCLI_Insights(t *testing.T) {
	_, data := fixtures(t)

	out, err := runCmd(t, append([]string{"insights", "Wheat"}, data...)...)
	require.NoError(t, err)
	want := "- **Wheat** had a total production of **1,100.25 Lakh Tons** in 2023–24.\n" +
		"- Its **average productivity** was **3,200.50 kg/ha**.\n" +
		"- Historical rainfall patterns from **1901 to 1902** show long-term variations that can affect crop yields.\n"
	assert.Equal(t, want, out)

	out, err = runCmd(t, append([]string{"insights", "Rice", "--plain"}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- Rice had a total production of 1,378.25 Lakh Tons in 2023–24.")
}

func TestCLI_Profile(t *testing.T) {
	home, data := fixtures(t)

	out, err := runCmd(t, append([]string{"profile", "rainfall"}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "[SCHEMA]")
	assert.Contains(t, out, "- year: numeric")

	dst := filepath.Join(home, "crops.md")
	_, err = runCmd(t, append([]string{"profile", "crops", "-o", dst}, data...)...)
	require.NoError(t, err)
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Rows: 2")

	_, err = runCmd(t, append([]string{"profile", "weather"}, data...)...)
	assert.Error(t, err)
}

func TestCLI_ExportWorkbook(t *testing.T) {
	home, data := fixtures(t)
	dst := filepath.Join(home, "wheat.xlsx")

	out, err := runCmd(t, append([]string{"export", "Wheat", "-o", dst}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported Wheat")

	f, err := excelize.OpenFile(dst)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Crop", "Rainfall", "Insights"}, f.GetSheetList())
	v, err := f.GetCellValue("Insights", "A3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(v, "Historical rainfall patterns from 1901 to 1902"), v)

	_, err = runCmd(t, append([]string{"export", "Wheat", "-o", filepath.Join(home, "wheat.csv")}, data...)...)
	assert.Error(t, err)
}

func TestCLI_MissingDatasetIsFileAccessError(t *testing.T) {
	home, _ := fixtures(t)

	_, err := runCmd(t, "crops", "--rainfall", filepath.Join(home, "nope.csv"), "--crops", filepath.Join(home, "crops.csv"))
	var fa *dataset.FileAccessError
	require.True(t, errors.As(err, &fa), "got %v", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCLI_DelimiterFlag(t *testing.T) {
	home, _ := fixtures(t)
	rp := filepath.Join(home, "rain.txt")
	cp := filepath.Join(home, "crops.txt")
	require.NoError(t, os.WriteFile(rp, []byte(strings.ReplaceAll(rainfallCSV, ",", ";")), 0o644))
	require.NoError(t, os.WriteFile(cp, []byte("Crop;Production (Lakh Tons);Yield (kg/ha)\nMaize;376.65;3349\n"), 0o644))

	out, err := runCmd(t, "crops", "--rainfall", rp, "--crops", cp, "--delimiter", ";")
	require.NoError(t, err)
	assert.Equal(t, "Maize\n", out)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, _ := fixtures(t)
	cfgPath := filepath.Join(home, "samarth.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("http_addr: \":8080\"\n"), 0o644))

	_, err := runCmd(t, "--config", cfgPath, "config", "set", "http_addr", ":9090")
	require.NoError(t, err)
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "crop_renames", "Output=Production (Lakh Tons)")
	require.NoError(t, err)

	out, err := runCmd(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "http_addr: :9090")
	assert.Contains(t, out, `"Output" -> "Production (Lakh Tons)"`)

	_, err = runCmd(t, "--config", cfgPath, "config", "set", "log_format", "xml")
	assert.Error(t, err)
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "nope", "1")
	assert.Error(t, err)
}

func TestParseRenames(t *testing.T) {
	got, err := parseRenames(" A = B ,C=D,")
	require.NoError(t, err)
	assert.Equal(t, []dataset.Rename{{From: "A", To: "B"}, {From: "C", To: "D"}}, got)

	_, err = parseRenames("A")
	assert.Error(t, err)
	_, err = parseRenames("")
	assert.Error(t, err)
}
