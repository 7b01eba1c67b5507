package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRainfallPath, c.RainfallPath)
	assert.Equal(t, DefaultCropsPath, c.CropsPath)
	assert.Equal(t, "2023–24", c.PeriodLabel)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 10, c.ShutdownTimeoutSec)
	assert.Equal(t, 10.0, c.ChartWidthIn)
	assert.Equal(t, dataset.DefaultCropRenames(), c.CropRenames)

	d, err := c.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, rune(0), d)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "samarth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crops_path: from-file.csv\nhttp_addr: \":9000\"\n"), 0o644))
	t.Setenv("SAMARTH_HTTP_ADDR", ":9100")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.csv", c.CropsPath)
	assert.Equal(t, ":9100", c.HTTPAddr)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveThenLoad_RoundTripsRenames(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.yaml")

	c, err := Load("")
	require.NoError(t, err)
	c.Delimiter = ";"
	c.CropRenames = []dataset.Rename{{From: "Output (LT)", To: dataset.ProductionColumn}}
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.CropRenames, got.CropRenames)

	src, err := got.Sources()
	require.NoError(t, err)
	assert.Equal(t, ';', src.Delimiter)
}

func TestDelimiterRune(t *testing.T) {
	cases := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{",", ',', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{"::", 0, true},
	}
	for _, c := range cases {
		got, err := (&Global{Delimiter: c.in}).DelimiterRune()
		if c.wantErr {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}
