package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rainCSV  = " Year ,Region,Rainfall\n1901,A,100\n1901,B,200\n1902,A,150\n"
	cropsCSV = "Crop,Production (Lakh Tons) - 2023-24,Productivity (Yield in kg/ha) - 2023-24\n" +
		"Wheat,1100.25,3200.5\nRice,1378.25,2882\n"
)

func writeSources(t *testing.T, rain, crops string) dataset.Sources {
	t.Helper()
	dir := t.TempDir()
	rp := filepath.Join(dir, "rain.csv")
	cp := filepath.Join(dir, "crops.csv")
	require.NoError(t, os.WriteFile(rp, []byte(rain), 0o644))
	require.NoError(t, os.WriteFile(cp, []byte(crops), 0o644))
	return dataset.Sources{RainfallPath: rp, CropsPath: cp}
}

func TestStore_LoadsOnceAndCaches(t *testing.T) {
	src := writeSources(t, rainCSV, cropsCSV)
	var loads atomic.Int32
	store := snapshot.NewStore(snapshot.Options{
		Sources: src,
		OnLoad:  func(*snapshot.Snapshot, time.Duration, error) { loads.Add(1) },
	})

	var wg sync.WaitGroup
	snaps := make([]*snapshot.Snapshot, 8)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := store.Get()
			assert.NoError(t, err)
			snaps[i] = s
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, s := range snaps {
		assert.Same(t, snaps[0], s)
	}

	// the files are not read again
	require.NoError(t, os.Remove(src.RainfallPath))
	s, err := store.Get()
	require.NoError(t, err)
	assert.Same(t, snaps[0], s)
	assert.NotEmpty(t, s.ID)
}

func TestStore_NormalizesTables(t *testing.T) {
	store := snapshot.NewStore(snapshot.Options{Sources: writeSources(t, rainCSV, cropsCSV)})
	s, err := store.Get()
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "region", "rainfall"}, s.Rainfall.Columns())
	assert.Equal(t, "year", s.YearColumn)
	assert.Equal(t, []string{dataset.CropColumn, dataset.ProductionColumn, dataset.YieldColumn}, s.Crops.Columns())

	agg, err := s.RainfallByYear()
	require.NoError(t, err)
	require.Len(t, agg.Rows, 2)
	assert.Equal(t, []float64{150}, agg.Rows[0].Values)
	assert.Equal(t, []float64{150}, agg.Rows[1].Values)

	names, err := s.CropNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice", "Wheat"}, names)

	sel, err := s.Crop("Wheat")
	require.NoError(t, err)
	fig, err := sel.First()
	require.NoError(t, err)
	assert.Equal(t, 3200.5, fig.Yield)
}

func TestStore_CachesFailure(t *testing.T) {
	src := writeSources(t, "region,rainfall\nA,1\n", cropsCSV)
	var loads atomic.Int32
	store := snapshot.NewStore(snapshot.Options{
		Sources: src,
		OnLoad:  func(*snapshot.Snapshot, time.Duration, error) { loads.Add(1) },
	})

	_, err := store.Get()
	var se *dataset.SchemaError
	require.True(t, errors.As(err, &se))

	_, err2 := store.Get()
	assert.Equal(t, err, err2)
	assert.Equal(t, int32(1), loads.Load())
}

func TestBuild_RequiresCropColumn(t *testing.T) {
	src := writeSources(t, rainCSV, "Name,Production\nRice,1\n")

	_, err := snapshot.Build(src, dataset.DefaultCropRenames())
	var se *dataset.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, dataset.CropColumn, se.Column)
}
