// Package snapshot holds the read-only data context shared by every consumer:
// the normalized rainfall and crop tables, loaded at most once per process.
package snapshot

import (
	"fmt"
	"sync"
	"time"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Snapshot is an immutable view of both datasets after normalization.
// It is safe for concurrent use.
type Snapshot struct {
	ID         string
	LoadedAt   time.Time
	Rainfall   dataset.Table
	Crops      dataset.Table
	YearColumn string
}

// Options configures how a Store builds its snapshot.
type Options struct {
	Sources     dataset.Sources
	CropRenames []dataset.Rename
	Logger      logrus.FieldLogger
	// OnLoad, when set, is called once after a load attempt with its outcome.
	OnLoad func(s *Snapshot, elapsed time.Duration, err error)
}

// Store lazily builds a Snapshot on first use and returns the same result,
// snapshot or error, on every later call.
type Store struct {
	opt  Options
	once sync.Once
	snap *Snapshot
	err  error
}

// NewStore constructs a Store. Nothing is read until Get is called.
func NewStore(opt Options) *Store {
	if opt.CropRenames == nil {
		opt.CropRenames = dataset.DefaultCropRenames()
	}
	if opt.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opt.Logger = l
	}
	return &Store{opt: opt}
}

// Get returns the snapshot, loading it on the first call.
func (s *Store) Get() (*Snapshot, error) {
	s.once.Do(func() {
		start := time.Now()
		s.snap, s.err = Build(s.opt.Sources, s.opt.CropRenames)
		elapsed := time.Since(start)
		if s.err != nil {
			s.opt.Logger.WithError(s.err).Error("dataset load failed")
		} else {
			s.opt.Logger.WithFields(logrus.Fields{
				"snapshot":      s.snap.ID,
				"rainfall_rows": s.snap.Rainfall.Len(),
				"crop_rows":     s.snap.Crops.Len(),
				"year_column":   s.snap.YearColumn,
				"elapsed":       elapsed,
			}).Info("datasets loaded")
		}
		if s.opt.OnLoad != nil {
			s.opt.OnLoad(s.snap, elapsed, s.err)
		}
	})
	return s.snap, s.err
}

// Build reads and normalizes both tables and validates their required columns.
func Build(src dataset.Sources, renames []dataset.Rename) (*Snapshot, error) {
	rawRain, rawCrops, err := dataset.Load(src)
	if err != nil {
		return nil, err
	}
	rain, err := dataset.NormalizeRainfall(rawRain)
	if err != nil {
		return nil, fmt.Errorf("normalize rainfall: %w", err)
	}
	crops, err := dataset.NormalizeCrops(rawCrops, renames)
	if err != nil {
		return nil, fmt.Errorf("normalize crops: %w", err)
	}
	yearCol, err := dataset.ResolveYearColumn(rain)
	if err != nil {
		return nil, err
	}
	if !crops.HasColumn(dataset.CropColumn) {
		return nil, &dataset.SchemaError{Table: crops.Name(), Column: dataset.CropColumn, Reason: "column not found"}
	}
	return &Snapshot{
		ID:         uuid.NewString(),
		LoadedAt:   time.Now(),
		Rainfall:   rain,
		Crops:      crops,
		YearColumn: yearCol,
	}, nil
}

// RainfallByYear recomputes the per-year means from the rainfall table.
func (s *Snapshot) RainfallByYear() (*dataset.YearlyRainfall, error) {
	return dataset.AggregateByYear(s.Rainfall, s.YearColumn)
}

// CropNames lists the distinct crops available for selection.
func (s *Snapshot) CropNames() ([]string, error) {
	return dataset.CropNames(s.Crops)
}

// Crop returns the rows matching name; the selection may be empty.
func (s *Snapshot) Crop(name string) (dataset.Selection, error) {
	return dataset.SelectCrop(s.Crops, name)
}
