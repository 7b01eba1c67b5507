package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Selection holds every crop row whose Crop value equals the requested name.
type Selection struct {
	Crop string
	Rows Table
}

// CropFigures are the headline numbers of one crop row.
type CropFigures struct {
	Crop       string  `json:"crop"`
	Production float64 `json:"production_lakh_tons"`
	Yield      float64 `json:"yield_kg_per_ha"`
}

// SelectCrop returns the rows whose Crop cell equals name exactly. Matching is
// case-sensitive and does not trim. No match yields an empty selection, not
// an error; use First to require a row.
func SelectCrop(t Table, name string) (Selection, error) {
	vals, err := t.Column(CropColumn)
	if err != nil {
		return Selection{}, err
	}
	var idx []int
	for i, v := range vals {
		if v == name {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		empty, err := NewTable(t.Name(), t.Columns(), nil)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Crop: name, Rows: empty}, nil
	}
	rows, err := fromFrame(t.Name(), t.df.Subset(idx))
	if err != nil {
		return Selection{}, fmt.Errorf("select crop %q: %w", name, err)
	}
	return Selection{Crop: name, Rows: rows}, nil
}

// Len returns the number of matching rows.
func (s Selection) Len() int { return s.Rows.Len() }

// Empty reports whether nothing matched.
func (s Selection) Empty() bool { return s.Rows.Len() == 0 }

// Overview narrows the selection to the Crop, production and yield columns.
func (s Selection) Overview() (Table, error) {
	return s.Rows.Select(CropColumn, ProductionColumn, YieldColumn)
}

// First parses the production and yield of the first matching row. It fails
// with SelectionError when nothing matched.
func (s Selection) First() (CropFigures, error) {
	if s.Empty() {
		return CropFigures{}, &SelectionError{Crop: s.Crop}
	}
	prod, err := s.firstNumber(ProductionColumn)
	if err != nil {
		return CropFigures{}, err
	}
	yield, err := s.firstNumber(YieldColumn)
	if err != nil {
		return CropFigures{}, err
	}
	return CropFigures{Crop: s.Crop, Production: prod, Yield: yield}, nil
}

func (s Selection) firstNumber(col string) (float64, error) {
	vals, err := s.Rows.Column(col)
	if err != nil {
		return 0, err
	}
	x, ok := ParseNumber(vals[0])
	if !ok {
		return 0, &ParseError{
			Path: s.Rows.Name(),
			Err:  fmt.Errorf("%s of %q is not a number: %q", col, s.Crop, vals[0]),
		}
	}
	return x, nil
}

// CropNames returns the distinct crop names in ascending order, skipping
// blank and NA cells.
func CropNames(t Table) ([]string, error) {
	vals, err := t.Column(CropColumn)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(vals))
	names := make([]string, 0, len(vals))
	for _, v := range vals {
		s := strings.TrimSpace(v)
		if s == "" || isMissingMarker(s) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		names = append(names, v)
	}
	sort.Strings(names)
	return names, nil
}
