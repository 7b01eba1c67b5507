package dataset

import "strings"

// Canonical crop table column names.
const (
	CropColumn       = "Crop"
	ProductionColumn = "Production (Lakh Tons)"
	YieldColumn      = "Yield (kg/ha)"
)

// Rename maps a verbose source header to its canonical name.
type Rename struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// DefaultCropRenames returns the header mapping for the 2023-24 crop release.
// Both productivity spellings seen in the published files are accepted.
func DefaultCropRenames() []Rename {
	return []Rename{
		{From: "Crop", To: CropColumn},
		{From: "Production (Lakh Tons) - 2023-24", To: ProductionColumn},
		{From: "Productivity (Yield in kg/ha) - 2023-24", To: YieldColumn},
		{From: "Yield (kg/ha) - 2023-24", To: YieldColumn},
	}
}

// NormalizeOptions controls header normalization.
type NormalizeOptions struct {
	Lowercase bool
	Renames   []Rename
}

// Normalize trims every column name, optionally lowercases it, then applies
// the rename list. Renames are matched against the trimmed names and applied
// simultaneously, so one rename never feeds another. A rename whose source
// column is absent is ignored. Applying Normalize to its own output is a no-op
// as long as no rename target is also a rename source.
func Normalize(t Table, opt NormalizeOptions) (Table, error) {
	cols := t.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		n := strings.TrimSpace(c)
		if opt.Lowercase {
			n = strings.ToLower(n)
		}
		names[i] = n
	}
	for i, n := range names {
		for _, r := range opt.Renames {
			if strings.TrimSpace(r.From) == n {
				names[i] = r.To
				break
			}
		}
	}
	if sameNames(cols, names) {
		return t, nil
	}
	return t.rename(names)
}

// NormalizeRainfall trims and lowercases every rainfall header.
func NormalizeRainfall(t Table) (Table, error) {
	return Normalize(t, NormalizeOptions{Lowercase: true})
}

// NormalizeCrops trims crop headers, keeping case, and applies renames.
func NormalizeCrops(t Table, renames []Rename) (Table, error) {
	return Normalize(t, NormalizeOptions{Renames: renames})
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
