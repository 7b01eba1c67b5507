package dataset

import "strings"

// YearKey is the exact column name preferred as the temporal key.
const YearKey = "year"

// ResolveYearColumn locates the temporal key of a normalized rainfall table.
// A column named exactly "year" wins; otherwise the first column, in table
// order, whose name contains "year" is returned. Matching is case-sensitive,
// so headers must already be lowercased.
func ResolveYearColumn(t Table) (string, error) {
	cols := t.Columns()
	for _, c := range cols {
		if c == YearKey {
			return c, nil
		}
	}
	for _, c := range cols {
		if strings.Contains(c, YearKey) {
			return c, nil
		}
	}
	return "", &SchemaError{Table: t.Name(), Reason: `no column name contains "year"`}
}
