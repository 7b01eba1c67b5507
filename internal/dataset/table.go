package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an immutable in-memory table. Every cell is kept as its raw text so
// numeric coercion can be decided per cell by the operation that needs it.
type Table struct {
	name string
	df   dataframe.DataFrame
}

// NewTable builds a table from a header and rows of equal width. A blank
// header cell is named column_N after its 1-based position.
func NewTable(name string, header []string, rows [][]string) (Table, error) {
	if len(header) == 0 {
		return Table{}, &ParseError{Path: name, Line: 1, Err: errors.New("missing header row")}
	}
	header = fillBlankNames(header)
	if dup, ok := firstDuplicate(header); ok {
		return Table{}, &ParseError{Path: name, Line: 1, Err: fmt.Errorf("duplicate column %q", dup)}
	}
	for i, row := range rows {
		if len(row) != len(header) {
			// header is line 1, so row i sits on line i+2
			return Table{}, &ParseError{
				Path: name,
				Line: i + 2,
				Err:  fmt.Errorf("expected %d fields, got %d", len(header), len(row)),
			}
		}
	}
	cols := make([]series.Series, len(header))
	for j, h := range header {
		vals := make([]string, len(rows))
		for i, row := range rows {
			vals[i] = row[j]
		}
		cols[j] = series.New(vals, series.String, h)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return Table{}, &ParseError{Path: name, Err: df.Err}
	}
	return Table{name: name, df: df}, nil
}

func fromFrame(name string, df dataframe.DataFrame) (Table, error) {
	if df.Err != nil {
		return Table{}, fmt.Errorf("%s: %w", name, df.Err)
	}
	return Table{name: name, df: df}, nil
}

// Name returns the source label (usually the file name) of the table.
func (t Table) Name() string { return t.name }

// Columns returns the column names in their existing order.
func (t Table) Columns() []string {
	if t.df.Ncol() == 0 {
		return nil
	}
	return t.df.Names()
}

// Len returns the number of data rows.
func (t Table) Len() int { return t.df.Nrow() }

// HasColumn reports whether a column with exactly this name exists.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the raw cell text of the named column.
func (t Table) Column(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, &SchemaError{Table: t.name, Column: name, Reason: "column not found"}
	}
	return t.df.Col(name).Records(), nil
}

// Records returns the header followed by every row.
func (t Table) Records() [][]string {
	if t.df.Ncol() == 0 {
		return nil
	}
	return t.df.Records()
}

// Rows returns every data row without the header.
func (t Table) Rows() [][]string {
	recs := t.Records()
	if len(recs) <= 1 {
		return nil
	}
	return recs[1:]
}

// Select returns a table holding only the named columns, in the given order.
func (t Table) Select(cols ...string) (Table, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return Table{}, &SchemaError{Table: t.name, Column: c, Reason: "column not found"}
		}
	}
	if t.Len() == 0 {
		return NewTable(t.name, cols, nil)
	}
	return fromFrame(t.name, t.df.Select(cols))
}

// Frame exposes the underlying dataframe for read-only use.
func (t Table) Frame() dataframe.DataFrame { return t.df }

// rename returns a copy of the table with new column names, positionally.
func (t Table) rename(names []string) (Table, error) {
	cur := t.Columns()
	if len(names) != len(cur) {
		return Table{}, fmt.Errorf("rename %s: %d names for %d columns", t.name, len(names), len(cur))
	}
	names = fillBlankNames(names)
	if dup, ok := firstDuplicate(names); ok {
		return Table{}, &SchemaError{Table: t.name, Column: dup, Reason: "two columns normalize to the same name"}
	}
	cols := make([]series.Series, len(cur))
	for i, c := range cur {
		s := t.df.Col(c)
		s.Name = names[i]
		cols[i] = s
	}
	return fromFrame(t.name, dataframe.New(cols...))
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return "", false
}

// fillBlankNames replaces blank names with column_N so the dataframe never
// invents its own. The placeholder is unchanged by trimming and lowercasing.
func fillBlankNames(names []string) []string {
	var out []string
	for i, n := range names {
		if strings.TrimSpace(n) != "" {
			continue
		}
		if out == nil {
			out = append([]string(nil), names...)
		}
		out[i] = fmt.Sprintf("column_%d", i+1)
	}
	if out == nil {
		return names
	}
	return out
}
