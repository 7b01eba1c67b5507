package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// YearlyRainfall is the rainfall table collapsed to one row per year.
type YearlyRainfall struct {
	YearColumn string
	// Measures are the numeric columns that were averaged, in source order.
	Measures []string
	Rows     []YearRow
}

// YearRow holds the per-year means. Values align with Measures; a value is
// NaN when no cell of that column could be coerced for the year.
type YearRow struct {
	Year   string
	Values []float64
}

// AggregateByYear groups t by yearColumn and averages every other numeric
// column. Non-numeric columns are dropped. Rows with a blank year are skipped.
// Output rows are sorted ascending by year, numerically when every year parses
// as a number and lexically otherwise. A cell that cannot be coerced is left
// out of its own column's mean only.
func AggregateByYear(t Table, yearColumn string) (*YearlyRainfall, error) {
	years, err := t.Column(yearColumn)
	if err != nil {
		return nil, err
	}

	out := &YearlyRainfall{YearColumn: yearColumn}
	var measureVals [][]string
	for _, c := range t.Columns() {
		if c == yearColumn {
			continue
		}
		vals, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		if !isNumericColumn(vals) {
			continue
		}
		out.Measures = append(out.Measures, c)
		measureVals = append(measureVals, vals)
	}

	type acc struct {
		sum []float64
		cnt []int
	}
	groups := map[string]*acc{}
	var keys []string
	for i, y := range years {
		key, ok := yearKey(y)
		if !ok {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &acc{sum: make([]float64, len(out.Measures)), cnt: make([]int, len(out.Measures))}
			groups[key] = g
			keys = append(keys, key)
		}
		for j, vals := range measureVals {
			if x, ok := ParseNumber(vals[i]); ok {
				g.sum[j] += x
				g.cnt[j]++
			}
		}
	}

	sortYears(keys)
	out.Rows = make([]YearRow, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		row := YearRow{Year: k, Values: make([]float64, len(out.Measures))}
		for j := range out.Measures {
			if g.cnt[j] == 0 {
				row.Values[j] = math.NaN()
				continue
			}
			row.Values[j] = g.sum[j] / float64(g.cnt[j])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Columns returns the output column set: the year column, then the measures.
func (y *YearlyRainfall) Columns() []string {
	return append([]string{y.YearColumn}, y.Measures...)
}

// Len returns the number of years.
func (y *YearlyRainfall) Len() int { return len(y.Rows) }

// Value returns the mean of measure for the given year.
func (y *YearlyRainfall) Value(year, measure string) (float64, bool) {
	j := -1
	for i, m := range y.Measures {
		if m == measure {
			j = i
			break
		}
	}
	if j < 0 {
		return 0, false
	}
	for _, r := range y.Rows {
		if r.Year == year {
			return r.Values[j], !math.IsNaN(r.Values[j])
		}
	}
	return 0, false
}

// Span returns the first and last year, or ok=false when there are no rows.
func (y *YearlyRainfall) Span() (first, last string, ok bool) {
	if len(y.Rows) == 0 {
		return "", "", false
	}
	return y.Rows[0].Year, y.Rows[len(y.Rows)-1].Year, true
}

// Table renders the aggregate as a Table with rows indexed from zero.
func (y *YearlyRainfall) Table() (Table, error) {
	rows := make([][]string, len(y.Rows))
	for i, r := range y.Rows {
		rec := make([]string, 0, len(r.Values)+1)
		rec = append(rec, r.Year)
		for _, v := range r.Values {
			rec = append(rec, FormatValue(v))
		}
		rows[i] = rec
	}
	return NewTable(y.YearColumn+" means", y.Columns(), rows)
}

// FormatValue renders a mean with the shortest exact representation, or
// "NaN" when no value contributed.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yearKey(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || isMissingMarker(s) {
		return "", false
	}
	// 1901 and 1901.0 are the same year
	if f, ok := ParseNumber(s); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return s, true
}

func sortYears(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		f, ok := ParseNumber(k)
		if !ok {
			sort.Strings(keys)
			return
		}
		nums[k] = f
	}
	sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
}
