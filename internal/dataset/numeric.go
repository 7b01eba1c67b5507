package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a cell to a float. Blank cells, NA markers and text
// that is not a number report ok=false. Thousands separators are accepted;
// when both ',' and '.' appear the later one is taken as the decimal mark.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if raw == "" || isMissingMarker(raw) {
		return 0, false
	}
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	if cpos >= 0 && dpos >= 0 {
		if cpos > dpos {
			dec = ','
		}
	} else if cpos >= 0 && !groupedThousands(raw) {
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsMissing reports whether a cell is blank or an NA marker such as "NA",
// "n/a" or "-". Such cells never count toward a column's type or mean.
func IsMissing(s string) bool {
	v := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	return v == "" || isMissingMarker(v)
}

func isMissingMarker(s string) bool {
	switch strings.ToLower(s) {
	case "na", "n/a", "nan", "null", "none", "-", "--":
		return true
	}
	return false
}

// groupedThousands reports whether a comma-only value such as "1,100" or
// "12,345,678" uses commas as digit grouping rather than a decimal mark.
func groupedThousands(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// isNumericColumn applies the predominant-type rule: a column is numeric when
// cells that parse are not outnumbered by non-blank cells that fail to parse.
// A column with no values at all counts as numeric.
func isNumericColumn(vals []string) bool {
	var num, text int
	for _, v := range vals {
		if IsMissing(v) {
			continue
		}
		if _, ok := ParseNumber(v); ok {
			num++
		} else {
			text++
		}
	}
	return num >= text
}
