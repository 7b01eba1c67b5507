// Package insight derives the headline figures shown next to the chart and
// renders them as short summary text.
package insight

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/snapshot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultPeriod labels the reporting period of the crop figures.
const DefaultPeriod = "2023–24"

// Summary collects the numbers behind the insights text.
type Summary struct {
	Crop       string  `json:"crop"`
	Production float64 `json:"production_lakh_tons"`
	Yield      float64 `json:"yield_kg_per_ha"`
	Period     string  `json:"period"`
	// FirstYear and LastYear bound the rainfall record; empty without rainfall rows.
	FirstYear string `json:"first_year,omitempty"`
	LastYear  string `json:"last_year,omitempty"`
}

// New combines the figures of one crop with the span of the rainfall record.
func New(fig dataset.CropFigures, rain *dataset.YearlyRainfall, period string) Summary {
	if period == "" {
		period = DefaultPeriod
	}
	s := Summary{Crop: fig.Crop, Production: fig.Production, Yield: fig.Yield, Period: period}
	if rain != nil {
		if first, last, ok := rain.Span(); ok {
			s.FirstYear, s.LastYear = first, last
		}
	}
	return s
}

// ForCrop builds the summary for a crop from a snapshot. An unknown crop
// fails with dataset.SelectionError.
func ForCrop(snap *snapshot.Snapshot, crop, period string) (Summary, error) {
	sel, err := snap.Crop(crop)
	if err != nil {
		return Summary{}, err
	}
	fig, err := sel.First()
	if err != nil {
		return Summary{}, err
	}
	rain, err := snap.RainfallByYear()
	if err != nil {
		return Summary{}, err
	}
	return New(fig, rain, period), nil
}

// HasRainfall reports whether a rainfall span is known.
func (s Summary) HasRainfall() bool { return s.FirstYear != "" }

// ProductionText renders production with thousands separators, e.g. "1,100.25 Lakh Tons".
func (s Summary) ProductionText() string { return FormatNumber(s.Production) + " Lakh Tons" }

// YieldText renders yield with thousands separators, e.g. "3,200.50 kg/ha".
func (s Summary) YieldText() string { return FormatNumber(s.Yield) + " kg/ha" }

// Lines returns the insights as plain sentences.
func (s Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("%s had a total production of %s in %s.", s.Crop, s.ProductionText(), s.Period),
		fmt.Sprintf("Its average productivity was %s.", s.YieldText()),
	}
	if s.HasRainfall() {
		lines = append(lines, fmt.Sprintf(
			"Historical rainfall patterns from %s to %s show long-term variations that can affect crop yields.",
			s.FirstYear, s.LastYear))
	}
	return lines
}

var markdownTmpl = template.Must(template.New("insights").Funcs(template.FuncMap{
	"num": FormatNumber,
}).Parse(`- **{{.Crop}}** had a total production of **{{num .Production}} Lakh Tons** in {{.Period}}.
- Its **average productivity** was **{{num .Yield}} kg/ha**.
{{- if .HasRainfall}}
- Historical rainfall patterns from **{{.FirstYear}} to {{.LastYear}}** show long-term variations that can affect crop yields.
{{- end}}
`))

// Markdown renders the insights as a Markdown bullet list.
func (s Summary) Markdown() (string, error) {
	var b strings.Builder
	if err := markdownTmpl.Execute(&b, s); err != nil {
		return "", fmt.Errorf("render insights: %w", err)
	}
	return b.String(), nil
}

var printer = message.NewPrinter(language.English)

// FormatNumber renders v with comma thousands separators and two decimals.
func FormatNumber(v float64) string {
	return printer.Sprintf("%.2f", v)
}
