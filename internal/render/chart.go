package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoChartData is returned when no measure has a single plottable point.
var ErrNoChartData = errors.New("no rainfall values to chart")

// ChartOptions sizes and labels the rainfall chart. Sizes are in inches.
type ChartOptions struct {
	Title    string
	WidthIn  float64
	HeightIn float64
}

// DefaultChartOptions returns the dashboard's chart settings.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Title: "Rainfall Trends", WidthIn: 10, HeightIn: 4}
}

// RainfallChart draws one line per measure against the year and returns PNG
// bytes. Years are placed on a numeric axis when they all parse as numbers,
// otherwise at their row position.
func RainfallChart(y *dataset.YearlyRainfall, opt ChartOptions) ([]byte, error) {
	def := DefaultChartOptions()
	if opt.WidthIn <= 0 {
		opt.WidthIn = def.WidthIn
	}
	if opt.HeightIn <= 0 {
		opt.HeightIn = def.HeightIn
	}

	xs := make([]float64, len(y.Rows))
	numericYears := true
	for i, r := range y.Rows {
		f, ok := dataset.ParseNumber(r.Year)
		if !ok {
			numericYears = false
			break
		}
		xs[i] = f
	}
	if !numericYears {
		for i := range xs {
			xs[i] = float64(i)
		}
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = y.YearColumn
	p.Y.Label.Text = "mean rainfall"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	lines := 0
	for j, m := range y.Measures {
		pts := make(plotter.XYs, 0, len(y.Rows))
		for i, r := range y.Rows {
			if math.IsNaN(r.Values[j]) {
				continue
			}
			pts = append(pts, plotter.XY{X: xs[i], Y: r.Values[j]})
		}
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", m, err)
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = plotutil.Color(j)
		p.Add(l)
		p.Legend.Add(m, l)
		lines++
	}
	if lines == 0 {
		return nil, ErrNoChartData
	}

	wt, err := p.WriterTo(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
