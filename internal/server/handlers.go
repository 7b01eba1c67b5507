package server

import (
	"math"
	"net/http"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/insight"
	"github.com/KaramelBytes/samarth/internal/render"
	"github.com/gorilla/mux"
)

type cropsResponse struct {
	Crops []string `json:"crops"`
}

type tableResponse struct {
	Crop    string     `json:"crop"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type rainfallRow struct {
	Year   string              `json:"year"`
	Values map[string]*float64 `json:"values"`
}

type rainfallResponse struct {
	YearColumn string        `json:"year_column"`
	Measures   []string      `json:"measures"`
	Rows       []rainfallRow `json:"rows"`
}

type insightsResponse struct {
	insight.Summary
	Lines    []string `json:"lines"`
	Markdown string   `json:"markdown"`
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := snap.CropNames()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, cropsResponse{Crops: names})
}

func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ov, err := s.overview(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Crop: name, Columns: ov.Columns(), Rows: ov.Rows()})
}

// overview returns the crop's canonical columns, failing with
// dataset.SelectionError when no row matches.
func (s *Server) overview(name string) (dataset.Table, error) {
	snap, err := s.store.Get()
	if err != nil {
		return dataset.Table{}, err
	}
	sel, err := snap.Crop(name)
	if err != nil {
		return dataset.Table{}, err
	}
	if sel.Empty() {
		return dataset.Table{}, &dataset.SelectionError{Crop: name}
	}
	return sel.Overview()
}

func (s *Server) handleRainfall(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	yr, err := snap.RainfallByYear()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := rainfallResponse{YearColumn: yr.YearColumn, Measures: yr.Measures, Rows: make([]rainfallRow, 0, yr.Len())}
	if resp.Measures == nil {
		resp.Measures = []string{}
	}
	for _, row := range yr.Rows {
		vals := make(map[string]*float64, len(yr.Measures))
		for j, m := range yr.Measures {
			if math.IsNaN(row.Values[j]) {
				vals[m] = nil
				continue
			}
			v := row.Values[j]
			vals[m] = &v
		}
		resp.Rows = append(resp.Rows, rainfallRow{Year: row.Year, Values: vals})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	snap, err := s.store.Get()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := insight.ForCrop(snap, name, s.period)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	md, err := sum.Markdown()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse{Summary: sum, Lines: sum.Lines(), Markdown: md})
}

func (s *Server) handleRainfallChart(w http.ResponseWriter, r *http.Request) {
	png, err := s.rainfallChart()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png) //nolint:errcheck // client went away
}

// rainfallChart renders the chart once per snapshot and serves it from cache
// afterwards.
func (s *Server) rainfallChart() ([]byte, error) {
	snap, err := s.store.Get()
	if err != nil {
		return nil, err
	}
	key := "rainfall:" + snap.ID
	if v, ok := s.charts.Get(key); ok {
		s.metrics.ChartCache.WithLabelValues("hit").Inc()
		return v.([]byte), nil
	}
	s.metrics.ChartCache.WithLabelValues("miss").Inc()

	yr, err := snap.RainfallByYear()
	if err != nil {
		return nil, err
	}
	opt := s.chart
	if first, last, ok := yr.Span(); ok {
		opt.Title = opt.Title + " (" + first + "–" + last + ")"
	}
	png, err := render.RainfallChart(yr, opt)
	if err != nil {
		return nil, err
	}
	s.charts.SetDefault(key, png)
	return png, nil
}
