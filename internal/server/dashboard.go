package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/insight"
	"github.com/KaramelBytes/samarth/internal/render"
)

// Page copy.
const (
	PageTitle   = "Project Samarth: Agricultural Production & Rainfall Insights"
	PageCaption = "Data Sources: Ministry of Agriculture (Crop Data) and IMD (Rainfall Data)"
	PageFooter  = "Developed as part of Project Samarth Challenge, integrating government open data."
)

type dashboardView struct {
	Title    string
	Caption  string
	Footer   string
	Crops    []string
	Selected string
	// NotFound is set when Selected matches no crop row.
	NotFound bool
	Overview *dataset.Table
	Rainfall string
	HasChart bool
	Insights *insight.Summary
	Error    string
}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"num": insight.FormatNumber,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Project Samarth</title>
<style>
body{font-family:sans-serif;margin:0;display:flex}
aside{width:16rem;padding:1rem;background:#f4f6f8;min-height:100vh}
main{flex:1;padding:1rem 2rem}
table{border-collapse:collapse}
th,td{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}
.caption,footer{color:#666;font-size:.9rem}
.notice{background:#fff4e5;padding:.6rem;border-left:4px solid #f0a000}
.error{background:#fdecea;padding:.6rem;border-left:4px solid #d32f2f}
</style>
</head>
<body>
<aside>
<h3>Select Crop</h3>
<form method="get" action="/">
<label for="crop">Choose a crop to explore:</label>
<select id="crop" name="crop" onchange="this.form.submit()">
{{- range .Crops}}
<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
<noscript><button type="submit">Show</button></noscript>
</form>
</aside>
<main>
<h1>{{.Title}}</h1>
<p class="caption">{{.Caption}}</p>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- else}}
<h2>Crop Overview: {{.Selected}}</h2>
{{- if .NotFound}}
<p class="notice">No crop named &ldquo;{{.Selected}}&rdquo; in the dataset.</p>
{{- else if .Overview}}
<table>
<tr>{{range .Overview.Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Overview.Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
{{- end}}
<h2>Rainfall Trends{{if .Rainfall}} ({{.Rainfall}}){{end}}</h2>
{{- if .HasChart}}
<img src="/charts/rainfall.png" alt="Mean rainfall by year" style="max-width:100%;height:400px">
{{- else}}
<p class="notice">No rainfall values to chart.</p>
{{- end}}
{{- with .Insights}}
<h2>Insights</h2>
<ul>
<li><strong>{{.Crop}}</strong> had a total production of <strong>{{num .Production}} Lakh Tons</strong> in {{.Period}}.</li>
<li>Its <strong>average productivity</strong> was <strong>{{num .Yield}} kg/ha</strong>.</li>
{{- if .HasRainfall}}
<li>Historical rainfall patterns from <strong>{{.FirstYear}} to {{.LastYear}}</strong> show long-term variations that can affect crop yields.</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
<footer>{{.Footer}}</footer>
</main>
</body>
</html>
`))

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, status := s.dashboard(r.URL.Query().Get("crop"))

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// dashboard assembles the page for crop. An empty crop selects the first
// crop in sorted order.
func (s *Server) dashboard(crop string) (dashboardView, int) {
	view := dashboardView{Title: PageTitle, Caption: PageCaption, Footer: PageFooter, Selected: crop}
	fail := func(err error) (dashboardView, int) {
		s.logger.WithError(err).Error("dashboard failed")
		view.Error = err.Error()
		return view, http.StatusInternalServerError
	}

	snap, err := s.store.Get()
	if err != nil {
		return fail(err)
	}
	if view.Crops, err = snap.CropNames(); err != nil {
		return fail(err)
	}
	if view.Selected == "" && len(view.Crops) > 0 {
		view.Selected = view.Crops[0]
	}

	yr, err := snap.RainfallByYear()
	if err != nil {
		return fail(err)
	}
	if first, last, ok := yr.Span(); ok {
		view.Rainfall = first + "–" + last
	}
	if _, err := s.rainfallChart(); err == nil {
		view.HasChart = true
	} else if !errors.Is(err, render.ErrNoChartData) {
		return fail(err)
	}

	ov, err := s.overview(view.Selected)
	var sel *dataset.SelectionError
	switch {
	case errors.As(err, &sel):
		s.metrics.EmptySelections.Inc()
		view.NotFound = true
		return view, http.StatusNotFound
	case err != nil:
		return fail(err)
	}
	view.Overview = &ov

	sum, err := insight.ForCrop(snap, view.Selected, s.period)
	if err != nil {
		return fail(err)
	}
	view.Insights = &sum
	return view, http.StatusOK
}
