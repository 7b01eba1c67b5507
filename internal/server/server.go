// Package server exposes the crop and rainfall dashboard over HTTP: an HTML
// page, JSON endpoints, the rendered rainfall chart, and health and metrics
// routes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/KaramelBytes/samarth/internal/observability"
	"github.com/KaramelBytes/samarth/internal/render"
	"github.com/KaramelBytes/samarth/internal/snapshot"
	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Options configures a Server.
type Options struct {
	Addr    string
	Store   *snapshot.Store
	Metrics *observability.Metrics
	Logger  logrus.FieldLogger
	// Period labels the crop figures in the insights text.
	Period string
	Chart  render.ChartOptions
	// AllowedOrigins for CORS on the JSON API; empty allows any origin.
	AllowedOrigins []string
}

// Server serves the dashboard.
type Server struct {
	httpServer *http.Server
	store      *snapshot.Store
	metrics    *observability.Metrics
	logger     logrus.FieldLogger
	charts     *cache.Cache
	period     string
	chart      render.ChartOptions
}

// NewServer wires the routes. Datasets are loaded by the first request that
// needs them, or by /readyz.
func NewServer(opt Options) *Server {
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}
	if opt.Metrics == nil {
		opt.Metrics = observability.NewMetricsForTesting()
	}
	if opt.Chart.Title == "" {
		def := render.DefaultChartOptions()
		def.WidthIn, def.HeightIn = opt.Chart.WidthIn, opt.Chart.HeightIn
		opt.Chart = def
	}

	s := &Server{
		store:   opt.Store,
		metrics: opt.Metrics,
		logger:  opt.Logger,
		// snapshots never change, so rendered charts never expire
		charts: cache.New(cache.NoExpiration, 0),
		period: opt.Period,
		chart:  opt.Chart,
	}

	r := mux.NewRouter()
	r.Use(s.recoverPanics)
	r.Use(s.instrument)

	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/charts/rainfall.png", s.handleRainfallChart).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", opt.Metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/crops", s.handleCrops).Methods(http.MethodGet)
	// crop names may contain "/", e.g. "Nutri/Coarse Cereals"
	api.HandleFunc("/crops/{name:.+}", s.handleCrop).Methods(http.MethodGet)
	api.HandleFunc("/rainfall", s.handleRainfall).Methods(http.MethodGet)
	api.HandleFunc("/insights/{name:.+}", s.handleInsights).Methods(http.MethodGet)

	origins := opt.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         86400,
	})

	s.httpServer = &http.Server{
		Addr:         opt.Addr,
		Handler:      corsHandler.Handler(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("http server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.store.Get()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"snapshot":  snap.ID,
		"loaded_at": snap.LoadedAt.UTC().Format(time.RFC3339),
	})
}

// errorStatus maps dataset errors onto HTTP status codes.
func errorStatus(err error) int {
	var sel *dataset.SelectionError
	if errors.As(err, &sel) || errors.Is(err, render.ErrNoChartData) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var sel *dataset.SelectionError
	if errors.As(err, &sel) {
		s.metrics.EmptySelections.Inc()
	}
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
