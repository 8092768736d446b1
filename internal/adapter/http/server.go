// Package http exposes the analysis, health, readiness, and metrics HTTP
// endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cityscout-service/internal/analyzer"
	"github.com/couchcryptid/cityscout-service/internal/domain"
	"github.com/couchcryptid/cityscout-service/internal/format"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AnalysisRunner performs one city analysis.
type AnalysisRunner interface {
	Analyze(ctx context.Context, city, state string) analyzer.Result
}

// Server exposes the analysis API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	runner     AnalysisRunner
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/analyze, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, runner AnalysisRunner, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		runner: runner,
		logger: logger,
	}

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
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

// analyzeRequest accepts either an explicit city/state pair or a free-form
// location string like "Tampa, FL".
type analyzeRequest struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Location string `json:"location"`
}

// errorResponse augments a failure envelope with advisory input corrections.
type errorResponse struct {
	Success     bool                `json:"success"`
	Error       string              `json:"error"`
	Suggestions *domain.Suggestions `json:"suggestions,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	city, state := req.City, req.State
	if req.Location != "" {
		parsedCity, parsedState, ok := domain.ParseLocation(req.Location)
		if !ok || parsedState == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "location must look like \"City, ST\""})
			return
		}
		city, state = parsedCity, parsedState
	}
	if city == "" || state == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "city and state are required"})
		return
	}

	result := s.runner.Analyze(r.Context(), city, state)
	if !result.Success {
		// Validation failures keep HTTP 200 with the failure envelope; the
		// error is user input, not a transport problem. Suggestions help
		// the caller self-correct.
		suggestions := domain.SuggestCorrections(city, state)
		writeJSON(w, http.StatusOK, errorResponse{Error: result.Error, Suggestions: &suggestions})
		return
	}

	switch r.URL.Query().Get("format") {
	case "cli":
		writeText(w, format.CLI(*result.Data))
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(format.CSV(*result.Data))) //nolint:errcheck // best-effort response
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(format.JSON(*result.Data))) //nolint:errcheck // best-effort response
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "cityscout"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body)) //nolint:errcheck // best-effort response
}
