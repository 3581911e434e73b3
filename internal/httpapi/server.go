// Package httpapi serves the dashboard data API: per-instrument analytics
// snapshots regenerated on an interval from a feed source and served from
// an in-memory cache.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"optiondeck/internal/domain"
	"optiondeck/internal/feed"
)

// dataResponse is the body of GET /api/data/{instrument}.
type dataResponse struct {
	Analysis  *domain.Snapshot  `json:"analysis"`
	Signals   *domain.SignalSet `json:"signals"`
	Timestamp string            `json:"timestamp"`
}

// healthEntry reports per-instrument freshness for GET /api/health.
type healthEntry struct {
	LastUpdate       string `json:"last_update"`
	DataAvailable    bool   `json:"data_available"`
	SignalsAvailable bool   `json:"signals_available"`
}

// Server caches the latest analytics per instrument and serves them over
// HTTP. A background refresh loop replaces cache entries wholesale, so a
// request never observes a half-updated instrument.
type Server struct {
	source      feed.Source
	instruments []string
	interval    time.Duration
	log         *slog.Logger

	mu    sync.RWMutex
	cache map[string]dataResponse
}

// NewServer creates a Server refreshing the given instruments from source
// at the given interval.
func NewServer(source feed.Source, instruments []string, interval time.Duration, log *slog.Logger) *Server {
	return &Server{
		source:      source,
		instruments: instruments,
		interval:    interval,
		log:         log,
		cache:       make(map[string]dataResponse),
	}
}

// Run refreshes all instruments immediately, then on every interval until
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.RefreshAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

// RefreshAll fetches a fresh snapshot for every configured instrument. A
// failed instrument keeps its previous cache entry.
func (s *Server) RefreshAll(ctx context.Context) {
	for _, instrument := range s.instruments {
		snap, sigs, ts, err := s.source.Fetch(ctx, instrument)
		if err != nil {
			s.log.Warn("refresh failed", "instrument", instrument, "error", err)
			continue
		}
		s.mu.Lock()
		s.cache[instrument] = dataResponse{Analysis: snap, Signals: sigs, Timestamp: ts}
		s.mu.Unlock()
		s.log.Info("refreshed", "instrument", instrument, "strikes", len(snap.StrikeData))
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/data/{instrument}", s.handleData)
	mux.HandleFunc("GET /api/instruments", s.handleInstruments)
	mux.HandleFunc("GET /api/health", s.handleHealth)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	instrument := r.PathValue("instrument")

	s.mu.RLock()
	resp, ok := s.cache[instrument]
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Data not available")
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleInstruments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.instruments)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := make(map[string]healthEntry, len(s.instruments))

	s.mu.RLock()
	for _, instrument := range s.instruments {
		entry, ok := s.cache[instrument]
		status[instrument] = healthEntry{
			LastUpdate:       entry.Timestamp,
			DataAvailable:    ok,
			SignalsAvailable: ok && entry.Signals != nil,
		}
	}
	s.mu.RUnlock()

	writeJSON(w, status)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
