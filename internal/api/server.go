// Package api exposes the monitor's operations over HTTP: JSON endpoints
// mirroring the one-shot commands, a Prometheus endpoint, and a websocket
// stream of extended snapshots.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dicklesworthstone/hwmoni/internal/monitor"
	"github.com/Dicklesworthstone/hwmoni/internal/source"
	"github.com/Dicklesworthstone/hwmoni/internal/specs"
	"github.com/Dicklesworthstone/hwmoni/internal/thermal"
)

// Server is the hwmoni HTTP front end.
type Server struct {
	composer *monitor.Composer
	resolver *thermal.Resolver
	reporter *specs.Reporter
	interval time.Duration

	upgrader websocket.Upgrader
}

func NewServer(composer *monitor.Composer, resolver *thermal.Resolver, reporter *specs.Reporter, interval time.Duration) *Server {
	if interval <= 0 {
		interval = monitor.DefaultInterval
	}
	return &Server{
		composer: composer,
		resolver: resolver,
		reporter: reporter,
		interval: interval,
		// Local monitoring tool; the browser dashboard connects from file://
		// or another local port, so origin checks are moot.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/system", s.handleSystem)
		r.Get("/temperature", s.handleTemperature)
		r.Get("/specs", s.handleSpecs)
		r.Get("/extended", s.handleExtended)
		r.Get("/stream", s.handleStream)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	snap, err := s.composer.Source().Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTemperature(w http.ResponseWriter, r *http.Request) {
	// Exhaustion is a valid answer, not an error: the payload carries an
	// explicit null.
	reading := s.resolver.Resolve(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"reading": reading})
}

func (s *Server) handleSpecs(w http.ResponseWriter, r *http.Request) {
	id, err := s.reporter.Read()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (s *Server) handleExtended(w http.ResponseWriter, r *http.Request) {
	ext, err := s.composer.Extended(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ext)
}

// handleStream upgrades to a websocket and pushes extended snapshots at the
// configured cadence until the peer goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for ext := range s.composer.Stream(ctx, s.interval) {
		if err := conn.WriteJSON(ext); err != nil {
			return
		}
	}
}

// ListenAndServe blocks serving the front end on addr.
func (s *Server) ListenAndServe(addr string) error {
	slog.Info("http front end listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, source.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
