package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suspectuso/airdrop-bot/internal/notifier"
)

// StatsSource exposes poll loop counters
type StatsSource interface {
	Stats() notifier.Stats
}

// Server serves health and status endpoints
type Server struct {
	stats  StatsSource
	log    *slog.Logger
	router chi.Router

	server *http.Server
}

// NewServer creates a new health server
func NewServer(stats StatsSource, log *slog.Logger) *Server {
	s := &Server{
		stats: stats,
		log:   log,
	}

	r := chi.NewRouter()
	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	s.router = r

	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context, port int) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info("starting health server", "port", port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	return s.server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.stats.Stats()); err != nil {
		s.log.Warn("encode status", "error", err)
	}
}
