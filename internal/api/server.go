package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"tactics-arena/internal/config"
	"tactics-arena/internal/match"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP/WebSocket API server. It owns the match registry
// and exposes it over the wire protocol; match orchestration itself
// lives entirely in internal/match.
type Server struct {
	cfg         config.AppConfig
	registry    *match.Registry
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	router      *chi.Mux
	httpServer  *http.Server

	metricsStop chan struct{}
}

// NewServer constructs the API server. Background workers (metrics
// polling, the HTTP listener) do not start until Start() is called, so
// the router can be exercised directly in tests via httptest.
func NewServer(cfg config.AppConfig) *Server {
	registry := match.NewRegistry(cfg)
	wsHub := NewWebSocketHub(registry)
	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig)

	s := &Server{
		cfg:         cfg,
		registry:    registry,
		wsHub:       wsHub,
		rateLimiter: rateLimiter,
		metricsStop: make(chan struct{}),
	}

	s.router = NewRouter(RouterConfig{
		Registry:    registry,
		RateLimiter: rateLimiter,
		CORSOrigins: cfg.Server.CORSOrigins,
		WSHub:       wsHub,
	})

	return s
}

// Router returns the HTTP handler, for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins the HTTP listener and the registry metrics poller. Call
// once; to stop, cancel the process or call Stop.
func (s *Server) Start(addr string) error {
	go s.pollRegistryMetrics()

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("api: server starting on %s", addr)
	return s.httpServer.ListenAndServe()
}

// pollRegistryMetrics periodically snapshots registry stats into the
// bounded-cardinality gauges in observability.go. Lives here rather
// than in internal/match to avoid match importing api (which imports
// match for routing) and cycling.
func (s *Server) pollRegistryMetrics() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var lastCreated, lastEvicted uint64
	for {
		select {
		case <-s.metricsStop:
			return
		case <-ticker.C:
			stats := s.registry.Stats()
			UpdateMatchesLive(stats.Live)
			for ; lastCreated < stats.Created; lastCreated++ {
				RecordMatchCreated()
			}
			for ; lastEvicted < stats.Evicted; lastEvicted++ {
				RecordMatchEvicted()
			}
		}
	}
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	close(s.metricsStop)
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
	s.rateLimiter.Stop()
	s.registry.Stop()
}
