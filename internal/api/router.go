package api

import (
	"net/http"
	"time"

	"tactics-arena/internal/match"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig contains the dependencies needed to construct the HTTP
// router. Kept as a struct (rather than positional args to NewRouter)
// for the same reason the teacher did: dependency injection in tests.
type RouterConfig struct {
	Registry    *match.Registry
	RateLimiter *IPRateLimiter
	CORSOrigins []string
	WSHub       *WebSocketHub
}

// NewRouter builds the chi router exposing the match protocol over
// WebSocket plus a liveness endpoint; metrics are served by the separate
// debug server.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	r.Get("/api/healthz", handleHealthz(cfg.Registry))
	r.Get("/ws", cfg.WSHub.HandleWebSocket)

	return r
}

func handleHealthz(registry *match.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := registry.Stats()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "ok",
			"matches_live":  stats.Live,
			"matches_total": stats.Created,
		})
	}
}
