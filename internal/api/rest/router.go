package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/hurtle-auth/internal/logger"
)

// Pinger reports whether account storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps groups the dependencies of NewRouter.
type RouterDeps struct {
	AuthService AuthService
	// Google is nil when Google sign-in is disabled.
	Google     IdentityProvider
	AuthConfig AuthConfig
	Storage    Pinger
	Metrics    http.Handler
	Logger     *logger.Logger
}

// NewRouter builds the HTTP routes:
//
//	POST /auth/login
//	POST /auth/register
//	GET  /auth/google
//	GET  /auth/google/callback
//	GET  /healthz
//	GET  /metrics
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(chimw.Recoverer)

	h := NewAuth(deps.AuthService, deps.Google, deps.AuthConfig, deps.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Get("/google", h.GoogleLogin)
		r.Get("/google/callback", h.GoogleCallback)
	})

	r.Get("/healthz", healthz(deps.Storage))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	return r
}

func healthz(storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if storage != nil {
			if err := storage.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
