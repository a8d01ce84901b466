package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/victor-a-l-001/techchallenger-auth/internal/config"
	"github.com/victor-a-l-001/techchallenger-auth/internal/handler"
	"github.com/victor-a-l-001/techchallenger-auth/internal/middleware"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

// Mount is a resource module hook: it receives the protected /api group so
// callers (posts, messages, tests) can hang routes behind the auth gate.
type Mount func(api chi.Router, auth *middleware.AuthMiddleware)

func New(cfg *config.Config, db healthChecker, authMiddleware *middleware.AuthMiddleware, authHandler *handler.AuthHandler, mounts ...Mount) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			if err := db.Health(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh", authHandler.Refresh)
			auth.Get("/session", authHandler.Session)
			auth.Post("/logout", authHandler.Logout)
		})

		// Resource modules (posts, messages) register here behind the gate.
		for _, mount := range mounts {
			mount(api, authMiddleware)
		}
	})

	return r
}
