package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/service"
)

// RouterOptions configures the middleware in front of the generator routes.
type RouterOptions struct {
	AuthSecret     string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the HTTP routes. Background work started by the middleware
// stops when ctx is done.
func NewRouter(ctx context.Context, svc *service.GeneratorService, opts RouterOptions) http.Handler {
	genHandler := NewGeneratorHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, opts.RateLimitRPS, opts.RateLimitBurst))
		r.Use(middleware.JWTAuth(opts.AuthSecret))

		r.Post("/api/v1/generate", genHandler.HandleGenerate)
		r.Get("/api/v1/generate", genHandler.HandleGenerateQuery)
		r.Get("/api/v1/pool", genHandler.HandlePool)
	})

	return r
}
