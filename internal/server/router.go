// Package server собирает HTTP слой: маршруты, middleware и handlers.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/config"
	"github.com/iudanet/objsync/internal/server/handlers"
	"github.com/iudanet/objsync/internal/server/middleware"
	"github.com/iudanet/objsync/internal/server/storage"
)

// TokenPath is the bearer token endpoint; it has its own, stricter rate limit
const TokenPath = "/user/token"

// Deps содержит зависимости HTTP слоя
type Deps struct {
	Storage storage.Storage
	Auth    middleware.Authenticator
	Clock   clock.Clock
	Logger  *slog.Logger
	Version string
}

// Router is the configured HTTP handler. Stop releases background
// resources of the rate limiters.
type Router struct {
	http.Handler
	limiters []*middleware.RateLimiter
}

// NewRouter creates chi router with all routes and middleware
func NewRouter(cfg *config.Config, deps Deps) *Router {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real
	}
	logger := deps.Logger

	rt := &Router{}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingWithSkip(logger, []string{"/health"}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"WWW-Authenticate", "Retry-After"},
		MaxAge:         300,
	}))

	if cfg.RateLimit.Requests > 0 {
		defaultLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, clk)
		rt.limiters = append(rt.limiters, defaultLimiter)

		var limits []middleware.PathRateLimit
		if cfg.RateLimit.TokenRequests > 0 {
			tokenLimiter := middleware.NewRateLimiter(cfg.RateLimit.TokenRequests, cfg.RateLimit.Window, clk)
			rt.limiters = append(rt.limiters, tokenLimiter)
			limits = append(limits, middleware.PathRateLimit{Path: TokenPath, Limiter: tokenLimiter})
		}

		r.Use(middleware.RateLimitByPathMiddleware(limits, defaultLimiter, logger))
	}

	r.Use(chimw.RequestSize(cfg.MaxBodyBytes))

	healthHandler := handlers.NewHealthHandler(logger, deps.Storage, deps.Version)
	tokenHandler := handlers.NewTokenHandler(logger, deps.Storage, cfg.Auth.TokenTTL, clk)
	objectsHandler := handlers.NewObjectsHandler(logger, deps.Storage)

	// Public routes
	r.Get("/health", healthHandler.Health)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(logger, deps.Auth))

		r.Put(TokenPath, tokenHandler.Issue)
		r.Delete(TokenPath, tokenHandler.Revoke)

		r.Route("/objects", func(r chi.Router) {
			r.Get("/", objectsHandler.List)
			r.Put("/", objectsHandler.Put)
			r.Get("/{id}", objectsHandler.Get)
			r.Put("/{id}", objectsHandler.PutOne)
		})
	})

	rt.Handler = r
	return rt
}

// Stop останавливает фоновую очистку rate limiters
func (rt *Router) Stop() {
	for _, l := range rt.limiters {
		l.Stop()
	}
}
