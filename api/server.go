// ABOUTME: Huma API server configuration and setup
// ABOUTME: Installs the response normalizer, middleware chain and router fallbacks

package api

import (
	"net/http"

	"openmusic-api/api/middleware"
	"openmusic-api/api/response"
	"openmusic-api/core/interfaces"
	"openmusic-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const (
	Title   = "OpenMusic API"
	Version = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger     interfaces.Logger
	Normalizer *response.Normalizer
	Flags      featureflags.Manager

	// RateLimiter is applied while the rate limit flag is enabled; nil disables it
	RateLimiter *middleware.RateLimiter
}

// NewAPI creates the router and the huma API on top of it. Every error
// produced by huma, the router or the middleware goes through cfg.Normalizer.
func NewAPI(cfg APIConfig) (huma.API, chi.Router) {
	cfg.Normalizer.Install()

	router := chi.NewRouter()

	// Configure CORS (should be first middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Data-Source", "X-Cache-Stale", "X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))

	router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))

	if cfg.RateLimiter != nil {
		router.Use(whenEnabled(cfg.Flags, featureflags.RateLimitEnabled,
			middleware.RateLimitMiddleware(cfg.RateLimiter, cfg.Normalizer)))
	}

	router.Use(whenEnabled(cfg.Flags, featureflags.FailEnvelopeRewrite,
		response.FailEnvelopeRewrite(cfg.Logger)))

	router.NotFound(cfg.Normalizer.NotFoundHandler())
	router.MethodNotAllowed(cfg.Normalizer.MethodNotAllowedHandler())

	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Music catalog with albums, songs, cover art and album likes"
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		middleware.BearerScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	// Response bodies are the public envelopes, without a $schema link
	config.CreateHooks = nil

	api := humachi.New(router, config)

	// The OpenAPI spec is automatically available at /openapi.json
	// The Swagger UI is automatically available at /docs

	return api, router
}

// whenEnabled applies mw only while flag is on, checked per request
func whenEnabled(flags featureflags.Manager, flag featureflags.FeatureFlag, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if flags != nil && flags.IsEnabled(r.Context(), flag) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
