package httpserver

import (
	"net/http"

	"github.com/fdg312/gym-tracker/internal/config"
	"github.com/rs/cors"
)

// CORSMiddleware returns an http.Handler that adds CORS headers for the configured origins.
// With no origins configured the handler is returned unchanged.
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return next
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           600,
	})

	return c.Handler(next)
}
