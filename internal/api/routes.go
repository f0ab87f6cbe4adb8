package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/perpetual-calendar/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics                      (when metrics are enabled)
//	GET    /api/v1/occurrences?day=&month=&year=&through=
//	GET    /api/v1/convert/{calendar}?day=&month=&year=
//	GET    /api/v1/leap/{year}
//	GET    /api/v1/queries/recent?limit=
//	DELETE /api/v1/queries/{id}          (X-API-Key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		middleware.RequestID,
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeBadRequest)
	})

	r.Get("/health", handlers.HealthCheck)
	if handlers.metrics != nil {
		r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/occurrences", handlers.GetOccurrences)
		r.Get("/convert/{calendar}", handlers.Convert)
		r.Get("/leap/{year}", handlers.GetLeap)

		r.Route("/queries", func(r chi.Router) {
			r.Get("/recent", handlers.GetRecentQueries)
			r.With(AuthMiddleware(cfg, logger)).Delete("/{id}", handlers.DeleteQuery)
		})
	})

	return r
}
