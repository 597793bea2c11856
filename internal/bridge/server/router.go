// Package server implements the bridge execution service.
package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Cyclone1070/felipe/internal/bridge"
)

// NewRouter creates the Chi router with all routes and middleware.
// A nil registry leaves /metrics unrouted.
func NewRouter(
	runner CommandRunner,
	writer FileWriter,
	root string,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes, preflight included)
	r.Use(CORS)
	r.Use(middleware.RequestID)
	r.Use(EchoRequestID)
	r.Use(AccessLog(logger))
	r.Use(RecoverJSON(logger))

	executeH := NewExecuteHandler(runner, writer, NewMetrics(registry), logger)
	healthH := NewHealthHandler(root)

	r.Post(bridge.ExecutePath, executeH.Execute)
	r.Get("/health", healthH.Health)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Anything else, including the wrong method on a known path, is a 404.
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
