// Package myhttp wraps http.ServeMux with the middleware every diff
// server handler wants: trace-correlated logging, panic recovery,
// pyroscope tagging and a request duration histogram.
package myhttp

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
)

// NewServerMux builds the instrumented mux. Handlers registered through
// HandleWithMiddleware or HandleFuncWithMiddleware get the middleware;
// plain Handle registrations bypass it.
func NewServerMux(logger *slog.Logger, httpRequestsDurationMicroSeconds metric.Int64Histogram) *myRouter {
	return &myRouter{
		ServeMux:                         http.NewServeMux(),
		logger:                           logger,
		httpRequestsDurationMicroSeconds: httpRequestsDurationMicroSeconds,
	}
}
