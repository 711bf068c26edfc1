package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "inflammation/internal/errors"
	"inflammation/internal/infrastructure"
	customMiddleware "inflammation/internal/middleware"
	"inflammation/internal/validation"
)

// RouterConfig holds the dependencies of the HTTP router
type RouterConfig struct {
	Analysis AnalysisServiceInterface
	Health   HealthServiceInterface
	Guard    *validation.PathGuard
	Logger   *slog.Logger

	// Optional
	Providers      *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	RequestTimeout time.Duration
	RateLimit      *customMiddleware.RateLimiter
}

// NewRouter wires middleware and routes.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → Timeout.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	errorHandler := apierrors.NewErrorHandler(logger)

	r := chi.NewRouter()
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.Group(func(r chi.Router) {
		var otelMW *customMiddleware.OTelMiddleware
		if cfg.Providers != nil {
			otelMW = customMiddleware.NewOTelMiddleware(cfg.Providers.Tracer, cfg.Metrics, logger)
		} else {
			otelMW = customMiddleware.NewOTelMiddleware(nil, cfg.Metrics, logger)
		}
		r.Use(otelMW.Handler)
		r.Use(customMiddleware.StructuredLogger(logger))
		r.Use(customMiddleware.Recoverer(logger))
		r.Use(customMiddleware.SecurityHeaders)

		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.Handler)
		}
		if cfg.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(cfg.RequestTimeout))
		}

		health := NewHealthHandler(cfg.Health, logger)
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/healthz", health.HealthCheck)
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/livez", health.LivenessCheck)

		analysis := NewAnalysisHandler(cfg.Analysis, cfg.Guard, logger, errorHandler)
		r.Mount("/api/v1", analysis.Routes())

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			errorHandler.HandleError(w, r, apierrors.ErrNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			errorHandler.HandleError(w, r, apierrors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"))
		})
	})

	// Prometheus scrapes stay outside the instrumented group
	if cfg.Providers != nil && cfg.Providers.PrometheusHTTP != nil {
		r.Handle("/metrics", cfg.Providers.PrometheusHTTP)
	}

	return r
}
