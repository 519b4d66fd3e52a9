package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	platformmetrics "bankqr/internal/platform/metrics"
	"bankqr/pkg/platform/httputil"
	"bankqr/pkg/platform/middleware/requestid"
	"bankqr/pkg/platform/middleware/requestlog"
	"bankqr/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every bounded-context handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type router struct {
	logger  *slog.Logger
	metrics *platformmetrics.Metrics
	checks  map[string]HealthCheck
}

type Option func(*router)

func WithMetrics(m *platformmetrics.Metrics) Option {
	return func(r *router) {
		r.metrics = m
	}
}

// WithHealthCheck adds a named dependency probe to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(r *router) {
		r.checks[name] = check
	}
}

// NewRouter assembles the middleware stack and mounts the handlers.
func NewRouter(logger *slog.Logger, handlers []Registrar, opts ...Option) http.Handler {
	rt := &router{
		logger: logger,
		checks: make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(rt)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(requestlog.Middleware(logger))
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Get("/healthz", rt.handleHealth)
	for _, h := range handlers {
		h.Register(r)
	}
	return r
}

func (rt *router) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	if len(rt.checks) > 0 {
		resp.Checks = make(map[string]string, len(rt.checks))
	}
	for name, check := range rt.checks {
		if err := check(r.Context()); err != nil {
			rt.logger.WarnContext(r.Context(), "health check failed",
				"check", name,
				"error", err,
			)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
