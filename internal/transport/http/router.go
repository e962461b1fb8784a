// Package httptransport assembles the public HTTP surface: middleware chain,
// lifecycle routes, health and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wasl/internal/lifecycle/handler"
	"wasl/internal/platform/metrics"
	"wasl/pkg/platform/httputil"
	authmw "wasl/pkg/platform/middleware/auth"
	"wasl/pkg/platform/middleware/metadata"
	"wasl/pkg/platform/middleware/requesttime"
)

// HealthCheck probes one dependency. It should return quickly.
type HealthCheck func(ctx context.Context) error

// Deps is everything the router needs. Checks, Gatherer and Clock are optional.
type Deps struct {
	Clock     func() time.Time
	Lifecycle *handler.Handler
	Validator authmw.JWTValidator
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Checks    map[string]HealthCheck
	Logger    *slog.Logger
}

// NewRouter wires public endpoints. Health and metrics are unauthenticated;
// every lifecycle route requires an operator token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.New(d.Clock))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(d.Checks, d.Logger))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireOperator(d.Validator, d.Logger))
		d.Lifecycle.Register(r)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
				resp.Status = "degraded"
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}
		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}
