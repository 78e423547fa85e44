// Package httptransport assembles the HTTP surface: middleware chain, public
// PIN policy routes, operator routes and probes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pinguard/internal/admin"
	pinhandler "pinguard/internal/pinpolicy/handler"
	platformmetrics "pinguard/internal/platform/metrics"
	"pinguard/pkg/platform/httputil"
	adminmw "pinguard/pkg/platform/middleware/admin"
	authmw "pinguard/pkg/platform/middleware/auth"
	"pinguard/pkg/platform/middleware/metadata"
	"pinguard/pkg/platform/middleware/request"
	"pinguard/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts. Nil optional fields disable the
// matching surface.
type Deps struct {
	Logger     *slog.Logger
	PINHandler *pinhandler.Handler

	// TokenValidator enables service-token auth on the PIN routes.
	TokenValidator authmw.TokenValidator
	AuthAuditor    authmw.AuditPublisher

	// AdminHandler is mounted under the admin token when AdminToken is set.
	AdminHandler *admin.Handler
	AdminToken   string

	HTTPMetrics *platformmetrics.Metrics
	// Gatherer serves /metrics when non-nil.
	Gatherer prometheus.Gatherer
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.AccessLog(d.Logger))
	r.Use(d.HTTPMetrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.TokenValidator != nil {
			r.Use(authmw.RequireServiceToken(d.TokenValidator, d.AuthAuditor, d.Logger))
		}
		d.PINHandler.Register(r)
	})

	if d.AdminHandler != nil && d.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(d.AdminToken, d.Logger))
			d.AdminHandler.Register(r)
		})
	}

	return r
}
