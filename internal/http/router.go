// Package httpapi assembles the HTTP surface: the shared middleware chain and
// the four route groups (public, applicant, staff, gateway).
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agentreg/internal/platform/metrics"
	"agentreg/pkg/platform/httputil"
	"agentreg/pkg/platform/middleware/admin"
	"agentreg/pkg/platform/middleware/auth"
	"agentreg/pkg/platform/middleware/metadata"
	request "agentreg/pkg/platform/middleware/request"
	"agentreg/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

type PublicRoutes interface {
	RegisterPublic(r chi.Router)
}

// ApplicantRoutes are mounted behind a resume session bound to {id}.
type ApplicantRoutes interface {
	RegisterApplicant(r chi.Router)
}

type AdminRoutes interface {
	RegisterAdmin(r chi.Router)
}

type GatewayRoutes interface {
	RegisterGateway(r chi.Router)
}

// HealthCheck probes one backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Deps struct {
	Logger      *slog.Logger
	HTTPMetrics *metrics.Metrics
	AdminToken  string
	Sessions    auth.SessionValidator

	Public    []PublicRoutes
	Applicant []ApplicantRoutes
	Admin     []AdminRoutes
	Gateway   []GatewayRoutes
	Health    []HealthCheck
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(d.Logger))
	r.Use(requesttime.Middleware)
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}

	r.Get("/health", healthHandler(d.Health))
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range d.Public {
		h.RegisterPublic(r)
	}
	for _, h := range d.Gateway {
		h.RegisterGateway(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireResumeSession(d.Sessions, d.Logger))
		r.Use(auth.RequireApplicationAccess("id", d.Logger))
		for _, h := range d.Applicant {
			h.RegisterApplicant(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(d.AdminToken, d.Logger))
		for _, h := range d.Admin {
			h.RegisterAdmin(r)
		}
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				resp.Checks[c.Name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
