package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "agentreg/internal/jwt_token"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/middleware/admin"
	"agentreg/pkg/requestcontext"
)

const adminToken = "staff-secret"

// probeRoutes answers on every group and echoes the actor it saw.
type probeRoutes struct{}

func (probeRoutes) echo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Seen-Actor", requestcontext.Actor(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (p probeRoutes) RegisterPublic(r chi.Router)    { r.Get("/public", p.echo) }
func (p probeRoutes) RegisterApplicant(r chi.Router) { r.Get("/applications/{id}", p.echo) }
func (p probeRoutes) RegisterAdmin(r chi.Router)     { r.Get("/admin/applications/{id}", p.echo) }
func (p probeRoutes) RegisterGateway(r chi.Router)   { r.Post("/payments/callback", p.echo) }

func newTestRouter(t *testing.T, checks ...HealthCheck) (http.Handler, *jwttoken.JWTService) {
	t.Helper()
	sessions := jwttoken.NewJWTService("router-test-key", time.Hour)
	probe := probeRoutes{}
	return NewRouter(Deps{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		AdminToken: adminToken,
		Sessions:   sessions,
		Public:     []PublicRoutes{probe},
		Applicant:  []ApplicantRoutes{probe},
		Admin:      []AdminRoutes{probe},
		Gateway:    []GatewayRoutes{probe},
		Health:     checks,
	}), sessions
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPublicAndGatewayRoutesNeedNoCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(router, httptest.NewRequest(http.MethodPost, "/payments/callback", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestApplicantRoutesRequireBoundSession(t *testing.T) {
	router, sessions := newTestRouter(t)
	token, _, err := sessions.IssueSession(context.Background(), id.ApplicationID("IND-APP-2026-0001"), "tariro@example.org")
	require.NoError(t, err)

	t.Run("no session", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/applications/IND-APP-2026-0001", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("session for another application", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications/IND-APP-2026-0002", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, serve(router, req).Code)
	})

	t.Run("bound session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications/IND-APP-2026-0001", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(router, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "tariro@example.org", w.Header().Get("X-Seen-Actor"))
	})
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/admin/applications/IND-APP-2026-0001", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/applications/IND-APP-2026-0001", nil)
	req.Header.Set(admin.HeaderAdminToken, adminToken)
	req.Header.Set(admin.HeaderActor, "registrar@example.org")
	w = serve(router, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "registrar@example.org", w.Header().Get("X-Seen-Actor"))
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router, _ := newTestRouter(t, HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }})
		w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"ok"}}`, w.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		router, _ := newTestRouter(t, HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("down") }})
		w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"unavailable"`)
	})
}
