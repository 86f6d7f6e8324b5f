package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	id "agentreg/pkg/domain"
	"agentreg/pkg/requestcontext"
)

type stubValidator struct {
	session requestcontext.ResumeSession
	err     error
}

func (s stubValidator) ValidateToken(string) (requestcontext.ResumeSession, error) {
	return s.session, s.err
}

func TestRequireResumeSession(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := requestcontext.ResumeSession{ApplicationID: id.ApplicationID("IND-APP-2026-0001"), Email: "a@example.org"}

	var seen requestcontext.ResumeSession
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = requestcontext.Session(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireResumeSession(stubValidator{session: session}, logger)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad")
		RequireResumeSession(stubValidator{err: errors.New("expired")}, logger)(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token injects session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good")
		RequireResumeSession(stubValidator{session: session}, logger)(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, session, seen)
	})
}

func TestRequireApplicationAccess(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := requestcontext.ResumeSession{ApplicationID: id.ApplicationID("IND-APP-2026-0001"), Email: "a@example.org"}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(RequireResumeSession(stubValidator{session: session}, logger))
		r.Use(RequireApplicationAccess("id", logger))
		r.Get("/applications/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	for _, tc := range []struct {
		name string
		path string
		want int
	}{
		{"own application", "/applications/IND-APP-2026-0001", http.StatusNoContent},
		{"another application", "/applications/IND-APP-2026-0002", http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "Bearer good")
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
