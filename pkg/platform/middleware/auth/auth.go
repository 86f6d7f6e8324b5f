package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	request "agentreg/pkg/platform/middleware/request"
	"agentreg/pkg/requestcontext"
)

// SessionValidator validates an applicant resume-session bearer token.
type SessionValidator interface {
	ValidateToken(tokenString string) (requestcontext.ResumeSession, error)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireResumeSession admits requests carrying a valid applicant session and
// injects the bound application into the context. The session email becomes
// the actor. Handlers must still check that the route's application matches
// the session.
func RequireResumeSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing session token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			session, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid session token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
				return
			}

			ctx = requestcontext.WithSession(ctx, session)
			ctx = requestcontext.WithActor(ctx, session.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireApplicationAccess rejects requests whose session is bound to a
// different application than the {param} path value. Mount after
// RequireResumeSession.
func RequireApplicationAccess(param string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			session, ok := requestcontext.Session(ctx)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing resume session")
				return
			}
			if string(session.ApplicationID) != chi.URLParam(r, param) {
				logger.WarnContext(ctx, "session used for another application",
					"request_id", request.GetRequestID(ctx),
					"session_application_id", session.ApplicationID.String(),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Session is not valid for this application")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
