package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	request "agentreg/pkg/platform/middleware/request"
	"agentreg/pkg/requestcontext"
)

const (
	HeaderAdminToken = "X-Admin-Token"
	HeaderActor      = "X-Actor"
)

// RequireAdminToken guards staff-only routes. The acting staff identity is
// taken from X-Actor and recorded on every status history row.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(HeaderAdminToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				writeUnauthorized(w, "admin token required")
				return
			}

			actor := strings.TrimSpace(r.Header.Get(HeaderActor))
			if actor == "" || len(actor) > 128 {
				writeUnauthorized(w, "X-Actor header required")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + desc + `"}`))
}
