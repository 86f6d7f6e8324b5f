package testutil

import (
	"net/http"

	"agentreg/pkg/requestcontext"
)

// WithActor marks the request as coming from an authenticated staff member,
// as the admin middleware would.
func WithActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
