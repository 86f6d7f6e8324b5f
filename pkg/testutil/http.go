// Package testutil provides common helpers for handler and end-to-end HTTP
// tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/httputil"
	"agentreg/pkg/platform/middleware/admin"
)

// NewJSONRequest creates a request whose body is body marshaled to JSON. A nil
// body sends no payload.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithBearer attaches an applicant session token.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// WithStaffHeaders attaches the staff credentials the admin middleware reads.
func WithStaffHeaders(req *http.Request, token, actor string) *http.Request {
	req.Header.Set(admin.HeaderAdminToken, token)
	req.Header.Set(admin.HeaderActor, actor)
	return req
}

// Serve runs req through handler and returns the recorded response.
func Serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON unmarshals the response body into a new T.
func DecodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return &out
}

// AssertStatus fails with the response body, which usually explains why.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "body: %s", rr.Body.String())
}

// AssertError checks the status and the machine-readable error code and
// returns the decoded envelope for further assertions on details.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code dErrors.Code) *httputil.ErrorResponse {
	t.Helper()
	AssertStatus(t, rr, status)
	body := DecodeJSON[httputil.ErrorResponse](t, rr)
	assert.Equal(t, string(code), body.Error)
	return body
}
