package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

// Envelope is dto.Response with a typed payload
type Envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// DoJSON sends a request to h. A non-nil body is encoded as JSON.
func DoJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// DecodeEnvelope parses the response body as an API envelope
func DecodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// RequireStatus fails the test with the response body when the status differs
func RequireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

// RequireErrorCode asserts an error envelope with the given status and code
func RequireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) Envelope[any] {
	t.Helper()
	RequireStatus(t, rec, status)
	env := DecodeEnvelope[any](t, rec)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "Expected error object in response")
	require.Equal(t, code, env.Error.Code, "Unexpected error code")
	return env
}
