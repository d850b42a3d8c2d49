package middlewares_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conspect-web/internal/middlewares"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	handler := middlewares.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.NotEmpty(t, rr.Header().Get("Referrer-Policy"))
}

func TestMaxBodySize(t *testing.T) {
	tests := []struct {
		name      string
		limit     int64
		body      string
		wantLimit bool
	}{
		{"under limit", 16, "small", false},
		{"over limit", 4, "much too large", true},
		{"disabled", 0, strings.Repeat("x", 1024), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			handler := middlewares.MaxBodySize(tt.limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(tt.body))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var maxBytesErr *http.MaxBytesError
			assert.Equal(t, tt.wantLimit, errors.As(readErr, &maxBytesErr))
		})
	}
}
