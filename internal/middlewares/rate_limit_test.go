package middlewares_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conspect-web/internal/data"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/testutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func rateLimitedHandler(tc *testutil.TestContext, reached *bool) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})

	return middlewares.AppContextMiddleware(tc.AppContext)(middlewares.RateLimit(next))
}

func TestRateLimit_ShouldPassRequestsUnderLimit(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Finish()
	tc.AppContext.Config.RateLimit.Enabled = true

	tc.MockRateLimiter.EXPECT().Allow(gomock.Any(), "203.0.113.7").
		Return(data.Decision{Allowed: true, Limit: 10, Remaining: 9}, nil)

	var reached bool
	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.RemoteAddr = "203.0.113.7:41000"
	rr := httptest.NewRecorder()

	rateLimitedHandler(tc, &reached).ServeHTTP(rr, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "10", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_ShouldReject429WhenLimitExceeded(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Finish()
	tc.AppContext.Config.RateLimit.Enabled = true

	tc.MockRateLimiter.EXPECT().Allow(gomock.Any(), "203.0.113.7").
		Return(data.Decision{Allowed: false, Limit: 10, Remaining: 0, RetryAfter: 1500 * time.Millisecond}, nil)
	tc.MockRateLimiter.EXPECT().Name().Return("memory").AnyTimes()

	var reached bool
	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.RemoteAddr = "203.0.113.7:41000"
	rr := httptest.NewRecorder()

	rateLimitedHandler(tc, &reached).ServeHTTP(rr, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many requests, try again later"}`, rr.Body.String())
	tc.AssertLogContains(t, slog.LevelWarn, "rate limit exceeded")
}

func TestRateLimit_ShouldFailOpenOnStoreError(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Finish()
	tc.AppContext.Config.RateLimit.Enabled = true

	tc.MockRateLimiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(data.Decision{}, errors.New("redis down"))
	tc.MockRateLimiter.EXPECT().Name().Return("redis")

	var reached bool
	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rr := httptest.NewRecorder()

	rateLimitedHandler(tc, &reached).ServeHTTP(rr, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit_ShouldSkipWhenDisabled(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Finish()
	tc.AppContext.Config.RateLimit.Enabled = false

	var reached bool
	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rr := httptest.NewRecorder()

	rateLimitedHandler(tc, &reached).ServeHTTP(rr, req)

	assert.True(t, reached)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_WithMemLimiter(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Finish()
	tc.AppContext.Config.RateLimit.Enabled = true
	tc.AppContext.RateLimiter = data.NewMemLimiter(2, time.Minute)

	var reached bool
	handler := rateLimitedHandler(tc, &reached)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
		req.RemoteAddr = "198.51.100.4:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
