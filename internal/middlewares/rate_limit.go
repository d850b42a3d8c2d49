package middlewares

import (
	"math"
	"net/http"
	"strconv"

	"conspect-web/internal/metrics"
)

// RateLimit rejects clients that exceed the configured request budget with 429.
// Store failures let the request through.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if appCtx.RateLimiter == nil || !appCtx.Config.RateLimit.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := ClientIP(r)

		decision, err := appCtx.RateLimiter.Allow(r.Context(), clientIP)
		if err != nil {
			appCtx.Logger.Error("rate limiter unavailable, allowing request", "store", appCtx.RateLimiter.Name(), "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			metrics.RateLimitedTotal.WithLabelValues(appCtx.RateLimiter.Name()).Inc()
			appCtx.Logger.Warn("rate limit exceeded", "client_ip", clientIP, "path", r.URL.Path)

			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			appCtx.Request = r
			appCtx.Response = w
			appCtx.SetJSONError(http.StatusTooManyRequests, "too many requests, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}
