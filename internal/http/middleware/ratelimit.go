package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/Notifuse/emailbuilder/pkg/ratelimiter"
)

// RateLimit answers 429 once the caller ran out of tokens. Callers are keyed
// by authenticated user, or by remote address before authentication. A nil
// limiter disables the check.
func RateLimit(limiter *ratelimiter.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(key) {
				seconds := math.Max(math.Ceil(limiter.RetryAfter(key).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(int(seconds)))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if user, ok := UserFromContext(r.Context()); ok {
		return "user:" + user.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
