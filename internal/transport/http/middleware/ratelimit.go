package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"postpilot/internal/httputil"
)

// Atomic INCR + set EXPIRE when the key is new.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit is a fixed-window limiter keyed by client IP, backed by Redis.
// It fails open: a Redis error never blocks a request. Disabled (no-op) when
// rdb is nil.
func RateLimit(rdb *redis.Client, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || max <= 0 || window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := "rl:ip:" + clientIP(r)

			countI, err := incrExpireScript.Run(r.Context(), rdb, []string{key}, window.Milliseconds()).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			count, _ := countI.(int64)

			ttl, _ := rdb.TTL(r.Context(), key).Result()
			resetSec := 0
			if ttl > 0 {
				resetSec = int(ttl.Seconds())
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			remaining := max - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

			if int(count) > max {
				if resetSec > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(resetSec))
				}
				httputil.WriteTooManyRequests(w, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller's IP, honoring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
