package inspect

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit bounds how often option data is served. Health probes are never
// limited.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

// DefaultRateLimit applies to NewRouter without WithRateLimit, and fills in
// negative fields of a configured RateLimit.
var DefaultRateLimit = RateLimit{PerSecond: 5, Burst: 10}

// Disabled reports whether limiting is switched off by a zero rate or burst.
func (l RateLimit) Disabled() bool {
	return l.PerSecond == 0 || l.Burst == 0
}

func (l RateLimit) withDefaults() RateLimit {
	if l.PerSecond < 0 {
		l.PerSecond = DefaultRateLimit.PerSecond
	}
	if l.Burst < 0 {
		l.Burst = DefaultRateLimit.Burst
	}
	return l
}

// allower is satisfied by *rate.Limiter.
type allower interface {
	Allow() bool
}

// limiter returns nil when l is disabled.
func (l RateLimit) limiter() allower {
	if l.Disabled() {
		return nil
	}
	l = l.withDefaults()
	return rate.NewLimiter(rate.Limit(l.PerSecond), l.Burst)
}

func throttle(limiter allower, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthPath || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "Too many requests", "option reads are rate limited, retry shortly")
	})
}
