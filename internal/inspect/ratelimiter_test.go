package inspect

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow() bool {
	return s.allow
}

func TestRateLimitDisabled(t *testing.T) {
	tests := []struct {
		limit RateLimit
		want  bool
	}{
		{limit: RateLimit{}, want: true},
		{limit: RateLimit{PerSecond: 0, Burst: 3}, want: true},
		{limit: RateLimit{PerSecond: 2, Burst: 0}, want: true},
		{limit: RateLimit{PerSecond: 2, Burst: 3}, want: false},
		{limit: RateLimit{PerSecond: -1, Burst: -1}, want: false},
	}

	for _, tc := range tests {
		if got := tc.limit.Disabled(); got != tc.want {
			t.Fatalf("%+v: expected Disabled() = %v, got %v", tc.limit, tc.want, got)
		}
		if got := tc.limit.limiter() == nil; got != tc.want {
			t.Fatalf("%+v: expected nil limiter = %v, got %v", tc.limit, tc.want, got)
		}
	}
}

func TestRateLimitNegativeFieldsUseDefaults(t *testing.T) {
	got := RateLimit{PerSecond: -1, Burst: 4}.withDefaults()
	if got.PerSecond != DefaultRateLimit.PerSecond || got.Burst != 4 {
		t.Fatalf("unexpected limit %+v", got)
	}

	got = RateLimit{PerSecond: 2, Burst: -3}.withDefaults()
	if got.PerSecond != 2 || got.Burst != DefaultRateLimit.Burst {
		t.Fatalf("unexpected limit %+v", got)
	}
}

func TestThrottleRejectsOptionReads(t *testing.T) {
	handler := throttle(&staticLimiter{allow: false}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler should not execute when throttled")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, optionsPath, nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestThrottleLetsHealthThrough(t *testing.T) {
	var called bool
	handler := throttle(&staticLimiter{allow: false}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, healthPath, nil))

	if !called {
		t.Fatalf("expected health probes to bypass the limiter")
	}
}
