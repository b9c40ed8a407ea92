package inspect

import (
	"context"
	"crypto/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	healthPath      = "/api/health"
	optionsPath     = "/api/options"
	variablesPath   = "/api/variables"
	requestIDHeader = "X-Request-ID"
)

// RouterOption configures the behaviour of NewRouter.
type RouterOption func(*routerConfig)

// WithLogging controls whether access logs are emitted.
func WithLogging(enabled bool) RouterOption {
	return func(cfg *routerConfig) {
		cfg.logRequests = enabled
	}
}

// WithRateLimit replaces DefaultRateLimit for option reads.
func WithRateLimit(limit RateLimit) RouterOption {
	return func(cfg *routerConfig) {
		cfg.limiter = limit.limiter()
	}
}

// withLimiter installs a custom limiter; tests use it to force denials.
func withLimiter(limiter allower) RouterOption {
	return func(cfg *routerConfig) {
		cfg.limiter = limiter
	}
}

type routerConfig struct {
	logRequests bool
	limiter     allower
}

// NewRouter routes the inspection endpoints. Requests are tagged with a
// request id, throttled, and shielded from handler panics, in that order.
func NewRouter(handler *Handler, logger *zap.Logger, opts ...RouterOption) http.Handler {
	cfg := routerConfig{
		logRequests: true,
		limiter:     DefaultRateLimit.limiter(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, handler.handleHealth)
	mux.HandleFunc("GET "+optionsPath, handler.handleOptions)
	mux.HandleFunc("GET "+variablesPath, handler.handleVariables)

	return traced(logger, cfg.logRequests,
		throttle(cfg.limiter,
			recoverPanics(logger, mux)))
}

// NewServer wraps handler in an HTTP server listening on addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// traced attaches a request id to the context and response, and logs the
// outcome, throttled requests included, when logRequests is set.
func traced(logger *zap.Logger, logRequests bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = rand.Text()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDContextKey, id)))

		if logRequests {
			logger.Info("inspection request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", id),
			)
		}
	})
}

func recoverPanics(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("inspection handler panicked",
					zap.Any("panic", p),
					zap.String("request_id", requestIDFromContext(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "Internal error", "unexpected server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
