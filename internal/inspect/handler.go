package inspect

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/memory-profiler/internal/config"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes a resolved options record over HTTP.
type Handler struct {
	options   *config.Options
	variables []string

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler serving opts.
func NewHandler(opts *config.Options, handlerOpts ...HandlerOption) *Handler {
	h := &Handler{
		options:   opts,
		variables: config.Variables(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range handlerOpts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	_ = r
	if h.options == nil {
		writeError(w, http.StatusServiceUnavailable, "Options unavailable", "options have not been resolved")
		return
	}

	resp := optionsResponse{
		Resolved:              h.options.Resolved(),
		Options:               h.options,
		EmitPartialBacktraces: config.EmitPartialBacktraces(),
		CrosscheckUnwind:      config.CrosscheckUnwindResults(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVariables(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, variablesResponse{Variables: h.variables})
}

type optionsResponse struct {
	Resolved              bool            `json:"resolved"`
	Options               *config.Options `json:"options"`
	EmitPartialBacktraces bool            `json:"emitPartialBacktraces"`
	CrosscheckUnwind      bool            `json:"crosscheckUnwindResults"`
}

type variablesResponse struct {
	Variables []string `json:"variables"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON never lets clients cache a response: options differ per process.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
