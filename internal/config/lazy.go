package config

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/eugenenazirov/memory-profiler/internal/envvar"
)

// LazyFlagSpec describes a boolean that is read from the environment on first
// use instead of during Resolve.
type LazyFlagSpec struct {
	Variable string
	Decode   envvar.Decoder[bool]
	Default  bool
	// Messages logged once when the flag is evaluated.
	Enabled  string
	Disabled string
}

// LazyFlag evaluates its spec at most once. Concurrent first callers block
// until the single evaluation finishes and all observe the same value.
type LazyFlag struct {
	get func() bool
}

// NewLazyFlag returns a flag backed by lookup. logger is consulted at
// evaluation time so the flag picks up whichever logger Init installed.
func NewLazyFlag(spec LazyFlagSpec, lookup envvar.LookupFunc, logger func() *zap.Logger) *LazyFlag {
	return &LazyFlag{
		get: sync.OnceValue(func() bool {
			value := envvar.Lookup(lookup, spec.Variable, spec.Decode).OrElse(spec.Default)
			message := spec.Disabled
			if value {
				message = spec.Enabled
			}
			logger().Info(message, zap.String("name", spec.Variable), zap.Bool("value", value))
			return value
		}),
	}
}

// Get returns the cached value, evaluating it on the first call.
func (f *LazyFlag) Get() bool {
	return f.get()
}

var partialBacktracesSpec = LazyFlagSpec{
	Variable: envPrefix + "EMIT_PARTIAL_BACKTRACES",
	Decode: func(raw string) envvar.Option[bool] {
		return envvar.Some(raw == "1")
	},
	Default:  true,
	Enabled:  "will emit partial backtraces",
	Disabled: "will NOT emit partial backtraces",
}

var partialBacktraces = NewLazyFlag(partialBacktracesSpec, os.LookupEnv, currentLogger)

// CrosscheckUnwindResults reports whether unwinding results are verified
// against a second unwinder. Always false in this build.
func CrosscheckUnwindResults() bool {
	return false
}

// EmitPartialBacktraces reports whether backtraces that could not be unwound
// to the end are still emitted. Release builds always emit them; debug builds
// consult MEMORY_PROFILER_EMIT_PARTIAL_BACKTRACES the first time they are asked.
func EmitPartialBacktraces() bool {
	if !debugBuild {
		return true
	}
	return partialBacktraces.Get()
}
