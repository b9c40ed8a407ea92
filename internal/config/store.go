package config

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/eugenenazirov/memory-profiler/internal/envvar"
)

var (
	current    atomic.Pointer[Options]
	initLogger atomic.Pointer[zap.Logger]
)

// Init resolves the options from the process environment and publishes them
// for Get. It must run once, before any other goroutine calls Get. Later calls
// keep the first result and return it.
func Init(logger *zap.Logger) *Options {
	return initFrom(os.LookupEnv, logger)
}

func initFrom(lookup envvar.LookupFunc, logger *zap.Logger) *Options {
	if logger == nil {
		logger = zap.NewNop()
	}
	if existing := current.Load(); existing != nil {
		logger.Warn("options already initialized, keeping the first resolution")
		return existing
	}

	opts := Resolve(lookup, logger)
	if !current.CompareAndSwap(nil, opts) {
		logger.Warn("options already initialized, keeping the first resolution")
		return current.Load()
	}
	initLogger.Store(logger)

	return opts
}

// Get returns the process-wide options. The result must be treated as
// read-only.
//
// Debug builds panic when Get runs before Init. Release builds skip the check
// and return a fresh copy of the compiled-in defaults on every call.
func Get() *Options {
	if opts := current.Load(); opts != nil {
		return opts
	}
	if debugBuild {
		panic("config: options read before Init")
	}
	defaults := Defaults()
	return &defaults
}

func currentLogger() *zap.Logger {
	if logger := initLogger.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}
