//go:build debug

package config

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// freshPartialBacktraces swaps in an unevaluated cell for the process-wide
// flag so the environment set by the test is the one it reads.
func freshPartialBacktraces(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	saved := partialBacktraces
	partialBacktraces = NewLazyFlag(partialBacktracesSpec, os.LookupEnv, currentLogger)

	core, logs := observer.New(zapcore.InfoLevel)
	savedLogger := initLogger.Load()
	initLogger.Store(zap.New(core))

	t.Cleanup(func() {
		partialBacktraces = saved
		initLogger.Store(savedLogger)
	})
	return logs
}

func TestEmitPartialBacktracesReadsEnvironmentOnce(t *testing.T) {
	logs := freshPartialBacktraces(t)
	t.Setenv("MEMORY_PROFILER_EMIT_PARTIAL_BACKTRACES", "0")

	if EmitPartialBacktraces() {
		t.Fatalf("expected partial backtraces to be disabled")
	}

	t.Setenv("MEMORY_PROFILER_EMIT_PARTIAL_BACKTRACES", "1")
	if EmitPartialBacktraces() {
		t.Fatalf("expected the first decision to stay cached")
	}
	if got := logs.FilterMessage("will NOT emit partial backtraces").Len(); got != 1 {
		t.Fatalf("expected the decision to be logged once, got %d", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected a single log line, got %d", logs.Len())
	}
}

func TestEmitPartialBacktracesDefaultsToTrue(t *testing.T) {
	logs := freshPartialBacktraces(t)
	t.Setenv("MEMORY_PROFILER_EMIT_PARTIAL_BACKTRACES", "")
	os.Unsetenv("MEMORY_PROFILER_EMIT_PARTIAL_BACKTRACES")

	if !EmitPartialBacktraces() {
		t.Fatalf("expected partial backtraces to be emitted when unset")
	}
	if logs.FilterMessage("will emit partial backtraces").Len() != 1 {
		t.Fatalf("expected the decision to be logged once")
	}
}
