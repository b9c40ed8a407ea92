package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelVariable selects the log level of the agent.
const LevelVariable = "MEMORY_PROFILER_LOG"

// New creates a production structured logger writing JSON to stderr. An empty
// or unrecognised level falls back to info.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.Level = parseLevel(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("memory-profiler"), nil
}

func parseLevel(level string) zap.AtomicLevel {
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil || level == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return parsed
}
