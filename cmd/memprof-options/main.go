package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/memory-profiler/internal/agent"
	"github.com/eugenenazirov/memory-profiler/internal/inspect"
	"github.com/eugenenazirov/memory-profiler/internal/logging"
)

var (
	signalNotify = signal.Notify
	signalStop   = signal.Stop
)

const shutdownGracePeriod = 5 * time.Second

func main() {
	app := kingpin.New("memprof-options", "Shows the memory profiler's runtime options as resolved from the environment")

	showCmd := app.Command("show", "Print the effective value of every option")
	format := showCmd.Flag("format", "Output format").Default(formatText).Enum(formatText, formatJSON, formatYAML)

	varsCmd := app.Command("vars", "List the environment variables that are consulted")

	serveCmd := app.Command("serve", "Serve the effective options over HTTP")
	listen := serveCmd.Flag("listen", "Listen address (defaults to 127.0.0.1:<MEMORY_PROFILER_BASE_SERVER_PORT>)").String()
	rateLimitRPS := serveCmd.Flag("rate-limit-rps", "Option reads per second allowed (set 0 to disable)").
		Default(strconv.FormatFloat(inspect.DefaultRateLimit.PerSecond, 'g', -1, 64)).Float64()
	rateLimitBurst := serveCmd.Flag("rate-limit-burst", "Burst capacity for option reads (set 0 to disable)").
		Default(strconv.Itoa(inspect.DefaultRateLimit.Burst)).Int()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(os.Getenv(logging.LevelVariable))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	a, err := agent.Bootstrap(logger)
	if err != nil {
		logger.Fatal("failed to resolve options", zap.Error(err))
	}

	switch command {
	case showCmd.FullCommand():
		err = render(os.Stdout, a.Options(), *format)
	case varsCmd.FullCommand():
		err = renderVariables(os.Stdout)
	case serveCmd.FullCommand():
		addr := *listen
		if addr == "" {
			addr = fmt.Sprintf("127.0.0.1:%d", a.Options().BaseServerPort)
		}
		handler := inspect.NewRouter(inspect.NewHandler(a.Options()), logger,
			inspect.WithRateLimit(inspect.RateLimit{PerSecond: *rateLimitRPS, Burst: *rateLimitBurst}),
		)
		err = serve(inspect.NewServer(addr, handler), logger)
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("command", command), zap.Error(err))
	}
}

func serve(server *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signalStop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	shutdown(server, shutdownGracePeriod, logger)
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
