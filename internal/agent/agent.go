package agent

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/memory-profiler/internal/config"
	"github.com/eugenenazirov/memory-profiler/internal/envvar"
)

// ErrUnresolvedOptions is returned when New receives options that did not come
// from config.Resolve or config.Init.
var ErrUnresolvedOptions = errors.New("options have not been resolved")

// Plan is what the agent's collaborators need to know at start-up.
type Plan struct {
	Enabled               bool
	ServerAddr            string
	Broadcast             bool
	Signals               []string
	UsePerfEventOpen      bool
	UseShadowStack        bool
	GrabBacktracesOnFree  bool
	EmitPartialBacktraces bool
	CrosscheckUnwind      bool
	ZeroMemory            bool
	GatherMmapCalls       bool
	WriteBinaries         bool
	BacktraceCacheTiers   [2]uint
	Culling               CullingPlan
}

// CullingPlan configures temporary-allocation culling.
type CullingPlan struct {
	Enabled           bool
	LifetimeThreshold uint64
	PendingThreshold  envvar.Option[uint]
}

// Agent holds the resolved options and the plan derived from them.
type Agent struct {
	options *config.Options
	logger  *zap.Logger
	plan    Plan
	started time.Time
}

// Bootstrap resolves the process-wide options from the environment and builds
// an Agent from them. It must run before any instrumentation goroutine reads
// config.Get.
func Bootstrap(logger *zap.Logger) (*Agent, error) {
	return New(config.Init(logger), logger)
}

// New derives the start-up plan from opts.
func New(opts *config.Options, logger *zap.Logger) (*Agent, error) {
	if !opts.Resolved() {
		return nil, ErrUnresolvedOptions
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Agent{
		options: opts,
		logger:  logger,
		plan:    buildPlan(opts),
		started: time.Now(),
	}
	a.logPlan()

	return a, nil
}

// Options returns the resolved options; callers must not modify them.
func (a *Agent) Options() *config.Options {
	return a.options
}

// Plan returns the derived start-up plan.
func (a *Agent) Plan() Plan {
	plan := a.plan
	plan.Signals = append([]string(nil), a.plan.Signals...)
	return plan
}

// OutputPath expands the configured output pattern for this process.
func (a *Agent) OutputPath(counter uint) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return a.options.OutputPath(config.Placeholders{
		Executable: exe,
		Start:      a.started,
		PID:        os.Getpid(),
		Counter:    counter,
	}), nil
}

func buildPlan(opts *config.Options) Plan {
	plan := Plan{
		Enabled:               !opts.DisabledByDefault,
		Broadcast:             opts.EnableBroadcasts,
		UsePerfEventOpen:      opts.UsePerfEventOpen,
		UseShadowStack:        opts.EnableShadowStack,
		GrabBacktracesOnFree:  opts.GrabBacktracesOnFree,
		EmitPartialBacktraces: config.EmitPartialBacktraces(),
		CrosscheckUnwind:      config.CrosscheckUnwindResults(),
		ZeroMemory:            opts.ZeroMemory,
		GatherMmapCalls:       opts.GatherMmapCalls,
		WriteBinaries:         opts.WriteBinariesToOutput,
		BacktraceCacheTiers:   [2]uint{opts.BacktraceCacheSizeLevel1, opts.BacktraceCacheSizeLevel2},
		Culling: CullingPlan{
			Enabled:           opts.CullTemporaryAllocations,
			LifetimeThreshold: opts.TemporaryAllocationLifetimeThreshold,
			PendingThreshold:  opts.TemporaryAllocationPendingThreshold,
		},
	}

	if opts.EnableServer {
		plan.ServerAddr = fmt.Sprintf("0.0.0.0:%d", opts.BaseServerPort)
	}
	if opts.RegisterSIGUSR1 {
		plan.Signals = append(plan.Signals, "SIGUSR1")
	}
	if opts.RegisterSIGUSR2 {
		plan.Signals = append(plan.Signals, "SIGUSR2")
	}

	return plan
}

func (a *Agent) logPlan() {
	fields := []zap.Field{
		zap.Bool("enabled", a.plan.Enabled),
		zap.String("server_addr", a.plan.ServerAddr),
		zap.Bool("broadcast", a.plan.Broadcast),
		zap.Strings("signals", a.plan.Signals),
		zap.Bool("perf_event_open", a.plan.UsePerfEventOpen),
		zap.Bool("shadow_stack", a.plan.UseShadowStack),
		zap.Bool("cull_temporary_allocations", a.plan.Culling.Enabled),
	}
	if include, ok := a.options.IncludeFile.Get(); ok {
		fields = append(fields, zap.String("include_file", include))
	}
	if uid, ok := a.options.ChownOutputTo.Get(); ok {
		fields = append(fields, zap.Uint32("chown_output_to", uid))
	}
	a.logger.Info("agent plan", fields...)
}
