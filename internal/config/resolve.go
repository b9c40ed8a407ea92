package config

import (
	"go.uber.org/zap"

	"github.com/eugenenazirov/memory-profiler/internal/envvar"
)

const envPrefix = "MEMORY_PROFILER_"

// binding ties one environment variable to one field of Options.
type binding struct {
	name  string
	apply func(lookup envvar.LookupFunc, opts *Options)
	value func(opts *Options) any
}

// Setting is the value in effect for one environment variable.
type Setting struct {
	Name  string
	Value any
}

// bind builds a binding whose apply overwrites the field only when the
// variable is set and decodes.
func bind[T any](suffix string, decode envvar.Decoder[T], field func(*Options) *T) binding {
	name := envPrefix + suffix
	return binding{
		name: name,
		apply: func(lookup envvar.LookupFunc, opts *Options) {
			if value, ok := envvar.Lookup(lookup, name, decode).Get(); ok {
				*field(opts) = value
			}
		},
		value: func(opts *Options) any {
			return *field(opts)
		},
	}
}

var bindings = []binding{
	bind("BASE_SERVER_PORT", envvar.Uint16, func(o *Options) *uint16 { return &o.BaseServerPort }),
	bind("CHOWN_OUTPUT_TO", envvar.Optional(envvar.Uint32), func(o *Options) *envvar.Option[uint32] { return &o.ChownOutputTo }),
	bind("DISABLE_BY_DEFAULT", envvar.Bool, func(o *Options) *bool { return &o.DisabledByDefault }),
	bind("ENABLE_BROADCAST", envvar.Bool, func(o *Options) *bool { return &o.EnableBroadcasts }),
	bind("ENABLE_SERVER", envvar.Bool, func(o *Options) *bool { return &o.EnableServer }),
	bind("GRAB_BACKTRACES_ON_FREE", envvar.Bool, func(o *Options) *bool { return &o.GrabBacktracesOnFree }),
	bind("INCLUDE_FILE", envvar.Optional(envvar.String), func(o *Options) *envvar.Option[string] { return &o.IncludeFile }),
	bind("OUTPUT", envvar.String, func(o *Options) *string { return &o.OutputPathPattern }),
	bind("REGISTER_SIGUSR1", envvar.Bool, func(o *Options) *bool { return &o.RegisterSIGUSR1 }),
	bind("REGISTER_SIGUSR2", envvar.Bool, func(o *Options) *bool { return &o.RegisterSIGUSR2 }),
	bind("USE_PERF_EVENT_OPEN", envvar.Bool, func(o *Options) *bool { return &o.UsePerfEventOpen }),
	bind("USE_SHADOW_STACK", envvar.Bool, func(o *Options) *bool { return &o.EnableShadowStack }),
	bind("WRITE_BINARIES_TO_OUTPUT", envvar.Bool, func(o *Options) *bool { return &o.WriteBinariesToOutput }),
	bind("ZERO_MEMORY", envvar.Bool, func(o *Options) *bool { return &o.ZeroMemory }),
	bind("GATHER_MMAP_CALLS", envvar.Bool, func(o *Options) *bool { return &o.GatherMmapCalls }),
	bind("BACKTRACE_CACHE_SIZE_LEVEL_1", envvar.Size, func(o *Options) *uint { return &o.BacktraceCacheSizeLevel1 }),
	bind("BACKTRACE_CACHE_SIZE_LEVEL_2", envvar.Size, func(o *Options) *uint { return &o.BacktraceCacheSizeLevel2 }),
	bind("CULL_TEMPORARY_ALLOCATIONS", envvar.Bool, func(o *Options) *bool { return &o.CullTemporaryAllocations }),
	bind("TEMPORARY_ALLOCATION_LIFETIME_THRESHOLD", envvar.Uint64, func(o *Options) *uint64 {
		return &o.TemporaryAllocationLifetimeThreshold
	}),
	bind("TEMPORARY_ALLOCATION_PENDING_THRESHOLD", envvar.Optional(envvar.Size), func(o *Options) *envvar.Option[uint] {
		return &o.TemporaryAllocationPendingThreshold
	}),
}

// Resolve builds Options from the defaults and the variables visible through
// lookup. Unset variables and values that fail to decode keep their default.
// One log line per option records the value in effect.
//
// Resolve does not touch the process-wide store; see Init.
func Resolve(lookup envvar.LookupFunc, logger *zap.Logger) *Options {
	return resolve(bindings, lookup, logger)
}

func resolve(table []binding, lookup envvar.LookupFunc, logger *zap.Logger) *Options {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := Defaults()
	logger.Info("options")
	for _, b := range table {
		b.apply(lookup, &opts)
		logger.Info("option", zap.String("name", b.name), zap.Any("value", b.value(&opts)))
	}
	opts.resolved = true

	return &opts
}

// Variables returns the names of the environment variables read by Resolve,
// in resolution order.
func Variables() []string {
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		names = append(names, b.name)
	}
	return names
}

// Settings lists every option with its environment variable name, in
// resolution order.
func (o *Options) Settings() []Setting {
	settings := make([]Setting, 0, len(bindings))
	for _, b := range bindings {
		settings = append(settings, Setting{Name: b.name, Value: b.value(o)})
	}
	return settings
}
