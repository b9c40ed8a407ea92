package config

import "github.com/eugenenazirov/memory-profiler/internal/envvar"

const (
	defaultBaseServerPort         = 8100
	defaultOutputPathPattern      = "memory-profiling_%e_%t_%p.dat"
	defaultBacktraceCacheLevel1   = 16 * 1024
	defaultBacktraceCacheLevel2   = 320 * 1024
	defaultTemporaryLifetimeLimit = 10000
)

// Options is the resolved set of profiler tunables.
type Options struct {
	resolved bool

	BaseServerPort                       uint16                `json:"base_server_port" yaml:"base_server_port"`
	ChownOutputTo                        envvar.Option[uint32] `json:"chown_output_to" yaml:"chown_output_to"`
	DisabledByDefault                    bool                  `json:"disabled_by_default" yaml:"disabled_by_default"`
	EnableBroadcasts                     bool                  `json:"enable_broadcasts" yaml:"enable_broadcasts"`
	EnableServer                         bool                  `json:"enable_server" yaml:"enable_server"`
	EnableShadowStack                    bool                  `json:"enable_shadow_stack" yaml:"enable_shadow_stack"`
	GrabBacktracesOnFree                 bool                  `json:"grab_backtraces_on_free" yaml:"grab_backtraces_on_free"`
	IncludeFile                          envvar.Option[string] `json:"include_file" yaml:"include_file"`
	OutputPathPattern                    string                `json:"output_path_pattern" yaml:"output_path_pattern"`
	RegisterSIGUSR1                      bool                  `json:"register_sigusr1" yaml:"register_sigusr1"`
	RegisterSIGUSR2                      bool                  `json:"register_sigusr2" yaml:"register_sigusr2"`
	UsePerfEventOpen                     bool                  `json:"use_perf_event_open" yaml:"use_perf_event_open"`
	WriteBinariesToOutput                bool                  `json:"write_binaries_to_output" yaml:"write_binaries_to_output"`
	ZeroMemory                           bool                  `json:"zero_memory" yaml:"zero_memory"`
	GatherMmapCalls                      bool                  `json:"gather_mmap_calls" yaml:"gather_mmap_calls"`
	BacktraceCacheSizeLevel1             uint                  `json:"backtrace_cache_size_level_1" yaml:"backtrace_cache_size_level_1"`
	BacktraceCacheSizeLevel2             uint                  `json:"backtrace_cache_size_level_2" yaml:"backtrace_cache_size_level_2"`
	CullTemporaryAllocations             bool                  `json:"cull_temporary_allocations" yaml:"cull_temporary_allocations"`
	TemporaryAllocationLifetimeThreshold uint64                `json:"temporary_allocation_lifetime_threshold" yaml:"temporary_allocation_lifetime_threshold"`
	TemporaryAllocationPendingThreshold  envvar.Option[uint]   `json:"temporary_allocation_pending_threshold" yaml:"temporary_allocation_pending_threshold"`
}

// Defaults returns the compiled-in option values. The result is not marked
// as resolved.
func Defaults() Options {
	return Options{
		BaseServerPort:                       defaultBaseServerPort,
		ChownOutputTo:                        envvar.None[uint32](),
		DisabledByDefault:                    false,
		EnableBroadcasts:                     false,
		EnableServer:                         false,
		EnableShadowStack:                    true,
		GrabBacktracesOnFree:                 true,
		IncludeFile:                          envvar.None[string](),
		OutputPathPattern:                    defaultOutputPathPattern,
		RegisterSIGUSR1:                      true,
		RegisterSIGUSR2:                      true,
		UsePerfEventOpen:                     true,
		WriteBinariesToOutput:                true,
		ZeroMemory:                           false,
		GatherMmapCalls:                      false,
		BacktraceCacheSizeLevel1:             defaultBacktraceCacheLevel1,
		BacktraceCacheSizeLevel2:             defaultBacktraceCacheLevel2,
		CullTemporaryAllocations:             false,
		TemporaryAllocationLifetimeThreshold: defaultTemporaryLifetimeLimit,
		TemporaryAllocationPendingThreshold:  envvar.None[uint](),
	}
}

// Resolved reports whether o was produced by Resolve.
func (o *Options) Resolved() bool {
	return o != nil && o.resolved
}
