// Package agent performs profiler start-up: it resolves the runtime options
// once, and derives from them the plan that the instrumentation collaborators
// (allocation hooks, unwinder, server, signal handlers, output writer) are
// started with. The resolved options are handed to collaborators by
// reference and never change afterwards.
package agent
