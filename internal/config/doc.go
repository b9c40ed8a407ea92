// Package config resolves the profiler's runtime options from the process
// environment. Options are resolved once at startup and are read-only
// afterwards, so instrumentation code on any thread can read them without
// locking. Malformed values never stop the agent: they fall back to the
// compiled-in defaults, and the effective value of every option is logged.
package config
