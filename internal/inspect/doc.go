// Package inspect serves a read-only HTTP view of resolved profiler options.
// It never mutates the options it is given.
package inspect
