// Package rules owns analyzer configuration and the engine that drives
// the passes: it builds the call graph for the whole program, runs the
// global fixed points, fans per-module checks out onto a worker pool,
// then collects, filters and orders the diagnostics.
//
// The engine is re-entrant: every run gets a fresh effect universe and
// fresh collectors, and the only state that survives a run is the
// optional content-hash-keyed analysis cache.
package rules
