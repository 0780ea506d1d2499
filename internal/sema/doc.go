// Package sema holds the analysis passes: the effect checker, the
// result/error-flow checker, and the quality, security and performance
// passes built on the shared AST walker.
//
// Passes read the program model and the call graph, both immutable, and
// write only through a diag.Reporter. Global computations (the effect
// fixed point, the flow summaries) run once behind the call-graph
// barrier; per-module checks are then safe to run in parallel.
package sema
