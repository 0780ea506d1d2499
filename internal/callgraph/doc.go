// Package callgraph resolves every call expression of a program to its
// callee and builds the directed caller->callee graph the effect and
// result checkers walk. Resolution order is fixed: local function table,
// then imported symbols qualified by import alias, then the intrinsic
// effect table. Unresolved calls become diagnostics and contribute the
// empty effect set; they never abort the run.
package callgraph
