// Package diag defines the diagnostic model shared by every analysis
// pass: severities, stable rule codes, the Diagnostic value itself, the
// Bag collector, and the Reporter interface passes emit through.
//
// Passes never hold global state; each worker writes into its own Bag
// and the engine merges them, which keeps the whole analyzer re-entrant.
package diag
