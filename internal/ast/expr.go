package ast

import (
	"vela/internal/source"
)

// ExprKind discriminates the Expr union.
type ExprKind uint8

const (
	ExprBad ExprKind = iota
	ExprCall
	ExprIdent
	ExprLit
	ExprUnary
	ExprBinary
	ExprOk  // Ok(x) result constructor
	ExprErr // Err(x) result constructor
)

// Expr is a kind-tagged expression node. Which fields are populated
// depends on Kind:
//
//	ExprCall   — Callee (possibly alias-qualified with ::), Args, Propagate
//	ExprIdent  — Lit (identifier name)
//	ExprLit    — Lit (literal text)
//	ExprUnary  — Op, X
//	ExprBinary — Op, X, Y
//	ExprOk     — X (payload, may be nil)
//	ExprErr    — X (payload, may be nil)
type Expr struct {
	Kind      ExprKind
	Callee    string
	Args      []*Expr
	X         *Expr
	Y         *Expr
	Op        string
	Lit       string
	Propagate bool // postfix ? on a call
	Span      source.Span
}

// IsCall reports whether e is a call expression.
func (e *Expr) IsCall() bool {
	return e != nil && e.Kind == ExprCall
}
