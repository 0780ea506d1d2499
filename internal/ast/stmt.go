package ast

import (
	"vela/internal/source"
)

// StmtKind discriminates the Stmt union.
type StmtKind uint8

const (
	StmtBad StmtKind = iota
	StmtLet
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtMatch
)

// Block is a brace-delimited statement list.
type Block struct {
	Stmts []*Stmt
	Span  source.Span
}

// Stmt is a kind-tagged statement node. Which fields are populated
// depends on Kind:
//
//	StmtLet    — Name, Expr (initializer)
//	StmtExpr   — Expr
//	StmtReturn — Expr (nil for a bare return)
//	StmtIf     — Cond, Then, Else (Else may be nil)
//	StmtWhile  — Cond, Then (loop body)
//	StmtMatch  — Match
type Stmt struct {
	Kind  StmtKind
	Name  string
	Expr  *Expr
	Cond  *Expr
	Then  *Block
	Else  *Block
	Match *Match
	Span  source.Span
}

// Pattern discriminates match arm patterns over a Result value.
type Pattern uint8

const (
	PatWildcard Pattern = iota
	PatOk
	PatErr
)

func (p Pattern) String() string {
	switch p {
	case PatOk:
		return "Ok"
	case PatErr:
		return "Err"
	}
	return "_"
}

// Match is a match statement over a (typically fallible) value.
type Match struct {
	Subject *Expr
	Arms    []MatchArm
	Span    source.Span
}

// MatchArm is one pattern plus its body. Binding names the payload
// variable, when the pattern introduces one.
type MatchArm struct {
	Pattern Pattern
	Binding string
	Body    *Block
	Span    source.Span
}

// Covers reports whether the arms cover the given pattern, counting a
// wildcard arm as covering everything. Shared by every exhaustiveness
// check over the two-variant result union.
func (m *Match) Covers(p Pattern) bool {
	for _, arm := range m.Arms {
		if arm.Pattern == p || arm.Pattern == PatWildcard {
			return true
		}
	}
	return false
}
