package ast

import "testing"

func call(callee string) *Expr { return &Expr{Kind: ExprCall, Callee: callee} }

func block(stmts ...*Stmt) *Block { return &Block{Stmts: stmts} }

func TestWalkStmtsVisitsNestedBlocks(t *testing.T) {
	body := block(
		&Stmt{Kind: StmtLet, Name: "x", Expr: call("a")},
		&Stmt{Kind: StmtIf, Cond: call("b"),
			Then: block(&Stmt{Kind: StmtReturn}),
			Else: block(&Stmt{Kind: StmtExpr, Expr: call("c")})},
		&Stmt{Kind: StmtMatch, Match: &Match{
			Subject: call("d"),
			Arms: []MatchArm{
				{Pattern: PatOk, Body: block(&Stmt{Kind: StmtReturn})},
			},
		}},
	)

	var kinds []StmtKind
	WalkStmts(body, func(s *Stmt) bool {
		kinds = append(kinds, s.Kind)
		return true
	})
	if len(kinds) != 6 {
		t.Fatalf("visited %d statements, want 6: %v", len(kinds), kinds)
	}
	if got := CountStmts(body); got != 6 {
		t.Errorf("CountStmts = %d", got)
	}
}

func TestWalkStmtsSkipsSubtreeOnFalse(t *testing.T) {
	body := block(
		&Stmt{Kind: StmtIf, Cond: call("a"),
			Then: block(&Stmt{Kind: StmtReturn})},
	)
	n := 0
	WalkStmts(body, func(s *Stmt) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("visited %d statements after a skip, want 1", n)
	}
}

func TestWalkExprsReachesArgumentsAndOperands(t *testing.T) {
	inner := call("inner")
	body := block(
		&Stmt{Kind: StmtExpr, Expr: &Expr{
			Kind: ExprBinary,
			X:    &Expr{Kind: ExprCall, Callee: "outer", Args: []*Expr{inner}},
			Y:    &Expr{Kind: ExprOk, X: &Expr{Kind: ExprLit, Lit: "1"}},
		}},
	)
	var callees []string
	WalkExprs(body, func(e *Expr) {
		if e.IsCall() {
			callees = append(callees, e.Callee)
		}
	})
	if len(callees) != 2 || callees[0] != "outer" || callees[1] != "inner" {
		t.Errorf("callees = %v", callees)
	}
}

func TestMatchCovers(t *testing.T) {
	okErr := &Match{Arms: []MatchArm{{Pattern: PatOk}, {Pattern: PatErr}}}
	if !okErr.Covers(PatOk) || !okErr.Covers(PatErr) {
		t.Error("explicit arms should cover their patterns")
	}

	wild := &Match{Arms: []MatchArm{{Pattern: PatOk}, {Pattern: PatWildcard}}}
	if !wild.Covers(PatErr) {
		t.Error("wildcard should cover the missing variant")
	}

	partial := &Match{Arms: []MatchArm{{Pattern: PatOk}}}
	if partial.Covers(PatErr) {
		t.Error("missing variant reported as covered")
	}
}

func TestTypeRefString(t *testing.T) {
	if got := Result("int", "IoError").String(); got != "Result<int, IoError>" {
		t.Errorf("Result string = %q", got)
	}
	unit := TypeRef{Name: "unit"}
	if got := unit.String(); got != "unit" {
		t.Errorf("plain string = %q", got)
	}
	if !unit.Unit() {
		t.Error("unit not recognized")
	}
}

func TestQualifiedName(t *testing.T) {
	if got := QualifiedName("app", "main"); got != "app::main" {
		t.Errorf("QualifiedName = %q", got)
	}
}
