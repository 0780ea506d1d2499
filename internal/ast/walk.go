package ast

// WalkStmts visits every statement in the block depth-first, outer
// statement before its nested blocks. Return false from visit to skip
// the statement's children.
func WalkStmts(b *Block, visit func(*Stmt) bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		if s == nil {
			continue
		}
		if !visit(s) {
			continue
		}
		WalkStmts(s.Then, visit)
		WalkStmts(s.Else, visit)
		if s.Match != nil {
			for i := range s.Match.Arms {
				WalkStmts(s.Match.Arms[i].Body, visit)
			}
		}
	}
}

// WalkExprs visits every expression in the block, including nested
// operands and call arguments, in source order.
func WalkExprs(b *Block, visit func(*Expr)) {
	WalkStmts(b, func(s *Stmt) bool {
		walkExpr(s.Expr, visit)
		walkExpr(s.Cond, visit)
		if s.Match != nil {
			walkExpr(s.Match.Subject, visit)
		}
		return true
	})
}

func walkExpr(e *Expr, visit func(*Expr)) {
	if e == nil {
		return
	}
	visit(e)
	walkExpr(e.X, visit)
	walkExpr(e.Y, visit)
	for _, a := range e.Args {
		walkExpr(a, visit)
	}
}

// CountStmts returns the number of statements in the block, nested ones
// included. Used by body-length style rules.
func CountStmts(b *Block) int {
	n := 0
	WalkStmts(b, func(*Stmt) bool {
		n++
		return true
	})
	return n
}
