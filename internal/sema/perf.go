package sema

import (
	"fmt"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
)

// PerfOptions configures the performance pass.
type PerfOptions struct {
	Graph    *callgraph.Graph
	Reporter diag.Reporter
}

// CheckLoopIntrinsics flags effectful host calls issued from inside a
// loop body: a hoisting opportunity, reported once per call site.
func CheckLoopIntrinsics(mod *ast.Module, opts PerfOptions) {
	for _, fn := range mod.Funcs {
		walkLoops(fn.Body, false, func(e *ast.Expr) {
			res, ok := opts.Graph.ResolveCall(e)
			if !ok || res.Kind != callgraph.ResolvedIntrinsic {
				return
			}
			diag.ReportWarning(opts.Reporter, diag.IntrinsicCallInLoop, e.Span,
				fmt.Sprintf("intrinsic `%s` with effects %v is invoked on every loop iteration", e.Callee, res.Intrinsic().Effects)).
				WithFix("hoist the call out of the loop if its value is loop-invariant").
				Emit()
		})
	}
}

// walkLoops visits call expressions, invoking report only for calls
// lexically inside a while body. Each call site is visited once even
// under nested loops.
func walkLoops(b *ast.Block, inLoop bool, report func(*ast.Expr)) {
	if b == nil {
		return
	}
	visitExpr := func(e *ast.Expr) {
		if !inLoop {
			return
		}
		walkCalls(e, report)
	}
	for _, s := range b.Stmts {
		switch s.Kind {
		case ast.StmtLet, ast.StmtExpr, ast.StmtReturn:
			visitExpr(s.Expr)
		case ast.StmtIf:
			visitExpr(s.Cond)
			walkLoops(s.Then, inLoop, report)
			walkLoops(s.Else, inLoop, report)
		case ast.StmtWhile:
			visitExpr(s.Cond)
			walkLoops(s.Then, true, report)
		case ast.StmtMatch:
			if s.Match == nil {
				continue
			}
			visitExpr(s.Match.Subject)
			for i := range s.Match.Arms {
				walkLoops(s.Match.Arms[i].Body, inLoop, report)
			}
		}
	}
}

func walkCalls(e *ast.Expr, report func(*ast.Expr)) {
	if e == nil {
		return
	}
	if e.IsCall() {
		report(e)
	}
	walkCalls(e.X, report)
	walkCalls(e.Y, report)
	for _, a := range e.Args {
		walkCalls(a, report)
	}
}
