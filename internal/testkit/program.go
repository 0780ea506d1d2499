// Package testkit builds small in-memory programs for checker tests.
// Every node gets a distinct, monotonically increasing span so sorting
// and deduplication behave like they would on real source.
package testkit

import (
	"vela/internal/ast"
	"vela/internal/source"
)

// B hands out AST nodes with unique spans inside one synthetic file.
type B struct {
	file source.FileID
	off  uint32
}

// New creates a builder for the given file ID.
func New(file source.FileID) *B {
	return &B{file: file}
}

func (b *B) span() source.Span {
	sp := source.Span{File: b.file, Start: b.off, End: b.off + 8}
	b.off += 10
	return sp
}

// Program assembles modules into a program.
func Program(mods ...*ast.Module) *ast.Program {
	return &ast.Program{Modules: mods}
}

// Module creates a module whose path is derived from its name.
func (b *B) Module(name string, fns ...*ast.Function) *ast.Module {
	return &ast.Module{Name: name, Path: name + ".vl", File: b.file, Funcs: fns}
}

// Import adds an import edge to a module.
func (b *B) Import(m *ast.Module, module, alias string) {
	m.Imports = append(m.Imports, ast.Import{Module: module, Alias: alias, Span: b.span()})
}

// Fn declares a function. Effects nil means no uses clause.
func (b *B) Fn(name string, effects []string, returns ast.TypeRef, stmts ...*ast.Stmt) *ast.Function {
	return &ast.Function{
		Name:    name,
		Effects: effects,
		Returns: returns,
		Body:    b.Block(stmts...),
		Span:    b.span(),
	}
}

// PureFn declares a function carrying the pure marker.
func (b *B) PureFn(name string, effects []string, returns ast.TypeRef, stmts ...*ast.Stmt) *ast.Function {
	fn := b.Fn(name, effects, returns, stmts...)
	fn.Pure = true
	return fn
}

// Block wraps statements.
func (b *B) Block(stmts ...*ast.Stmt) *ast.Block {
	return &ast.Block{Stmts: stmts, Span: b.span()}
}

// Call builds a call expression.
func (b *B) Call(callee string, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprCall, Callee: callee, Args: args, Span: b.span()}
}

// CallP builds a call with the propagation operator.
func (b *B) CallP(callee string, args ...*ast.Expr) *ast.Expr {
	e := b.Call(callee, args...)
	e.Propagate = true
	return e
}

// Ident builds an identifier expression.
func (b *B) Ident(name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIdent, Lit: name, Span: b.span()}
}

// Lit builds a literal expression.
func (b *B) Lit(text string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLit, Lit: text, Span: b.span()}
}

// Ok builds an Ok(x) constructor; x may be nil.
func (b *B) Ok(x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprOk, X: x, Span: b.span()}
}

// Err builds an Err(x) constructor; x may be nil.
func (b *B) Err(x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprErr, X: x, Span: b.span()}
}

// Let binds an expression to a name.
func (b *B) Let(name string, e *ast.Expr) *ast.Stmt {
	return &ast.Stmt{Kind: ast.StmtLet, Name: name, Expr: e, Span: b.span()}
}

// Expr wraps an expression as a statement.
func (b *B) Expr(e *ast.Expr) *ast.Stmt {
	return &ast.Stmt{Kind: ast.StmtExpr, Expr: e, Span: b.span()}
}

// Ret returns an expression; nil for a bare return.
func (b *B) Ret(e *ast.Expr) *ast.Stmt {
	return &ast.Stmt{Kind: ast.StmtReturn, Expr: e, Span: b.span()}
}

// RetOk is shorthand for `return Ok(x)`.
func (b *B) RetOk(x *ast.Expr) *ast.Stmt {
	return b.Ret(b.Ok(x))
}

// RetErr is shorthand for `return Err(x)`.
func (b *B) RetErr(x *ast.Expr) *ast.Stmt {
	return b.Ret(b.Err(x))
}

// If builds a conditional; els may be nil.
func (b *B) If(cond *ast.Expr, then *ast.Block, els *ast.Block) *ast.Stmt {
	return &ast.Stmt{Kind: ast.StmtIf, Cond: cond, Then: then, Else: els, Span: b.span()}
}

// While builds a loop.
func (b *B) While(cond *ast.Expr, body *ast.Block) *ast.Stmt {
	return &ast.Stmt{Kind: ast.StmtWhile, Cond: cond, Then: body, Span: b.span()}
}

// MatchStmt builds a match over subject.
func (b *B) MatchStmt(subject *ast.Expr, arms ...ast.MatchArm) *ast.Stmt {
	return &ast.Stmt{
		Kind:  ast.StmtMatch,
		Match: &ast.Match{Subject: subject, Arms: arms, Span: b.span()},
		Span:  b.span(),
	}
}

// OkArm builds an Ok(binding) arm.
func (b *B) OkArm(binding string, stmts ...*ast.Stmt) ast.MatchArm {
	return ast.MatchArm{Pattern: ast.PatOk, Binding: binding, Body: b.Block(stmts...), Span: b.span()}
}

// ErrArm builds an Err(binding) arm.
func (b *B) ErrArm(binding string, stmts ...*ast.Stmt) ast.MatchArm {
	return ast.MatchArm{Pattern: ast.PatErr, Binding: binding, Body: b.Block(stmts...), Span: b.span()}
}

// WildArm builds a wildcard arm.
func (b *B) WildArm(stmts ...*ast.Stmt) ast.MatchArm {
	return ast.MatchArm{Pattern: ast.PatWildcard, Body: b.Block(stmts...), Span: b.span()}
}
