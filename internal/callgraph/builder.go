package callgraph

import (
	"fmt"
	"strings"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/effects"
)

type builder struct {
	program  *ast.Program
	table    *effects.Table
	universe *effects.Universe
	reporter diag.Reporter
	graph    *Graph
}

// Build constructs the call graph for a whole program. It must complete
// before effect or result checking starts: propagation is cross-module.
// Resolution failures are reported through r and degrade to the empty
// effect set; Build itself never fails.
func Build(p *ast.Program, table *effects.Table, u *effects.Universe, r diag.Reporter) *Graph {
	b := &builder{
		program:  p,
		table:    table,
		universe: u,
		reporter: r,
		graph: &Graph{
			nodes:     make(map[string]*Node),
			calls:     make(map[*ast.Expr]Resolution),
			callers:   make(map[string][]string),
			baseNames: make(map[string][]NameBinding),
		},
	}

	// Pass 1: node per declared function, so bodies can resolve against
	// the complete local and imported tables.
	for _, mod := range p.Modules {
		for _, fn := range mod.Funcs {
			name := ast.QualifiedName(mod.Name, fn.Name)
			b.graph.nodes[name] = &Node{Module: mod, Fn: fn, Name: name}
			b.graph.order = append(b.graph.order, name)
		}
	}

	// Pass 2: validate imports, then wire bodies.
	for _, mod := range p.Modules {
		for _, imp := range mod.Imports {
			if p.Module(imp.Module) == nil {
				diag.ReportError(r, diag.UnresolvedImport, imp.Span,
					fmt.Sprintf("import `%s` does not resolve to a known module", imp.Module)).
					WithNote(imp.Span, "calls through this import are treated as effect-free").
					Emit()
			}
		}
		for _, fn := range mod.Funcs {
			node := b.graph.nodes[ast.QualifiedName(mod.Name, fn.Name)]
			b.walkBlock(node, fn.Body)
		}
	}
	return b.graph
}

func (b *builder) walkBlock(node *Node, blk *ast.Block) {
	if blk == nil {
		return
	}
	for _, s := range blk.Stmts {
		switch s.Kind {
		case ast.StmtLet:
			b.consume(node, s.Expr, UseBound)
		case ast.StmtExpr:
			if s.Expr.IsCall() {
				usage := UseDiscarded
				if s.Expr.Propagate {
					usage = UsePropagated
				}
				b.consume(node, s.Expr, usage)
			} else {
				b.consumeChildren(node, s.Expr)
			}
		case ast.StmtReturn:
			b.consume(node, s.Expr, UseReturned)
		case ast.StmtIf:
			b.consume(node, s.Cond, UseValue)
			b.walkBlock(node, s.Then)
			b.walkBlock(node, s.Else)
		case ast.StmtWhile:
			b.consume(node, s.Cond, UseValue)
			b.walkBlock(node, s.Then)
		case ast.StmtMatch:
			if s.Match == nil {
				continue
			}
			b.consume(node, s.Match.Subject, UseMatched)
			for i := range s.Match.Arms {
				b.walkBlock(node, s.Match.Arms[i].Body)
			}
		}
	}
}

// consume records e with the given usage when it is a call, then walks
// its children as plain values.
func (b *builder) consume(node *Node, e *ast.Expr, usage Usage) {
	if e == nil {
		return
	}
	if e.IsCall() {
		b.recordCall(node, e, usage)
	}
	b.consumeChildren(node, e)
}

func (b *builder) consumeChildren(node *Node, e *ast.Expr) {
	if e == nil {
		return
	}
	for _, child := range []*ast.Expr{e.X, e.Y} {
		b.consume(node, child, UseValue)
	}
	for _, arg := range e.Args {
		b.consume(node, arg, UseValue)
	}
}

func (b *builder) recordCall(node *Node, e *ast.Expr, usage Usage) {
	site := CallSite{Caller: node.Name, Expr: e, Usage: usage, Span: e.Span}

	res, ok := b.resolve(node.Module, e.Callee)
	if !ok {
		diag.ReportError(b.reporter, diag.UnresolvedCall, e.Span,
			fmt.Sprintf("cannot resolve call target `%s`", e.Callee)).
			WithNote(node.Fn.Span, fmt.Sprintf("in function `%s`; the call is treated as effect-free", node.Name)).
			Emit()
		return
	}

	b.graph.calls[e] = res
	switch res.Kind {
	case ResolvedFunc:
		node.addEdge(res.Target, site)
		b.addCaller(res.Target, node.Name)
		base := baseName(e.Callee)
		b.graph.baseNames[base] = append(b.graph.baseNames[base], NameBinding{Target: res.Target, Site: site})
	case ResolvedIntrinsic:
		node.addIntrinsic(res.intrinsic, res.Tags, site)
	}
}

// resolve applies the fixed lookup order: local function table, then
// imported symbols qualified by alias, then the intrinsic table.
func (b *builder) resolve(mod *ast.Module, callee string) (Resolution, bool) {
	if !strings.Contains(callee, "::") {
		if fn := mod.Func(callee); fn != nil {
			return Resolution{
				Kind:     ResolvedFunc,
				Target:   ast.QualifiedName(mod.Name, callee),
				Fn:       fn,
				Fallible: fn.Returns.Fallible,
			}, true
		}
		return Resolution{}, false
	}

	alias, rest, _ := strings.Cut(callee, "::")
	for _, imp := range mod.Imports {
		if imp.LocalAlias() != alias {
			continue
		}
		target := b.program.Module(imp.Module)
		if target == nil {
			break // unresolved-import already reported; the call degrades too
		}
		if fn := target.Func(rest); fn != nil {
			return Resolution{
				Kind:     ResolvedFunc,
				Target:   ast.QualifiedName(target.Name, rest),
				Fn:       fn,
				Fallible: fn.Returns.Fallible,
			}, true
		}
		break
	}

	if in, ok := b.table.Resolve(callee); ok {
		var tags effects.Set
		for _, name := range in.Effects {
			tags.Add(b.universe.Tag(name))
		}
		return Resolution{
			Kind:      ResolvedIntrinsic,
			Tags:      tags,
			Fallible:  in.Fallible,
			intrinsic: in,
		}, true
	}
	return Resolution{}, false
}

func (b *builder) addCaller(target, caller string) {
	for _, c := range b.graph.callers[target] {
		if c == caller {
			return
		}
	}
	b.graph.callers[target] = append(b.graph.callers[target], caller)
}

func baseName(callee string) string {
	if i := strings.LastIndex(callee, "::"); i >= 0 {
		return callee[i+2:]
	}
	return callee
}
