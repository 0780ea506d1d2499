package sema

import (
	"fmt"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
)

// FlowSummary captures which result variants a function can actually
// produce on some statically reachable path.
type FlowSummary struct {
	Fallible   bool
	CanOk      bool
	CanErr     bool
	Terminates bool // every reachable path ends in a return or exhaustive match
}

// SummarizeFlows computes per-function flow summaries as a fixed point:
// returning another function's result forwards that function's variants,
// so summaries iterate until stable. The bools only ever flip to true,
// which bounds the iteration.
func SummarizeFlows(g *callgraph.Graph) map[string]FlowSummary {
	out := make(map[string]FlowSummary, len(g.Names()))
	for _, name := range g.Names() {
		out[name] = FlowSummary{Fallible: g.Node(name).Fn.Returns.Fallible}
	}

	for changed := true; changed; {
		changed = false
		for _, name := range g.Names() {
			node := g.Node(name)
			s := summarizer{graph: g, summaries: out}
			next := out[name]
			next.Terminates = s.block(node.Fn.Body)
			next.CanOk = next.CanOk || s.canOk
			next.CanErr = next.CanErr || s.canErr
			if next != out[name] {
				out[name] = next
				changed = true
			}
		}
	}
	return out
}

type summarizer struct {
	graph     *callgraph.Graph
	summaries map[string]FlowSummary
	canOk     bool
	canErr    bool
}

// calleeVariants returns which variants a resolved call can yield.
// Intrinsic host primitives are opaque: both variants are assumed.
func (s *summarizer) calleeVariants(e *ast.Expr) (ok, errv bool) {
	res, found := s.graph.ResolveCall(e)
	if !found || !res.Fallible {
		return false, false
	}
	if res.Kind == callgraph.ResolvedIntrinsic {
		return true, true
	}
	sum := s.summaries[res.Target]
	return sum.CanOk, sum.CanErr
}

// scan walks an expression tree for propagation points: any `call?`
// whose callee can fail makes the error exit reachable.
func (s *summarizer) scan(e *ast.Expr) {
	if e == nil {
		return
	}
	if e.IsCall() && e.Propagate {
		if _, canErr := s.calleeVariants(e); canErr {
			s.canErr = true
		}
	}
	s.scan(e.X)
	s.scan(e.Y)
	for _, a := range e.Args {
		s.scan(a)
	}
}

// classifyReturn records the variants a return statement terminates in.
func (s *summarizer) classifyReturn(e *ast.Expr) {
	if e == nil {
		return
	}
	s.scan(e)
	switch e.Kind {
	case ast.ExprOk:
		s.canOk = true
	case ast.ExprErr:
		s.canErr = true
	case ast.ExprCall:
		if e.Propagate {
			return // error exits via propagation; the ok value is unwrapped
		}
		ok, errv := s.calleeVariants(e)
		s.canOk = s.canOk || ok
		s.canErr = s.canErr || errv
	}
}

// block walks statements until the path is terminated; statements after
// a terminator are statically unreachable and contribute no evidence.
// Returns whether every path through the block terminates.
func (s *summarizer) block(b *ast.Block) bool {
	if b == nil {
		return false
	}
	terminated := false
	for _, st := range b.Stmts {
		if terminated {
			break
		}
		switch st.Kind {
		case ast.StmtLet, ast.StmtExpr:
			s.scan(st.Expr)
		case ast.StmtReturn:
			s.classifyReturn(st.Expr)
			terminated = true
		case ast.StmtIf:
			s.scan(st.Cond)
			thenTerm := s.block(st.Then)
			elseTerm := false
			if st.Else != nil {
				elseTerm = s.block(st.Else)
			}
			terminated = thenTerm && elseTerm
		case ast.StmtWhile:
			// The loop body may run zero times; it never terminates
			// the enclosing path.
			s.scan(st.Cond)
			s.block(st.Then)
		case ast.StmtMatch:
			if st.Match == nil {
				continue
			}
			s.scan(st.Match.Subject)
			allArmsTerminate := len(st.Match.Arms) > 0
			for i := range st.Match.Arms {
				if !s.block(st.Match.Arms[i].Body) {
					allArmsTerminate = false
				}
			}
			terminated = allArmsTerminate && st.Match.Covers(ast.PatOk) && st.Match.Covers(ast.PatErr)
		}
	}
	return terminated
}

// FlowOptions configures the per-module result/error-flow checks.
type FlowOptions struct {
	Graph *callgraph.Graph
	// Summaries comes from SummarizeFlows over the full program.
	Summaries map[string]FlowSummary
	Reporter  diag.Reporter
	// ErrorConvertible decides whether a propagated error type is
	// acceptable for the enclosing signature. Conversion rules belong
	// to the type-resolution collaborator; nil means identical only.
	ErrorConvertible func(from, to *ast.TypeRef) bool
}

// CheckResultFlow validates result consumption, propagation legality,
// path termination and match exhaustiveness for one module.
func CheckResultFlow(mod *ast.Module, opts FlowOptions) {
	for _, fn := range mod.Funcs {
		name := ast.QualifiedName(mod.Name, fn.Name)
		node := opts.Graph.Node(name)
		if node == nil {
			continue
		}
		c := flowChecker{opts: opts, mod: mod, fn: fn, node: node, name: name}
		c.run()
	}
}

type flowChecker struct {
	opts FlowOptions
	mod  *ast.Module
	fn   *ast.Function
	node *callgraph.Node
	name string
	// let bindings whose initializer is a fallible call; feeds match
	// subject classification.
	fallibleBindings map[string]*ast.Expr
}

func (c *flowChecker) run() {
	c.collectBindings()
	c.checkCallSites()
	c.checkTermination()
	c.checkSignatureConsistency()
	c.checkMatches()
	c.checkForeignConstructors()
}

func (c *flowChecker) resolve(e *ast.Expr) (callgraph.Resolution, bool) {
	return c.opts.Graph.ResolveCall(e)
}

func (c *flowChecker) collectBindings() {
	c.fallibleBindings = map[string]*ast.Expr{}
	ast.WalkStmts(c.fn.Body, func(s *ast.Stmt) bool {
		if s.Kind == ast.StmtLet && s.Expr.IsCall() && !s.Expr.Propagate {
			if res, ok := c.resolve(s.Expr); ok && res.Fallible {
				c.fallibleBindings[s.Name] = s.Expr
			}
		}
		return true
	})
}

// sites iterates every resolved call site of the function.
func (c *flowChecker) sites(visit func(callgraph.CallSite, callgraph.Resolution)) {
	for _, e := range c.node.Edges {
		for _, site := range e.Sites {
			if res, ok := c.resolve(site.Expr); ok {
				visit(site, res)
			}
		}
	}
	for _, use := range c.node.Intrinsics {
		for _, site := range use.Sites {
			if res, ok := c.resolve(site.Expr); ok {
				visit(site, res)
			}
		}
	}
}

func (c *flowChecker) checkCallSites() {
	r := c.opts.Reporter
	c.sites(func(site callgraph.CallSite, res callgraph.Resolution) {
		if site.Expr.Propagate {
			c.checkPropagation(site, res)
		}
		if site.Usage == callgraph.UseDiscarded && res.Fallible {
			diag.ReportError(r, diag.UnusedResults, site.Span,
				fmt.Sprintf("result of `%s` is discarded; a dropped failure is a correctness bug", site.Expr.Callee)).
				WithFix("bind the result with let, consume it with match, or propagate it with ?").
				Emit()
		}
	})
}

func (c *flowChecker) checkPropagation(site callgraph.CallSite, res callgraph.Resolution) {
	r := c.opts.Reporter
	if !res.Fallible {
		diag.ReportError(r, diag.ErrorPropagationValidation, site.Span,
			fmt.Sprintf("`?` applied to `%s`, which does not return a result type", site.Expr.Callee)).
			Emit()
		return
	}
	if !c.fn.Returns.Fallible {
		diag.ReportError(r, diag.ErrorPropagationValidation, site.Span,
			fmt.Sprintf("`?` in `%s`, whose return type `%s` cannot carry the propagated error", c.name, c.fn.Returns.String())).
			WithFix(fmt.Sprintf("declare `%s` to return a result type", c.fn.Name)).
			Emit()
		return
	}
	// Host intrinsics are opaque: their error type is convertible by
	// contract, so only function callees are compared.
	if res.Fn == nil || res.Fn.Returns.Err == nil || c.fn.Returns.Err == nil {
		return
	}
	from, to := res.Fn.Returns.Err, c.fn.Returns.Err
	if from.Name == to.Name {
		return
	}
	if conv := c.opts.ErrorConvertible; conv != nil && conv(from, to) {
		return
	}
	diag.ReportError(r, diag.ErrorPropagationValidation, site.Span,
		fmt.Sprintf("propagated error type `%s` is not convertible to `%s`", from.String(), to.String())).
		WithNote(res.Fn.Span, fmt.Sprintf("`%s` declares its error type here", site.Expr.Callee)).
		Emit()
}

// checkTermination enforces the per-function path state machine: every
// reachable path of a result-returning function must end Terminated-Ok,
// Terminated-Error or Terminated-Propagated; Unterminated is an error.
func (c *flowChecker) checkTermination() {
	if !c.fn.Returns.Fallible {
		return
	}
	r := c.opts.Reporter
	sum := c.opts.Summaries[c.name]
	switch {
	case !sum.Terminates:
		diag.ReportError(r, diag.ErrorHandling, c.fn.Span,
			fmt.Sprintf("not every path through `%s` terminates in a result value", c.name)).
			WithFix("end each path with Ok(..), Err(..) or a propagating call").
			Emit()
	case !sum.CanOk && !sum.CanErr:
		diag.ReportError(r, diag.ErrorHandling, c.fn.Span,
			fmt.Sprintf("`%s` declares `%s` but neither Ok nor Err is reachable in its body", c.name, c.fn.Returns.String())).
			Emit()
	case sum.CanOk && !sum.CanErr:
		diag.ReportWarning(r, diag.DeadErrorPaths, c.fn.Span,
			fmt.Sprintf("no path through `%s` can fail; is the result return type `%s` warranted?", c.name, c.fn.Returns.String())).
			WithFix(fmt.Sprintf("return `%s` directly instead of a result", okTypeName(c.fn.Returns))).
			Emit()
	}
}

// checkSignatureConsistency flags effectful functions that forgo a
// result return type and so foreclose structured error reporting.
func (c *flowChecker) checkSignatureConsistency() {
	// Pure functions with declared effects are already rejected by
	// pure-function-validation; no point piling on.
	if c.fn.Pure || len(c.fn.Effects) == 0 || c.fn.Returns.Fallible {
		return
	}
	diag.ReportWarning(c.opts.Reporter, diag.ResultTypeConsistency, c.fn.Span,
		fmt.Sprintf("`%s` uses effects %v but returns plain `%s`; callers cannot observe its failures",
			c.name, c.fn.Effects, c.fn.Returns.String())).
		Emit()
}

// checkForeignConstructors flags result constructors returned from a
// function without a result return type.
func (c *flowChecker) checkForeignConstructors() {
	if c.fn.Returns.Fallible {
		return
	}
	r := c.opts.Reporter
	ast.WalkStmts(c.fn.Body, func(s *ast.Stmt) bool {
		if s.Kind != ast.StmtReturn || s.Expr == nil {
			return true
		}
		if s.Expr.Kind == ast.ExprOk || s.Expr.Kind == ast.ExprErr {
			diag.ReportError(r, diag.ErrorHandling, s.Expr.Span,
				fmt.Sprintf("result constructor returned from `%s`, which declares plain `%s`", c.name, c.fn.Returns.String())).
				Emit()
		}
		return true
	})
}

// subjectVariants classifies a match subject: whether it is a result
// value at all, and which variants its producer can actually yield.
func (c *flowChecker) subjectVariants(subject *ast.Expr) (fallible, canOk, canErr bool) {
	producer := subject
	if subject != nil && subject.Kind == ast.ExprIdent {
		bound, ok := c.fallibleBindings[subject.Lit]
		if !ok {
			return false, false, false
		}
		producer = bound
	}
	if !producer.IsCall() || producer.Propagate {
		return false, false, false
	}
	res, ok := c.resolve(producer)
	if !ok || !res.Fallible {
		return false, false, false
	}
	if res.Kind == callgraph.ResolvedIntrinsic {
		return true, true, true
	}
	sum := c.opts.Summaries[res.Target]
	return true, sum.CanOk, sum.CanErr
}

func (c *flowChecker) checkMatches() {
	r := c.opts.Reporter
	ast.WalkStmts(c.fn.Body, func(s *ast.Stmt) bool {
		if s.Kind != ast.StmtMatch || s.Match == nil {
			return true
		}
		fallible, canOk, canErr := c.subjectVariants(s.Match.Subject)
		if !fallible {
			return true
		}
		c.checkArmCoverage(s.Match, ast.PatOk, canOk, r)
		c.checkArmCoverage(s.Match, ast.PatErr, canErr, r)
		return true
	})
}

// checkArmCoverage reports a missing arm. Producible variants escalate
// the partial match from warning to error: the unmatched branch is then
// statically reachable from the producing call site.
func (c *flowChecker) checkArmCoverage(m *ast.Match, p ast.Pattern, producible bool, r diag.Reporter) {
	if m.Covers(p) {
		return
	}
	sev := diag.SevWarning
	if producible {
		sev = diag.SevError
	}
	diag.NewReportBuilder(r, sev, diag.MatchCompleteness, m.Span,
		fmt.Sprintf("match on a result value has no %s arm", p)).
		WithFix(fmt.Sprintf("add a %s(..) arm or a wildcard arm", p)).
		Emit()
}

func okTypeName(t ast.TypeRef) string {
	if t.Ok == nil {
		return "unit"
	}
	return t.Ok.String()
}
