package sema

import (
	"fmt"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
	"vela/internal/effects"
	"vela/internal/source"
)

// EffectResult maps each qualified function name onto its effective
// effect set: the union of intrinsic tags in its body and the effective
// sets of every resolved callee.
type EffectResult struct {
	Effective map[string]effects.Set
}

// ComputeEffects runs the least-fixed-point propagation over the call
// graph. Union is monotone over a finite tag universe, so the worklist
// terminates even on mutually recursive functions.
func ComputeEffects(g *callgraph.Graph) *EffectResult {
	res := &EffectResult{Effective: make(map[string]effects.Set, len(g.Names()))}

	// Seed with direct intrinsic evidence.
	for _, name := range g.Names() {
		var s effects.Set
		for _, use := range g.Node(name).Intrinsics {
			s.Union(use.Tags)
		}
		res.Effective[name] = s
	}

	// Propagate until convergence. When a function grows, every caller
	// is re-queued; cycles settle once both sides stop growing.
	work := append([]string(nil), g.Names()...)
	queued := make(map[string]bool, len(work))
	for _, n := range work {
		queued[n] = true
	}
	for len(work) > 0 {
		name := work[0]
		work = work[1:]
		queued[name] = false

		cur := res.Effective[name]
		grew := false
		for _, e := range g.Node(name).Edges {
			if cur.Union(res.Effective[e.To]) {
				grew = true
			}
		}
		if !grew {
			continue
		}
		res.Effective[name] = cur
		for _, caller := range g.Callers(name) {
			if !queued[caller] {
				queued[caller] = true
				work = append(work, caller)
			}
		}
	}
	return res
}

// EffectOptions configures the per-module effect checks.
type EffectOptions struct {
	Graph    *callgraph.Graph
	Universe *effects.Universe
	Result   *EffectResult
	Reporter diag.Reporter
}

// CheckEffects validates declared against effective effect sets for
// every function of one module.
func CheckEffects(mod *ast.Module, opts EffectOptions) {
	g, u, r := opts.Graph, opts.Universe, opts.Reporter
	for _, fn := range mod.Funcs {
		name := ast.QualifiedName(mod.Name, fn.Name)
		node := g.Node(name)
		if node == nil {
			continue
		}
		declared := declaredSet(fn, u)
		effective := opts.Result.Effective[name]

		if fn.Pure {
			combined := declared.Clone()
			combined.Union(effective)
			if !combined.Empty() {
				b := diag.ReportError(r, diag.PureFunctionValidation, fn.Span,
					fmt.Sprintf("pure function `%s` carries effects %s", name, combined.Format(u)))
				attachWitness(b, g, node, effective, u)
				b.WithFix("drop the pure marker or remove the effectful calls").Emit()
			}
			// Minimality is subsumed: a pure function with declared
			// effects is already invalid.
			continue
		}

		if missing := effective.Diff(declared); !missing.Empty() {
			b := diag.ReportError(r, diag.EffectCompleteness, fn.Span,
				fmt.Sprintf("function `%s` performs undeclared effects %s", name, missing.Format(u)))
			attachWitness(b, g, node, missing, u)
			b.WithFix(fmt.Sprintf("add %s to the uses clause of `%s`", missing.Format(u), fn.Name)).Emit()
		}

		if unused := declared.Diff(effective); !unused.Empty() {
			diag.ReportWarning(r, diag.EffectMinimality, fn.Span,
				fmt.Sprintf("function `%s` declares effects %s it never uses", name, unused.Format(u))).
				WithFix(fmt.Sprintf("remove %s from the uses clause", unused.Format(u))).
				Emit()
		}

		// A caller must re-declare whatever its callees declare.
		for _, e := range node.Edges {
			callee := g.Node(e.To)
			if callee == nil {
				continue
			}
			calleeDeclared := declaredSet(callee.Fn, u)
			if inherited := calleeDeclared.Diff(declared); !inherited.Empty() {
				site := e.Sites[0]
				diag.ReportError(r, diag.EffectPropagation, site.Span,
					fmt.Sprintf("call to `%s` requires effects %s not declared by `%s`", e.To, inherited.Format(u), name)).
					WithNote(callee.Fn.Span, fmt.Sprintf("`%s` declares %s here", e.To, calleeDeclared.Format(u))).
					Emit()
			}
		}
	}
}

// CheckEffectConsistency flags one callee name binding to functions
// with different effect sets in different modules. Runs once per
// program, not per module.
func CheckEffectConsistency(opts EffectOptions) {
	g, u, r := opts.Graph, opts.Universe, opts.Reporter
	for _, bindings := range g.BaseNameBindings() {
		if len(bindings) < 2 {
			continue
		}
		first := bindings[0]
		firstNode := g.Node(first.Target)
		if firstNode == nil {
			continue
		}
		firstSet := declaredSet(firstNode.Fn, u)
		for _, other := range bindings[1:] {
			if other.Target == first.Target {
				continue
			}
			node := g.Node(other.Target)
			if node == nil {
				continue
			}
			set := declaredSet(node.Fn, u)
			if set.Equal(firstSet) {
				continue
			}
			diag.ReportWarning(r, diag.EffectConsistency, other.Site.Span,
				fmt.Sprintf("callee name resolves to `%s` with effects %s here but to `%s` with %s elsewhere",
					other.Target, set.Format(u), first.Target, firstSet.Format(u))).
				WithNote(first.Site.Span, fmt.Sprintf("`%s` is called here", first.Target)).
				Emit()
		}
	}
}

func declaredSet(fn *ast.Function, u *effects.Universe) effects.Set {
	var s effects.Set
	for _, name := range fn.Effects {
		s.Add(u.Tag(name))
	}
	return s
}

// attachWitness adds the call chain explaining how the offending tags
// reach the function: the offending call site plus each intermediate
// hop down to the intrinsic evidence.
func attachWitness(b *diag.ReportBuilder, g *callgraph.Graph, from *callgraph.Node, tags effects.Set, u *effects.Universe) {
	for _, tag := range tags.Tags() {
		spans, msgs := witnessChain(g, from, tag, u)
		for i := range msgs {
			b.WithNote(spans[i], msgs[i])
		}
	}
}

// witnessChain finds a shortest edge path from `from` to a function
// carrying the tag as direct intrinsic evidence.
func witnessChain(g *callgraph.Graph, from *callgraph.Node, tag effects.Tag, u *effects.Universe) ([]source.Span, []string) {
	type hop struct {
		node *callgraph.Node
		prev int // index into visited, -1 for root
		via  *callgraph.Edge
	}
	visited := []hop{{node: from, prev: -1}}
	seen := map[string]bool{from.Name: true}

	finish := func(idx int, use *callgraph.IntrinsicUse) ([]source.Span, []string) {
		var spans []source.Span
		var msgs []string
		for i := idx; visited[i].prev >= 0; i = visited[i].prev {
			e := visited[i].via
			spans = append([]source.Span{e.Sites[0].Span}, spans...)
			msgs = append([]string{fmt.Sprintf("`%s` calls `%s` here", e.From, e.To)}, msgs...)
		}
		spans = append(spans, use.Sites[0].Span)
		msgs = append(msgs, fmt.Sprintf("intrinsic call into `%s` is tagged %s", use.Prefix, use.Tags.Format(u)))
		return spans, msgs
	}

	for i := 0; i < len(visited); i++ {
		h := visited[i]
		for _, use := range h.node.Intrinsics {
			if use.Tags.Has(tag) {
				return finish(i, use)
			}
		}
		for _, e := range h.node.Edges {
			if seen[e.To] {
				continue
			}
			next := g.Node(e.To)
			if next == nil {
				continue
			}
			seen[e.To] = true
			visited = append(visited, hop{node: next, prev: i, via: e})
		}
	}
	return nil, nil
}
