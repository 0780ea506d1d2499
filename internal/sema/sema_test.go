package sema

import (
	"testing"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
	"vela/internal/effects"
)

// analyze runs the full pass stack the way the engine does: graph,
// effect fixed point, flow summaries, then per-module checks.
func analyze(t *testing.T, p *ast.Program) *diag.Bag {
	t.Helper()
	bag := diag.NewBag(128)
	r := diag.BagReporter{Bag: bag}
	u := effects.NewUniverse()

	g := callgraph.Build(p, effects.DefaultTable(), u, r)
	eff := ComputeEffects(g)
	sums := SummarizeFlows(g)

	opts := EffectOptions{Graph: g, Universe: u, Result: eff, Reporter: r}
	for _, mod := range p.Modules {
		CheckEffects(mod, opts)
		CheckResultFlow(mod, FlowOptions{Graph: g, Summaries: sums, Reporter: r})
	}
	CheckEffectConsistency(opts)
	return bag
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func findCode(bag *diag.Bag, code diag.Code) (diag.Diagnostic, bool) {
	for _, d := range bag.Items() {
		if d.Code == code {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}
