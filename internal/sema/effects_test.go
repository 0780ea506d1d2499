package sema

import (
	"testing"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
	"vela/internal/effects"
	"vela/internal/testkit"
)

func TestEffectPropagationIsTransitive(t *testing.T) {
	b := testkit.New(0)
	res := ast.Result("int", "string")
	m := b.Module("app",
		b.Fn("leaf", []string{"Storage"}, res,
			b.Ret(b.CallP("std::storage::read"))),
		b.Fn("mid", []string{"Storage"}, res,
			b.Ret(b.CallP("leaf"))),
		b.Fn("top", []string{"Storage"}, res,
			b.Ret(b.CallP("mid"))),
	)

	bag := analyze(t, testkit.Program(m))
	for _, code := range []diag.Code{diag.EffectCompleteness, diag.EffectPropagation} {
		if n := countCode(bag, code); n != 0 {
			t.Errorf("%s reported %d times on a correctly declared chain", code, n)
		}
	}
}

func TestEffectCompletenessAcrossDepthWithWitnessChain(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("leaf", []string{"Logging"}, ast.TypeRef{},
			b.Expr(b.Call("std::log::info"))),
		b.Fn("mid", []string{"Logging"}, ast.TypeRef{},
			b.Expr(b.Call("leaf"))),
		b.Fn("top", nil, ast.TypeRef{}, // misses Logging
			b.Expr(b.Call("mid"))),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.EffectCompleteness); n != 1 {
		t.Fatalf("effect-completeness count = %d, want 1 (only top)", n)
	}
	d, _ := findCode(bag, diag.EffectCompleteness)
	// The witness lists the call site plus intermediate hops down to
	// the intrinsic evidence: top->mid, mid->leaf, intrinsic.
	if len(d.Notes) < 2 {
		t.Fatalf("witness notes = %d, want the call chain (>= 2 hops)", len(d.Notes))
	}
	// top also fails to re-declare Logging required by mid.
	if n := countCode(bag, diag.EffectPropagation); n != 1 {
		t.Errorf("effect-propagation count = %d, want 1", n)
	}
}

func TestEffectFixedPointConvergesOnCycles(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("ping", nil, ast.TypeRef{},
			b.Expr(b.Call("pong"))),
		b.Fn("pong", nil, ast.TypeRef{},
			b.Expr(b.Call("ping")),
			b.Expr(b.Call("std::log::info"))),
	)

	p := testkit.Program(m)
	bag := diag.NewBag(64)
	u := effects.NewUniverse()
	g := callgraph.Build(p, effects.DefaultTable(), u, diag.BagReporter{Bag: bag})
	eff := ComputeEffects(g)

	logging := effects.NewSet(u.Tag("Logging"))
	for _, name := range []string{"app::ping", "app::pong"} {
		if !logging.SubsetOf(eff.Effective[name]) {
			t.Errorf("effective(%s) = %s, want Logging through the cycle", name, eff.Effective[name].Format(u))
		}
	}
}

func TestEffectMinimality(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("quiet", []string{"Network"}, ast.TypeRef{Name: "int"},
			b.Ret(b.Lit("1"))),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.EffectMinimality)
	if !ok {
		t.Fatal("effect-minimality not reported for an unused declared effect")
	}
	if d.Severity != diag.SevWarning {
		t.Fatalf("severity = %s, want warning", d.Severity)
	}
}

func TestPureFunctionValidationScenario(t *testing.T) {
	// pure function p() uses [Logging] -> int
	b := testkit.New(0)
	m := b.Module("app",
		b.PureFn("p", []string{"Logging"}, ast.TypeRef{Name: "int"},
			b.Ret(b.Lit("0"))),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.PureFunctionValidation); n != 1 {
		t.Fatalf("pure-function-validation count = %d, want 1", n)
	}
	d, _ := findCode(bag, diag.PureFunctionValidation)
	if d.Severity != diag.SevError {
		t.Fatal("pure-function-validation must be an error")
	}
	// Minimality is subsumed for pure functions.
	if n := countCode(bag, diag.EffectMinimality); n != 0 {
		t.Fatalf("effect-minimality piled onto a pure function %d times", n)
	}
}

func TestPureFunctionCallingEffectfulIsError(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("log_it", []string{"Logging"}, ast.TypeRef{},
			b.Expr(b.Call("std::log::info"))),
		b.PureFn("p", nil, ast.TypeRef{Name: "int"},
			b.Expr(b.Call("log_it")),
			b.Ret(b.Lit("0"))),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.PureFunctionValidation); n != 1 {
		t.Fatalf("pure-function-validation count = %d, want 1", n)
	}
}

func TestEffectConsistencyAcrossModules(t *testing.T) {
	b := testkit.New(0)
	east := b.Module("east",
		b.Fn("fetch", []string{"Network"}, ast.TypeRef{},
			b.Expr(b.Call("std::net::fetch"))),
	)
	west := b.Module("west",
		b.Fn("fetch", []string{"Storage"}, ast.TypeRef{},
			b.Expr(b.Call("std::storage::read"))),
	)
	app := b.Module("app",
		b.Fn("main", []string{"Network", "Storage"}, ast.TypeRef{},
			b.Expr(b.Call("e::fetch")),
			b.Expr(b.Call("w::fetch")),
		),
	)
	b.Import(app, "east", "e")
	b.Import(app, "west", "w")

	bag := analyze(t, testkit.Program(east, west, app))
	if n := countCode(bag, diag.EffectConsistency); n != 1 {
		t.Fatalf("effect-consistency count = %d, want 1", n)
	}
	d, _ := findCode(bag, diag.EffectConsistency)
	if d.Severity != diag.SevWarning {
		t.Fatal("effect-consistency must be a warning")
	}
}
