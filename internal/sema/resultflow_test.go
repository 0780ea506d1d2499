package sema

import (
	"testing"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/testkit"
)

// storageReader declares `a() uses [Storage] -> Result<int, string>`
// reading through the storage intrinsic and returning Ok on all paths.
func storageReader(b *testkit.B) *ast.Function {
	return b.Fn("a", []string{"Storage"}, ast.Result("int", "string"),
		b.Let("v", b.Call("std::storage::read")),
		b.RetOk(b.Ident("v")),
	)
}

func TestDeadErrorPathsScenario(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app", storageReader(b))

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.DeadErrorPaths); n != 1 {
		t.Fatalf("dead-error-paths count = %d, want 1", n)
	}
	if bag.ErrorCount() != 0 {
		t.Fatalf("errors = %d, want none: %v", bag.ErrorCount(), bag.Items())
	}
}

func TestUnusedResultsScenario(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b),
		b.Fn("b", []string{"Storage"}, ast.Result("int", "string"),
			b.Expr(b.Call("a")), // bare call, result dropped
			b.RetOk(b.Lit("0")),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.UnusedResults); n != 1 {
		t.Fatalf("unused-results count = %d, want exactly 1", n)
	}
	d, _ := findCode(bag, diag.UnusedResults)
	if d.Severity != diag.SevError {
		t.Fatal("unused-results must be an error")
	}
}

func TestUnusedResultsFixedByBindingAndPropagation(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b),
		b.Fn("b", []string{"Storage"}, ast.Result("int", "string"),
			b.Let("x", b.CallP("a")),
			b.RetOk(b.Ident("x")),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.UnusedResults); n != 0 {
		t.Fatalf("unused-results count = %d after let x = a()?, want 0", n)
	}
	if n := countCode(bag, diag.ErrorPropagationValidation); n != 0 {
		t.Fatalf("propagation flagged on a legal ? use: %v", bag.Items())
	}
}

func TestPropagationRequiresFallibleCallee(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("plain", nil, ast.TypeRef{Name: "int"},
			b.Ret(b.Lit("1"))),
		b.Fn("b", nil, ast.Result("int", "string"),
			b.Let("x", b.CallP("plain")),
			b.RetOk(b.Ident("x")),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.ErrorPropagationValidation); n != 1 {
		t.Fatalf("error-propagation-validation count = %d, want 1", n)
	}
}

func TestPropagationRequiresFallibleCaller(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b),
		b.Fn("c", []string{"Storage"}, ast.TypeRef{Name: "int"},
			b.Let("x", b.CallP("a")),
			b.Ret(b.Ident("x")),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.ErrorPropagationValidation); n != 1 {
		t.Fatalf("error-propagation-validation count = %d, want 1", n)
	}
}

func TestPropagationErrorTypeMismatch(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b), // error type string
		b.Fn("b", []string{"Storage"}, ast.Result("int", "IoError"),
			b.Let("x", b.CallP("a")),
			b.RetOk(b.Ident("x")),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.ErrorPropagationValidation); n != 1 {
		t.Fatalf("error type mismatch not caught: %v", bag.Items())
	}
}

func TestUnterminatedResultFunction(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b),
		b.Fn("b", []string{"Storage"}, ast.Result("int", "string"),
			b.Let("x", b.CallP("a")), // ok path falls off the end
		),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.ErrorHandling)
	if !ok || d.Severity != diag.SevError {
		t.Fatalf("unterminated result function not flagged: %v", bag.Items())
	}
}

func TestNeitherConstructorReachable(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("odd", nil, ast.Result("int", "string"),
			b.Ret(b.Lit("42"))),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.ErrorHandling)
	if !ok || d.Severity != diag.SevError {
		t.Fatalf("function with no reachable constructor not flagged: %v", bag.Items())
	}
}

func TestBothBranchesTerminateCleanly(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("a", []string{"Storage"}, ast.Result("int", "string"),
			b.If(b.Call("std::storage::read"),
				b.Block(b.RetOk(b.Lit("1"))),
				b.Block(b.RetErr(b.Lit("\"nope\"")))),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.ErrorHandling); n != 0 {
		t.Fatalf("well-formed function flagged: %v", bag.Items())
	}
	if n := countCode(bag, diag.DeadErrorPaths); n != 0 {
		t.Fatalf("dead-error-paths on a function with a live Err path: %v", bag.Items())
	}
}

func TestConstructorInPlainFunction(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("plain", nil, ast.TypeRef{Name: "int"},
			b.RetOk(b.Lit("1"))),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.ErrorHandling); n != 1 {
		t.Fatalf("Ok ctor in a plain function not flagged: %v", bag.Items())
	}
}

func TestResultTypeConsistencyWarning(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("log_it", []string{"Logging"}, ast.TypeRef{Name: "int"},
			b.Expr(b.Call("std::log::info")),
			b.Ret(b.Lit("0"))),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.ResultTypeConsistency)
	if !ok || d.Severity != diag.SevWarning {
		t.Fatalf("effectful plain-return function not warned: %v", bag.Items())
	}
}

func TestMatchCompletenessWarningWhenVariantUnreachable(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("never_fails", nil, ast.Result("int", "string"),
			b.RetOk(b.Lit("1"))),
		b.Fn("main", nil, ast.TypeRef{},
			b.MatchStmt(b.Call("never_fails"),
				b.OkArm("v"),
			),
		),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.MatchCompleteness)
	if !ok {
		t.Fatalf("partial match not reported: %v", bag.Items())
	}
	// never_fails cannot produce Err, so the partial match stays a warning.
	if d.Severity != diag.SevWarning {
		t.Fatalf("severity = %s, want warning for an unproducible variant", d.Severity)
	}
}

func TestMatchCompletenessEscalatesWhenVariantProducible(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b),
		b.Fn("risky", []string{"Storage"}, ast.Result("int", "string"),
			b.If(b.Lit("true"),
				b.Block(b.RetOk(b.Lit("1"))),
				b.Block(b.RetErr(b.Lit("\"boom\"")))),
		),
		b.Fn("main", []string{"Storage"}, ast.TypeRef{},
			b.MatchStmt(b.Call("risky"),
				b.OkArm("v"),
			),
		),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.MatchCompleteness)
	if !ok {
		t.Fatalf("partial match not reported: %v", bag.Items())
	}
	if d.Severity != diag.SevError {
		t.Fatalf("severity = %s, want error: Err is producible by risky", d.Severity)
	}
}

func TestMatchThroughBindingAndWildcard(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		storageReader(b),
		b.Fn("main", []string{"Storage"}, ast.TypeRef{},
			b.Let("r", b.Call("a")),
			b.MatchStmt(b.Ident("r"),
				b.OkArm("v"),
				b.WildArm(),
			),
		),
	)

	bag := analyze(t, testkit.Program(m))
	if n := countCode(bag, diag.MatchCompleteness); n != 0 {
		t.Fatalf("wildcard arm did not satisfy exhaustiveness: %v", bag.Items())
	}
	// The binding consumed the call; no unused-results either.
	if n := countCode(bag, diag.UnusedResults); n != 0 {
		t.Fatalf("bound call flagged as unused: %v", bag.Items())
	}
}

func TestMatchExhaustiveThroughBindingPartial(t *testing.T) {
	b := testkit.New(0)
	m := b.Module("app",
		b.Fn("risky", nil, ast.Result("int", "string"),
			b.If(b.Lit("true"),
				b.Block(b.RetOk(b.Lit("1"))),
				b.Block(b.RetErr(b.Lit("\"e\"")))),
		),
		b.Fn("main", nil, ast.TypeRef{},
			b.Let("r", b.Call("risky")),
			b.MatchStmt(b.Ident("r"),
				b.ErrArm("e"),
			),
		),
	)

	bag := analyze(t, testkit.Program(m))
	d, ok := findCode(bag, diag.MatchCompleteness)
	if !ok || d.Severity != diag.SevError {
		t.Fatalf("missing Ok arm over a producible variant not escalated: %v", bag.Items())
	}
}
