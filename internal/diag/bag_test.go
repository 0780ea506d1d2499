package diag

import (
	"testing"

	"vela/internal/source"
)

func TestBagSortIsStableAndOrdered(t *testing.T) {
	b := NewBag(16)
	b.Add(Diagnostic{Severity: SevWarning, Code: EffectMinimality, Primary: source.Span{File: 1, Start: 10, End: 12}})
	b.Add(Diagnostic{Severity: SevError, Code: UnusedResults, Primary: source.Span{File: 0, Start: 40, End: 45}})
	b.Add(Diagnostic{Severity: SevError, Code: EffectCompleteness, Primary: source.Span{File: 0, Start: 5, End: 9}})
	b.Add(Diagnostic{Severity: SevInfo, Code: UnknownRule, Primary: source.Span{File: 0, Start: 5, End: 9}})

	b.Sort()
	items := b.Items()

	wantCodes := []Code{EffectCompleteness, UnknownRule, UnusedResults, EffectMinimality}
	for i, want := range wantCodes {
		if items[i].Code != want {
			t.Fatalf("items[%d].Code = %s, want %s", i, items[i].Code, want)
		}
	}
}

func TestBagLimitAndErrorCount(t *testing.T) {
	b := NewBag(2)
	if !b.Add(Diagnostic{Severity: SevError}) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(Diagnostic{Severity: SevWarning}) {
		t.Fatal("second Add rejected")
	}
	if b.Add(Diagnostic{Severity: SevError}) {
		t.Fatal("Add beyond cap accepted")
	}
	if got := b.ErrorCount(); got != 1 {
		t.Fatalf("ErrorCount = %d, want 1", got)
	}
	if !b.HasErrors() {
		t.Fatal("HasErrors = false, want true")
	}
}

func TestBagDedup(t *testing.T) {
	sp := source.Span{File: 0, Start: 1, End: 2}
	b := NewBag(8)
	b.Add(Diagnostic{Severity: SevError, Code: UnusedResults, Primary: sp})
	b.Add(Diagnostic{Severity: SevError, Code: UnusedResults, Primary: sp})
	b.Add(Diagnostic{Severity: SevError, Code: UnresolvedCall, Primary: sp})

	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Len after Dedup = %d, want 2", b.Len())
	}
}

func TestCodeNamesRoundTrip(t *testing.T) {
	for _, c := range []Code{
		UnresolvedCall, EffectCompleteness, EffectMinimality,
		PureFunctionValidation, EffectPropagation, EffectConsistency,
		ErrorPropagationValidation, UnusedResults, ErrorHandling,
		DeadErrorPaths, ResultTypeConsistency, MatchCompleteness,
		MaxBodyLength, MaxParameterCount, MaxLineLength,
		RestrictedIntrinsic, IntrinsicCallInLoop,
	} {
		got, ok := CodeByName(c.String())
		if !ok || got != c {
			t.Errorf("CodeByName(%q) = %v, %v; want %v", c.String(), got, ok, c)
		}
	}
	if _, ok := CodeByName("no-such-rule"); ok {
		t.Error("CodeByName accepted an unknown rule id")
	}
}
