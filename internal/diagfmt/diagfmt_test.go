package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"vela/internal/diag"
	"vela/internal/source"
)

func fixtures() ([]diag.Diagnostic, *source.FileSet) {
	fs := source.NewFileSet()
	fs.Add("app.vl", []byte("module app\nfunction main() uses [Storage] {\n    std::storage::read(key)\n}\n"))

	items := []diag.Diagnostic{
		{
			Severity: diag.SevError,
			Code:     diag.UnusedResults,
			Message:  "result of `std::storage::read` is discarded",
			Primary:  source.Span{File: 0, Start: 48, End: 66},
			Notes:    []diag.Note{{Span: source.Span{File: 0, Start: 11, End: 19}, Msg: "declared here"}},
			Fixes:    []diag.Fix{{Title: "bind the result or propagate with `?`"}},
		},
		{
			Severity: diag.SevInfo,
			Code:     diag.UnknownRule,
			Message:  `configuration names unknown rule "no-such-rule"; it is ignored`,
		},
	}
	return items, fs
}

func TestPrettyLayout(t *testing.T) {
	items, fs := fixtures()
	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{ShowNotes: true, ShowFixes: true, Context: true})
	out := buf.String()

	if !strings.Contains(out, "app.vl:3:5: error unused-results: result of `std::storage::read` is discarded") {
		t.Errorf("missing primary line:\n%s", out)
	}
	if !strings.Contains(out, "std::storage::read(key)") {
		t.Errorf("missing source context:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~") {
		t.Errorf("missing underline:\n%s", out)
	}
	if !strings.Contains(out, "note app.vl:2:1: declared here") {
		t.Errorf("missing note:\n%s", out)
	}
	if !strings.Contains(out, "fix: bind the result or propagate with `?`") {
		t.Errorf("missing fix:\n%s", out)
	}
	// A finding without a span renders without a path prefix.
	if !strings.Contains(out, "info unknown-rule: configuration names unknown rule") {
		t.Errorf("missing locationless finding:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color escapes leaked into uncolored output")
	}
}

func TestJSONDocument(t *testing.T) {
	items, fs := fixtures()
	var buf bytes.Buffer
	err := JSON(&buf, items, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true})
	if err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || out.Errors != 1 {
		t.Errorf("count=%d errors=%d", out.Count, out.Errors)
	}
	first := out.Diagnostics[0]
	if first.Code != "unused-results" || first.Severity != "error" {
		t.Errorf("first = %+v", first)
	}
	if first.Location == nil || first.Location.StartLine != 3 || first.Location.StartCol != 5 {
		t.Errorf("location = %+v", first.Location)
	}
	if len(first.Notes) != 1 || len(first.Fixes) != 1 {
		t.Errorf("notes/fixes dropped: %+v", first)
	}
	if out.Diagnostics[1].Location != nil {
		t.Errorf("locationless finding gained a location: %+v", out.Diagnostics[1])
	}
}

func TestJSONMaxTruncatesListNotCount(t *testing.T) {
	items, fs := fixtures()
	out := BuildDiagnosticsOutput(items, fs, JSONOpts{Max: 1})
	if len(out.Diagnostics) != 1 {
		t.Errorf("truncation failed: %d items", len(out.Diagnostics))
	}
	if out.Count != 2 {
		t.Errorf("count should survive truncation, got %d", out.Count)
	}
}

func TestSarifLog(t *testing.T) {
	items, fs := fixtures()
	var buf bytes.Buffer
	err := Sarif(&buf, items, fs, SarifRunMeta{ToolName: "vela", ToolVersion: "0.1.0"})
	if err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log header = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "vela" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %+v", run.Results)
	}
	if run.Results[0].RuleID != "unused-results" || run.Results[0].Level != "error" {
		t.Errorf("first result = %+v", run.Results[0])
	}
	if run.Results[1].Level != "note" {
		t.Errorf("info severity should map to note, got %+v", run.Results[1])
	}
	if len(run.Results[1].Locations) != 0 {
		t.Errorf("locationless result gained a location: %+v", run.Results[1])
	}
}
