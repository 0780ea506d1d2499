package diagfmt

import (
	"encoding/json"
	"io"

	"vela/internal/diag"
	"vela/internal/source"
)

// LocationJSON is a span rendered for tools: byte offsets always,
// line/col on request.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type FixJSON struct {
	Title string `json:"title"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
}

func makeLocation(fs *source.FileSet, sp source.Span, positions bool) *LocationJSON {
	if fs == nil || (sp == source.Span{}) || int(sp.File) >= fs.Len() {
		return nil
	}
	loc := &LocationJSON{
		File:      fs.Get(sp.File).Path,
		StartByte: sp.Start,
		EndByte:   sp.End,
	}
	if positions {
		start, end := fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput assembles the document without serializing it.
// Count reflects the full input even when Max truncates the list.
func BuildDiagnosticsOutput(items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Count:       len(items),
	}
	shown := items
	if opts.Max > 0 && opts.Max < len(shown) {
		shown = shown[:opts.Max]
	}
	for _, d := range items {
		if d.Severity == diag.SevError {
			out.Errors++
		}
	}
	for _, d := range shown {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Location: makeLocation(fs, d.Primary, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(fs, n.Span, opts.IncludePositions),
				})
			}
		}
		if opts.IncludeFixes {
			for _, f := range d.Fixes {
				dj.Fixes = append(dj.Fixes, FixJSON{Title: f.Title})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes the document with stable field order and a trailing
// newline.
func JSON(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(items, fs, opts))
}
