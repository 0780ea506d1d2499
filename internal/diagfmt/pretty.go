package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"vela/internal/diag"
	"vela/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	codeColor = color.New(color.Faint)
	noteColor = color.New(color.FgBlue)
)

// Pretty renders diagnostics as
//
//	<path>:<line>:<col>: <severity> <rule>: <message>
//
// optionally followed by the source line with an underline, then notes
// and fix suggestions. Findings without a location (configuration
// notes) print without the path prefix.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		return c.Sprint(s)
	}

	for _, d := range items {
		sev := paint(severityColor(d.Severity), d.Severity.String())
		rule := paint(codeColor, d.Code.String())
		if loc, ok := locate(fs, d.Primary); ok {
			fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, rule, d.Message)
			if opts.Context {
				writeContext(w, fs, d.Primary, opts.Color)
			}
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", sev, rule, d.Message)
		}

		if opts.ShowNotes {
			for _, n := range d.Notes {
				if loc, ok := locate(fs, n.Span); ok {
					fmt.Fprintf(w, "  %s %s: %s\n", paint(noteColor, "note"), loc, n.Msg)
				} else {
					fmt.Fprintf(w, "  %s: %s\n", paint(noteColor, "note"), n.Msg)
				}
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  %s: %s\n", paint(noteColor, "fix"), f.Title)
			}
		}
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

// locate renders path:line:col, or reports false for the empty span.
func locate(fs *source.FileSet, sp source.Span) (string, bool) {
	if fs == nil || (sp == source.Span{}) || int(sp.File) >= fs.Len() {
		return "", false
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", fs.Get(sp.File).Path, start.Line, start.Col), true
}

// writeContext prints the first line the span touches with a caret
// underline. Multi-line spans underline to the end of the first line.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, colored bool) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := f.Line(start.Line)
	if line == "" && len(f.Content) == 0 {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		width = len(line) - int(start.Col) + 1
	}
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	if colored {
		marker = errColor.Sprint(marker)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", int(start.Col)-1), marker)
}
