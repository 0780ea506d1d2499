// Package diagfmt renders diagnostic lists for humans and tools.
// Callers pass the engine's already sorted output; formatters never
// reorder or filter beyond what their options say.
package diagfmt

// PrettyOpts configures the human-readable formatter.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	ShowFixes bool
	// Context prints the offending source line with an underline.
	Context bool
}

// JSONOpts configures the machine-readable JSON formatter.
type JSONOpts struct {
	// IncludePositions adds line/col alongside byte offsets.
	IncludePositions bool
	IncludeNotes     bool
	IncludeFixes     bool
	// Max truncates the rendered list; 0 means everything.
	Max int
}

// SarifRunMeta identifies the tool in a SARIF run object.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
