package diag

import (
	"vela/internal/source"
)

// Note is a secondary location attached to a diagnostic, typically one
// hop of the call chain that explains the finding.
type Note struct {
	Span source.Span
	Msg  string
}

// Fix is a human-readable remediation suggestion. The engine never
// applies fixes itself (autoFix is declared unsupported at this layer).
type Fix struct {
	Title string
}

// Diagnostic is a single immutable finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
