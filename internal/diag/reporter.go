package diag

import "vela/internal/source"

// Reporter is the minimal contract passes emit diagnostics through.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// ReportBuilder accumulates diagnostic details before emitting.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to a Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Primary:  primary,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

// Severity overrides the severity chosen at construction. The rule
// engine uses this to apply per-rule configuration.
func (b *ReportBuilder) Severity(sev Severity) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Severity = sev
	return b
}

// WithNote appends a note to the diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// WithFix appends a remediation suggestion.
func (b *ReportBuilder) WithFix(title string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Fixes = append(b.diag.Fixes, Fix{Title: title})
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated diagnostic without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}
