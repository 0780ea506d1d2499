package sema

import (
	"fmt"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
)

// Default thresholds for the quality pass; per-rule configuration
// overrides them through parameters.
const (
	DefaultMaxBodyStmts = 50
	DefaultMaxParams    = 5
	DefaultMaxLineLen   = 120
)

// QualityOptions configures the quality pass.
type QualityOptions struct {
	Reporter     diag.Reporter
	Files        *source.FileSet
	MaxBodyStmts int
	MaxParams    int
	MaxLineLen   int
}

func (o *QualityOptions) fill() {
	if o.MaxBodyStmts <= 0 {
		o.MaxBodyStmts = DefaultMaxBodyStmts
	}
	if o.MaxParams <= 0 {
		o.MaxParams = DefaultMaxParams
	}
	if o.MaxLineLen <= 0 {
		o.MaxLineLen = DefaultMaxLineLen
	}
}

// CheckQuality runs size-oriented lints over one module.
func CheckQuality(mod *ast.Module, opts QualityOptions) {
	opts.fill()
	r := opts.Reporter

	for _, fn := range mod.Funcs {
		if n := ast.CountStmts(fn.Body); n > opts.MaxBodyStmts {
			diag.ReportWarning(r, diag.MaxBodyLength, fn.Span,
				fmt.Sprintf("`%s` has %d statements, above the limit of %d", fn.Name, n, opts.MaxBodyStmts)).
				WithFix("split the function into smaller helpers").
				Emit()
		}
		if len(fn.Params) > opts.MaxParams {
			diag.ReportWarning(r, diag.MaxParameterCount, fn.Span,
				fmt.Sprintf("`%s` takes %d parameters, above the limit of %d", fn.Name, len(fn.Params), opts.MaxParams)).
				WithFix("group related parameters into a record").
				Emit()
		}
	}

	checkLineLengths(mod, opts)
}

func checkLineLengths(mod *ast.Module, opts QualityOptions) {
	if opts.Files == nil {
		return
	}
	f := opts.Files.Get(mod.File)
	var lineStart uint32
	for n := uint32(1); n <= f.NumLines(); n++ {
		line := f.Line(n)
		if len(line) > opts.MaxLineLen {
			sp := source.Span{File: f.ID, Start: lineStart, End: lineStart + uint32(len(line))}
			diag.ReportWarning(opts.Reporter, diag.MaxLineLength, sp,
				fmt.Sprintf("line %d is %d bytes long, above the limit of %d", n, len(line), opts.MaxLineLen)).
				Emit()
		}
		lineStart += uint32(len(line)) + 1
	}
}
