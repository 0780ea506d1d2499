package driver

import (
	"context"
	"fmt"
	"io"

	"vela/internal/diagfmt"
	"vela/internal/effects"
	"vela/internal/observ"
	"vela/internal/rules"
	"vela/internal/version"
)

// CheckOptions configure one analysis run.
type CheckOptions struct {
	// ConfigPath points at a vela.toml; empty means defaults.
	ConfigPath string
	// Format overrides the configured outputFormat when non-empty.
	Format string
	Jobs   int
	// MaxDiagnostics bounds the collected findings; 0 keeps the
	// engine default.
	MaxDiagnostics int
	// NoCache disables the on-disk analysis cache.
	NoCache bool
	Color   bool
	Timings bool

	Out io.Writer
	// Log receives progress and timing output, kept apart from Out so
	// machine formats stay parseable.
	Log io.Writer
}

// CheckOutcome reports what a run produced, for exit-code decisions.
type CheckOutcome struct {
	Failed     bool
	Errors     int
	Emitted    int
	Suppressed int
}

// Check loads a payload, runs the rule engine over it and renders the
// findings. Infrastructure failures come back as errors; semantic
// findings only ever flip Outcome.Failed.
func Check(ctx context.Context, payloadPath string, opts CheckOptions) (*CheckOutcome, error) {
	timer := observ.NewTimer()

	done := timer.Begin("payload")
	prog, files, err := LoadPayload(payloadPath)
	if err != nil {
		return nil, err
	}
	done(fmt.Sprintf("%d modules", len(prog.Modules)))

	done = timer.Begin("config")
	cfg := rules.Default()
	if opts.ConfigPath != "" {
		cfg, err = rules.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	table := effects.DefaultTable()
	if cfg.IntrinsicTable != "" {
		table, err = effects.LoadTable(cfg.IntrinsicTable)
		if err != nil {
			return nil, err
		}
	}
	var cache *rules.Cache
	if !opts.NoCache {
		// A broken cache dir degrades to uncached analysis.
		cache, _ = rules.OpenCache("vela")
	}
	done("")

	done = timer.Begin("analysis")
	engine := rules.New(rules.Options{
		Config:         cfg,
		Table:          table,
		Files:          files,
		Jobs:           opts.Jobs,
		MaxDiagnostics: opts.MaxDiagnostics,
		Cache:          cache,
	})
	res, err := engine.Run(ctx, prog)
	if err != nil {
		return nil, err
	}
	done(fmt.Sprintf("%d findings", len(res.Diagnostics)))

	format := cfg.OutputFormat
	if opts.Format != "" {
		format = opts.Format
	}
	switch format {
	case "text":
		diagfmt.Pretty(opts.Out, res.Diagnostics, files, diagfmt.PrettyOpts{
			Color:     opts.Color,
			ShowNotes: true,
			ShowFixes: true,
			Context:   true,
		})
	case "json":
		err = diagfmt.JSON(opts.Out, res.Diagnostics, files, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "sarif":
		err = diagfmt.Sarif(opts.Out, res.Diagnostics, files, diagfmt.SarifRunMeta{
			ToolName:    "vela",
			ToolVersion: version.Plain(),
		})
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or sarif)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render diagnostics: %w", err)
	}

	if opts.Timings && opts.Log != nil {
		fmt.Fprint(opts.Log, timer.Summary())
	}
	return &CheckOutcome{
		Failed:     res.Failed,
		Errors:     res.ErrorCount,
		Emitted:    len(res.Diagnostics),
		Suppressed: res.Suppressed,
	}, nil
}
