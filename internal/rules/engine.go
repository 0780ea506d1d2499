package rules

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
	"vela/internal/effects"
	"vela/internal/sema"
	"vela/internal/source"
)

// Options configure an Engine.
type Options struct {
	Config *Config
	Table  *effects.Table
	Files  *source.FileSet
	// Jobs bounds the worker pool; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds each collector; 0 means 1000.
	MaxDiagnostics int
	// Cache enables incremental re-analysis; nil disables it.
	Cache *Cache
}

// Result is one engine run's outcome.
type Result struct {
	// Diagnostics is the emitted list: severity-threshold filtered,
	// deterministically ordered.
	Diagnostics []diag.Diagnostic
	// ErrorCount counts error-severity findings before threshold
	// filtering. Failed keys on it: suppressing output never suppresses
	// evidence for the exit code.
	ErrorCount int
	Failed     bool
	// Suppressed counts findings dropped by the severity threshold.
	Suppressed int
}

// Engine drives the analysis passes over a program.
type Engine struct {
	opts Options
}

// New builds an engine, filling option defaults.
func New(opts Options) *Engine {
	if opts.Config == nil {
		opts.Config = Default()
	}
	if opts.Table == nil {
		opts.Table = effects.DefaultTable()
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 1000
	}
	return &Engine{opts: opts}
}

// Run analyzes one program. The call graph and the global fixed points
// complete for all modules before any per-module checking starts; that
// ordering is a hard barrier because propagation is cross-module. Run
// retains no state, so invoking it once per file-save is safe.
func (e *Engine) Run(ctx context.Context, prog *ast.Program) (*Result, error) {
	cfg := e.opts.Config
	universe := effects.NewUniverse()

	excludedFiles := make(map[source.FileID]bool)
	for _, mod := range prog.Modules {
		if excluded(cfg.Exclude, mod.Path) {
			excludedFiles[mod.File] = true
		}
	}

	// Phase 1: call graph over every module, exclusions included;
	// exclusion is a reporting concern, not a resolution one.
	graphBag := diag.NewBag(e.opts.MaxDiagnostics)
	filter := func(bag *diag.Bag) diag.Reporter {
		return ruleFilter{inner: diag.BagReporter{Bag: bag}, cfg: cfg}
	}
	graph := callgraph.Build(prog, e.opts.Table, universe, filter(graphBag))

	// Phase 2: global fixed points (the barrier).
	effResult := sema.ComputeEffects(graph)
	summaries := sema.SummarizeFlows(graph)

	// Phase 3: per-module checks on the worker pool. Workers read only
	// shared immutable structures and write into their own bag.
	progDigest := e.programDigest(prog)
	bags := make([]*diag.Bag, len(prog.Modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.opts.Jobs, max(len(prog.Modules), 1)))

	for i, mod := range prog.Modules {
		if excludedFiles[mod.File] {
			continue
		}
		i, mod := i, mod
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			key := moduleKey(mod, progDigest)
			if e.canCache(mod) {
				if items, ok := e.opts.Cache.Get(key); ok {
					bag := diag.NewBag(len(items))
					for _, d := range items {
						bag.Add(d)
					}
					bags[i] = bag
					return nil
				}
			}

			bag := diag.NewBag(e.opts.MaxDiagnostics)
			e.checkModule(mod, graph, universe, effResult, summaries, filter(bag))
			bags[i] = bag

			if e.canCache(mod) {
				if err := e.opts.Cache.Put(key, bag.Items()); err != nil {
					return fmt.Errorf("cache module %s: %w", mod.Name, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Phase 4: global consistency check, then assembly.
	consistencyBag := diag.NewBag(e.opts.MaxDiagnostics)
	sema.CheckEffectConsistency(sema.EffectOptions{
		Graph:    graph,
		Universe: universe,
		Result:   effResult,
		Reporter: filter(consistencyBag),
	})

	total := diag.NewBag(e.opts.MaxDiagnostics)
	mergeWithout(total, graphBag, excludedFiles)
	for _, bag := range bags {
		if bag != nil {
			total.Merge(bag)
		}
	}
	mergeWithout(total, consistencyBag, excludedFiles)
	e.addEngineNotes(total)
	total.Sort()
	total.Dedup()

	res := &Result{ErrorCount: total.ErrorCount()}
	res.Failed = res.ErrorCount > 0
	for _, d := range total.Items() {
		// Engine notes describe the configuration itself; the severity
		// threshold only filters findings about the program.
		if d.Severity < cfg.SeverityThreshold && !engineNote(d.Code) {
			res.Suppressed++
			continue
		}
		res.Diagnostics = append(res.Diagnostics, d)
	}
	return res, nil
}

func engineNote(c diag.Code) bool {
	return c == diag.UnknownRule || c == diag.AutoFixICE
}

func (e *Engine) canCache(mod *ast.Module) bool {
	return e.opts.Cache != nil && e.opts.Files != nil && int(mod.File) < e.opts.Files.Len()
}

func (e *Engine) checkModule(mod *ast.Module, graph *callgraph.Graph, universe *effects.Universe,
	effResult *sema.EffectResult, summaries map[string]sema.FlowSummary, r diag.Reporter,
) {
	cfg := e.opts.Config
	sema.CheckEffects(mod, sema.EffectOptions{
		Graph:    graph,
		Universe: universe,
		Result:   effResult,
		Reporter: r,
	})
	sema.CheckResultFlow(mod, sema.FlowOptions{
		Graph:     graph,
		Summaries: summaries,
		Reporter:  r,
	})
	sema.CheckQuality(mod, sema.QualityOptions{
		Reporter:     r,
		Files:        e.opts.Files,
		MaxBodyStmts: cfg.Rules[diag.MaxBodyLength].IntParam("max"),
		MaxParams:    cfg.Rules[diag.MaxParameterCount].IntParam("max"),
		MaxLineLen:   cfg.Rules[diag.MaxLineLength].IntParam("max"),
	})
	sema.CheckRestrictedIntrinsics(mod, sema.SecurityOptions{
		Graph:    graph,
		Reporter: r,
		Deny:     cfg.Rules[diag.RestrictedIntrinsic].StringsParam("deny"),
	})
	sema.CheckLoopIntrinsics(mod, sema.PerfOptions{
		Graph:    graph,
		Reporter: r,
	})
}

// addEngineNotes surfaces configuration-level information: unknown rule
// ids and the unsupported autoFix switch. Both are notes, never errors.
func (e *Engine) addEngineNotes(total *diag.Bag) {
	cfg := e.opts.Config
	for _, name := range cfg.UnknownRules {
		total.Add(diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.UnknownRule,
			Message:  fmt.Sprintf("configuration names unknown rule %q; it is ignored", name),
		})
	}
	if cfg.AutoFix {
		total.Add(diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.AutoFixICE,
			Message:  "autoFix is enabled but not supported by the analyzer; no fixes were applied",
		})
	}
}

// mergeWithout merges src into dst, dropping findings located in
// excluded files: an excluded unit contributes zero diagnostics.
func mergeWithout(dst, src *diag.Bag, excludedFiles map[source.FileID]bool) {
	for _, d := range src.Items() {
		if excludedFiles[d.Primary.File] {
			continue
		}
		dst.Add(d)
	}
}

// programDigest covers everything a cached module result depends on
// beyond its own file: every file hash (effects propagate across
// modules), the intrinsic table version and the configuration.
func (e *Engine) programDigest(prog *ast.Program) Digest {
	h := sha256.New()
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], cacheSchemaVersion)
	h.Write(buf[:])

	if e.opts.Files != nil {
		mods := append([]*ast.Module(nil), prog.Modules...)
		sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
		for _, mod := range mods {
			h.Write([]byte(mod.Name))
			h.Write([]byte(mod.Path))
			if int(mod.File) < e.opts.Files.Len() {
				hash := e.opts.Files.Get(mod.File).Hash
				h.Write(hash[:])
			}
		}
	}
	h.Write([]byte(e.opts.Table.Version))
	e.hashConfig(h.Write)

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// hashConfig feeds a deterministic rendering of the configuration into
// the digest, so severity overrides and parameters invalidate entries.
func (e *Engine) hashConfig(write func([]byte) (int, error)) {
	cfg := e.opts.Config
	codes := make([]diag.Code, 0, len(cfg.Rules))
	for c := range cfg.Rules {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		s := cfg.Rules[c]
		_, _ = write(fmt.Appendf(nil, "%s=%v/%v/%v;", c, s.Level, s.HasLevel, s.Enabled))

		keys := make([]string, 0, len(s.Parameters))
		for k := range s.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = write(fmt.Appendf(nil, "%s=%v;", k, s.Parameters[k]))
		}
	}
	_, _ = write(fmt.Appendf(nil, "threshold=%v;exclude=%v", cfg.SeverityThreshold, cfg.Exclude))
}

func moduleKey(mod *ast.Module, progDigest Digest) Digest {
	h := sha256.New()
	h.Write([]byte(mod.Name))
	h.Write([]byte(mod.Path))
	h.Write(progDigest[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
