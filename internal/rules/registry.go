package rules

import (
	"vela/internal/diag"
)

// registry lists every rule the engine knows with its default severity.
// Checker-chosen severities (match-completeness escalation) pass through
// unless the configuration pins an explicit level.
var registry = map[diag.Code]diag.Severity{
	diag.UnresolvedCall:             diag.SevError,
	diag.UnresolvedImport:           diag.SevError,
	diag.EffectCompleteness:         diag.SevError,
	diag.EffectMinimality:           diag.SevWarning,
	diag.PureFunctionValidation:     diag.SevError,
	diag.EffectPropagation:          diag.SevError,
	diag.EffectConsistency:          diag.SevWarning,
	diag.ErrorPropagationValidation: diag.SevError,
	diag.UnusedResults:              diag.SevError,
	diag.ErrorHandling:              diag.SevError,
	diag.DeadErrorPaths:             diag.SevWarning,
	diag.ResultTypeConsistency:      diag.SevWarning,
	diag.MatchCompleteness:          diag.SevWarning,
	diag.MaxBodyLength:              diag.SevWarning,
	diag.MaxParameterCount:          diag.SevWarning,
	diag.MaxLineLength:              diag.SevWarning,
	diag.RestrictedIntrinsic:        diag.SevWarning,
	diag.IntrinsicCallInLoop:        diag.SevWarning,
}

// Registered returns every known rule code; order is unspecified.
func Registered() []diag.Code {
	out := make([]diag.Code, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	return out
}

// DefaultSeverity returns the registry default for a rule.
func DefaultSeverity(c diag.Code) (diag.Severity, bool) {
	s, ok := registry[c]
	return s, ok
}

// ruleFilter applies per-rule configuration at emission time: disabled
// rules vanish, explicit levels override the checker's severity.
// Engine notes (unknown-rule and friends) always pass.
type ruleFilter struct {
	inner diag.Reporter
	cfg   *Config
}

func (f ruleFilter) Report(d diag.Diagnostic) {
	if setting, ok := f.cfg.Rules[d.Code]; ok {
		if !setting.Enabled {
			return
		}
		if setting.HasLevel {
			d.Severity = setting.Level
		}
	}
	f.inner.Report(d)
}
