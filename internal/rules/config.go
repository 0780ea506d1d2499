package rules

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"vela/internal/diag"
)

// RuleSetting is the resolved configuration of one rule.
type RuleSetting struct {
	Level      diag.Severity
	HasLevel   bool // explicit level overrides checker-chosen severities
	Enabled    bool
	Parameters map[string]any
}

// Config is the full analyzer configuration. Zero value plus Default()
// gives the documented defaults.
type Config struct {
	Rules             map[diag.Code]RuleSetting
	Exclude           []string
	SeverityThreshold diag.Severity
	AutoFix           bool
	OutputFormat      string
	IntrinsicTable    string // optional path to an intrinsic table file

	// UnknownRules lists configured rule ids nothing registered; they
	// surface as informational notes, never as hard errors.
	UnknownRules []string
}

// Default returns the configuration used when no file is given:
// no exclusions, severityThreshold warning, autoFix off, text output.
func Default() *Config {
	return &Config{
		Rules:             map[diag.Code]RuleSetting{},
		SeverityThreshold: diag.SevWarning,
		OutputFormat:      "text",
	}
}

type rawRule struct {
	Level      string         `toml:"level"`
	Enabled    *bool          `toml:"enabled"`
	Parameters map[string]any `toml:"parameters"`
}

type rawConfig struct {
	Rules             map[string]toml.Primitive `toml:"rules"`
	Exclude           []string                  `toml:"exclude"`
	SeverityThreshold string                    `toml:"severityThreshold"`
	AutoFix           *bool                     `toml:"autoFix"`
	OutputFormat      string                    `toml:"outputFormat"`
	IntrinsicTable    string                    `toml:"intrinsicTable"`
}

// Load reads a configuration file. A malformed document fails the whole
// run with one descriptive error: partially applied configuration is
// unsafe.
func Load(path string) (*Config, error) {
	var raw rawConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse configuration: %w", path, err)
	}
	cfg := Default()

	if raw.SeverityThreshold != "" {
		sev, err := diag.ParseSeverity(raw.SeverityThreshold)
		if err != nil {
			return nil, fmt.Errorf("%s: severityThreshold: %w", path, err)
		}
		cfg.SeverityThreshold = sev
	}
	if raw.AutoFix != nil {
		cfg.AutoFix = *raw.AutoFix
	}
	if raw.OutputFormat != "" {
		switch raw.OutputFormat {
		case "text", "json", "sarif":
			cfg.OutputFormat = raw.OutputFormat
		default:
			return nil, fmt.Errorf("%s: unknown outputFormat %q (want text, json or sarif)", path, raw.OutputFormat)
		}
	}
	cfg.Exclude = raw.Exclude
	cfg.IntrinsicTable = raw.IntrinsicTable

	names := make([]string, 0, len(raw.Rules))
	for name := range raw.Rules {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic unknown-rule notes

	for _, name := range names {
		prim := raw.Rules[name]
		code, known := diag.CodeByName(name)
		if !known {
			cfg.UnknownRules = append(cfg.UnknownRules, name)
			continue
		}
		setting, err := decodeRule(&meta, prim)
		if err != nil {
			return nil, fmt.Errorf("%s: rule %q: %w", path, name, err)
		}
		cfg.Rules[code] = setting
	}
	return cfg, nil
}

// decodeRule accepts either a bare severity string or a
// {level, enabled, parameters} table.
func decodeRule(meta *toml.MetaData, prim toml.Primitive) (RuleSetting, error) {
	var level string
	if err := meta.PrimitiveDecode(prim, &level); err == nil {
		sev, err := diag.ParseSeverity(level)
		if err != nil {
			return RuleSetting{}, err
		}
		return RuleSetting{Level: sev, HasLevel: true, Enabled: true}, nil
	}

	var raw rawRule
	if err := meta.PrimitiveDecode(prim, &raw); err != nil {
		return RuleSetting{}, fmt.Errorf("want a severity string or a {level, enabled, parameters} table: %w", err)
	}
	out := RuleSetting{Enabled: true, Parameters: raw.Parameters}
	if raw.Level != "" {
		sev, err := diag.ParseSeverity(raw.Level)
		if err != nil {
			return RuleSetting{}, err
		}
		out.Level = sev
		out.HasLevel = true
	}
	if raw.Enabled != nil {
		out.Enabled = *raw.Enabled
	}
	return out, nil
}

// IntParam fetches an integer rule parameter, 0 when absent. TOML
// integers decode as int64.
func (s RuleSetting) IntParam(key string) int {
	switch v := s.Parameters[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// StringsParam fetches a string-list rule parameter.
func (s RuleSetting) StringsParam(key string) []string {
	raw, ok := s.Parameters[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
