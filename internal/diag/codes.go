package diag

import "fmt"

// Code identifies a rule. The numeric value is internal; the stable
// public identity is the kebab-case name returned by String, which is
// what configuration files and formatters use.
type Code uint16

const (
	UnknownCode Code = 0

	// Resolution
	UnresolvedCall   Code = 1001
	UnresolvedImport Code = 1002

	// Effects
	EffectCompleteness     Code = 2001
	EffectMinimality       Code = 2002
	PureFunctionValidation Code = 2003
	EffectPropagation      Code = 2004
	EffectConsistency      Code = 2005

	// Result / error flow
	ErrorPropagationValidation Code = 3001
	UnusedResults              Code = 3002
	ErrorHandling              Code = 3003
	DeadErrorPaths             Code = 3004
	ResultTypeConsistency      Code = 3005
	MatchCompleteness          Code = 3006

	// Quality
	MaxBodyLength     Code = 4001
	MaxParameterCount Code = 4002
	MaxLineLength     Code = 4003

	// Security
	RestrictedIntrinsic Code = 4101

	// Performance
	IntrinsicCallInLoop Code = 4201

	// Engine / configuration notes
	UnknownRule Code = 5001
	AutoFixICE  Code = 5002
)

var codeNames = map[Code]string{
	UnresolvedCall:             "unresolved-call",
	UnresolvedImport:           "unresolved-import",
	EffectCompleteness:         "effect-completeness",
	EffectMinimality:           "effect-minimality",
	PureFunctionValidation:     "pure-function-validation",
	EffectPropagation:          "effect-propagation",
	EffectConsistency:          "effect-consistency",
	ErrorPropagationValidation: "error-propagation-validation",
	UnusedResults:              "unused-results",
	ErrorHandling:              "error-handling",
	DeadErrorPaths:             "dead-error-paths",
	ResultTypeConsistency:      "result-type-consistency",
	MatchCompleteness:          "match-completeness",
	MaxBodyLength:              "max-body-length",
	MaxParameterCount:          "max-parameter-count",
	MaxLineLength:              "max-line-length",
	RestrictedIntrinsic:        "restricted-intrinsic",
	IntrinsicCallInLoop:        "intrinsic-call-in-loop",
	UnknownRule:                "unknown-rule",
	AutoFixICE:                 "autofix-unsupported",
}

var codesByName = func() map[string]Code {
	m := make(map[string]Code, len(codeNames))
	for c, n := range codeNames {
		m[n] = c
	}
	return m
}()

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("rule-%04d", uint16(c))
}

// CodeByName resolves a kebab-case rule id back to its Code.
func CodeByName(name string) (Code, bool) {
	c, ok := codesByName[name]
	return c, ok
}
