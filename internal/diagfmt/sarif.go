package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"vela/internal/diag"
	"vela/internal/source"
)

// SARIF 2.1.0 output, the subset code hosts actually read: one run,
// a rule table, and one result per diagnostic.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif writes the diagnostic list as a SARIF 2.1.0 log.
func Sarif(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, meta SarifRunMeta) error {
	seen := map[string]bool{}
	var rules []sarifRule
	results := make([]sarifResult, 0, len(items))

	for _, d := range items {
		id := d.Code.String()
		if !seen[id] {
			seen[id] = true
			rules = append(rules, sarifRule{ID: id})
		}
		res := sarifResult{
			RuleID:  id,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
		}
		if fs != nil && (d.Primary != source.Span{}) && int(d.Primary.File) < fs.Len() {
			start, end := fs.Resolve(d.Primary)
			res.Locations = []sarifLocation{{PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: fs.Get(d.Primary.File).Path},
				Region: sarifRegion{
					StartLine:   start.Line,
					StartColumn: start.Col,
					EndLine:     end.Line,
					EndColumn:   end.Col,
				},
			}}}
		}
		results = append(results, res)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
				Rules:   rules,
			}},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: true,
			}},
			Results: results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
