package effects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Intrinsic maps a qualified host-call prefix onto the capability tags
// it carries. Fallible marks primitives that return a result value.
type Intrinsic struct {
	Prefix   string   `toml:"prefix"`
	Effects  []string `toml:"effects"`
	Fallible bool     `toml:"fallible"`
}

// Table is the versioned intrinsic mapping consulted during call
// resolution. It is configuration data: a project may ship its own
// table file and extend the vocabulary without recompiling anything.
type Table struct {
	Version string
	entries []Intrinsic // sorted by prefix length, longest first
}

type tableFile struct {
	Version    string      `toml:"version"`
	Intrinsics []Intrinsic `toml:"intrinsic"`
}

// NewTable builds a table from entries.
func NewTable(version string, entries []Intrinsic) (*Table, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Prefix) == "" {
			return nil, fmt.Errorf("intrinsic entry with empty prefix")
		}
		if len(e.Effects) == 0 {
			return nil, fmt.Errorf("intrinsic %q declares no effects", e.Prefix)
		}
		if seen[e.Prefix] {
			return nil, fmt.Errorf("duplicate intrinsic prefix %q", e.Prefix)
		}
		seen[e.Prefix] = true
	}
	sorted := make([]Intrinsic, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Table{Version: version, entries: sorted}, nil
}

// LoadTable reads a table from a TOML document.
func LoadTable(path string) (*Table, error) {
	var f tableFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("%s: failed to parse intrinsic table: %w", path, err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("%s: intrinsic table misses version", path)
	}
	t, err := NewTable(f.Version, f.Intrinsics)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// DefaultTable covers the standard host namespaces. Projects override
// it with LoadTable.
func DefaultTable() *Table {
	t, err := NewTable("1", []Intrinsic{
		{Prefix: "std::storage", Effects: []string{"Storage"}, Fallible: true},
		{Prefix: "std::net", Effects: []string{"Network"}, Fallible: true},
		{Prefix: "std::log", Effects: []string{"Logging"}},
		{Prefix: "std::fs", Effects: []string{"FileSystem"}, Fallible: true},
		{Prefix: "std::mem", Effects: []string{"Memory"}},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve matches a qualified callee against the table, longest prefix
// first. A prefix matches the exact name or any deeper path under it.
func (t *Table) Resolve(callee string) (Intrinsic, bool) {
	for _, e := range t.entries {
		if callee == e.Prefix || strings.HasPrefix(callee, e.Prefix+"::") {
			return e, true
		}
	}
	return Intrinsic{}, false
}

// Entries returns the table entries, longest prefix first.
func (t *Table) Entries() []Intrinsic {
	return t.entries
}
