package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics for one unit of work, bounded by max.
// Workers each own a Bag; the engine merges them afterward.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, honoring the limit. Returns false when the
// bag is full and the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether at least one diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// ErrorCount returns the number of error-severity diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the diagnostics. Do not modify the
// returned slice; it aliases the Bag's backing array.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other, growing max as needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (desc), code so
// repeated runs over the same program produce identical output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code.String() < dj.Code.String()
	})
}

// Dedup drops exact repeats by (code, primary span).
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	kept := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.String(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
