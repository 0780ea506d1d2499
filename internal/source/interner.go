package source

import (
	"slices"
	"sync"
)

type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates strings into dense IDs. Effect tags and symbol
// names are interned so set operations compare uint32s, not strings.
// Safe for concurrent use: workers intern tags while checking in parallel.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // byID[0] = "" for NoStringID
	index map[string]StringID // string -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID for s, inserting it on first sight.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// Own copy, to not pin the caller's backing buffer.
	cpy := string([]byte(s))
	id = StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, or ("", false) for an unknown ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id and panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len returns the number of interned strings, NoStringID included.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
