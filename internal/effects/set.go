package effects

import (
	"slices"
	"strings"
)

// Set is a set of capability tags. The zero value is usable and empty.
type Set struct {
	ids map[Tag]struct{}
}

// NewSet builds a set from tags.
func NewSet(tags ...Tag) Set {
	var s Set
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

func (s *Set) Add(t Tag) {
	if s.ids == nil {
		s.ids = make(map[Tag]struct{}, 4)
	}
	s.ids[t] = struct{}{}
}

func (s Set) Has(t Tag) bool {
	_, ok := s.ids[t]
	return ok
}

func (s Set) Len() int {
	return len(s.ids)
}

func (s Set) Empty() bool {
	return len(s.ids) == 0
}

// Union merges other into s and reports whether s grew. The fixed-point
// loop keys on the returned flag.
func (s *Set) Union(other Set) bool {
	grew := false
	for t := range other.ids {
		if !s.Has(t) {
			s.Add(t)
			grew = true
		}
	}
	return grew
}

// SubsetOf reports whether every tag of s is in other.
func (s Set) SubsetOf(other Set) bool {
	for t := range s.ids {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Diff returns the tags of s that are not in other.
func (s Set) Diff(other Set) Set {
	var out Set
	for t := range s.ids {
		if !other.Has(t) {
			out.Add(t)
		}
	}
	return out
}

// Equal reports set equality.
func (s Set) Equal(other Set) bool {
	return len(s.ids) == len(other.ids) && s.SubsetOf(other)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	var out Set
	out.Union(s)
	return out
}

// Tags returns the tags in ascending ID order.
func (s Set) Tags() []Tag {
	out := make([]Tag, 0, len(s.ids))
	for t := range s.ids {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Names renders the tags as sorted capability names, for deterministic
// messages.
func (s Set) Names(u *Universe) []string {
	out := make([]string, 0, len(s.ids))
	for t := range s.ids {
		out = append(out, u.Name(t))
	}
	slices.Sort(out)
	return out
}

// Format renders the set as "[A, B]" with sorted names.
func (s Set) Format(u *Universe) string {
	return "[" + strings.Join(s.Names(u), ", ") + "]"
}
