package effects

import (
	"vela/internal/source"
)

// Tag is one interned capability tag.
type Tag = source.StringID

// Universe interns the capability tags of one analysis run. Tags from
// different universes must not be mixed; the engine creates one universe
// per run, which keeps repeated runs independent.
type Universe struct {
	in *source.Interner
}

func NewUniverse() *Universe {
	return &Universe{in: source.NewInterner()}
}

// Tag interns a capability name.
func (u *Universe) Tag(name string) Tag {
	return u.in.Intern(name)
}

// Name returns the capability name for a tag.
func (u *Universe) Name(t Tag) string {
	return u.in.MustLookup(t)
}
