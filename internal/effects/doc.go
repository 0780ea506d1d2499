// Package effects models capability tags and their sets. The vocabulary
// is open: tags are interned strings from an externally configurable
// intrinsic table, never a closed enum. Sets compose by union, with the
// empty set as identity, which makes the effect lattice monotone and the
// checker's fixed point convergent.
package effects
