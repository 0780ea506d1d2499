// Package ast is the program model consumed by the analyzer: modules,
// imports, function signatures and bodies. The frontend builds it (and
// serializes it into the program payload); this core only reads it.
//
// Nodes are kind-tagged structs rather than interface trees so the whole
// model round-trips through msgpack without custom codecs. The model is
// immutable once built; every pass treats it as read-only.
package ast
