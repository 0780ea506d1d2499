package ast

import (
	"strings"

	"vela/internal/source"
)

// Param is one declared function parameter.
type Param struct {
	Name string
	Type string
	Span source.Span
}

// TypeRef is a declared type. Fallible marks the two-variant result
// type Result<Ok, Err>; plain types carry only Name.
type TypeRef struct {
	Name     string
	Fallible bool
	Ok       *TypeRef
	Err      *TypeRef
	Span     source.Span
}

// Unit is the absent return type.
func (t TypeRef) Unit() bool {
	return !t.Fallible && (t.Name == "" || t.Name == "unit")
}

func (t TypeRef) String() string {
	if !t.Fallible {
		if t.Name == "" {
			return "unit"
		}
		return t.Name
	}
	var sb strings.Builder
	sb.WriteString("Result<")
	if t.Ok != nil {
		sb.WriteString(t.Ok.String())
	} else {
		sb.WriteString("unit")
	}
	sb.WriteString(", ")
	if t.Err != nil {
		sb.WriteString(t.Err.String())
	} else {
		sb.WriteString("unit")
	}
	sb.WriteString(">")
	return sb.String()
}

// Result constructs a fallible TypeRef from plain ok/err type names.
func Result(ok, err string) TypeRef {
	return TypeRef{
		Fallible: true,
		Ok:       &TypeRef{Name: ok},
		Err:      &TypeRef{Name: err},
	}
}

// Function is a signature plus its body. Immutable once parsed; Name is
// unique within the owning module.
type Function struct {
	Name    string
	Params  []Param
	Pure    bool
	Effects []string // declared effect tags; empty slice means no `uses` clause
	Returns TypeRef
	Body    *Block
	Span    source.Span
}

// QualifiedName renders module::function for messages and graph nodes.
func QualifiedName(module, fn string) string {
	return module + "::" + fn
}
