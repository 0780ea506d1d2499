package callgraph

import (
	"vela/internal/ast"
	"vela/internal/effects"
	"vela/internal/source"
)

// Usage classifies how a call expression's value is consumed.
type Usage uint8

const (
	// UseDiscarded is a bare call statement whose value is dropped.
	UseDiscarded Usage = iota
	// UseBound is a call consumed by a let declaration.
	UseBound
	// UseMatched is a call consumed as a match subject.
	UseMatched
	// UsePropagated is a call statement whose ? forwards the error.
	UsePropagated
	// UseReturned is a call returned directly from the function.
	UseReturned
	// UseValue is a call consumed inside a larger expression: argument,
	// operand, condition, or constructor payload.
	UseValue
)

func (u Usage) String() string {
	switch u {
	case UseBound:
		return "bound"
	case UseMatched:
		return "matched"
	case UsePropagated:
		return "propagated"
	case UseReturned:
		return "returned"
	case UseValue:
		return "value"
	}
	return "discarded"
}

// CallSite is one call expression inside a function body.
type CallSite struct {
	Caller string // qualified caller name
	Expr   *ast.Expr
	Usage  Usage
	Span   source.Span
}

// ResolutionKind discriminates what a callee resolved to.
type ResolutionKind uint8

const (
	ResolvedUnknown ResolutionKind = iota
	ResolvedFunc
	ResolvedIntrinsic
)

// Resolution is the outcome of resolving one call expression.
type Resolution struct {
	Kind     ResolutionKind
	Target   string // qualified function name (ResolvedFunc)
	Fn       *ast.Function
	Tags     effects.Set // intrinsic tags (ResolvedIntrinsic)
	Fallible bool        // callee returns a Result value

	intrinsic effects.Intrinsic
}

// Intrinsic returns the matched intrinsic table entry for a
// ResolvedIntrinsic resolution.
func (r Resolution) Intrinsic() effects.Intrinsic {
	return r.intrinsic
}

// Edge is a deduplicated caller->callee relation. Sites keeps every
// call expression that produced the edge, first one first.
type Edge struct {
	From  string
	To    string
	Sites []CallSite
}

// IntrinsicUse records calls into one intrinsic namespace entry.
type IntrinsicUse struct {
	Prefix   string
	Tags     effects.Set
	Fallible bool
	Sites    []CallSite
}

// Node is one declared function with its outgoing relations.
type Node struct {
	Module     *ast.Module
	Fn         *ast.Function
	Name       string // qualified module::fn
	Edges      []*Edge
	Intrinsics []*IntrinsicUse

	edgeByTo      map[string]*Edge
	intrinsicByPx map[string]*IntrinsicUse
}

// Graph is the call graph over all modules of a program.
type Graph struct {
	nodes   map[string]*Node
	order   []string // program declaration order, for determinism
	calls   map[*ast.Expr]Resolution
	callers map[string][]string
	// base callee name -> qualified targets actually called, in
	// resolution order; feeds the effect-consistency rule.
	baseNames map[string][]NameBinding
}

// NameBinding records one resolved call under its unqualified callee
// name, so ambiguous overload-like resolutions can be surfaced.
type NameBinding struct {
	Target string
	Site   CallSite
}

// BaseNameBindings maps each unqualified callee name to the resolved
// targets actually called under it, in resolution order.
func (g *Graph) BaseNameBindings() map[string][]NameBinding {
	return g.baseNames
}

// Node returns the node for a qualified function name.
func (g *Graph) Node(name string) *Node {
	return g.nodes[name]
}

// Names returns all qualified function names in declaration order.
func (g *Graph) Names() []string {
	return g.order
}

// ResolveCall returns the resolution recorded for a call expression.
// Unresolved calls are absent.
func (g *Graph) ResolveCall(e *ast.Expr) (Resolution, bool) {
	r, ok := g.calls[e]
	return r, ok
}

// Callers returns the qualified names of functions calling name.
func (g *Graph) Callers(name string) []string {
	return g.callers[name]
}

// ReachableFrom returns the set of qualified function names reachable
// from root through resolved edges, root included. Cycles are fine; the
// frontier check keeps the walk finite.
func (g *Graph) ReachableFrom(root string) map[string]bool {
	seen := map[string]bool{}
	if g.nodes[root] == nil {
		return seen
	}
	stack := []string{root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, e := range g.nodes[name].Edges {
			if !seen[e.To] {
				stack = append(stack, e.To)
			}
		}
	}
	return seen
}

func (n *Node) addEdge(to string, site CallSite) {
	if n.edgeByTo == nil {
		n.edgeByTo = make(map[string]*Edge, 4)
	}
	// Repeat calls to one callee collapse into the existing edge.
	if e, ok := n.edgeByTo[to]; ok {
		e.Sites = append(e.Sites, site)
		return
	}
	e := &Edge{From: n.Name, To: to, Sites: []CallSite{site}}
	n.edgeByTo[to] = e
	n.Edges = append(n.Edges, e)
}

func (n *Node) addIntrinsic(in effects.Intrinsic, tags effects.Set, site CallSite) {
	if n.intrinsicByPx == nil {
		n.intrinsicByPx = make(map[string]*IntrinsicUse, 4)
	}
	if u, ok := n.intrinsicByPx[in.Prefix]; ok {
		u.Sites = append(u.Sites, site)
		return
	}
	u := &IntrinsicUse{Prefix: in.Prefix, Tags: tags, Fallible: in.Fallible, Sites: []CallSite{site}}
	n.intrinsicByPx[in.Prefix] = u
	n.Intrinsics = append(n.Intrinsics, u)
}
