package sema

import (
	"fmt"
	"strings"

	"vela/internal/ast"
	"vela/internal/callgraph"
	"vela/internal/diag"
)

// SecurityOptions configures the security pass. Deny lists intrinsic
// namespace prefixes a project forbids outright.
type SecurityOptions struct {
	Graph    *callgraph.Graph
	Reporter diag.Reporter
	Deny     []string
}

// CheckRestrictedIntrinsics flags every call into a denied intrinsic
// namespace in one module.
func CheckRestrictedIntrinsics(mod *ast.Module, opts SecurityOptions) {
	if len(opts.Deny) == 0 {
		return
	}
	for _, fn := range mod.Funcs {
		node := opts.Graph.Node(ast.QualifiedName(mod.Name, fn.Name))
		if node == nil {
			continue
		}
		for _, use := range node.Intrinsics {
			for _, site := range use.Sites {
				if prefix, denied := matchDeny(site.Expr.Callee, opts.Deny); denied {
					diag.ReportWarning(opts.Reporter, diag.RestrictedIntrinsic, site.Span,
						fmt.Sprintf("call to `%s` hits the restricted namespace `%s`", site.Expr.Callee, prefix)).
						Emit()
				}
			}
		}
	}
}

func matchDeny(callee string, deny []string) (string, bool) {
	for _, prefix := range deny {
		if callee == prefix || strings.HasPrefix(callee, prefix+"::") {
			return prefix, true
		}
	}
	return "", false
}
