package ast

import (
	"vela/internal/source"
)

// Program is one compilation unit set: every module the frontend
// resolved, imports already bound to module names.
type Program struct {
	Modules []*Module
}

// Module groups the functions of one source file.
type Module struct {
	Name    string // unique module name
	Path    string // source path, matched against exclude globs
	File    source.FileID
	Imports []Import
	Funcs   []*Function
}

// Import binds another module into scope under an alias.
type Import struct {
	Module string // target module name
	Alias  string // local qualifier; defaults to Module when empty
	Span   source.Span
}

// LocalAlias returns the qualifier under which the import is visible.
func (i Import) LocalAlias() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Module
}

// Module returns the module with the given name, or nil.
func (p *Program) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Function {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
