package typesys

import "github.com/sunholo/gradualtype/internal/symbols"

// Module is the type of an imported module: a symbol table of
// top-level names. Partial marks the intermediate state of a
// multi-part import (`import a.b.c`) before every component has
// resolved (spec §3).
type Module struct {
	Name    string
	Table   *symbols.SymbolTable
	Partial bool
}

func (*Module) isType() {}

func (m *Module) String() string { return "module " + m.Name }
