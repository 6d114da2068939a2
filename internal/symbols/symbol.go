// Package symbols implements the Symbol & Declaration Model (spec §4.B):
// multi-declaration symbols with typed-declaration extraction, and the
// scope-aware lookup the evaluator and checker both depend on.
package symbols

import (
	"sync/atomic"

	"github.com/sunholo/gradualtype/internal/ast"
)

// ID is a process-wide unique symbol identity.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// Flags are the per-symbol bits spec §3 lists under Symbol.
type Flags uint16

const (
	InitiallyUnbound Flags = 1 << iota
	ExternallyHidden
	ClassMember
	InstanceMember
	PrivateMember
	IgnoredForProtocolMatch
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// DeclKind tags the Declaration variant (spec §3 "Declaration").
type DeclKind int

const (
	DeclAlias DeclKind = iota
	DeclClass
	DeclFunction
	DeclParameter
	DeclVariable
	DeclIntrinsic
)

// Declaration is one binding site for a Symbol. Fields are populated
// according to Kind; unused fields for a given Kind are left zero.
type Declaration struct {
	Kind  DeclKind
	Node  ast.Node // nil only for DeclIntrinsic
	Path  string
	Range ast.Span

	// DeclAlias
	AliasModule string
	AliasSymbol string // "" means the whole module is aliased

	// DeclFunction
	IsMethod bool

	// DeclParameter / DeclVariable
	IsFinal bool

	// DeclVariable
	Annotation   ast.Expr // explicit `: T` node, nil if absent
	InferredFrom ast.Node // node whose evaluated type seeds inference, optional
}

// sameSite reports whether two declarations occupy the same binding
// position: compared by node identity, kind and range, per spec §4.B.
func (d *Declaration) sameSite(o *Declaration) bool {
	return d.Kind == o.Kind && d.Node == o.Node && d.Range == o.Range
}

// Typed reports whether this declaration carries an explicit type form.
// Parameters and variables are typed only when annotated; every other
// declaration kind is inherently "typed" (a class/function declares its
// own type, an alias/intrinsic has no untyped counterpart to be
// superseded by).
func (d *Declaration) Typed() bool {
	switch d.Kind {
	case DeclVariable:
		return d.Annotation != nil
	case DeclParameter:
		if p, ok := d.Node.(*ast.Param); ok {
			return p.Annotation != nil
		}
		return false
	default:
		return true
	}
}

// Symbol is a name bound in some Scope, possibly by more than one
// Declaration (e.g. an overloaded function, or a variable reassigned
// along different branches).
type Symbol struct {
	id             ID
	Name           string
	Flags          Flags
	Decls          []*Declaration
	UndeclaredType any // set only for fully synthesised symbols (spec §3)
}

// New creates a symbol with no declarations yet.
func New(name string, flags Flags) *Symbol {
	return &Symbol{id: nextID(), Name: name, Flags: flags}
}

func (s *Symbol) ID() ID { return s.id }

// AddDeclaration replaces an equivalent (same-site) declaration in
// place — a typed form supersedes an untyped one there — or appends a
// new one, per spec §4.B.
func (s *Symbol) AddDeclaration(d *Declaration) {
	for i, existing := range s.Decls {
		if existing.sameSite(d) {
			if d.Typed() && !existing.Typed() {
				s.Decls[i] = d
			}
			return
		}
	}
	s.Decls = append(s.Decls, d)
}

// GetTypedDeclarations returns every declaration that carries a typed
// form, in binding order.
func (s *Symbol) GetTypedDeclarations() []*Declaration {
	var out []*Declaration
	for _, d := range s.Decls {
		if d.Typed() {
			out = append(out, d)
		}
	}
	return out
}

// LastTypedDeclaration is the most recently added typed declaration,
// used as a symbol's "primary" declaration for override/obscuring
// checks.
func (s *Symbol) LastTypedDeclaration() *Declaration {
	typed := s.GetTypedDeclarations()
	if len(typed) == 0 {
		return nil
	}
	return typed[len(typed)-1]
}

func (s *Symbol) IsInitiallyUnbound() bool       { return s.Flags.Has(InitiallyUnbound) }
func (s *Symbol) IsExternallyHidden() bool       { return s.Flags.Has(ExternallyHidden) }
func (s *Symbol) IsClassMember() bool            { return s.Flags.Has(ClassMember) }
func (s *Symbol) IsInstanceMember() bool         { return s.Flags.Has(InstanceMember) }
func (s *Symbol) IsPrivateMember() bool          { return s.Flags.Has(PrivateMember) }
func (s *Symbol) IsIgnoredForProtocolMatch() bool { return s.Flags.Has(IgnoredForProtocolMatch) }
