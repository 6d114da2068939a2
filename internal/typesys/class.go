package typesys

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/symbols"
)

// ClassFlags are the per-class bits spec §3 lists under Class.
type ClassFlags uint16

const (
	FlagBuiltin ClassFlags = 1 << iota
	FlagSpecialBuiltin
	FlagDataClass
	FlagProtocol
	FlagRuntimeCheckable
	FlagSkipSynthesizedInit
)

func (f ClassFlags) Has(bit ClassFlags) bool { return f&bit != 0 }

// BaseClass is one entry in a Class's base-class list; IsMetaclass
// marks a base reached through a metaclass relationship rather than
// ordinary inheritance.
type BaseClass struct {
	Class       *Class
	IsMetaclass bool
}

// Details is the shared, mutable-during-first-pass handle every
// specialisation of a generic class aliases (spec §4.A). Two Classes
// that share a Details pointer are "same-generic": specialising a
// generic class is just pairing its existing Details with a new
// TypeArgs overlay (Class.Specialize), never copying the table.
type Details struct {
	Name   string
	Flags  ClassFlags
	Source ast.Node // declaring ClassDef, nil for synthesised built-ins

	Bases           []BaseClass
	ClassFields     *symbols.SymbolTable
	InstanceFields  *symbols.SymbolTable
	TypeParams      []*TypeVar
	AliasClass      *Class // for built-in alias relationships (e.g. List -> list)
	Abstract        bool
	AbstractMethods []string // unoverridden @abstractmethod names, in MRO discovery order

	mro    []*Class
	mroSet bool
}

// Class is a nominal class, optionally specialised with concrete type
// arguments (TypeArgs). Instances sharing Details are same-generic.
type Class struct {
	Details  *Details
	TypeArgs []Type // present only when specialised; see invariant below
}

func (*Class) isType() {}

func (c *Class) String() string {
	if len(c.TypeArgs) == 0 {
		return c.Details.Name
	}
	s := c.Details.Name + "["
	for i, a := range c.TypeArgs {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + "]"
}

// NewClass creates an unspecialised class with empty field tables.
func NewClass(name string, flags ClassFlags) *Class {
	return &Class{Details: &Details{
		Name:           name,
		Flags:          flags,
		ClassFields:    symbols.NewSymbolTable(),
		InstanceFields: symbols.NewSymbolTable(),
	}}
}

// Specialize returns a cheap clone that shares Details but carries a
// new type-argument overlay, padded with Any when shorter than the
// declared type-parameter count — the invariant spec §3 requires of
// every Class with a non-empty TypeArgs list.
func (c *Class) Specialize(args []Type) *Class {
	return &Class{Details: c.Details, TypeArgs: padArgs(args, len(c.Details.TypeParams))}
}

func padArgs(args []Type, n int) []Type {
	if len(args) >= n {
		return args
	}
	padded := make([]Type, n)
	copy(padded, args)
	for i := len(args); i < n; i++ {
		padded[i] = TheAny
	}
	return padded
}

// IsSpecialized reports whether this Class carries a type-argument
// overlay at all.
func (c *Class) IsSpecialized() bool { return len(c.TypeArgs) > 0 }

// TypeArgAt returns the i'th type argument, or Any if TypeArgs is
// shorter than i (spec §4.A "missing positions treated as Any").
func (c *Class) TypeArgAt(i int) Type {
	if i >= 0 && i < len(c.TypeArgs) {
		return c.TypeArgs[i]
	}
	return TheAny
}

// sameGeneric implements spec §4.A's "same-generic" relation: shared
// Details identity, or both special built-ins of equal name, or an
// alias relationship in either direction.
func sameGeneric(a, b *Class) bool {
	if a.Details == b.Details {
		return true
	}
	if a.Details.Flags.Has(FlagSpecialBuiltin) && b.Details.Flags.Has(FlagSpecialBuiltin) && a.Details.Name == b.Details.Name {
		return true
	}
	if a.Details.AliasClass != nil && sameGeneric(a.Details.AliasClass, b) {
		return true
	}
	if b.Details.AliasClass != nil && sameGeneric(a, b.Details.AliasClass) {
		return true
	}
	return false
}

// MRO returns the Class's cached linearised method-resolution order,
// or nil if typeutils hasn't computed and cached one yet (spec §4.C
// computes and caches it lazily on these Details).
func (c *Class) MRO() ([]*Class, bool) {
	return c.Details.mro, c.Details.mroSet
}

// SetMRO caches the linearised MRO on the shared Details so every
// specialisation of this generic class reuses the same computation.
func (c *Class) SetMRO(mro []*Class) {
	c.Details.mro = mro
	c.Details.mroSet = true
}

// IsAbstract reports whether the class has at least one unoverridden
// abstract method transitively in its MRO (spec §3 invariant);
// typeutils populates this flag once the MRO and field tables are
// known.
func (c *Class) IsAbstract() bool { return c.Details.Abstract }
