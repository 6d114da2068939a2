// Package typesys is the Type Model (spec §4.A): an immutable-by-
// construction algebraic representation of every type the Language
// admits, with process-wide interning of the primitive singletons.
//
// The shape is a closed sum-of-structs Type representation, the kind
// a unification engine builds from tagged variants (TVar, TCon,
// TFunc, TTuple, ...), generalised here to the gradual, class-based
// type system spec §3 describes: Unbound, Unknown, Any, None, Never,
// Class, Object, Function, OverloadedFunction, Property, Module,
// Union, TypeVar.
package typesys

// Type is satisfied by every case of the tagged variant in spec §3.
// Kept as a closed sum (private isType marker) so a switch over all
// cases is a compile-time-checkable exhaustive match, per design note
// §9 "Union as tagged set, not a class hierarchy".
type Type interface {
	String() string
	isType()
}

// Unbound marks a symbol declared but not yet assigned on some path.
type Unbound struct{}

func (*Unbound) isType()        {}
func (*Unbound) String() string { return "Unbound" }

// Unknown is the gradual-typing escape hatch: compatible in both
// assignability directions, distinct from Any only in how strict
// completeness diagnostics treat it (spec §4.E, reportUnknown*).
type Unknown struct{}

func (*Unknown) isType()        {}
func (*Unknown) String() string { return "Unknown" }

// AnyType is the explicit opaque type. IsEllipsis marks the specific
// `...` placeholder used in `Callable[..., R]` and bare `Tuple[...]`.
type AnyType struct {
	IsEllipsis bool
}

func (*AnyType) isType() {}
func (a *AnyType) String() string {
	if a.IsEllipsis {
		return "..."
	}
	return "Any"
}

// NoneType is the unit singleton ("None").
type NoneType struct{}

func (*NoneType) isType()        {}
func (*NoneType) String() string { return "None" }

// NeverType is the bottom type, reached after exhaustive union
// filtering or an unreachable narrowing branch.
type NeverType struct{}

func (*NeverType) isType()        {}
func (*NeverType) String() string { return "Never" }

// Process-wide interned singletons (spec §3 "Interning").
var (
	TheUnbound       = &Unbound{}
	TheUnknown       = &Unknown{}
	TheAny           = &AnyType{}
	TheEllipsisAny   = &AnyType{IsEllipsis: true}
	TheNone          = &NoneType{}
	TheNever         = &NeverType{}
)
