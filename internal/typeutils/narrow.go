package typeutils

import "github.com/sunholo/gradualtype/internal/typesys"

// RemoveNoneFromUnion strips NoneType out of t, used by `is not None`
// and truthiness narrowing (spec §4.D "Narrowing constraint builder").
func RemoveNoneFromUnion(t typesys.Type) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if _, ok := m.(*typesys.NoneType); ok {
			return nil
		}
		return m
	})
}

// RemoveTruthyFromUnion keeps only members that could be falsy — the
// `if not x:` / `while not x:` narrowing branch. bool literals True,
// non-empty literal strings, and non-zero numeric literals are dropped;
// everything without a statically-known truth value is kept.
func RemoveTruthyFromUnion(t typesys.Type) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if truth, known := staticTruthValue(m); known && truth {
			return nil
		}
		return m
	})
}

// RemoveFalsyFromUnion keeps only members that could be truthy — the
// `if x:` / `while x:` narrowing branch.
func RemoveFalsyFromUnion(t typesys.Type) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if truth, known := staticTruthValue(m); known && !truth {
			return nil
		}
		return m
	})
}

// staticTruthValue reports a member's compile-time-known truthiness:
// None and the empty-string/zero/False literals are always falsy; any
// other literal is always truthy; non-literal members have no
// statically known truth value.
func staticTruthValue(t typesys.Type) (truth bool, known bool) {
	switch x := t.(type) {
	case *typesys.NoneType:
		return false, true
	case *typesys.Object:
		if !x.HasLiteral() {
			return false, false
		}
		switch v := x.Literal.(type) {
		case bool:
			return v, true
		case int64:
			return v != 0, true
		case string:
			return v != "", true
		}
	}
	return false, false
}

// StripLiteralValue widens every literal-bearing Object member of t
// back to its plain class, used after narrowing has finished with the
// literal value it needed (spec §4.D).
func StripLiteralValue(t typesys.Type) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if o, ok := m.(*typesys.Object); ok {
			return o.StripLiteral()
		}
		return m
	})
}

// ConvertClassToObject turns a bare Class (as produced by `type(x)` or
// an isinstance/issubclass second argument) into the Object type that
// represents an instance of it.
func ConvertClassToObject(t typesys.Type) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if c, ok := m.(*typesys.Class); ok {
			return typesys.Instance(c)
		}
		return m
	})
}

// TransformTypeObjectToClass is ConvertClassToObject's inverse: it
// extracts the underlying Class out of an Object instance of `type`
// (or out of typesys.TypeAliasClass's specialisation, `Type[X]`), for
// isinstance's first-argument narrowing.
func TransformTypeObjectToClass(t typesys.Type) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if o, ok := m.(*typesys.Object); ok {
			if sameMROEntry(o.Class, typesys.TypeAliasClass) && len(o.Class.TypeArgs) > 0 {
				return o.Class.TypeArgAt(0)
			}
		}
		return m
	})
}

// NarrowForLiteralEquality computes the narrowed type of a value of
// static type t when `x == lit` succeeds, where lit is a literal-bearing
// Object (spec §4.C narrowing primitives, §4.D "literal equality"):
// kept members are those the literal is assignable to, falling back to
// the literal itself when nothing in the declared union matches (the
// same Any/Unknown-flavoured-union fallback NarrowForIsInstance uses).
func NarrowForLiteralEquality(t typesys.Type, lit *typesys.Object) typesys.Type {
	if isAnyOrUnknown(t) {
		return lit
	}
	kept := DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if CanAssignType(m, lit, nil) {
			return lit
		}
		return nil
	})
	if _, ok := kept.(*typesys.NeverType); ok {
		return lit
	}
	return kept
}

// RemoveLiteralFromUnion strips out union members equal to lit's exact
// literal value — the `x != lit` / `x == lit` IfFalse branch.
func RemoveLiteralFromUnion(t typesys.Type, lit *typesys.Object) typesys.Type {
	return DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if o, ok := m.(*typesys.Object); ok && o.HasLiteral() && sameMROEntry(o.Class, lit.Class) && o.Literal == lit.Literal {
			return nil
		}
		return m
	})
}

// NarrowForIsInstance computes the narrowed type of a value of static
// type t when an `isinstance(x, cls)` (or `type(x) is cls`) check
// succeeds: the intersection is approximated by keeping only the union
// members assignable from an instance of cls, and, if none match,
// falling back to an instance of cls itself (the classic "narrow to
// the checked class when nothing in the declared union is compatible"
// rule pyright-style checkers use for Any/Unknown-flavoured unions).
func NarrowForIsInstance(t typesys.Type, cls *typesys.Class) typesys.Type {
	instance := typesys.Instance(cls)
	if isAnyOrUnknown(t) {
		return instance
	}
	kept := DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if CanAssignType(m, instance, nil) {
			// cls is m's class or a subclass of it: narrow down to cls.
			return instance
		}
		if o, ok := m.(*typesys.Object); ok && IsDerivedFrom(o.Class, cls) {
			// m is already narrower than cls (e.g. declared bool,
			// isinstance(x, int)): the check adds no information.
			return m
		}
		return nil
	})
	if _, ok := kept.(*typesys.NeverType); ok {
		return instance
	}
	return kept
}
