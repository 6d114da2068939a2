package typesys

import "strconv"

// Object is an instance of a Class, optionally carrying a literal
// value (int64, bool, or string) for literal-type support (spec §3).
// The invariant that a literal-bearing Object's Class is one of the
// literal-supporting built-ins is enforced by whoever constructs it
// (the evaluator, at the literal-expression and Literal[...] handlers)
// rather than by this type itself, which stays a passive data holder
// with no validation of its own.
type Object struct {
	Class   *Class
	Literal any // nil, or int64 | bool | string
}

func (*Object) isType() {}

func (o *Object) String() string {
	if o.Literal != nil {
		switch v := o.Literal.(type) {
		case string:
			return "Literal['" + v + "']"
		default:
			return "Literal[" + formatLiteral(o.Literal) + "]"
		}
	}
	return o.Class.String()
}

func formatLiteral(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return "?"
	}
}

// HasLiteral reports whether this Object narrows to a specific value.
func (o *Object) HasLiteral() bool { return o.Literal != nil }

// StripLiteral returns an equivalent Object with the literal payload
// removed, widening e.g. Literal[1] back to int.
func (o *Object) StripLiteral() *Object {
	if o.Literal == nil {
		return o
	}
	return &Object{Class: o.Class}
}
