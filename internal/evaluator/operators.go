package evaluator

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

var unaryDunder = map[string]string{
	"-": "__neg__", "+": "__pos__", "~": "__invert__",
}

var binaryDunder = map[string]struct{ forward, reverse string }{
	"+":   {"__add__", "__radd__"},
	"-":   {"__sub__", "__rsub__"},
	"*":   {"__mul__", "__rmul__"},
	"/":   {"__truediv__", "__rtruediv__"},
	"//":  {"__floordiv__", "__rfloordiv__"},
	"%":   {"__mod__", "__rmod__"},
	"**":  {"__pow__", "__rpow__"},
	"@":   {"__matmul__", "__rmatmul__"},
	"&":   {"__and__", "__rand__"},
	"|":   {"__or__", "__ror__"},
	"^":   {"__xor__", "__rxor__"},
	"<<":  {"__lshift__", "__rlshift__"},
	">>":  {"__rshift__", "__rrshift__"},
	"==":  {"__eq__", "__eq__"},
	"!=":  {"__ne__", "__ne__"},
	"<":   {"__lt__", "__gt__"},
	">":   {"__gt__", "__lt__"},
	"<=":  {"__le__", "__ge__"},
	">=":  {"__ge__", "__le__"},
	"in":  {"__contains__", ""},
	"not in": {"__contains__", ""},
}

func (ev *Evaluator) evalUnary(n *ast.UnaryExpr, env *Env) typesys.Type {
	operand := ev.GetType(n.Operand, env, UsageGet)
	if n.Op == "not" {
		return typesys.Instance(typesys.BoolClass)
	}
	dunder, ok := unaryDunder[n.Op]
	if !ok {
		return typesys.TheUnknown
	}
	var result typesys.Type = typesys.TheUnknown
	typeutils.DoForSubtypes(operand, func(t typesys.Type) typesys.Type {
		cls, ok := asClass(classOf(t))
		if !ok {
			return typesys.TheUnknown
		}
		ret, found := ev.resolveDunderReturn(cls, dunder, env)
		if found {
			result = typeutils.CombineTypes([]typesys.Type{result, ret})
		}
		return t
	})
	if result == typesys.TheUnknown && isNumeric(operand) {
		return operand
	}
	return result
}

func (ev *Evaluator) evalBinary(n *ast.BinaryExpr, env *Env) typesys.Type {
	left := ev.GetType(n.Left, env, UsageGet)
	right := ev.GetType(n.Right, env, UsageGet)

	if n.Op == "in" || n.Op == "not in" {
		return typesys.Instance(typesys.BoolClass)
	}
	if isComparison(n.Op) {
		return typesys.Instance(typesys.BoolClass)
	}

	if isNumeric(left) && isNumeric(right) {
		lc, _ := asClass(classOf(left))
		rc, _ := asClass(classOf(right))
		return typesys.Instance(promote(lc, rc))
	}

	pair, ok := binaryDunder[n.Op]
	if !ok {
		return typesys.TheUnknown
	}
	if lc, ok := asClass(classOf(left)); ok {
		if ret, found := ev.resolveDunderReturn(lc, pair.forward, env); found {
			return ret
		}
	}
	if pair.reverse != "" {
		if rc, ok := asClass(classOf(right)); ok {
			if ret, found := ev.resolveDunderReturn(rc, pair.reverse, env); found {
				return ret
			}
		}
	}
	return typesys.TheUnknown
}

func (ev *Evaluator) evalBoolOp(n *ast.BoolOpExpr, env *Env) typesys.Type {
	if len(n.Values) == 0 {
		return typesys.TheUnknown
	}
	results := make([]typesys.Type, 0, len(n.Values))
	for i, v := range n.Values {
		t := ev.GetType(v, env, UsageGet)
		last := i == len(n.Values)-1
		switch n.Op {
		case "and":
			if last {
				results = append(results, t)
			} else {
				results = append(results, typeutils.RemoveTruthyFromUnion(t))
			}
		case "or":
			if last {
				results = append(results, t)
			} else {
				results = append(results, typeutils.RemoveFalsyFromUnion(t))
			}
		default:
			results = append(results, t)
		}
	}
	return typeutils.CombineTypes(results)
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func isNumeric(t typesys.Type) bool {
	cls, ok := asClass(classOf(t))
	if !ok {
		return false
	}
	return typesys.NumericPromotionRank(cls) >= 0
}

func promote(a, b *typesys.Class) *typesys.Class {
	ra := typesys.NumericPromotionRank(a)
	rb := typesys.NumericPromotionRank(b)
	if ra < 0 {
		return b
	}
	if rb < 0 {
		return a
	}
	if ra >= rb {
		return a
	}
	return b
}

func classOf(t typesys.Type) typesys.Type {
	if obj, ok := t.(*typesys.Object); ok {
		return obj.Class
	}
	return t
}

// resolveDunderReturn looks up dunder on cls's MRO and reports its
// declared (or inferred) return type, unbinding the descriptor first
// since it is always an instance method.
func (ev *Evaluator) resolveDunderReturn(cls *typesys.Class, dunder string, env *Env) (typesys.Type, bool) {
	sym, owner, ok := typeutils.LookUpClassMember(cls, dunder, typeutils.LookupFlags{})
	if !ok {
		return nil, false
	}
	member := ev.boundMemberType(owner, sym, env)
	fn, ok := member.(*typesys.Function)
	if !ok {
		return typesys.TheUnknown, true
	}
	return fn.ReturnType(), true
}
