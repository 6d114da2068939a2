package evaluator

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// Constraints is the pair of per-symbol narrowing overlays a boolean
// test produces: IfTrue applies on the branch where the test held,
// IfFalse on the branch where it didn't (spec §4.D "Narrowing engine").
type Constraints struct {
	IfTrue  map[*symbols.Symbol]typesys.Type
	IfFalse map[*symbols.Symbol]typesys.Type
}

func emptyConstraints() Constraints {
	return Constraints{IfTrue: map[*symbols.Symbol]typesys.Type{}, IfFalse: map[*symbols.Symbol]typesys.Type{}}
}

// buildConstraints recognises the test shapes spec §4.D lists
// (isinstance/issubclass, `is None`/`is not None`, literal equality,
// plain truthiness, and `and`/`or`/`not` composition) and derives the
// per-branch narrowing they license. Unrecognised shapes produce no
// narrowing at all (the zero Constraints), which is always sound.
func (ev *Evaluator) buildConstraints(test ast.Expr, env *Env) Constraints {
	switch n := test.(type) {
	case *ast.CallExpr:
		return ev.constraintsFromCall(n, env)
	case *ast.UnaryExpr:
		if n.Op == "not" {
			inner := ev.buildConstraints(n.Operand, env)
			return Constraints{IfTrue: inner.IfFalse, IfFalse: inner.IfTrue}
		}
	case *ast.BinaryExpr:
		return ev.constraintsFromBinary(n, env)
	case *ast.BoolOpExpr:
		return ev.constraintsFromBoolOp(n, env)
	case *ast.NameExpr:
		return ev.constraintsFromTruthiness(n, env)
	case *ast.AssignExpr:
		ev.GetType(n, env, UsageGet)
		return ev.buildConstraints(n.Target, env)
	}
	return emptyConstraints()
}

func (ev *Evaluator) constraintsFromTruthiness(target ast.Expr, env *Env) Constraints {
	sym, ok := ev.symbolFor(target, env)
	if !ok {
		return emptyConstraints()
	}
	t := ev.GetType(target, env, UsageGet)
	c := emptyConstraints()
	c.IfTrue[sym] = typeutils.RemoveFalsyFromUnion(t)
	c.IfFalse[sym] = typeutils.RemoveTruthyFromUnion(t)
	return c
}

func (ev *Evaluator) symbolFor(target ast.Expr, env *Env) (*symbols.Symbol, bool) {
	name, ok := target.(*ast.NameExpr)
	if !ok || env.Scope == nil {
		return nil, false
	}
	result, ok := env.Scope.LookupRecursive(name.Name)
	if !ok {
		return nil, false
	}
	return result.Symbol, true
}

func (ev *Evaluator) constraintsFromCall(n *ast.CallExpr, env *Env) Constraints {
	callee, ok := n.Callee.(*ast.NameExpr)
	if !ok || len(n.Args) < 2 {
		return emptyConstraints()
	}
	switch callee.Name {
	case "isinstance":
		return ev.constraintsFromIsinstance(n.Args[0].Value, n.Args[1].Value, env)
	}
	return emptyConstraints()
}

func (ev *Evaluator) constraintsFromIsinstance(target, clsExpr ast.Expr, env *Env) Constraints {
	sym, ok := ev.symbolFor(target, env)
	if !ok {
		return emptyConstraints()
	}
	declared := ev.GetType(target, env, UsageGet)
	clsType := ev.EvalTypeExpr(clsExpr, env)
	classes := flattenClasses(clsType)
	if len(classes) == 0 {
		return emptyConstraints()
	}
	narrowed := make([]typesys.Type, 0, len(classes))
	for _, cls := range classes {
		narrowed = append(narrowed, typeutils.NarrowForIsInstance(declared, cls))
	}
	c := emptyConstraints()
	c.IfTrue[sym] = typeutils.CombineTypes(narrowed)
	c.IfFalse[sym] = declared
	return c
}

func flattenClasses(t typesys.Type) []*typesys.Class {
	var out []*typesys.Class
	typeutils.DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if cls, ok := asClass(m); ok {
			out = append(out, cls)
		}
		return m
	})
	return out
}

func (ev *Evaluator) constraintsFromBinary(n *ast.BinaryExpr, env *Env) Constraints {
	switch n.Op {
	case "is", "is not", "==", "!=":
		return ev.constraintsFromComparison(n, env)
	}
	return emptyConstraints()
}

func (ev *Evaluator) constraintsFromComparison(n *ast.BinaryExpr, env *Env) Constraints {
	target, other, reversed := n.Left, n.Right, false
	if _, ok := target.(*ast.NameExpr); !ok {
		target, other, reversed = n.Right, n.Left, true
	}
	_ = reversed
	sym, ok := ev.symbolFor(target, env)
	if !ok {
		return emptyConstraints()
	}
	declared := ev.GetType(target, env, UsageGet)

	if isNoneLiteral(other) {
		c := emptyConstraints()
		eq := n.Op == "is" || n.Op == "=="
		if eq {
			c.IfTrue[sym] = typesys.TheNone
			c.IfFalse[sym] = typeutils.RemoveNoneFromUnion(declared)
		} else {
			c.IfTrue[sym] = typeutils.RemoveNoneFromUnion(declared)
			c.IfFalse[sym] = typesys.TheNone
		}
		return c
	}

	if n.Op != "==" && n.Op != "!=" {
		return emptyConstraints()
	}
	litExpr, ok := other.(*ast.Literal)
	if !ok {
		return emptyConstraints()
	}
	switch litExpr.Kind {
	case ast.IntLit, ast.BoolLit, ast.StringLit:
	default:
		return emptyConstraints()
	}
	litType, ok := ev.evalLiteralArg(litExpr).(*typesys.Object)
	if !ok {
		return emptyConstraints()
	}
	c := emptyConstraints()
	eq := n.Op == "=="
	narrowed := typeutils.NarrowForLiteralEquality(declared, litType)
	widened := typeutils.RemoveLiteralFromUnion(declared, litType)
	if eq {
		c.IfTrue[sym] = narrowed
		c.IfFalse[sym] = widened
	} else {
		c.IfTrue[sym] = widened
		c.IfFalse[sym] = narrowed
	}
	return c
}

func isNoneLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.NoneLit
}

func (ev *Evaluator) constraintsFromBoolOp(n *ast.BoolOpExpr, env *Env) Constraints {
	result := emptyConstraints()
	switch n.Op {
	case "and":
		// Every operand's IfTrue narrowing holds once we reach the
		// next operand; the whole expression's IfFalse is unknown
		// (any operand could have been the one that failed), so only
		// the true branch accumulates narrowing.
		cur := env
		for _, v := range n.Values {
			c := ev.buildConstraints(v, cur)
			for sym, t := range c.IfTrue {
				result.IfTrue[sym] = t
			}
			cur = cur.applyConstraints(c.IfTrue)
		}
	case "or":
		cur := env
		for _, v := range n.Values {
			c := ev.buildConstraints(v, cur)
			for sym, t := range c.IfFalse {
				result.IfFalse[sym] = t
			}
			cur = cur.applyConstraints(c.IfFalse)
		}
	}
	return result
}
