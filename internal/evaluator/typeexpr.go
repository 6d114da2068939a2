package evaluator

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// EvalTypeExpr evaluates an expression used in annotation position:
// the *type object* the expression denotes, not the runtime type of
// evaluating it as a value (spec §4.D "Type annotation"). A bare class
// name denotes an instance of that class; special built-ins (List,
// Optional, Callable, ...) dispatch to their dedicated constructors.
func (ev *Evaluator) EvalTypeExpr(node ast.Expr, env *Env) typesys.Type {
	switch n := node.(type) {
	case *ast.NameExpr:
		if t, ok := wellKnownTypeName(n.Name); ok {
			return t
		}
		if env == nil || env.Scope == nil {
			return typesys.TheUnknown
		}
		result, ok := env.Scope.LookupRecursive(n.Name)
		if !ok {
			ev.report(errors.New(errors.ReportUndefinedVariable, n.Span(), "name '"+n.Name+"' is not defined"))
			return typesys.TheUnknown
		}
		t := ev.symbolType(result.Symbol, env)
		if cls, ok := t.(*typesys.Class); ok {
			return typesys.Instance(cls)
		}
		return t
	case *ast.IndexExpr:
		return ev.evalTypeIndex(n, env)
	case *ast.BinaryExpr:
		if n.Op == "|" {
			return typesys.UnionOf(ev.EvalTypeExpr(n.Left, env), ev.EvalTypeExpr(n.Right, env))
		}
		return typesys.TheUnknown
	case *ast.Literal:
		if n.Kind == ast.NoneLit {
			return typesys.TheNone
		}
		if n.Kind == ast.EllipsisLit {
			return typesys.TheEllipsisAny
		}
		return typesys.TheUnknown
	case *ast.TupleExpr:
		// bare tuple in annotation position (e.g. isinstance's second
		// argument, or a Callable parameter list spelled without
		// brackets) denotes each element as its own type.
		members := make([]typesys.Type, len(n.Elts))
		for i, e := range n.Elts {
			members[i] = ev.EvalTypeExpr(e, env)
		}
		return typesys.UnionOf(members...)
	case *ast.TypeAnnotationExpr:
		return ev.EvalTypeExpr(n.Expr, env)
	default:
		return typesys.TheUnknown
	}
}

func wellKnownTypeName(name string) (typesys.Type, bool) {
	switch name {
	case "int":
		return typesys.Instance(typesys.IntClass), true
	case "float":
		return typesys.Instance(typesys.FloatClass), true
	case "complex":
		return typesys.Instance(typesys.ComplexClass), true
	case "str":
		return typesys.Instance(typesys.StrClass), true
	case "bytes":
		return typesys.Instance(typesys.BytesClass), true
	case "bool":
		return typesys.Instance(typesys.BoolClass), true
	case "object":
		return typesys.Instance(typesys.ObjectClass), true
	case "None":
		return typesys.TheNone, true
	case "Any":
		return typesys.TheAny, true
	case "NoReturn", "Never":
		return typesys.TheNever, true
	}
	return nil, false
}

// specialBuiltinName reports whether name is one of the special
// built-ins spec §4.D.Special dispatches on, identified purely by
// surface name (no stub-backed typing module symbols exist to
// dereference against).
func specialBuiltinName(name string) bool {
	switch name {
	case "List", "Dict", "Tuple", "Set", "FrozenSet", "Deque", "DefaultDict", "ChainMap",
		"Optional", "Union", "Callable", "Type", "ClassVar", "Literal", "Generic", "Protocol":
		return true
	}
	return false
}

// evalTypeIndex dispatches `Base[Args...]` in annotation position.
func (ev *Evaluator) evalTypeIndex(n *ast.IndexExpr, env *Env) typesys.Type {
	name, ok := n.Base.(*ast.NameExpr)
	if ok && specialBuiltinName(name.Name) {
		return ev.evalSpecialIndex(name.Name, n.Args, env)
	}
	base := ev.EvalTypeExpr(n.Base, env)
	cls, ok := asClass(base)
	if !ok {
		return typesys.TheUnknown
	}
	args := make([]typesys.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.EvalTypeExpr(a, env)
	}
	return ev.specializeWithDiagnostics(cls, args, n.Span())
}

// specializeWithDiagnostics checks arity and per-position bound/
// constraint compatibility before specialising (spec §4.D
// "Specialisation of generic classes").
func (ev *Evaluator) specializeWithDiagnostics(cls *typesys.Class, args []typesys.Type, span ast.Span) typesys.Type {
	params := cls.Details.TypeParams
	if len(params) > 0 && len(args) != len(params) {
		ev.report(errors.New(errors.ReportGeneralTypeIssues, span,
			"expected "+itoa(len(params))+" type arguments, got "+itoa(len(args))))
	}
	for i, p := range params {
		if i >= len(args) {
			break
		}
		if p.Bound != nil && !typeutils.CanAssignType(p.Bound, args[i], nil) {
			ev.report(errors.New(errors.ReportGeneralTypeIssues, span,
				"type argument "+itoa(i)+" is not assignable to the bound of "+p.Name))
		}
	}
	return typesys.Instance(cls.Specialize(args))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// evalSpecialIndex builds the Type a special built-in's subscript
// denotes (spec §4.D.Special). Used both from annotation position and
// from ordinary value-position Index evaluation, since `List[int]`
// denotes the same type object either way.
func (ev *Evaluator) evalSpecialIndex(name string, args []ast.Expr, env *Env) typesys.Type {
	switch name {
	case "Optional":
		if len(args) != 1 {
			return typesys.TheUnknown
		}
		return typesys.UnionOf(ev.EvalTypeExpr(args[0], env), typesys.TheNone)
	case "Union":
		members := make([]typesys.Type, len(args))
		for i, a := range args {
			members[i] = ev.EvalTypeExpr(a, env)
		}
		return typesys.UnionOf(members...)
	case "Type":
		if len(args) != 1 {
			return typesys.Instance(typesys.TypeAliasClass)
		}
		return typesys.Instance(typesys.TypeAliasClass.Specialize([]typesys.Type{ev.EvalTypeExpr(args[0], env)}))
	case "ClassVar":
		if len(args) != 1 {
			return typesys.TheUnknown
		}
		t := ev.EvalTypeExpr(args[0], env)
		if typesys.RequiresSpecialization(t) {
			return typesys.TheUnknown
		}
		return t
	case "Literal":
		members := make([]typesys.Type, 0, len(args))
		for _, a := range args {
			members = append(members, ev.evalLiteralArg(a))
		}
		return typesys.UnionOf(members...)
	case "Callable":
		return ev.evalCallableIndex(args, env)
	case "Generic", "Protocol":
		return typesys.Instance(typesys.ObjectClass)
	case "List":
		return typesys.Instance(typesys.ListClass.Specialize(ev.evalArgList(args, env)))
	case "Set":
		return typesys.Instance(typesys.SetClass.Specialize(ev.evalArgList(args, env)))
	case "FrozenSet":
		return typesys.Instance(typesys.FrozenSetClass.Specialize(ev.evalArgList(args, env)))
	case "Deque":
		return typesys.Instance(typesys.DequeClass.Specialize(ev.evalArgList(args, env)))
	case "Dict":
		return typesys.Instance(typesys.DictClass.Specialize(ev.evalArgList(args, env)))
	case "DefaultDict":
		return typesys.Instance(typesys.DefaultDictClass.Specialize(ev.evalArgList(args, env)))
	case "ChainMap":
		return typesys.Instance(typesys.ChainMapClass.Specialize(ev.evalArgList(args, env)))
	case "Tuple":
		return typesys.Instance(typesys.TupleClass.Specialize(ev.evalArgList(args, env)))
	default:
		return typesys.TheUnknown
	}
}

func (ev *Evaluator) evalArgList(args []ast.Expr, env *Env) []typesys.Type {
	out := make([]typesys.Type, len(args))
	for i, a := range args {
		out[i] = ev.EvalTypeExpr(a, env)
	}
	return out
}

func (ev *Evaluator) evalLiteralArg(a ast.Expr) typesys.Type {
	lit, ok := a.(*ast.Literal)
	if !ok {
		return typesys.TheUnknown
	}
	switch lit.Kind {
	case ast.IntLit:
		v, _ := lit.Value.(int64)
		return typesys.IntLiteral(v)
	case ast.BoolLit:
		v, _ := lit.Value.(bool)
		return typesys.BoolLiteral(v)
	case ast.StringLit:
		v, _ := lit.Value.(string)
		return typesys.StrLiteral(v)
	case ast.BytesLit:
		v, _ := lit.Value.(string)
		return typesys.BytesLiteral(v)
	default:
		return typesys.TheUnknown
	}
}

// evalCallableIndex handles `Callable[[P1, P2], R]` and
// `Callable[..., R]`.
func (ev *Evaluator) evalCallableIndex(args []ast.Expr, env *Env) typesys.Type {
	if len(args) != 2 {
		return typesys.TheUnknown
	}
	ret := ev.EvalTypeExpr(args[1], env)
	details := &typesys.FuncDetails{Name: "<callable>", Declared: ret}
	if lit, ok := args[0].(*ast.Literal); ok && lit.Kind == ast.EllipsisLit {
		return &typesys.Function{Details: details}
	}
	paramList, ok := args[0].(*ast.ListExpr)
	if !ok {
		return &typesys.Function{Details: details}
	}
	params := make([]typesys.FuncParam, len(paramList.Elts))
	for i, p := range paramList.Elts {
		params[i] = typesys.FuncParam{Name: "p" + itoa(i), Kind: typesys.ParamSimple, Type: ev.EvalTypeExpr(p, env)}
	}
	details.Params = params
	return &typesys.Function{Details: details}
}
