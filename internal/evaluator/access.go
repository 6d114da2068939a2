package evaluator

import (
	"strings"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// isPrivateName reports whether name follows the single- or double-
// leading-underscore private convention reportPrivateUsage enforces,
// exempting dunder names (`__init__`) which are never private.
func isPrivateName(name string) bool {
	if !strings.HasPrefix(name, "_") {
		return false
	}
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return false
	}
	return true
}

func (ev *Evaluator) evalMember(n *ast.MemberExpr, env *Env, usage Usage) typesys.Type {
	base := ev.GetType(n.Base, env, UsageGet)
	if containsNone(base) {
		ev.report(errors.New(errors.ReportOptionalMemberAccess, n.Span(),
			"\""+n.Attr+"\" is not a known member of \"None\""))
		base = typeutils.RemoveNoneFromUnion(base)
	}
	var result typesys.Type = typesys.TheNever
	found := false
	typeutils.DoForSubtypes(base, func(t typesys.Type) typesys.Type {
		member, ok := ev.memberOf(t, n.Attr, env, n.Span())
		if ok {
			found = true
			result = typeutils.CombineTypes([]typesys.Type{result, member})
		}
		return t
	})
	if !found {
		ev.report(errors.New(errors.ReportGeneralTypeIssues, n.Span(),
			"\""+n.Attr+"\" is not a known member of type \""+base.String()+"\""))
		return typesys.TheUnknown
	}
	if result == typesys.TheNever {
		return typesys.TheUnknown
	}
	return result
}

func (ev *Evaluator) memberOf(base typesys.Type, attr string, env *Env, span ast.Span) (typesys.Type, bool) {
	switch b := base.(type) {
	case *typesys.Module:
		sym, ok := b.Table.Get(attr)
		if !ok {
			return nil, false
		}
		return ev.symbolType(sym, env), true
	case *typesys.Class:
		sym, owner, ok := typeutils.LookUpClassMember(b, attr, typeutils.LookupFlags{SkipInstanceVariables: true})
		if !ok {
			return nil, false
		}
		ev.checkPrivateUsage(sym, owner, env, span)
		return ev.boundMemberType(owner, sym, env), true
	case *typesys.Object:
		sym, owner, ok := typeutils.LookUpClassMember(b.Class, attr, typeutils.LookupFlags{})
		if !ok {
			return nil, false
		}
		ev.checkPrivateUsage(sym, owner, env, span)
		return ev.boundMemberType(owner, sym, env), true
	default:
		return nil, false
	}
}

func (ev *Evaluator) checkPrivateUsage(sym *symbols.Symbol, owner *typesys.Class, env *Env, span ast.Span) {
	if sym.Name == "_" {
		return
	}
	if !sym.IsPrivateMember() && !isPrivateName(sym.Name) {
		return
	}
	if env.Class != nil && env.Class.Details == owner.Details {
		return
	}
	if ev.Info != nil && ev.Info.IsStubFile {
		return
	}
	ev.report(errors.New(errors.ReportPrivateUsage, span,
		"\""+sym.Name+"\" is declared as private and accessed outside its declaring class"))
}

func containsNone(t typesys.Type) bool {
	found := false
	typeutils.DoForSubtypes(t, func(m typesys.Type) typesys.Type {
		if _, ok := m.(*typesys.NoneType); ok {
			found = true
		}
		return m
	})
	return found
}

func (ev *Evaluator) evalIndex(n *ast.IndexExpr, env *Env, usage Usage) typesys.Type {
	if name, ok := n.Base.(*ast.NameExpr); ok && specialBuiltinName(name.Name) {
		shadowed := false
		if env.Scope != nil {
			if result, found := env.Scope.LookupRecursive(name.Name); found {
				shadowed = result.Symbol.LastTypedDeclaration() != nil
			}
		}
		if !shadowed {
			return ev.evalSpecialIndex(name.Name, n.Args, env)
		}
	}

	base := ev.GetType(n.Base, env, UsageGet)
	if containsNone(base) {
		ev.report(errors.New(errors.ReportOptionalSubscript, n.Span(), "object of type \"None\" is not subscriptable"))
		base = typeutils.RemoveNoneFromUnion(base)
	}

	hasSlice := false
	for _, a := range n.Args {
		if _, ok := a.(*ast.SliceExpr); ok {
			hasSlice = true
		} else {
			ev.GetType(a, env, UsageGet)
		}
	}
	if hasSlice {
		return base
	}

	var result typesys.Type = typesys.TheNever
	found := false
	typeutils.DoForSubtypes(base, func(t typesys.Type) typesys.Type {
		if elem, ok := ev.indexOf(t, n, env, usage); ok {
			found = true
			result = typeutils.CombineTypes([]typesys.Type{result, elem})
		}
		return t
	})
	if !found {
		return typesys.TheUnknown
	}
	return result
}

func (ev *Evaluator) indexOf(base typesys.Type, n *ast.IndexExpr, env *Env, usage Usage) (typesys.Type, bool) {
	obj, ok := base.(*typesys.Object)
	if !ok {
		return nil, false
	}
	if sameGenericName(obj.Class, "Tuple") && len(n.Args) == 1 {
		if lit, ok := n.Args[0].(*ast.Literal); ok && lit.Kind == ast.IntLit {
			if v, ok := lit.Value.(int64); ok {
				return obj.Class.TypeArgAt(int(v)), true
			}
		}
		return typeutils.CombineTypes(obj.Class.TypeArgs), true
	}

	dunder := "__getitem__"
	switch usage {
	case UsageSet:
		dunder = "__setitem__"
	case UsageDel:
		dunder = "__delitem__"
	}
	sym, owner, ok := typeutils.LookUpClassMember(obj.Class, dunder, typeutils.LookupFlags{SkipObjectBase: true})
	if !ok {
		return nil, false
	}
	fn, ok := ev.boundMemberType(owner, sym, env).(*typesys.Function)
	if !ok {
		return typesys.TheUnknown, true
	}
	return fn.ReturnType(), true
}

func sameGenericName(c *typesys.Class, name string) bool {
	return c.Details.Name == name
}

func (ev *Evaluator) evalCall(n *ast.CallExpr, env *Env) typesys.Type {
	calleeType := ev.GetTypeFlags(n.Callee, env, UsageGet, Flags{DoNotSpecialize: true})
	if containsNone(calleeType) {
		ev.report(errors.New(errors.ReportOptionalCall, n.Span(), "object of type \"None\" is not callable"))
		calleeType = typeutils.RemoveNoneFromUnion(calleeType)
	}

	args := ev.evalCallArgs(n, env)

	var result typesys.Type = typesys.TheNever
	found := false
	typeutils.DoForSubtypes(calleeType, func(t typesys.Type) typesys.Type {
		r, ok := ev.callOne(t, args, n, env)
		if ok {
			found = true
			result = typeutils.CombineTypes([]typesys.Type{result, r})
		}
		return t
	})
	if !found {
		return typesys.TheUnknown
	}
	return result
}

// callArg is one call-site argument already evaluated to a type.
type callArg struct {
	typ      typesys.Type
	keyword  string
	category ast.ArgCategory
}

func (ev *Evaluator) evalCallArgs(n *ast.CallExpr, env *Env) []callArg {
	out := make([]callArg, len(n.Args))
	for i, a := range n.Args {
		out[i] = callArg{
			typ:      ev.GetType(a.Value, env, UsageGet),
			keyword:  a.Keyword,
			category: a.Category,
		}
	}
	return out
}

func (ev *Evaluator) callOne(callee typesys.Type, args []callArg, n *ast.CallExpr, env *Env) (typesys.Type, bool) {
	switch c := callee.(type) {
	case *typesys.Class:
		return ev.matchConstructor(c, args, n, env), true
	case *typesys.Function:
		return ev.matchArguments(c, args, n.Span()), true
	case *typesys.OverloadedFunction:
		return ev.matchOverload(c, args, n), true
	case *typesys.Object:
		sym, owner, ok := typeutils.LookUpClassMember(c.Class, "__call__", typeutils.LookupFlags{SkipObjectBase: true})
		if !ok {
			return typesys.TheUnknown, true
		}
		fn, ok := ev.boundMemberType(owner, sym, env).(*typesys.Function)
		if !ok {
			return typesys.TheUnknown, true
		}
		return ev.matchArguments(fn, args, n.Span()), true
	default:
		return typesys.TheUnknown, true
	}
}

// matchOverload tries each variant in order, silencing diagnostics
// while probing; the first clean match wins, and if none match
// cleanly the last variant is re-run against the real sink so the
// user sees one concrete failure rather than a vague "no overload
// matched" (spec §4.D "Overload resolution").
func (ev *Evaluator) matchOverload(o *typesys.OverloadedFunction, args []callArg, n *ast.CallExpr) typesys.Type {
	for _, variant := range o.Variants {
		var ret typesys.Type
		reports := ev.probeReports(func() {
			ret = ev.matchArguments(variant, args, n.Span())
		})
		if len(reports) == 0 {
			return ret
		}
	}
	if len(o.Variants) == 0 {
		return typesys.TheUnknown
	}
	return ev.matchArguments(o.Variants[len(o.Variants)-1], args, n.Span())
}

// probeReports runs fn with diagnostics redirected to a private
// CollectingSink, returning what it collected without it ever
// reaching ev's real sink (spec §4.D/§9 "silenced speculative
// probing").
func (ev *Evaluator) probeReports(fn func()) []*errors.Report {
	saved := ev.Sink
	collecting := &errors.CollectingSink{}
	ev.Sink = collecting
	defer func() { ev.Sink = saved }()
	fn()
	return collecting.Reports
}
