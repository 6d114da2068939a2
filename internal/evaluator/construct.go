package evaluator

import (
	"strconv"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// matchArguments is the argument-matching algorithm (spec §4.D "Call"):
// partition the callee's declared parameters into positional, var-
// positional and var-keyword groups, consume the call-site arguments
// against them left to right, check each consumed pair's
// assignability (binding any free TypeVars it mentions), then
// specialise the declared return type with whatever bindings were
// collected.
func (ev *Evaluator) matchArguments(fn *typesys.Function, args []callArg, span ast.Span) typesys.Type {
	params := fn.Details.Params
	bindings := typeutils.TypeVarMap{}
	consumed := make([]bool, len(params))

	var varPosIdx, varKwIdx = -1, -1
	for i, p := range params {
		if p.Kind == typesys.ParamVarPositional {
			varPosIdx = i
		}
		if p.Kind == typesys.ParamVarKeyword {
			varKwIdx = i
		}
	}

	nextSimple := 0
	advance := func() int {
		for nextSimple < len(params) && (params[nextSimple].Kind != typesys.ParamSimple || consumed[nextSimple]) {
			nextSimple++
		}
		if nextSimple >= len(params) {
			return -1
		}
		return nextSimple
	}

	for _, a := range args {
		switch a.category {
		case ast.ArgVarPositional:
			for {
				i := advance()
				if i < 0 {
					break
				}
				consumed[i] = true
			}
			if varPosIdx >= 0 {
				consumed[varPosIdx] = true
			}
			continue
		case ast.ArgVarKeyword:
			for i, p := range params {
				if p.Kind == typesys.ParamSimple {
					consumed[i] = true
				}
			}
			if varKwIdx >= 0 {
				consumed[varKwIdx] = true
			}
			continue
		}

		if a.keyword != "" {
			matched := -1
			for i, p := range params {
				if p.Kind == typesys.ParamSimple && p.Name == a.keyword {
					matched = i
					break
				}
			}
			if matched < 0 {
				if varKwIdx >= 0 {
					consumed[varKwIdx] = true
					continue
				}
				ev.report(errors.New(errors.ReportGeneralTypeIssues, span,
					"no parameter named \""+a.keyword+"\""))
				continue
			}
			consumed[matched] = true
			ev.checkArg(params[matched].Type, a.typ, bindings, span, params[matched].Name)
			continue
		}

		i := advance()
		if i < 0 {
			if varPosIdx >= 0 {
				ev.checkArg(params[varPosIdx].Type, a.typ, bindings, span, params[varPosIdx].Name)
				continue
			}
			ev.report(errors.New(errors.ReportGeneralTypeIssues, span, "too many positional arguments"))
			continue
		}
		consumed[i] = true
		ev.checkArg(params[i].Type, a.typ, bindings, span, params[i].Name)
	}

	for i, p := range params {
		if p.Kind != typesys.ParamSimple || consumed[i] || p.HasDefault {
			continue
		}
		ev.report(errors.New(errors.ReportGeneralTypeIssues, span,
			"argument missing for parameter \""+p.Name+"\""))
	}

	if len(bindings) == 0 {
		return fn.ReturnType()
	}
	return typeutils.SpecializeType(fn.ReturnType(), bindings)
}

func (ev *Evaluator) checkArg(paramType, argType typesys.Type, bindings typeutils.TypeVarMap, span ast.Span, name string) {
	if paramType == nil {
		return
	}
	diag := &typeutils.Diagnostic{}
	if !typeutils.MatchArgToParam(paramType, argType, bindings, diag) {
		ev.report(errors.New(errors.ReportGeneralTypeIssues, span,
			"argument of type \""+argType.String()+"\" is not assignable to parameter \""+name+"\" of type \""+paramType.String()+"\""))
	}
}

// matchConstructor is the constructor-matching algorithm (spec §4.D
// "Construct call"): an abstract class can never be instantiated;
// otherwise `__new__`, if user-defined, is matched first. `__init__` is
// only matched against the same arguments when `__new__` matched
// cleanly or was absent (spec.md:157) — a class whose `__new__` and
// `__init__` signatures disagree should report the mismatch once, not
// twice, for a single bad call.
func (ev *Evaluator) matchConstructor(cls *typesys.Class, args []callArg, n *ast.CallExpr, env *Env) typesys.Type {
	if cls.IsAbstract() {
		ev.report(errors.New(errors.ReportGeneralTypeIssues, n.Span(), abstractInstantiationMessage(cls)))
	}

	instance := typesys.Instance(cls)

	newClean := true
	hasNew := false
	if sym, owner, ok := typeutils.LookUpClassMember(cls, "__new__", typeutils.LookupFlags{SkipObjectBase: true}); ok {
		hasNew = true
		if fn, ok := ev.symbolType(sym, env.withClass(owner)).(*typesys.Function); ok {
			reports := ev.probeReports(func() {
				// __new__'s leading `cls` parameter is supplied
				// implicitly by the constructor call, the same way
				// `self` is for an instance method.
				ev.matchArguments(fn.Unbind(), args, n.Span())
			})
			newClean = len(reports) == 0
			for _, r := range reports {
				ev.report(r)
			}
		}
	}

	if sym, owner, ok := typeutils.LookUpClassMember(cls, "__init__", typeutils.LookupFlags{SkipObjectBase: true}); ok {
		if fn, ok := ev.boundMemberType(owner, sym, env).(*typesys.Function); ok {
			// __new__ already reported a mismatch for this call: skip
			// __init__ matching so one bad call doesn't produce two
			// diagnostics, but __init__'s mere presence still excuses
			// this class from the "expected no arguments" fallback.
			if newClean {
				ev.matchArguments(fn, args, n.Span())
			}
			return instance
		}
	}

	if len(args) > 0 && !hasNew {
		ev.report(errors.New(errors.ReportGeneralTypeIssues, n.Span(),
			"\""+cls.Details.Name+"\" expected no arguments"))
	}
	return instance
}

// abstractInstantiationMessage reports the offending class name plus,
// per spec.md:158, up to two of its unoverridden abstract method names
// with a count for the remainder.
func abstractInstantiationMessage(cls *typesys.Class) string {
	msg := "cannot instantiate abstract class \"" + cls.Details.Name + "\""
	names := cls.Details.AbstractMethods
	if len(names) == 0 {
		return msg
	}
	shown := names
	rest := 0
	if len(shown) > 2 {
		shown = names[:2]
		rest = len(names) - 2
	}
	msg += " with abstract method"
	if len(names) > 1 {
		msg += "s"
	}
	for i, name := range shown {
		if i > 0 {
			msg += ", "
		}
		msg += "\"" + name + "\""
	}
	if rest > 0 {
		msg += " (+" + strconv.Itoa(rest) + " more)"
	}
	return msg
}
