package evaluator

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// evalHomogeneousElements evaluates every element of a fixed-length
// display (a tuple literal) and returns the per-position types spec
// §4.D wants Tuple[T0, T1, ...] built from.
func (ev *Evaluator) evalHomogeneousElements(elts []ast.Expr, env *Env) []typesys.Type {
	out := make([]typesys.Type, 0, len(elts))
	for _, e := range elts {
		if star, ok := e.(*ast.StarExpr); ok {
			inner := ev.GetType(star.Value, env, UsageGet)
			if elem, ok := typeutils.GetTypeFromIterable(inner, false, true, ev.memberResolver(env)); ok {
				out = append(out, elem)
				continue
			}
			out = append(out, typesys.TheUnknown)
			continue
		}
		out = append(out, ev.GetType(e, env, UsageGet))
	}
	return out
}

// evalContainerLiteral evaluates a List/Set display: every element's
// type combined into the single type argument of cls (spec §4.D).
func (ev *Evaluator) evalContainerLiteral(cls *typesys.Class, elts []ast.Expr, env *Env) typesys.Type {
	elemTypes := ev.evalHomogeneousElements(elts, env)
	combined := typeutils.CombineTypes(elemTypes)
	if combined == typesys.TheNever {
		combined = typesys.TheUnknown
	}
	return typesys.Instance(cls.Specialize([]typesys.Type{combined}))
}

func (ev *Evaluator) evalDict(n *ast.DictExpr, env *Env) typesys.Type {
	keyTypes := make([]typesys.Type, 0, len(n.Values))
	valTypes := make([]typesys.Type, 0, len(n.Values))
	for i, v := range n.Values {
		if n.Keys[i] == nil {
			// `**other` merge entry: fold in other's own key/value types.
			other := ev.GetType(v, env, UsageGet)
			if obj, ok := other.(*typesys.Object); ok {
				keyTypes = append(keyTypes, obj.Class.TypeArgAt(0))
				valTypes = append(valTypes, obj.Class.TypeArgAt(1))
			}
			continue
		}
		keyTypes = append(keyTypes, ev.GetType(n.Keys[i], env, UsageGet))
		valTypes = append(valTypes, v2Type(ev, v, env))
	}
	key := typeutils.CombineTypes(keyTypes)
	val := typeutils.CombineTypes(valTypes)
	if key == typesys.TheNever {
		key = typesys.TheUnknown
	}
	if val == typesys.TheNever {
		val = typesys.TheUnknown
	}
	return typesys.Instance(typesys.DictClass.Specialize([]typesys.Type{key, val}))
}

func v2Type(ev *Evaluator, v ast.Expr, env *Env) typesys.Type {
	return ev.GetType(v, env, UsageGet)
}

func (ev *Evaluator) evalTernary(n *ast.TernaryExpr, env *Env) typesys.Type {
	constraints := ev.buildConstraints(n.Test, env)
	thenEnv := env.applyConstraints(constraints.IfTrue)
	elseEnv := env.applyConstraints(constraints.IfFalse)
	ev.GetType(n.Test, env, UsageGet)
	thenType := ev.GetType(n.Then, thenEnv, UsageGet)
	elseType := ev.GetType(n.Else, elseEnv, UsageGet)
	return typeutils.CombineTypes([]typesys.Type{thenType, elseType})
}

func (ev *Evaluator) evalComprehension(n *ast.ComprehensionExpr, env *Env) typesys.Type {
	loopEnv := env
	for _, clause := range n.Clauses {
		iterType := ev.GetType(clause.Iter, loopEnv, UsageGet)
		elem, ok := typeutils.GetTypeFromIterable(iterType, clause.IsAsync, false, ev.memberResolver(loopEnv))
		if !ok {
			elem = typesys.TheUnknown
		}
		loopEnv = ev.bindComprehensionTarget(clause.Target, elem, loopEnv)
		for _, ifExpr := range clause.Ifs {
			c := ev.buildConstraints(ifExpr, loopEnv)
			loopEnv = loopEnv.applyConstraints(c.IfTrue)
		}
	}
	switch n.Kind {
	case ast.ComprehensionDict:
		key := ev.GetType(n.KeyElement, loopEnv, UsageGet)
		val := ev.GetType(n.Element, loopEnv, UsageGet)
		return typesys.Instance(typesys.DictClass.Specialize([]typesys.Type{key, val}))
	case ast.ComprehensionSet:
		elem := ev.GetType(n.Element, loopEnv, UsageGet)
		return typesys.Instance(typesys.SetClass.Specialize([]typesys.Type{elem}))
	case ast.ComprehensionGenerator:
		ev.GetType(n.Element, loopEnv, UsageGet)
		return typesys.TheUnknown
	default: // ComprehensionList
		elem := ev.GetType(n.Element, loopEnv, UsageGet)
		return typesys.Instance(typesys.ListClass.Specialize([]typesys.Type{elem}))
	}
}

// bindComprehensionTarget narrows a comprehension's loop variable(s)
// within a fresh child Env, without touching any enclosing scope's
// narrowing (a comprehension has its own scope per spec §4.B
// ScopeListComprehension).
func (ev *Evaluator) bindComprehensionTarget(target ast.Expr, t typesys.Type, env *Env) *Env {
	name, ok := target.(*ast.NameExpr)
	if !ok || env.Scope == nil {
		return env
	}
	result, ok := env.Scope.LookupRecursive(name.Name)
	if !ok {
		return env
	}
	return env.narrowed(result.Symbol, t)
}

func (ev *Evaluator) evalLambda(n *ast.LambdaExpr, env *Env) typesys.Type {
	params := make([]typesys.FuncParam, len(n.Params))
	for i, p := range n.Params {
		params[i] = ev.buildParam(p, i, env, false, bindNone)
	}
	bodyEnv := env
	for _, p := range n.Params {
		if bodyEnv.Scope == nil {
			break
		}
		if result, ok := bodyEnv.Scope.LookupRecursive(p.Name); ok {
			bodyEnv = bodyEnv.narrowed(result.Symbol, paramTypeOf(p, ev, env))
		}
	}
	ret := ev.GetType(n.Body, bodyEnv, UsageGet)
	details := &typesys.FuncDetails{Name: "<lambda>", Params: params, InferredReturn: ret}
	return &typesys.Function{Details: details}
}

func paramTypeOf(p *ast.Param, ev *Evaluator, env *Env) typesys.Type {
	if p.Annotation != nil {
		return ev.EvalTypeExpr(p.Annotation, env)
	}
	return typesys.TheUnknown
}

func (ev *Evaluator) evalAwait(n *ast.AwaitExpr, env *Env) typesys.Type {
	inner := ev.GetType(n.Value, env, UsageGet)
	cls, ok := asClass(classOf(inner))
	if !ok {
		return typesys.TheUnknown
	}
	if sym, owner, found := typeutils.LookUpClassMember(cls, "__await__", typeutils.LookupFlags{SkipObjectBase: true}); found {
		if fn, ok := ev.boundMemberType(owner, sym, env).(*typesys.Function); ok {
			if elem, ok := typeutils.GetTypeFromIterable(fn.ReturnType(), false, false, ev.memberResolver(env)); ok {
				return elem
			}
		}
	}
	return typesys.TheUnknown
}

func (ev *Evaluator) evalYield(n *ast.YieldExpr, env *Env) typesys.Type {
	var t typesys.Type = typesys.TheNone
	if n.Value != nil {
		t = ev.GetType(n.Value, env, UsageGet)
	}
	if env.Func != nil {
		env.Func.InferredYield = typeutils.CombineTypes([]typesys.Type{env.Func.InferredYield, t})
	}
	return typesys.TheUnknown
}

func (ev *Evaluator) evalYieldFrom(n *ast.YieldFromExpr, env *Env) typesys.Type {
	inner := ev.GetType(n.Value, env, UsageGet)
	elem, ok := typeutils.GetTypeFromIterable(inner, false, false, ev.memberResolver(env))
	if !ok {
		elem = typesys.TheUnknown
	}
	if env.Func != nil {
		env.Func.InferredYield = typeutils.CombineTypes([]typesys.Type{env.Func.InferredYield, elem})
	}
	return typesys.TheUnknown
}

// EvaluateTypesForStatement evaluates the expressions a single
// statement directly carries and performs its local invariant checks
// (assignment compatibility, return-type accumulation, iterable
// resolution). It does not recurse into nested blocks — the Checker
// Walker owns traversal and calls this once per visited statement
// (spec §4.E). It returns the Env the statement's own bindings (an
// assignment target, a walrus test, a `with ... as` name) take effect
// in; Env is copy-on-write, so a caller sequencing several statements
// under one block must thread this return value to the next one
// rather than assume its own Env was updated in place.
func (ev *Evaluator) EvaluateTypesForStatement(stmt ast.Stmt, env *Env) *Env {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, env = ev.evalTopLevelExpr(s.Value, env)
		return env
	case *ast.AssignStmt:
		return ev.evalAssignStmt(s, env)
	case *ast.AugAssignStmt:
		return ev.evalAugAssignStmt(s, env)
	case *ast.ReturnStmt:
		return ev.evalReturnStmt(s, env)
	case *ast.RaiseStmt:
		return ev.evalRaiseStmt(s, env)
	case *ast.AssertStmt:
		_, env = ev.evalTopLevelExpr(s.Test, env)
		if s.Msg != nil {
			ev.GetType(s.Msg, env, UsageGet)
		}
		return env
	case *ast.ForStmt:
		return ev.evalForStmt(s, env)
	case *ast.WhileStmt:
		_, env = ev.evalTopLevelExpr(s.Test, env)
		return env
	case *ast.IfStmt:
		_, env = ev.evalTopLevelExpr(s.Test, env)
		return env
	case *ast.WithStmt:
		return ev.evalWithStmt(s, env)
	case *ast.DeleteStmt:
		for _, t := range s.Targets {
			ev.GetType(t, env, UsageDel)
		}
		return env
	}
	return env
}

func (ev *Evaluator) evalAssignStmt(s *ast.AssignStmt, env *Env) *Env {
	var valueType typesys.Type
	if s.Annotation != nil {
		declared := ev.EvalTypeExpr(s.Annotation, env)
		valueType = declared
		if s.Value != nil {
			actual := ev.GetType(s.Value, env, UsageGet)
			diag := &typeutils.Diagnostic{}
			if !typeutils.CanAssignType(declared, actual, diag) {
				ev.report(errors.New(errors.ReportGeneralTypeIssues, s.Span(),
					"expression of type \""+actual.String()+"\" is not assignable to declared type \""+declared.String()+"\""))
			}
		}
	} else {
		valueType = ev.GetType(s.Value, env, UsageGet)
	}
	for _, target := range s.Targets {
		env = ev.bindAssignTarget(target, valueType, env)
	}
	return env
}

// bindAssignTarget records a value's type into the relevant narrowing
// slot for one assignment target, returning the Env that binding takes
// effect in rather than mutating env in place (see bindTarget).
func (ev *Evaluator) bindAssignTarget(target ast.Expr, t typesys.Type, env *Env) *Env {
	switch tg := target.(type) {
	case *ast.NameExpr:
		if env.Scope == nil {
			return env
		}
		if result, ok := env.Scope.LookupRecursive(tg.Name); ok {
			return env.narrowed(result.Symbol, t)
		}
		return env
	case *ast.TupleExpr:
		return ev.bindUnpackTargets(tg.Elts, t, env)
	case *ast.ListExpr:
		return ev.bindUnpackTargets(tg.Elts, t, env)
	case *ast.MemberExpr, *ast.IndexExpr:
		ev.GetType(target, env, UsageSet)
		return env
	}
	return env
}

func (ev *Evaluator) bindUnpackTargets(targets []ast.Expr, t typesys.Type, env *Env) *Env {
	elem, ok := typeutils.GetTypeFromIterable(t, false, true, ev.memberResolver(env))
	if !ok {
		elem = typesys.TheUnknown
	}
	for _, target := range targets {
		if star, ok := target.(*ast.StarExpr); ok {
			env = ev.bindAssignTarget(star.Value, typesys.Instance(typesys.ListClass.Specialize([]typesys.Type{elem})), env)
			continue
		}
		env = ev.bindAssignTarget(target, elem, env)
	}
	return env
}

func (ev *Evaluator) evalAugAssignStmt(s *ast.AugAssignStmt, env *Env) *Env {
	synthetic := ast.NewBinaryExpr(s.Op, s.Target, s.Value, s.Span())
	result := ev.evalBinary(synthetic, env)
	return ev.bindAssignTarget(s.Target, result, env)
}

func (ev *Evaluator) evalReturnStmt(s *ast.ReturnStmt, env *Env) *Env {
	var t typesys.Type = typesys.TheNone
	if s.Value != nil {
		t = ev.GetType(s.Value, env, UsageGet)
	}
	if env.Func == nil {
		return env
	}
	env.Func.InferredReturn = typeutils.CombineTypes([]typesys.Type{env.Func.InferredReturn, t})
	if env.Func.Declared != nil {
		diag := &typeutils.Diagnostic{}
		if !typeutils.CanAssignType(env.Func.Declared, t, diag) {
			ev.report(errors.New(errors.ReportGeneralTypeIssues, s.Span(),
				"returned type \""+t.String()+"\" is not assignable to declared return type \""+env.Func.Declared.String()+"\""))
		}
	}
	return env
}

func (ev *Evaluator) evalRaiseStmt(s *ast.RaiseStmt, env *Env) *Env {
	if s.Exc == nil {
		return env
	}
	excType := ev.GetType(s.Exc, env, UsageGet)
	cls, ok := asClass(classOf(excType))
	if !ok {
		return env
	}
	if !typeutils.IsDerivedFrom(cls, typesys.BaseExceptionClass) {
		ev.report(errors.New(errors.ReportGeneralTypeIssues, s.Span(),
			"exception type \""+excType.String()+"\" does not derive from BaseException"))
	}
	if s.Cause != nil {
		ev.GetType(s.Cause, env, UsageGet)
	}
	return env
}

func (ev *Evaluator) evalForStmt(s *ast.ForStmt, env *Env) *Env {
	iterType := ev.GetType(s.Iter, env, UsageGet)
	elem, ok := typeutils.GetTypeFromIterable(iterType, s.IsAsync, false, ev.memberResolver(env))
	if !ok {
		elem = typesys.TheUnknown
	}
	return ev.bindAssignTarget(s.Target, elem, env)
}

func (ev *Evaluator) evalWithStmt(s *ast.WithStmt, env *Env) *Env {
	for _, item := range s.Items {
		ctxType := ev.GetType(item.Context, env, UsageGet)
		if item.Target == nil {
			continue
		}
		enterName := "__enter__"
		if s.IsAsync {
			enterName = "__aenter__"
		}
		var bound typesys.Type = typesys.TheUnknown
		if cls, ok := asClass(classOf(ctxType)); ok {
			if sym, owner, found := typeutils.LookUpClassMember(cls, enterName, typeutils.LookupFlags{SkipObjectBase: true}); found {
				if fn, ok := ev.boundMemberType(owner, sym, env).(*typesys.Function); ok {
					bound = fn.ReturnType()
				}
			}
		}
		env = ev.bindAssignTarget(item.Target, bound, env)
	}
	return env
}
