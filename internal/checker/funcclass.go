package checker

import (
	"strings"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/evaluator"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// checkFunctionDef validates fd's signature conventions, builds its
// body scope, walks its body, then runs the checks that need the fully
// walked body: return coverage and yield-type compatibility. env is
// the enclosing lexical scope — for a method this deliberately excludes
// the class body (Python's own closures skip over it), matching
// checkClassDef passing its caller's env rather than the class scope.
func (c *Checker) checkFunctionDef(fd *ast.FunctionDef, env *evaluator.Env, isMethod bool) {
	fn := c.Eval.FunctionType(fd, env, isMethod)
	c.checkMethodSignatureName(fd, env, isMethod)
	c.checkParameterTypes(fd, fn)

	for _, p := range fd.Params {
		if p.Annotation != nil {
			c.walkExpr(p.Annotation, env, false)
		}
		if p.Default != nil {
			c.Eval.GetType(p.Default, env, evaluator.UsageGet)
			c.walkExpr(p.Default, env, true)
		}
	}

	bodyScope := symbols.NewScope(symbols.ScopeFunction, env.Scope)
	for _, p := range fd.Params {
		if p.Category == ast.ParamKeywordOnlyMarker {
			continue
		}
		addOrAppendDecl(bodyScope.Table, p.Name, &symbols.Declaration{Kind: symbols.DeclParameter, Node: p, Range: p.Span()})
	}
	collectDeclarations(fd.Body, bodyScope.Table, false)

	bodyEnv := env.WithScope(bodyScope).WithFunc(fn.Details)
	c.checkBody(fd.Body, bodyEnv)

	c.checkReturnCoverage(fd, fn)
	c.checkYieldType(fd, fn, bodyEnv)
	c.auditScope(bodyScope, bodyEnv)
}

// checkMethodSignatureName enforces the conventional first-parameter
// name for methods (spec §4.E "method-signature validation"):
// __new__/__init_subclass__/__class_getitem__ bind cls, a classmethod
// binds cls, a staticmethod binds neither, and everything else binds
// self — unless the class is itself a metaclass (derives from "type"),
// where cls is equally conventional.
func (c *Checker) checkMethodSignatureName(fd *ast.FunctionDef, env *evaluator.Env, isMethod bool) {
	if !isMethod {
		return
	}
	isStatic, isClassM := false, false
	for _, dec := range fd.Decorators {
		if name, ok := dec.(*ast.NameExpr); ok {
			switch name.Name {
			case "staticmethod":
				isStatic = true
			case "classmethod":
				isClassM = true
			}
		}
	}
	if isStatic {
		return
	}

	firstSimple := -1
	for i, p := range fd.Params {
		if p.Category == ast.ParamSimple {
			firstSimple = i
			break
		}
	}
	if firstSimple == -1 {
		c.report(errors.ReportSelfClsParameterName, fd.Span(),
			"method \""+fd.Name+"\" has no parameter to bind self/cls to")
		return
	}
	first := fd.Params[firstSimple]

	switch {
	case fd.Name == "__new__" || fd.Name == "__init_subclass__" || fd.Name == "__class_getitem__":
		if !requireFirstParamName(first.Name, "cls", "mcs") {
			c.report(errors.ReportSelfClsParameterName, first.Span(),
				"\""+fd.Name+"\" must take \"cls\" as its first parameter, got \""+first.Name+"\"")
		}
	case isClassM:
		if requireFirstParamName(first.Name, "cls", "mcs", "metacls") {
			return
		}
		if c.Info != nil && c.Info.IsStubFile && strings.HasPrefix(first.Name, "_") {
			return
		}
		c.report(errors.ReportSelfClsParameterName, first.Span(),
			"classmethod \""+fd.Name+"\" must take \"cls\" as its first parameter, got \""+first.Name+"\"")
	default:
		if requireFirstParamName(first.Name, "self") {
			return
		}
		if env.Class != nil && typeutils.IsDerivedFrom(env.Class, typesys.TypeClass) && requireFirstParamName(first.Name, "cls") {
			return
		}
		c.report(errors.ReportSelfClsParameterName, first.Span(),
			"instance method \""+fd.Name+"\" must take \"self\" as its first parameter, got \""+first.Name+"\"")
	}
}

func requireFirstParamName(name string, allowed ...string) bool {
	for _, a := range allowed {
		if name == a {
			return true
		}
	}
	return false
}

// checkParameterTypes flags a parameter whose type could not be
// inferred from an annotation (spec §4.E "unknown/partially-unknown
// parameter types"); self/cls defaulting already gives those params a
// concrete type in fn, so they never trigger this.
func (c *Checker) checkParameterTypes(fd *ast.FunctionDef, fn *typesys.Function) {
	for i, p := range fd.Params {
		if p.Category == ast.ParamKeywordOnlyMarker || p.Annotation != nil {
			continue
		}
		if i < len(fn.Details.Params) && containsUnknown(fn.Details.Params[i].Type) {
			c.report(errors.ReportUnknownParameterType, p.Span(),
				"parameter \""+p.Name+"\" has no type annotation and its type cannot be inferred")
		}
	}
}

// checkReturnCoverage flags a declared-NoReturn function whose body can
// fall off the end, and a body that can fall off the end without
// returning a value when the declared return type does not admit None
// (spec §4.E "Return"). Generator bodies are covered by checkYieldType
// instead — a generator falling off the end is ordinary StopIteration,
// not a missing return.
func (c *Checker) checkReturnCoverage(fd *ast.FunctionDef, fn *typesys.Function) {
	if containsYield(fd.Body) {
		return
	}
	declared := fn.Details.Declared
	if declared == nil {
		return
	}
	falls := !bodyTerminates(fd.Body)
	if isNeverType(declared) {
		if falls {
			c.report(errors.ReportGeneralTypeIssues, fd.Span(),
				"function \""+fd.Name+"\" is declared to never return but can fall off the end")
		}
		return
	}
	if falls && !admitsNone(declared) {
		c.report(errors.ReportGeneralTypeIssues, fd.Span(),
			"function \""+fd.Name+"\" can fall off the end without a return, but its declared return type \""+
				declared.String()+"\" does not admit None")
	}
}

func bodyTerminates(body []ast.Stmt) bool {
	for _, s := range body {
		if stmtTerminates(s) {
			return true
		}
	}
	return false
}

func stmtTerminates(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.ReturnStmt, *ast.RaiseStmt:
		return true
	case *ast.IfStmt:
		return len(st.Else) > 0 && bodyTerminates(st.Body) && bodyTerminates(st.Else)
	case *ast.WhileStmt:
		return isAlwaysTrue(st.Test) && !bodyHasBreak(st.Body)
	case *ast.WithStmt:
		return bodyTerminates(st.Body)
	case *ast.TryStmt:
		if len(st.Finally) > 0 && bodyTerminates(st.Finally) {
			return true
		}
		if !bodyTerminates(st.Body) {
			return false
		}
		for _, h := range st.Handlers {
			if !bodyTerminates(h.Body) {
				return false
			}
		}
		if len(st.Else) > 0 {
			return bodyTerminates(st.Else)
		}
		return true
	default:
		return false
	}
}

// bodyHasBreak reports a `break` reachable from body without crossing
// into a nested loop (whose own break targets that loop, not this one).
func bodyHasBreak(body []ast.Stmt) bool {
	for _, s := range body {
		switch st := s.(type) {
		case *ast.BreakStmt:
			return true
		case *ast.IfStmt:
			if bodyHasBreak(st.Body) || bodyHasBreak(st.Else) {
				return true
			}
		case *ast.WithStmt:
			if bodyHasBreak(st.Body) {
				return true
			}
		case *ast.TryStmt:
			if bodyHasBreak(st.Body) || bodyHasBreak(st.Else) || bodyHasBreak(st.Finally) {
				return true
			}
			for _, h := range st.Handlers {
				if bodyHasBreak(h.Body) {
					return true
				}
			}
		}
	}
	return false
}

func isAlwaysTrue(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return false
	}
	switch lit.Kind {
	case ast.BoolLit:
		v, _ := lit.Value.(bool)
		return v
	case ast.IntLit:
		v, _ := lit.Value.(int64)
		return v != 0
	}
	return false
}

// containsYield reports whether body yields anywhere not nested inside
// another function definition (a nested def's own yields belong to it,
// not to body's enclosing function).
func containsYield(body []ast.Stmt) bool {
	for _, s := range body {
		if stmtHasYield(s) {
			return true
		}
	}
	return false
}

func stmtHasYield(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return exprHasYield(st.Value)
	case *ast.AssignStmt:
		return exprHasYield(st.Value)
	case *ast.AugAssignStmt:
		return exprHasYield(st.Value)
	case *ast.ReturnStmt:
		return exprHasYield(st.Value)
	case *ast.IfStmt:
		return exprHasYield(st.Test) || containsYield(st.Body) || containsYield(st.Else)
	case *ast.WhileStmt:
		return exprHasYield(st.Test) || containsYield(st.Body) || containsYield(st.Else)
	case *ast.ForStmt:
		return exprHasYield(st.Iter) || containsYield(st.Body) || containsYield(st.Else)
	case *ast.WithStmt:
		return containsYield(st.Body)
	case *ast.TryStmt:
		if containsYield(st.Body) || containsYield(st.Else) || containsYield(st.Finally) {
			return true
		}
		for _, h := range st.Handlers {
			if containsYield(h.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func exprHasYield(e ast.Expr) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *ast.YieldExpr, *ast.YieldFromExpr:
		return true
	case *ast.BinaryExpr:
		return exprHasYield(n.Left) || exprHasYield(n.Right)
	case *ast.UnaryExpr:
		return exprHasYield(n.Operand)
	case *ast.BoolOpExpr:
		for _, v := range n.Values {
			if exprHasYield(v) {
				return true
			}
		}
		return false
	case *ast.TernaryExpr:
		return exprHasYield(n.Test) || exprHasYield(n.Then) || exprHasYield(n.Else)
	case *ast.TupleExpr:
		for _, el := range n.Elts {
			if exprHasYield(el) {
				return true
			}
		}
		return false
	case *ast.CallExpr:
		if exprHasYield(n.Callee) {
			return true
		}
		for _, a := range n.Args {
			if exprHasYield(a.Value) {
				return true
			}
		}
		return false
	case *ast.AwaitExpr:
		return exprHasYield(n.Value)
	case *ast.AssignExpr:
		return exprHasYield(n.Value)
	default:
		return false
	}
}

// checkYieldType validates a generator's accumulated yield type against
// its declared return annotation, when that annotation is shaped like
// one of the generator/iterator protocols (spec §4.E "Yield/YieldFrom").
// No Generator/Iterator construct exists in the type model's special
// built-ins (it has no dedicated evalSpecialIndex case), so this is a
// local syntactic pattern match on the annotation's surface shape
// rather than a evaluated-type comparison — documented as a deliberate
// simplification in the design ledger.
func (c *Checker) checkYieldType(fd *ast.FunctionDef, fn *typesys.Function, env *evaluator.Env) {
	if !containsYield(fd.Body) || fd.ReturnAnnotation == nil {
		return
	}
	elem, ok := yieldElementType(fd.ReturnAnnotation, env, c.Eval)
	if !ok {
		return
	}
	yielded := fn.Details.InferredYield
	if yielded == nil {
		return
	}
	diag := &typeutils.Diagnostic{}
	if !typeutils.CanAssignType(elem, yielded, diag) {
		c.report(errors.ReportGeneralTypeIssues, fd.ReturnAnnotation.Span(),
			"yielded type \""+yielded.String()+"\" is not assignable to the declared yield type \""+elem.String()+"\"")
	}
}

func yieldElementType(annotation ast.Expr, env *evaluator.Env, ev *evaluator.Evaluator) (typesys.Type, bool) {
	idx, ok := annotation.(*ast.IndexExpr)
	if !ok || len(idx.Args) == 0 {
		return nil, false
	}
	name, ok := idx.Base.(*ast.NameExpr)
	if !ok {
		return nil, false
	}
	switch name.Name {
	case "Generator", "Iterator", "AsyncGenerator", "AsyncIterator", "Iterable", "AsyncIterable":
		return ev.EvalTypeExpr(idx.Args[0], env), true
	default:
		return nil, false
	}
}

// checkClassDef builds cls's declared members, dispatches every nested
// method under the class's ENCLOSING env (Python's own closures skip
// over the class body, so a method never sees classScope), then checks
// override compatibility and final-method redefinition across the MRO.
func (c *Checker) checkClassDef(cd *ast.ClassDef, env *evaluator.Env) {
	cls := c.Eval.ClassType(cd, env)
	classScope := symbols.NewScope(symbols.ScopeClass, env.Scope)
	collectDeclarations(cd.Body, classScope.Table, false)
	classEnv := env.WithClass(cls)

	for _, stmt := range cd.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			c.checkFunctionDef(s, classEnv, true)
		case *ast.ClassDef:
			c.checkClassDef(s, classEnv)
		default:
			c.checkStmt(stmt, classEnv.WithScope(classScope))
		}
	}

	c.checkOverrides(cd, cls)
	c.auditScope(classScope, classEnv)
}

// checkOverrides walks cls's own methods looking for a same-named
// member higher in the MRO: a `@final`-decorated base method can never
// be overridden, and every other override's unbound signature must be
// compatible with the unbound base signature (spec §4.E "Class").
func (c *Checker) checkOverrides(cd *ast.ClassDef, cls *typesys.Class) {
	for _, stmt := range cd.Body {
		fd, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if isDunderName(fd.Name) {
			continue
		}
		sym, owner, found := typeutils.LookUpClassMember(cls, fd.Name, typeutils.LookupFlags{
			SkipOriginalClass: true, SkipObjectBase: true,
		})
		if !found {
			continue
		}
		baseDecl := sym.LastTypedDeclaration()
		if baseDecl == nil || baseDecl.Kind != symbols.DeclFunction {
			continue
		}
		baseFd, ok := baseDecl.Node.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if hasFinalDecorator(baseFd.Decorators) {
			rep := c.newReport(errors.ReportIncompatibleMethodOverride, fd.Span(),
				"\""+fd.Name+"\" overrides \""+owner.Details.Name+"."+fd.Name+"\", which is declared final")
			rep.WithRelated("final declaration is here", c.path(), baseFd.Span())
			c.emit(rep)
			continue
		}

		ownerEnv := evaluator.NewEnv(nil).WithClass(owner)
		overrideFn := c.Eval.FunctionType(fd, ownerEnv, true).Unbind()
		baseFn := c.Eval.FunctionType(baseFd, ownerEnv, true).Unbind()
		diag := &typeutils.Diagnostic{}
		if !typeutils.CanOverrideSignature(baseFn, overrideFn, diag) {
			rep := c.newReport(errors.ReportIncompatibleMethodOverride, fd.Span(),
				"\""+fd.Name+"\" is not compatible with the base method in \""+owner.Details.Name+"\"")
			rep.WithRelated("base declaration is here", c.path(), baseFd.Span())
			c.emit(rep)
		}
	}
}

func hasFinalDecorator(decorators []ast.Expr) bool {
	for _, d := range decorators {
		switch dec := d.(type) {
		case *ast.NameExpr:
			if dec.Name == "final" {
				return true
			}
		case *ast.MemberExpr:
			if dec.Attr == "final" {
				return true
			}
		}
	}
	return false
}

func (c *Checker) path() string {
	if c.Info != nil {
		return c.Info.Path
	}
	return ""
}
