// Package checker implements the Checker Walker (spec §4.E): the
// depth-first visitor that drives the Evaluator over a parse tree for
// its diagnostic side effects, then layers the cross-cutting checks
// the evaluator's expression-by-expression view cannot express —
// method-signature conventions, return/yield coverage, exception
// well-formedness, unnecessary isinstance narrowing, and the
// end-of-scope symbol-table audit.
//
// The binder that would normally hand this package a node→scope map
// and an accessed-symbols set is an external collaborator out of
// scope here (spec §1, §6 "Per-file info (from the binder)"); in its
// place this package builds its own scopes as it walks — a minimal
// stand-in used the same way the evaluator's own tests hand-build
// scopes with declareVar/declareFunc/declareClass, generalised into a
// real traversal instead of a one-off fixture.
package checker

import (
	"strings"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/config"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/evaluator"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// Checker owns one file's walk: an Evaluator for type-level side
// effects, the accessed-symbols set it builds as it resolves names
// (spec §4.E "unused-symbol audit"), and the duplicate-import tracking
// state a single pass needs.
type Checker struct {
	Eval *evaluator.Evaluator
	Info *config.FileInfo

	accessed        map[*symbols.Symbol]bool
	seenImports     map[string]bool
	seenFromImports map[string]map[string]bool
}

// New creates a Checker reporting to sink, configured by info (nil is
// accepted, the same as evaluator.New).
func New(sink errors.Sink, info *config.FileInfo) *Checker {
	return &Checker{
		Eval:            evaluator.New(sink, info),
		Info:            info,
		accessed:        make(map[*symbols.Symbol]bool),
		seenImports:     make(map[string]bool),
		seenFromImports: make(map[string]map[string]bool),
	}
}

// severity resolves rule's effective severity for this file: a
// configured override first, then the rule's registry default (spec
// §4.E "a diagnostic-rule-set").
func (c *Checker) severity(rule errors.Rule) errors.Severity {
	if c.Info != nil && c.Info.Rules != nil {
		return c.Info.Rules.Severity(rule)
	}
	if info, ok := errors.GetRuleInfo(rule); ok {
		return info.DefaultSeverity
	}
	return errors.SeverityError
}

// newReport builds a severity-resolved report without sending it,
// letting a caller attach WithRelated/WithAction before emit.
func (c *Checker) newReport(rule errors.Rule, span ast.Span, message string) *errors.Report {
	return errors.NewWithSeverity(rule, c.severity(rule), span, message)
}

func (c *Checker) emit(r *errors.Report) {
	if r.Severity == errors.SeverityNone {
		return
	}
	c.Eval.Report(r)
}

func (c *Checker) report(rule errors.Rule, span ast.Span, message string) {
	c.emit(c.newReport(rule, span, message))
}

// CheckModule is the Checker's entry point: build the module scope,
// collect its top-level declarations, walk every statement, then run
// the end-of-scope audit (spec §4.E "a one-shot end-of-module
// symbol-table audit").
func (c *Checker) CheckModule(mod *ast.Module) {
	scope := symbols.NewScope(symbols.ScopeModule, nil)
	collectDeclarations(mod.Body, scope.Table, false)
	c.CheckModuleWithScope(mod, scope)
}

// CheckModuleWithScope is CheckModule's entry point for a caller that
// already owns a module Scope — a hand-built "Fixture" (a Scope
// pre-seeded with symbols no parser/binder/importer exists here to
// produce, e.g. an intrinsic global bound directly to a Type rather
// than to a declaring node) paired with an ast.Module, per the demo
// harness's own scoping of the parser/binder as an out-of-scope
// collaborator. CheckModule is the common case of this with a fresh,
// empty scope; this is the seam a pre-seeded fixture uses instead.
func (c *Checker) CheckModuleWithScope(mod *ast.Module, scope *symbols.Scope) {
	env := evaluator.NewEnv(scope)
	env = c.checkBody(mod.Body, env)
	c.auditScope(scope, env)
}

// CheckModuleWithParentScope is CheckModule for a caller that wants
// the module's own (ordinarily collected) declarations to fall back,
// on lookup failure, to a pre-built parent scope — e.g. a handful of
// intrinsic builtins no importer exists here to bind.
func (c *Checker) CheckModuleWithParentScope(mod *ast.Module, parent *symbols.Scope) {
	scope := symbols.NewScope(symbols.ScopeModule, parent)
	collectDeclarations(mod.Body, scope.Table, false)
	c.CheckModuleWithScope(mod, scope)
}

// --- statement traversal -----------------------------------------

// checkBody threads env statement-by-statement: each checkStmt call
// returns the Env its own bindings take effect in (spec §4.D "Env is
// copy-on-write"), and that Env — not the one checkBody started with —
// is what the next statement in the same block sees. A nested block
// (an if-body, a loop body) gets its own copy of env and its internal
// threading never escapes back to the caller's variable.
func (c *Checker) checkBody(body []ast.Stmt, env *evaluator.Env) *evaluator.Env {
	for _, stmt := range body {
		env = c.checkStmt(stmt, env)
	}
	return env
}

func (c *Checker) checkStmt(stmt ast.Stmt, env *evaluator.Env) *evaluator.Env {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		c.checkFunctionDef(s, env, false)
		return env
	case *ast.ClassDef:
		c.checkClassDef(s, env)
		return env
	case *ast.ExprStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		c.walkExpr(s.Value, env, false)
		return env
	case *ast.AssignStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		c.walkExpr(s.Annotation, env, false)
		c.walkExpr(s.Value, env, false)
		for _, t := range s.Targets {
			c.walkAssignTarget(t, env)
		}
		return env
	case *ast.AugAssignStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		c.walkExpr(s.Target, env, false)
		c.walkExpr(s.Value, env, false)
		return env
	case *ast.ReturnStmt:
		return c.checkReturnStmt(s, env)
	case *ast.RaiseStmt:
		return c.checkRaiseStmt(s, env)
	case *ast.AssertStmt:
		return c.checkAssertStmt(s, env)
	case *ast.ForStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		c.walkExpr(s.Iter, env, false)
		c.checkBody(s.Body, env)
		c.checkBody(s.Else, env)
		return env
	case *ast.WhileStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		c.walkExpr(s.Test, env, false)
		constraints := c.Eval.BuildConstraints(s.Test, env)
		c.checkBody(s.Body, env.ApplyConstraints(constraints.IfTrue))
		c.checkBody(s.Else, env)
		return env
	case *ast.IfStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		c.walkExpr(s.Test, env, false)
		constraints := c.Eval.BuildConstraints(s.Test, env)
		c.checkBody(s.Body, env.ApplyConstraints(constraints.IfTrue))
		c.checkBody(s.Else, env.ApplyConstraints(constraints.IfFalse))
		return env
	case *ast.WithStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		for _, item := range s.Items {
			c.walkExpr(item.Context, env, false)
		}
		c.checkBody(s.Body, env)
		return env
	case *ast.TryStmt:
		c.checkTryStmt(s, env)
		return env
	case *ast.DeleteStmt:
		env = c.Eval.EvaluateTypesForStatement(s, env)
		for _, t := range s.Targets {
			c.walkExpr(t, env, false)
		}
		return env
	case *ast.ImportStmt:
		c.checkImportStmt(s)
		return env
	case *ast.ImportFromStmt:
		c.checkImportFromStmt(s)
		return env
	case *ast.PassStmt, *ast.BreakStmt, *ast.ContinueStmt, *ast.GlobalStmt, *ast.NonlocalStmt:
		// No type-level content and no nested blocks to visit.
		return env
	}
	return env
}

func (c *Checker) walkAssignTarget(target ast.Expr, env *evaluator.Env) {
	switch t := target.(type) {
	case *ast.NameExpr:
		// Binding a name is not a read of it.
	case *ast.TupleExpr:
		for _, e := range t.Elts {
			c.walkAssignTarget(e, env)
		}
	case *ast.ListExpr:
		for _, e := range t.Elts {
			c.walkAssignTarget(e, env)
		}
	case *ast.StarExpr:
		c.walkAssignTarget(t.Value, env)
	case *ast.MemberExpr:
		c.walkExpr(t.Base, env, false)
	case *ast.IndexExpr:
		c.walkExpr(t.Base, env, false)
		for _, a := range t.Args {
			c.walkExpr(a, env, false)
		}
	}
}

func (c *Checker) checkReturnStmt(s *ast.ReturnStmt, env *evaluator.Env) *evaluator.Env {
	env = c.Eval.EvaluateTypesForStatement(s, env)
	if s.Value == nil {
		return env
	}
	c.walkExpr(s.Value, env, false)
	t := c.Eval.GetType(s.Value, env, evaluator.UsageGet)
	if containsUnknown(t) {
		c.report(errors.ReportUnknownVariableType, s.Span(),
			"return type is partially unknown: \""+t.String()+"\"")
	}
	return env
}

func (c *Checker) checkRaiseStmt(s *ast.RaiseStmt, env *evaluator.Env) *evaluator.Env {
	env = c.Eval.EvaluateTypesForStatement(s, env)
	if s.Exc != nil {
		c.walkExpr(s.Exc, env, false)
	}
	if s.Cause == nil {
		return env
	}
	c.walkExpr(s.Cause, env, false)
	causeType := c.Eval.GetType(s.Cause, env, evaluator.UsageGet)
	if _, unknown := causeType.(*typesys.Unknown); unknown {
		return env
	}
	if isNoneType(causeType) || isExceptionInstance(causeType) {
		return env
	}
	c.report(errors.ReportGeneralTypeIssues, s.Cause.Span(),
		"exception cause must be an exception instance or None, got \""+causeType.String()+"\"")
	return env
}

func (c *Checker) checkAssertStmt(s *ast.AssertStmt, env *evaluator.Env) *evaluator.Env {
	env = c.Eval.EvaluateTypesForStatement(s, env)
	c.walkExpr(s.Test, env, false)
	if s.Msg != nil {
		c.walkExpr(s.Msg, env, false)
	}
	if isNonEmptyTupleLiteral(s.Test) {
		c.report(errors.ReportAssertAlwaysTrue, s.Span(),
			"assert test is a non-empty tuple literal, which is always true")
	}
	return env
}

func (c *Checker) checkTryStmt(s *ast.TryStmt, env *evaluator.Env) {
	c.checkBody(s.Body, env)
	for _, h := range s.Handlers {
		c.checkExceptClause(h, env)
	}
	c.checkBody(s.Else, env)
	c.checkBody(s.Finally, env)
}

func (c *Checker) checkExceptClause(h *ast.ExceptClause, env *evaluator.Env) {
	if h.Type == nil {
		c.checkBody(h.Body, env)
		return
	}
	c.walkExpr(h.Type, env, false)
	classes := c.exceptionClasses(h.Type, env)
	for _, cls := range classes {
		if !typeutils.IsDerivedFrom(cls, typesys.BaseExceptionClass) {
			c.report(errors.ReportGeneralTypeIssues, h.Type.Span(),
				"\""+cls.Details.Name+"\" does not derive from BaseException and cannot be used in an except clause")
		}
	}
	bodyEnv := env
	if h.Name != "" && len(classes) > 0 {
		instances := make([]typesys.Type, len(classes))
		for i, cls := range classes {
			instances[i] = typesys.Instance(cls)
		}
		bound := typeutils.CombineTypes(instances)
		if sym, ok := env.Scope.Table.Get(h.Name); ok {
			bodyEnv = env.ApplyConstraints(map[*symbols.Symbol]typesys.Type{sym: bound})
		}
	}
	c.checkBody(h.Body, bodyEnv)
}

// exceptionClasses evaluates an except clause's type expression as a
// value (not an annotation): a bare class name evaluates to the Class
// itself via evalName, which is the "Class form" spec §4.E calls for
// binding the caught name; a tuple literal is flattened recursively.
func (c *Checker) exceptionClasses(typeExpr ast.Expr, env *evaluator.Env) []*typesys.Class {
	if t, ok := typeExpr.(*ast.TupleExpr); ok {
		var out []*typesys.Class
		for _, e := range t.Elts {
			out = append(out, c.exceptionClasses(e, env)...)
		}
		return out
	}
	t := c.Eval.GetType(typeExpr, env, evaluator.UsageGet)
	if cls, ok := t.(*typesys.Class); ok {
		return []*typesys.Class{cls}
	}
	return nil
}

func (c *Checker) checkImportStmt(s *ast.ImportStmt) {
	for _, alias := range s.Modules {
		if alias.Asname != "" {
			continue
		}
		if c.seenImports[alias.Path] {
			c.report(errors.ReportDuplicateImport, s.Span(),
				"module \""+alias.Path+"\" is imported more than once")
		}
		c.seenImports[alias.Path] = true
	}
}

func (c *Checker) checkImportFromStmt(s *ast.ImportFromStmt) {
	for _, alias := range s.Names {
		if alias.Asname != "" {
			continue
		}
		seen := c.seenFromImports[s.Module]
		if seen == nil {
			seen = make(map[string]bool)
			c.seenFromImports[s.Module] = seen
		}
		if seen[alias.Path] {
			c.report(errors.ReportDuplicateImport, s.Span(),
				"\""+alias.Path+"\" is imported from \""+s.Module+"\" more than once")
		}
		seen[alias.Path] = true
	}
}

// --- expression walk (accessed-symbol marking + call-site checks) -

func (c *Checker) walkExpr(e ast.Expr, env *evaluator.Env, inDefault bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.NameExpr:
		c.markAccessed(n.Name, env)
	case *ast.MemberExpr:
		c.walkExpr(n.Base, env, inDefault)
	case *ast.IndexExpr:
		c.walkExpr(n.Base, env, inDefault)
		for _, a := range n.Args {
			c.walkExpr(a, env, inDefault)
		}
	case *ast.CallExpr:
		if inDefault {
			c.checkCallInDefault(n)
		}
		c.checkUnnecessaryIsInstance(n, env)
		c.walkExpr(n.Callee, env, inDefault)
		for _, a := range n.Args {
			c.walkExpr(a.Value, env, inDefault)
		}
	case *ast.UnaryExpr:
		c.walkExpr(n.Operand, env, inDefault)
	case *ast.BinaryExpr:
		c.walkExpr(n.Left, env, inDefault)
		c.walkExpr(n.Right, env, inDefault)
	case *ast.BoolOpExpr:
		for _, v := range n.Values {
			c.walkExpr(v, env, inDefault)
		}
	case *ast.StarExpr:
		c.walkExpr(n.Value, env, inDefault)
	case *ast.TupleExpr:
		for _, el := range n.Elts {
			c.walkExpr(el, env, inDefault)
		}
	case *ast.ListExpr:
		for _, el := range n.Elts {
			c.walkExpr(el, env, inDefault)
		}
	case *ast.SetExpr:
		for _, el := range n.Elts {
			c.walkExpr(el, env, inDefault)
		}
	case *ast.DictExpr:
		for i, v := range n.Values {
			if n.Keys[i] != nil {
				c.walkExpr(n.Keys[i], env, inDefault)
			}
			c.walkExpr(v, env, inDefault)
		}
	case *ast.TernaryExpr:
		c.walkExpr(n.Test, env, inDefault)
		c.walkExpr(n.Then, env, inDefault)
		c.walkExpr(n.Else, env, inDefault)
	case *ast.ComprehensionExpr:
		for _, cl := range n.Clauses {
			c.walkExpr(cl.Iter, env, inDefault)
			for _, ifx := range cl.Ifs {
				c.walkExpr(ifx, env, inDefault)
			}
		}
		if n.KeyElement != nil {
			c.walkExpr(n.KeyElement, env, inDefault)
		}
		c.walkExpr(n.Element, env, inDefault)
	case *ast.LambdaExpr:
		c.walkExpr(n.Body, env, inDefault)
	case *ast.AwaitExpr:
		c.walkExpr(n.Value, env, inDefault)
	case *ast.YieldExpr:
		c.walkExpr(n.Value, env, inDefault)
	case *ast.YieldFromExpr:
		c.walkExpr(n.Value, env, inDefault)
	case *ast.AssignExpr:
		c.walkExpr(n.Target, env, inDefault)
		c.walkExpr(n.Value, env, inDefault)
	case *ast.TypeAnnotationExpr:
		c.walkExpr(n.Expr, env, inDefault)
	case *ast.ErrorExpr:
		c.walkExpr(n.Child, env, inDefault)
	}
}

func (c *Checker) markAccessed(name string, env *evaluator.Env) {
	if env == nil || env.Scope == nil {
		return
	}
	if result, ok := env.Scope.LookupRecursive(name); ok {
		c.accessed[result.Symbol] = true
	}
}

func (c *Checker) checkCallInDefault(n *ast.CallExpr) {
	if c.Info != nil && c.Info.IsStubFile {
		return
	}
	c.report(errors.ReportCallInDefaultInitializer, n.Span(),
		"call expressions are not allowed in a default parameter value")
}

// checkUnnecessaryIsInstance flags isinstance(x, T) calls where the
// declared type of x already settles the check one way: every branch
// of x's declared type deriving from T makes the check always true; no
// branch either deriving from T or being a base of T makes it always
// false.
func (c *Checker) checkUnnecessaryIsInstance(n *ast.CallExpr, env *evaluator.Env) {
	callee, ok := n.Callee.(*ast.NameExpr)
	if !ok || callee.Name != "isinstance" || len(n.Args) != 2 {
		return
	}
	declared := c.Eval.GetType(n.Args[0].Value, env, evaluator.UsageGet)
	if containsUnknown(declared) {
		return
	}
	if _, isAny := declared.(*typesys.AnyType); isAny {
		return
	}
	clsType := c.Eval.EvalTypeExpr(n.Args[1].Value, env)
	targets := flattenClasses(clsType)
	declaredClasses := flattenClasses(declared)
	if len(targets) == 0 || len(declaredClasses) == 0 {
		return
	}

	always := true
	for _, dc := range declaredClasses {
		matches := false
		for _, tc := range targets {
			if typeutils.IsDerivedFrom(dc, tc) {
				matches = true
				break
			}
		}
		if !matches {
			always = false
			break
		}
	}
	if always {
		c.report(errors.ReportUnnecessaryIsInstance, n.Span(),
			"unnecessary isinstance call: the narrowed type already satisfies the check")
		return
	}

	never := true
	for _, dc := range declaredClasses {
		for _, tc := range targets {
			if typeutils.IsDerivedFrom(dc, tc) || typeutils.IsDerivedFrom(tc, dc) {
				never = false
				break
			}
		}
		if !never {
			break
		}
	}
	if never {
		c.report(errors.ReportUnnecessaryIsInstance, n.Span(),
			"unnecessary isinstance call: the declared type can never satisfy the check")
	}
}

func classOf(t typesys.Type) (*typesys.Class, bool) {
	switch x := t.(type) {
	case *typesys.Class:
		return x, true
	case *typesys.Object:
		return x.Class, true
	default:
		return nil, false
	}
}

func flattenClasses(t typesys.Type) []*typesys.Class {
	if u, ok := t.(*typesys.Union); ok {
		var out []*typesys.Class
		for _, m := range u.Members {
			out = append(out, flattenClasses(m)...)
		}
		return out
	}
	if cls, ok := classOf(t); ok {
		return []*typesys.Class{cls}
	}
	return nil
}

// --- small type helpers --------------------------------------------

// containsUnknown reports whether t is, or is specialized with, the
// Unknown type anywhere a binder would consider "partially unknown".
func containsUnknown(t typesys.Type) bool {
	switch x := t.(type) {
	case *typesys.Unknown:
		return true
	case *typesys.Union:
		for _, m := range x.Members {
			if containsUnknown(m) {
				return true
			}
		}
		return false
	case *typesys.Object:
		for _, a := range x.Class.TypeArgs {
			if containsUnknown(a) {
				return true
			}
		}
		return false
	case *typesys.Class:
		for _, a := range x.TypeArgs {
			if containsUnknown(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func admitsNone(t typesys.Type) bool {
	switch x := t.(type) {
	case *typesys.NoneType, *typesys.Unknown, *typesys.AnyType:
		return true
	case *typesys.Union:
		for _, m := range x.Members {
			if admitsNone(m) {
				return true
			}
		}
	}
	return false
}

func isNeverType(t typesys.Type) bool {
	_, ok := t.(*typesys.NeverType)
	return ok
}

func isNoneType(t typesys.Type) bool {
	_, ok := t.(*typesys.NoneType)
	return ok
}

func isExceptionInstance(t typesys.Type) bool {
	obj, ok := t.(*typesys.Object)
	if !ok {
		return false
	}
	return typeutils.IsDerivedFrom(obj.Class, typesys.BaseExceptionClass)
}

func isNonEmptyTupleLiteral(e ast.Expr) bool {
	t, ok := e.(*ast.TupleExpr)
	return ok && len(t.Elts) > 0
}

// isPrivateName mirrors evaluator's own private-name convention
// (single/double leading underscore, dunder names exempt) so the
// unused-symbol audit gates on the same rule checkPrivateUsage does,
// without importing an unexported evaluator helper.
func isPrivateName(name string) bool {
	if !strings.HasPrefix(name, "_") {
		return false
	}
	if isDunderName(name) {
		return false
	}
	return true
}

// isDunderName reports whether name has the `__x__` shape Python
// reserves for special methods (spec §4.E scopes override-checking to
// non-dunder members).
func isDunderName(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func isFinalAnnotation(e ast.Expr) bool {
	switch a := e.(type) {
	case *ast.NameExpr:
		return a.Name == "Final"
	case *ast.IndexExpr:
		if name, ok := a.Base.(*ast.NameExpr); ok {
			return name.Name == "Final"
		}
	case *ast.MemberExpr:
		return a.Attr == "Final"
	}
	return false
}
