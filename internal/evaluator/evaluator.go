// Package evaluator is the Type Evaluator (spec §4.D): the single
// place that turns a parse-tree expression into a typesys.Type,
// caching every (node, usage) pair it computes within one checker
// pass. The cache is a map keyed by expression identity; a reentrant
// call for a node already in flight gets back a placeholder instead
// of recursing, the same reentrant-cache shape a lazy value evaluator
// uses, generalised here from value evaluation to type evaluation.
package evaluator

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/config"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// Usage selects which of the three access modes an expression is
// evaluated under (spec §4.D "get_type(node, usage, flags)").
type Usage int

const (
	UsageGet Usage = iota
	UsageSet
	UsageDel
)

// Flags are the optional per-call evaluation flags spec §4.D lists.
type Flags struct {
	// DoNotSpecialize suppresses the "bare generic Class used in a
	// non-call position gets padded with Any" rule, e.g. while
	// evaluating a call's callee expression.
	DoNotSpecialize bool
}

type cacheKey struct {
	node  ast.NodeID
	usage Usage
}

// Evaluator owns one file's (node,usage) cache and diagnostic sink.
// A fresh Evaluator per file keeps concurrent per-file runs disjoint
// (spec §5 "each file owns disjoint state").
type Evaluator struct {
	Sink errors.Sink
	Info *config.FileInfo

	cache      map[cacheKey]typesys.Type
	inProgress map[cacheKey]bool

	declCache      map[ast.NodeID]typesys.Type
	declInProgress map[ast.NodeID]bool

	// synthesized caches constructor-built classes (e.g. a NamedTuple
	// call) by a stable key so repeated evaluation of the same call
	// reuses one Class identity instead of minting a new one each time
	// (spec §4.D "Caching" second paragraph).
	synthesized map[string]*typesys.Class
}

// New creates an Evaluator reporting to sink, configured by info (nil
// is accepted and treated as a stub-free, default-severity file).
func New(sink errors.Sink, info *config.FileInfo) *Evaluator {
	return &Evaluator{
		Sink:           sink,
		Info:           info,
		cache:          make(map[cacheKey]typesys.Type),
		inProgress:     make(map[cacheKey]bool),
		declCache:      make(map[ast.NodeID]typesys.Type),
		declInProgress: make(map[ast.NodeID]bool),
		synthesized:    make(map[string]*typesys.Class),
	}
}

func (ev *Evaluator) report(r *errors.Report) {
	if ev.Sink != nil {
		ev.Sink.Report(r)
	}
}

// Report exposes report to callers outside this package (a driving
// walker that owns its own per-node checks but wants to reuse this
// Evaluator's sink).
func (ev *Evaluator) Report(r *errors.Report) { ev.report(r) }

// Env carries the evaluation context a node is evaluated under: the
// lexical scope it resolves names against, the narrowing overrides in
// effect along the current flow path, and the enclosing class/function
// (needed for self/cls defaulting, yield-type lookup, and override
// checks). Env is copy-on-write: narrowing a name returns a new Env
// rather than mutating the caller's.
type Env struct {
	Scope *symbols.Scope
	Narrow map[*symbols.Symbol]typesys.Type
	Class  *typesys.Class
	Func   *typesys.FuncDetails
}

// NewEnv creates a module-level Env with no narrowing or enclosing
// class/function.
func NewEnv(scope *symbols.Scope) *Env {
	return &Env{Scope: scope}
}

func (e *Env) withScope(s *symbols.Scope) *Env {
	return &Env{Scope: s, Narrow: e.Narrow, Class: e.Class, Func: e.Func}
}

func (e *Env) withClass(c *typesys.Class) *Env {
	return &Env{Scope: e.Scope, Narrow: e.Narrow, Class: c, Func: e.Func}
}

func (e *Env) withFunc(f *typesys.FuncDetails) *Env {
	return &Env{Scope: e.Scope, Narrow: e.Narrow, Class: e.Class, Func: f}
}

func (e *Env) narrowed(sym *symbols.Symbol, t typesys.Type) *Env {
	merged := make(map[*symbols.Symbol]typesys.Type, len(e.Narrow)+1)
	for k, v := range e.Narrow {
		merged[k] = v
	}
	merged[sym] = t
	return &Env{Scope: e.Scope, Narrow: merged, Class: e.Class, Func: e.Func}
}

func (e *Env) narrowType(sym *symbols.Symbol) (typesys.Type, bool) {
	t, ok := e.Narrow[sym]
	return t, ok
}

// applyConstraints layers every narrowed symbol in c onto env, used by
// Ternary/BoolOp/If to build the then/else Envs (spec §4.D "Narrowing
// engine").
func (e *Env) applyConstraints(c map[*symbols.Symbol]typesys.Type) *Env {
	if len(c) == 0 {
		return e
	}
	env := e
	for sym, t := range c {
		env = env.narrowed(sym, t)
	}
	return env
}

// ApplyConstraints is the exported form of applyConstraints, letting a
// driving walker outside this package fold a branch's narrowing map
// (as produced by BuildConstraints) onto the Env it evaluates that
// branch under.
func (e *Env) ApplyConstraints(c map[*symbols.Symbol]typesys.Type) *Env {
	return e.applyConstraints(c)
}

// WithScope, WithClass and WithFunc are the exported forms of this
// package's own scope/class/func Env extension helpers, giving a
// driving walker the same lexical-context construction the Evaluator
// uses internally for nested function and class bodies.
func (e *Env) WithScope(s *symbols.Scope) *Env { return e.withScope(s) }
func (e *Env) WithClass(c *typesys.Class) *Env { return e.withClass(c) }
func (e *Env) WithFunc(f *typesys.FuncDetails) *Env { return e.withFunc(f) }

// FunctionType builds (or returns the cached) typesys.Function for a
// function declaration, the same way name resolution does for a
// DeclFunction symbol. A driving walker uses this to get the fully
// resolved signature of the function it is about to check the body
// of, without duplicating the binding-kind/self-cls logic in decl.go.
func (ev *Evaluator) FunctionType(fd *ast.FunctionDef, env *Env, isMethod bool) *typesys.Function {
	return ev.buildFunctionType(fd, env, isMethod)
}

// ClassType builds (or returns the cached) typesys.Class for a class
// declaration, giving a driving walker the same MRO/field resolution
// the Evaluator uses internally.
func (ev *Evaluator) ClassType(cd *ast.ClassDef, env *Env) *typesys.Class {
	return ev.buildClassType(cd, env)
}

// BuildConstraints is the exported form of buildConstraints: given a
// boolean test expression, it returns the narrowing maps that hold
// along the true and false branches. A driving walker uses this to
// check an If/While/Assert's branches under the narrowing the test
// implies, the same way the Evaluator does for Ternary/BoolOp.
func (ev *Evaluator) BuildConstraints(test ast.Expr, env *Env) Constraints {
	return ev.buildConstraints(test, env)
}

// GetType is get_type with default flags.
func (ev *Evaluator) GetType(node ast.Expr, env *Env, usage Usage) typesys.Type {
	return ev.GetTypeFlags(node, env, usage, Flags{})
}

// GetTypeFlags is the full get_type contract (spec §4.D): cached by
// (node, usage), cycle-broken by a reentrancy sentinel that resolves
// to Unknown.
func (ev *Evaluator) GetTypeFlags(node ast.Expr, env *Env, usage Usage, flags Flags) typesys.Type {
	if node == nil {
		return typesys.TheUnknown
	}
	key := cacheKey{node: node.ID(), usage: usage}
	if t, ok := ev.cache[key]; ok {
		return t
	}
	if ev.inProgress[key] {
		return typesys.TheUnknown
	}
	ev.inProgress[key] = true
	t := ev.dispatch(node, env, usage, flags)
	delete(ev.inProgress, key)
	ev.cache[key] = t
	return t
}

func (ev *Evaluator) dispatch(node ast.Expr, env *Env, usage Usage, flags Flags) typesys.Type {
	switch n := node.(type) {
	case *ast.NameExpr:
		return ev.evalName(n, env, usage, flags)
	case *ast.MemberExpr:
		return ev.evalMember(n, env, usage)
	case *ast.IndexExpr:
		return ev.evalIndex(n, env, usage)
	case *ast.CallExpr:
		return ev.evalCall(n, env)
	case *ast.UnaryExpr:
		return ev.evalUnary(n, env)
	case *ast.BinaryExpr:
		return ev.evalBinary(n, env)
	case *ast.BoolOpExpr:
		return ev.evalBoolOp(n, env)
	case *ast.TupleExpr:
		elts := ev.evalHomogeneousElements(n.Elts, env)
		return typesys.Instance(typesys.TupleClass.Specialize(elts))
	case *ast.ListExpr:
		return ev.evalContainerLiteral(typesys.ListClass, n.Elts, env)
	case *ast.SetExpr:
		return ev.evalContainerLiteral(typesys.SetClass, n.Elts, env)
	case *ast.DictExpr:
		return ev.evalDict(n, env)
	case *ast.TernaryExpr:
		return ev.evalTernary(n, env)
	case *ast.ComprehensionExpr:
		return ev.evalComprehension(n, env)
	case *ast.LambdaExpr:
		return ev.evalLambda(n, env)
	case *ast.AwaitExpr:
		return ev.evalAwait(n, env)
	case *ast.YieldExpr:
		return ev.evalYield(n, env)
	case *ast.YieldFromExpr:
		return ev.evalYieldFrom(n, env)
	case *ast.Literal:
		return ev.evalLiteral(n)
	case *ast.AssignExpr:
		t := ev.GetType(n.Value, env, UsageGet)
		// The binding this produces only reaches callers that
		// explicitly re-derive it from the top-level expression (see
		// evalTopLevelExpr); a walrus nested inside a larger expression
		// still computes correctly here, it just doesn't get threaded
		// past this single dispatch call.
		ev.bindTarget(n.Target, t, env)
		return t
	case *ast.TypeAnnotationExpr:
		return ev.EvalTypeExpr(n.Expr, env)
	case *ast.StarExpr:
		return ev.GetType(n.Value, env, usage)
	case *ast.ErrorExpr:
		if n.Child != nil {
			ev.GetType(n.Child, env, usage)
		}
		return typesys.TheUnknown
	default:
		return typesys.TheUnknown
	}
}

func (ev *Evaluator) evalName(n *ast.NameExpr, env *Env, usage Usage, flags Flags) typesys.Type {
	if env == nil || env.Scope == nil {
		return typesys.TheUnknown
	}
	result, ok := env.Scope.LookupRecursive(n.Name)
	if !ok {
		ev.report(errors.New(errors.ReportUndefinedVariable, n.Span(), "name '"+n.Name+"' is not defined"))
		return typesys.TheUnknown
	}
	if narrowed, ok := env.narrowType(result.Symbol); ok && usage == UsageGet {
		return narrowed
	}
	if usage == UsageGet && result.Symbol.IsInitiallyUnbound() && !result.IsBeyondExecutionScope {
		ev.report(errors.New(errors.ReportUnboundVariable, n.Span(), "'"+n.Name+"' is possibly unbound"))
	}
	t := ev.symbolType(result.Symbol, env)
	if !flags.DoNotSpecialize {
		if cls, ok := t.(*typesys.Class); ok && !cls.IsSpecialized() && len(cls.Details.TypeParams) > 0 {
			t = cls.Specialize(nil)
		}
	}
	return t
}

// symbolType derives a symbol's effective type from its most recent
// typed declaration (spec §4.B "LastTypedDeclaration").
func (ev *Evaluator) symbolType(sym *symbols.Symbol, env *Env) typesys.Type {
	decl := sym.LastTypedDeclaration()
	if decl == nil {
		// No annotated declaration: fall back to the last declaration so
		// an unannotated variable is inferred from its assigned value.
		if len(sym.Decls) == 0 {
			return typesys.TheUnknown
		}
		decl = sym.Decls[len(sym.Decls)-1]
	}
	switch decl.Kind {
	case symbols.DeclVariable:
		if decl.Annotation != nil {
			return ev.EvalTypeExpr(decl.Annotation, env)
		}
		if expr, ok := decl.InferredFrom.(ast.Expr); ok {
			return ev.GetType(expr, env, UsageGet)
		}
		return typesys.TheUnknown
	case symbols.DeclParameter:
		p, ok := decl.Node.(*ast.Param)
		if !ok {
			return typesys.TheUnknown
		}
		if p.Annotation != nil {
			return ev.EvalTypeExpr(p.Annotation, env)
		}
		return typesys.TheUnknown
	case symbols.DeclFunction:
		fd, ok := decl.Node.(*ast.FunctionDef)
		if !ok {
			return typesys.TheUnknown
		}
		return ev.buildFunctionType(fd, env, decl.IsMethod)
	case symbols.DeclClass:
		cd, ok := decl.Node.(*ast.ClassDef)
		if !ok {
			return typesys.TheUnknown
		}
		return ev.buildClassType(cd, env)
	case symbols.DeclIntrinsic:
		if t, ok := sym.UndeclaredType.(typesys.Type); ok {
			return t
		}
		return typesys.TheUnknown
	default:
		return typesys.TheUnknown
	}
}

// bindTarget records a value's type into the relevant narrowing slot
// on assignment (AssignExpr's walrus binding; AssignStmt handling lives
// in EvaluateTypesForStatement), returning the Env the binding takes
// effect in rather than mutating env in place — env is copy-on-write
// like every other Env-producing method, and a caller that is handed
// back the same *Env it passed in (e.g. a branch Env that happened to
// alias its parent) must not have that parent silently rewritten.
func (ev *Evaluator) bindTarget(target ast.Expr, t typesys.Type, env *Env) *Env {
	name, ok := target.(*ast.NameExpr)
	if !ok || env == nil || env.Scope == nil {
		return env
	}
	if result, ok := env.Scope.LookupRecursive(name.Name); ok {
		return env.narrowed(result.Symbol, t)
	}
	return env
}

// evalTopLevelExpr evaluates e under env and, when e is itself a
// walrus assignment (not merely one nested somewhere inside it),
// returns the Env with that binding applied — the one shape of
// AssignExpr binding statement-level callers (an `if`/`while` test, a
// bare expression statement) need to see continue to resolve the
// bound name correctly in whatever runs next.
func (ev *Evaluator) evalTopLevelExpr(e ast.Expr, env *Env) (typesys.Type, *Env) {
	t := ev.GetType(e, env, UsageGet)
	if assign, ok := e.(*ast.AssignExpr); ok {
		env = ev.bindTarget(assign.Target, t, env)
	}
	return t, env
}

func (ev *Evaluator) evalLiteral(n *ast.Literal) typesys.Type {
	switch n.Kind {
	case ast.IntLit:
		if v, ok := n.Value.(int64); ok {
			return typesys.IntLiteral(v)
		}
		return typesys.Instance(typesys.IntClass)
	case ast.FloatLit:
		return typesys.Instance(typesys.FloatClass)
	case ast.StringLit:
		if v, ok := n.Value.(string); ok {
			return typesys.StrLiteral(v)
		}
		return typesys.Instance(typesys.StrClass)
	case ast.BytesLit:
		return typesys.Instance(typesys.BytesClass)
	case ast.BoolLit:
		if v, ok := n.Value.(bool); ok {
			return typesys.BoolLiteral(v)
		}
		return typesys.Instance(typesys.BoolClass)
	case ast.NoneLit:
		return typesys.TheNone
	case ast.EllipsisLit:
		return typesys.TheEllipsisAny
	default:
		return typesys.TheUnknown
	}
}

// memberResolver adapts symbolType to typeutils.MemberTypeResolver,
// the dependency-inversion seam typeutils.GetTypeFromIterable needs to
// resolve a found member's declared type without typeutils importing
// this package (internal/typeutils/iterable.go).
func (ev *Evaluator) memberResolver(env *Env) typeutils.MemberTypeResolver {
	return func(owner *typesys.Class, sym *symbols.Symbol) typesys.Type {
		return ev.boundMemberType(owner, sym, env)
	}
}

// boundMemberType resolves sym (found on owner) to its type, binding
// an instance method's first parameter away the way descriptor access
// through an instance does (spec §9 "bind_function_to_class_or_object").
func (ev *Evaluator) boundMemberType(owner *typesys.Class, sym *symbols.Symbol, env *Env) typesys.Type {
	t := ev.symbolType(sym, env.withClass(owner))
	if fn, ok := t.(*typesys.Function); ok && fn.Details.Flags.Has(typesys.FuncInstanceMethod) {
		return fn.Unbind()
	}
	return t
}
