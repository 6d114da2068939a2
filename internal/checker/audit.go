package checker

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/evaluator"
	"github.com/sunholo/gradualtype/internal/symbols"
)

// auditScope is the one-shot end-of-scope pass over scope.Table: unused
// private symbols, incompatible re-declarations of the same name, a
// reassigned Final, and (module scope only) a declared-but-unaliased
// TypeAlias form (spec §4.E "a one-shot end-of-module/end-of-scope
// symbol-table audit"). Iteration order follows SymbolTable's own
// insertion-ordered Names(), so diagnostics come out in source-declared
// order regardless of Go map iteration.
func (c *Checker) auditScope(scope *symbols.Scope, env *evaluator.Env) {
	for _, name := range scope.Table.Names() {
		sym, _ := scope.Table.Get(name)
		c.auditUnused(sym, scope.Kind)
		c.auditIncompatibleDeclarations(sym)
		c.auditFinal(sym)
		if scope.Kind == symbols.ScopeModule {
			c.auditTypeAlias(sym, env)
		}
	}
}

// auditUnused flags a symbol private "by name or by scope" (spec §4.E)
// that the walk never resolved through markAccessed: a leading-
// underscore name anywhere, or any ordinary local/parameter in function
// scope — a function's locals are invisible outside it regardless of
// name. Class scope is skipped: an unused private method/attribute is
// routine (properties, dunder hooks, overrides called only by a
// subclass) and not what reportUnused{Class,Function,Variable} are
// meant to catch.
func (c *Checker) auditUnused(sym *symbols.Symbol, kind symbols.ScopeKind) {
	if kind == symbols.ScopeClass || sym.Name == "_" {
		return
	}
	if kind != symbols.ScopeFunction && !isPrivateName(sym.Name) {
		return
	}
	if c.accessed[sym] {
		return
	}
	decl := sym.LastTypedDeclaration()
	if decl == nil && len(sym.Decls) > 0 {
		decl = sym.Decls[len(sym.Decls)-1]
	}
	if decl == nil {
		return
	}
	switch decl.Kind {
	case symbols.DeclFunction:
		c.report(errors.ReportUnusedFunction, decl.Range, "\""+sym.Name+"\" is never used")
	case symbols.DeclClass:
		c.report(errors.ReportUnusedClass, decl.Range, "\""+sym.Name+"\" is never used")
	case symbols.DeclVariable, symbols.DeclParameter:
		c.report(errors.ReportUnusedVariable, decl.Range, "\""+sym.Name+"\" is never used")
	case symbols.DeclAlias:
		c.report(errors.ReportUnusedImport, decl.Range, "\""+sym.Name+"\" is imported but never used")
	}
}

// auditIncompatibleDeclarations flags a symbol bound by two or more
// typed declarations whose shapes disagree — a function redefined as a
// class, or a variable re-annotated with an incompatible type — the
// kind of redeclaration spec §4.B treats as always-visible shape
// conflict rather than ordinary reassignment.
func (c *Checker) auditIncompatibleDeclarations(sym *symbols.Symbol) {
	typed := sym.GetTypedDeclarations()
	for i := 1; i < len(typed); i++ {
		prev, cur := typed[i-1], typed[i]
		if compatibleRedeclaration(prev, cur) {
			continue
		}
		c.report(errors.ReportGeneralTypeIssues, cur.Range,
			"\""+sym.Name+"\" is redeclared with an incompatible type")
	}
}

func compatibleRedeclaration(prev, cur *symbols.Declaration) bool {
	if prev.Kind != cur.Kind {
		return false
	}
	if prev.Kind != symbols.DeclVariable {
		return true
	}
	return sameAnnotationShape(prev.Annotation, cur.Annotation)
}

// sameAnnotationShape compares two annotation expressions syntactically
// rather than through the evaluator: a full type-equality check would
// need the declaring environment threaded through the audit, which the
// binder-stand-in scope walk does not keep per-declaration.
func sameAnnotationShape(a, b ast.Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// auditFinal flags a Final-annotated symbol with more than one
// declaration: the second binding is the reassignment spec §4.E
// reportConstantRedefinition exists to catch.
func (c *Checker) auditFinal(sym *symbols.Symbol) {
	decls := sym.Decls
	finalAt := -1
	for i, d := range decls {
		if d.IsFinal {
			finalAt = i
			break
		}
	}
	if finalAt == -1 || finalAt+1 >= len(decls) {
		return
	}
	c.report(errors.ReportConstantRedefinition, decls[finalAt+1].Range,
		"\""+sym.Name+"\" is declared Final and cannot be reassigned")
}

// auditTypeAlias resolves `Name = some_type_expr` bindings recognisable
// as an (old-style, unannotated) type alias: it exists to keep the
// alias's right-hand side from independently tripping
// reportUnknownVariableType the way an ordinary unresolved assignment
// would, by evaluating it once here as a type rather than a value.
func (c *Checker) auditTypeAlias(sym *symbols.Symbol, env *evaluator.Env) {
	decl := sym.LastTypedDeclaration()
	if decl == nil || decl.Kind != symbols.DeclVariable || decl.Annotation != nil {
		return
	}
	value, ok := decl.InferredFrom.(ast.Expr)
	if !ok || !isTypeAliasDecl(value) {
		return
	}
	c.Eval.EvalTypeExpr(value, env)
}

// isTypeAliasDecl recognises the syntactic shapes a bare assignment's
// right-hand side takes when it names a type rather than a value:
// a subscripted generic (`IntList = List[int]`), a union built with
// `|`, or a reference to another already-declared name.
func isTypeAliasDecl(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IndexExpr:
		return true
	case *ast.BinaryExpr:
		return v.Op == "|"
	case *ast.NameExpr:
		return true
	default:
		return false
	}
}
