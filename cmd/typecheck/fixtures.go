package main

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/checker"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
)

// Scenario is a hand-built ast.Module standing in for a source file,
// paired with the Scope a parser/binder/importer would otherwise have
// produced for it. Every Scenario replays one of the end-to-end walks
// the checker is expected to handle.
type Scenario struct {
	Name        string
	Description string
	// Want, if non-empty, is the single rule every run of Check is
	// expected to report at least once; empty means "no diagnostics".
	Want errors.Rule
	// Check runs the scenario's fixture against the given Checker; what
	// it finds goes to that Checker's sink rather than being returned.
	// The overload-selection scenario replays more than one call against
	// the same bindings inside a single module.
	Check func(c *checker.Checker)
}

func fixtureSpan() ast.Span { return ast.NewSpan("<fixture>", 1, 1, 1, 1) }

func fname(n string) *ast.NameExpr { return ast.NewNameExpr(n, fixtureSpan()) }

func fparam(name string, annotation ast.Expr) *ast.Param {
	return ast.NewParam(name, annotation, nil, ast.ParamSimple, fixtureSpan())
}

// bindIntrinsic binds name to t in scope via a DeclIntrinsic
// declaration — the seam a name with no declaring node (a builtin, or
// a synthesised overload set) resolves through.
func bindIntrinsic(scope *symbols.Scope, name string, t typesys.Type) {
	sym := symbols.New(name, 0)
	sym.AddDeclaration(&symbols.Declaration{Kind: symbols.DeclIntrinsic, Path: "<builtins>", Range: fixtureSpan()})
	sym.UndeclaredType = t
	scope.Table.Set(name, sym)
}

// builtinsScope seeds the handful of names the scenarios call as bare
// globals (isinstance, and the class objects its second argument and
// evalCallArgs's value-position evaluation both need bound) — the
// minimal stand-in for the builtins module scope the out-of-scope
// importer would otherwise supply.
func builtinsScope() *symbols.Scope {
	scope := symbols.NewScope(symbols.ScopeBuiltin, nil)
	bindIntrinsic(scope, "int", typesys.IntClass)
	bindIntrinsic(scope, "str", typesys.StrClass)
	bindIntrinsic(scope, "bool", typesys.BoolClass)
	bindIntrinsic(scope, "float", typesys.FloatClass)
	bindIntrinsic(scope, "isinstance", &typesys.Function{Details: &typesys.FuncDetails{
		Name: "isinstance",
		Params: []typesys.FuncParam{
			{Name: "obj", Kind: typesys.ParamSimple, Type: typesys.TheAny},
			{Name: "class_or_tuple", Kind: typesys.ParamSimple, Type: typesys.TheAny},
		},
		Declared: typesys.Instance(typesys.BoolClass),
	}})
	return scope
}

// Scenarios returns the fixture set spec's six end-to-end walks
// compile down to.
func Scenarios() []Scenario {
	return []Scenario{
		optionalMemberAccessScenario(),
		narrowingAcrossIsinstanceScenario(),
		redundantIsinstanceScenario(),
		overloadSelectionScenario(),
		overrideIncompatibilityScenario(),
		duplicateImportScenario(),
	}
}

// optionalMemberAccessScenario: a function whose parameter is
// Optional[Widget] accesses an attribute directly, without narrowing
// away the None first.
func optionalMemberAccessScenario() Scenario {
	return Scenario{
		Name:        "optional-member-access",
		Description: "accessing a member of an Optional[T] parameter without narrowing first",
		Want:        errors.ReportOptionalMemberAccess,
		Check: func(c *checker.Checker) {
			drawMethod := ast.NewFunctionDef("draw", []*ast.Param{fparam("self", nil)}, fname("None"),
				[]ast.Stmt{ast.NewPassStmt(fixtureSpan())}, nil, false, fixtureSpan())
			widget := ast.NewClassDef("Widget", nil, nil, []ast.Stmt{drawMethod}, nil, fixtureSpan())

			optionalWidget := ast.NewIndexExpr(fname("Optional"), []ast.Expr{fname("Widget")}, fixtureSpan())
			call := ast.NewCallExpr(ast.NewMemberExpr(fname("x"), "draw", fixtureSpan()), nil, fixtureSpan())
			fn := ast.NewFunctionDef("f", []*ast.Param{fparam("x", optionalWidget)}, fname("None"),
				[]ast.Stmt{ast.NewExprStmt(call, fixtureSpan())}, nil, false, fixtureSpan())

			mod := ast.NewModule("<fixture>", "fixture", []ast.Stmt{widget, fn}, false, fixtureSpan())
			c.CheckModule(mod)
		},
	}
}

// narrowingAcrossIsinstanceScenario: inside an isinstance(x, str)
// branch, assigning x to a str-annotated local must type-check clean
// — proof the isinstance narrowing actually took effect.
func narrowingAcrossIsinstanceScenario() Scenario {
	return Scenario{
		Name:        "narrowing-across-isinstance",
		Description: "isinstance(x, str) narrows x to str for the rest of that branch",
		Check: func(c *checker.Checker) {
			union := ast.NewIndexExpr(fname("Union"), []ast.Expr{fname("int"), fname("str")}, fixtureSpan())
			isinstanceCall := ast.NewCallExpr(fname("isinstance"), []ast.Arg{
				{Value: fname("x"), Category: ast.ArgSimple},
				{Value: fname("str"), Category: ast.ArgSimple},
			}, fixtureSpan())
			narrowedAssign := ast.NewAssignStmt([]ast.Expr{fname("s")}, fname("x"), fname("str"), fixtureSpan())
			ifStmt := ast.NewIfStmt(isinstanceCall, []ast.Stmt{
				narrowedAssign,
				ast.NewReturnStmt(ast.NewLiteral(ast.IntLit, int64(0), fixtureSpan()), fixtureSpan()),
			}, nil, fixtureSpan())
			fallthroughReturn := ast.NewReturnStmt(ast.NewLiteral(ast.IntLit, int64(0), fixtureSpan()), fixtureSpan())
			fn := ast.NewFunctionDef("g", []*ast.Param{fparam("x", union)}, fname("int"),
				[]ast.Stmt{ifStmt, fallthroughReturn}, nil, false, fixtureSpan())

			mod := ast.NewModule("<fixture>", "fixture", []ast.Stmt{fn}, false, fixtureSpan())
			c.CheckModuleWithParentScope(mod, builtinsScope())
		},
	}
}

// redundantIsinstanceScenario: isinstance(x, int) where x is already
// declared int — the check can never fail, so it's flagged.
func redundantIsinstanceScenario() Scenario {
	return Scenario{
		Name:        "redundant-isinstance",
		Description: "isinstance(x, int) where x's declared type is already int",
		Want:        errors.ReportUnnecessaryIsInstance,
		Check: func(c *checker.Checker) {
			isinstanceCall := ast.NewCallExpr(fname("isinstance"), []ast.Arg{
				{Value: fname("x"), Category: ast.ArgSimple},
				{Value: fname("int"), Category: ast.ArgSimple},
			}, fixtureSpan())
			fn := ast.NewFunctionDef("h", []*ast.Param{fparam("x", fname("int"))}, fname("bool"),
				[]ast.Stmt{ast.NewReturnStmt(isinstanceCall, fixtureSpan())}, nil, false, fixtureSpan())

			mod := ast.NewModule("<fixture>", "fixture", []ast.Stmt{fn}, false, fixtureSpan())
			c.CheckModuleWithParentScope(mod, builtinsScope())
		},
	}
}

// overloadSelectionScenario: a bare name "f" bound directly to a
// two-variant OverloadedFunction (no declaring FunctionDef for either
// variant — there's no importer here to have parsed an @overload
// stub from). One call matches no variant cleanly; the other resolves
// to the first.
func overloadSelectionScenario() Scenario {
	return Scenario{
		Name:        "overload-selection",
		Description: "calling an overloaded intrinsic with an argument no variant accepts",
		Want:        errors.ReportGeneralTypeIssues,
		Check: func(c *checker.Checker) {
			intVariant := &typesys.Function{Details: &typesys.FuncDetails{
				Name:     "f",
				Params:   []typesys.FuncParam{{Name: "n", Kind: typesys.ParamSimple, Type: typesys.Instance(typesys.IntClass)}},
				Declared: typesys.Instance(typesys.StrClass),
			}}
			strVariant := &typesys.Function{Details: &typesys.FuncDetails{
				Name:     "f",
				Params:   []typesys.FuncParam{{Name: "s", Kind: typesys.ParamSimple, Type: typesys.Instance(typesys.StrClass)}},
				Declared: typesys.Instance(typesys.IntClass),
			}}
			overload := &typesys.OverloadedFunction{Name: "f", Variants: []*typesys.Function{intVariant, strVariant}}

			scope := symbols.NewScope(symbols.ScopeModule, nil)
			bindIntrinsic(scope, "f", overload)

			noMatch := ast.NewCallExpr(fname("f"), []ast.Arg{
				{Value: ast.NewLiteral(ast.FloatLit, 1.0, fixtureSpan()), Category: ast.ArgSimple},
			}, fixtureSpan())
			clean := ast.NewCallExpr(fname("f"), []ast.Arg{
				{Value: ast.NewLiteral(ast.IntLit, int64(1), fixtureSpan()), Category: ast.ArgSimple},
			}, fixtureSpan())
			mod := ast.NewModule("<fixture>", "fixture", []ast.Stmt{
				ast.NewExprStmt(noMatch, fixtureSpan()),
				ast.NewExprStmt(clean, fixtureSpan()),
			}, false, fixtureSpan())
			c.CheckModuleWithScope(mod, scope)
		},
	}
}

// overrideIncompatibilityScenario: Derived.m narrows a parameter's
// type against Base.m, which CanOverrideSignature rejects.
func overrideIncompatibilityScenario() Scenario {
	return Scenario{
		Name:        "override-incompatibility",
		Description: "a subclass method whose parameter type is incompatible with the base method it overrides",
		Want:        errors.ReportIncompatibleMethodOverride,
		Check: func(c *checker.Checker) {
			baseMethod := ast.NewFunctionDef("m", []*ast.Param{
				fparam("self", nil), fparam("x", fname("int")),
			}, fname("int"), []ast.Stmt{ast.NewReturnStmt(fname("x"), fixtureSpan())}, nil, false, fixtureSpan())
			base := ast.NewClassDef("A", nil, nil, []ast.Stmt{baseMethod}, nil, fixtureSpan())

			overrideMethod := ast.NewFunctionDef("m", []*ast.Param{
				fparam("self", nil), fparam("x", fname("str")),
			}, fname("int"), []ast.Stmt{
				ast.NewReturnStmt(ast.NewLiteral(ast.IntLit, int64(0), fixtureSpan()), fixtureSpan()),
			}, nil, false, fixtureSpan())
			derived := ast.NewClassDef("B", []ast.Expr{fname("A")}, nil, []ast.Stmt{overrideMethod}, nil, fixtureSpan())

			mod := ast.NewModule("<fixture>", "fixture", []ast.Stmt{base, derived}, false, fixtureSpan())
			c.CheckModule(mod)
		},
	}
}

// duplicateImportScenario: the same module imported twice under the
// same name reports once, on the second occurrence.
func duplicateImportScenario() Scenario {
	return Scenario{
		Name:        "duplicate-import",
		Description: "the same module imported twice under the same bound name",
		Want:        errors.ReportDuplicateImport,
		Check: func(c *checker.Checker) {
			mod := ast.NewModule("<fixture>", "fixture", []ast.Stmt{
				ast.NewImportStmt([]ast.ImportAlias{{Path: "os"}}, fixtureSpan()),
				ast.NewImportStmt([]ast.ImportAlias{{Path: "os"}}, fixtureSpan()),
			}, false, fixtureSpan())
			c.CheckModule(mod)
		},
	}
}
