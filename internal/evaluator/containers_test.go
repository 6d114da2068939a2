package evaluator

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/typesys"
)

func TestListLiteralCombinesElementTypes(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	list := ast.NewListExpr([]ast.Expr{
		ast.NewLiteral(ast.IntLit, int64(1), span),
		ast.NewLiteral(ast.IntLit, int64(2), span),
	}, span)
	got := ev.GetType(list, env, UsageGet)
	obj, ok := got.(*typesys.Object)
	if !ok || obj.Class.Details.Name != "list" {
		t.Fatalf("expected a list instance, got %s", got)
	}
	elem := obj.Class.TypeArgAt(0)
	if !typesys.IsSame(elem, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected list element type int, got %s", elem)
	}
}

func TestEmptyListLiteralIsUnknownElement(t *testing.T) {
	ev, env, _ := newModuleEnv()
	got := ev.GetType(ast.NewListExpr(nil, testSpan()), env, UsageGet)
	obj := got.(*typesys.Object)
	if _, ok := obj.Class.TypeArgAt(0).(*typesys.Unknown); !ok {
		t.Fatalf("expected an empty list's element type to be Unknown, got %s", obj.Class.TypeArgAt(0))
	}
}

func TestDictLiteralMergeEntryFoldsInOtherKeyValue(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	base := ast.NewDictExpr(
		[]ast.Expr{ast.NewLiteral(ast.StringLit, "a", span)},
		[]ast.Expr{ast.NewLiteral(ast.IntLit, int64(1), span)},
		span,
	)
	merged := ast.NewDictExpr(
		[]ast.Expr{nil},
		[]ast.Expr{base},
		span,
	)
	got := ev.GetType(merged, env, UsageGet)
	obj, ok := got.(*typesys.Object)
	if !ok || obj.Class.Details.Name != "dict" {
		t.Fatalf("expected a dict instance, got %s", got)
	}
	key := obj.Class.TypeArgAt(0)
	val := obj.Class.TypeArgAt(1)
	if !typesys.IsSame(key, typesys.StrLiteral("a")) {
		t.Fatalf("expected merged dict's key type to come from the merged-in mapping, got %s", key)
	}
	if !typesys.IsSame(val, typesys.IntLiteral(1)) {
		t.Fatalf("expected merged dict's value type to come from the merged-in mapping, got %s", val)
	}
}

func TestComprehensionBindsLoopVariableWithoutLeakingToEnclosingScope(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	listType := typesys.Instance(typesys.ListClass.Specialize([]typesys.Type{typesys.Instance(typesys.IntClass)}))
	declareVar(env.Scope, "xs", nil, 0)
	declareVar(env.Scope, "x", nil, 0)
	sym := mustGet(t, env.Scope, "xs")
	env2 := env.narrowed(sym, listType)

	comp := ast.NewComprehensionExpr(
		ast.ComprehensionList,
		nil,
		ast.NewNameExpr("x", span),
		[]ast.CompClause{{Target: ast.NewNameExpr("x", span), Iter: ast.NewNameExpr("xs", span)}},
		span,
	)
	got := ev.GetType(comp, env2, UsageGet)
	obj, ok := got.(*typesys.Object)
	if !ok || obj.Class.Details.Name != "list" {
		t.Fatalf("expected the comprehension to produce a list, got %s", got)
	}
	if !typesys.IsSame(obj.Class.TypeArgAt(0), typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected the comprehension's element type to be int, got %s", obj.Class.TypeArgAt(0))
	}
	xSym := mustGet(t, env.Scope, "x")
	if _, narrowed := env2.narrowType(xSym); narrowed {
		t.Fatal("expected the comprehension's loop variable not to leak into the enclosing Env's narrowing")
	}
}

func TestForStatementBindsIterableElement(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	listType := typesys.Instance(typesys.ListClass.Specialize([]typesys.Type{typesys.Instance(typesys.StrClass)}))
	declareVar(env.Scope, "xs", nil, 0)
	sym := mustGet(t, env.Scope, "xs")
	env2 := env.narrowed(sym, listType)
	declareVar(env2.Scope, "item", nil, 0)

	forStmt := ast.NewForStmt(ast.NewNameExpr("item", span), ast.NewNameExpr("xs", span), nil, nil, false, span)
	env2 = ev.EvaluateTypesForStatement(forStmt, env2)

	got := ev.GetType(ast.NewNameExpr("item", span), env2, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.StrClass)) {
		t.Fatalf("expected 'for item in xs' to bind item to str, got %s", got)
	}
}

func TestReturnStmtIncompatibleWithDeclaredReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	funcEnv := env.withFunc(&typesys.FuncDetails{Name: "f", Declared: typesys.Instance(typesys.IntClass)})
	ret := ast.NewReturnStmt(ast.NewLiteral(ast.StringLit, "x", span), span)
	ev.EvaluateTypesForStatement(ret, funcEnv)
	if len(sink.Reports) != 1 || sink.Reports[0].Rule != errors.ReportGeneralTypeIssues {
		t.Fatalf("expected one reportGeneralTypeIssues for an incompatible return, got %+v", sink.Reports)
	}
}

func TestRaiseStmtNonExceptionReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	cd := ast.NewClassDef("NotAnException", nil, nil, nil, nil, span)
	declareClass(env.Scope, cd)
	declareVar(env.Scope, "e", ast.NewNameExpr("NotAnException", span), 0)

	raise := ast.NewRaiseStmt(ast.NewNameExpr("e", span), nil, span)
	ev.EvaluateTypesForStatement(raise, env)
	if len(sink.Reports) != 1 || sink.Reports[0].Rule != errors.ReportGeneralTypeIssues {
		t.Fatalf("expected one reportGeneralTypeIssues for raising a non-exception, got %+v", sink.Reports)
	}
}

func TestAugAssignStmtUsesDeclaredOperator(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	declareVar(env.Scope, "n", nil, 0)
	env = ev.bindAssignTarget(ast.NewNameExpr("n", span), typesys.IntLiteral(1), env)

	aug := ast.NewAugAssignStmt(ast.NewNameExpr("n", span), "+", ast.NewLiteral(ast.IntLit, int64(2), span), span)
	env = ev.EvaluateTypesForStatement(aug, env)
	if len(sink.Reports) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", sink.Reports)
	}
	got := ev.GetType(ast.NewNameExpr("n", span), env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected 'n += 2' to bind n to int, got %s", got)
	}
}
