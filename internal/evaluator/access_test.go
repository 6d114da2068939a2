package evaluator

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/typesys"
)

func TestMemberAccessResolvesInstanceAttribute(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	initFd := ast.NewFunctionDef(
		"__init__",
		[]*ast.Param{ast.NewParam("self", nil, nil, ast.ParamSimple, span)},
		nil, []ast.Stmt{
			ast.NewAssignStmt(
				[]ast.Expr{ast.NewMemberExpr(ast.NewNameExpr("self", span), "value", span)},
				ast.NewLiteral(ast.IntLit, int64(0), span),
				nil, span,
			),
		}, nil, false, span,
	)
	cd := ast.NewClassDef("Box", nil, nil, []ast.Stmt{initFd}, nil, span)
	declareClass(env.Scope, cd)
	declareVar(env.Scope, "b", ast.NewNameExpr("Box", span), 0)

	member := ast.NewMemberExpr(ast.NewNameExpr("b", span), "value", span)
	got := ev.GetType(member, env, UsageGet)
	if !typesys.IsSame(got, typesys.IntLiteral(0)) {
		t.Fatalf("expected b.value to be Literal[0], got %s", got)
	}
	if len(sink.Reports) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", sink.Reports)
	}
}

func TestMemberAccessUnknownAttributeReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	cd := ast.NewClassDef("Box", nil, nil, nil, nil, span)
	declareClass(env.Scope, cd)
	declareVar(env.Scope, "b", ast.NewNameExpr("Box", span), 0)

	member := ast.NewMemberExpr(ast.NewNameExpr("b", span), "missing", span)
	ev.GetType(member, env, UsageGet)
	if len(sink.Reports) != 1 || sink.Reports[0].Rule != errors.ReportGeneralTypeIssues {
		t.Fatalf("expected one reportGeneralTypeIssues, got %+v", sink.Reports)
	}
}

func TestMemberAccessOnOptionalReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	cd := ast.NewClassDef("Box", nil, nil, nil, nil, span)
	declareClass(env.Scope, cd)
	optionalAnnotation := ast.NewBinaryExpr("|", ast.NewNameExpr("Box", span), ast.NewLiteral(ast.NoneLit, nil, span), span)
	declareVar(env.Scope, "b", optionalAnnotation, 0)

	member := ast.NewMemberExpr(ast.NewNameExpr("b", span), "anything", span)
	ev.GetType(member, env, UsageGet)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportOptionalMemberAccess {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reportOptionalMemberAccess, got %+v", sink.Reports)
	}
}

func TestPrivateUsageOutsideClassReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	fieldFd := ast.NewFunctionDef(
		"_helper",
		[]*ast.Param{ast.NewParam("self", nil, nil, ast.ParamSimple, span)},
		ast.NewNameExpr("int", span), nil, nil, false, span,
	)
	cd := ast.NewClassDef("Box", nil, nil, []ast.Stmt{fieldFd}, nil, span)
	declareClass(env.Scope, cd)
	declareVar(env.Scope, "b", ast.NewNameExpr("Box", span), 0)

	member := ast.NewMemberExpr(ast.NewNameExpr("b", span), "_helper", span)
	ev.GetType(member, env, UsageGet)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportPrivateUsage {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reportPrivateUsage, got %+v", sink.Reports)
	}
}

func TestIndexListElementType(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	list := ast.NewListExpr([]ast.Expr{
		ast.NewLiteral(ast.IntLit, int64(1), span),
		ast.NewLiteral(ast.IntLit, int64(2), span),
	}, span)
	nameSym := declareVar(env.Scope, "xs", nil, 0)
	env = ev.bindAssignTarget(ast.NewNameExpr("xs", span), ev.GetType(list, env, UsageGet), env)
	_ = nameSym

	idx := ast.NewIndexExpr(ast.NewNameExpr("xs", span), []ast.Expr{ast.NewLiteral(ast.IntLit, int64(0), span)}, span)
	got := ev.GetType(idx, env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected list[int][0] to be int, got %s", got)
	}
}

func TestIndexTupleLiteralPosition(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	tuple := ast.NewTupleExpr([]ast.Expr{
		ast.NewLiteral(ast.IntLit, int64(1), span),
		ast.NewLiteral(ast.StringLit, "a", span),
	}, span)
	declareVar(env.Scope, "t", nil, 0)
	env = ev.bindAssignTarget(ast.NewNameExpr("t", span), ev.GetType(tuple, env, UsageGet), env)

	idx := ast.NewIndexExpr(ast.NewNameExpr("t", span), []ast.Expr{ast.NewLiteral(ast.IntLit, int64(1), span)}, span)
	got := ev.GetType(idx, env, UsageGet)
	if !typesys.IsSame(got, typesys.StrLiteral("a")) {
		t.Fatalf("expected tuple[1] to be Literal['a'], got %s", got)
	}
}

func TestIndexOnOptionalReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	listType := typesys.Instance(typesys.ListClass.Specialize([]typesys.Type{typesys.Instance(typesys.IntClass)}))
	optional := typesys.UnionOf(listType, typesys.TheNone)
	declareVar(env.Scope, "xs", nil, 0)
	sym, _ := env.Scope.Table.Get("xs")
	narrowedEnv := env.narrowed(sym, optional)

	idx := ast.NewIndexExpr(ast.NewNameExpr("xs", span), []ast.Expr{ast.NewLiteral(ast.IntLit, int64(0), span)}, span)
	ev.GetType(idx, narrowedEnv, UsageGet)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportOptionalSubscript {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reportOptionalSubscript, got %+v", sink.Reports)
	}
}

func TestCallFunctionArgumentMismatchReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	fd := ast.NewFunctionDef(
		"takesInt",
		[]*ast.Param{ast.NewParam("n", ast.NewNameExpr("int", span), nil, ast.ParamSimple, span)},
		ast.NewNameExpr("int", span), nil, nil, false, span,
	)
	declareFunc(env.Scope, fd)

	call := ast.NewCallExpr(ast.NewNameExpr("takesInt", span), []ast.Arg{
		{Value: ast.NewLiteral(ast.StringLit, "x", span)},
	}, span)
	ev.GetType(call, env, UsageGet)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportGeneralTypeIssues {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reportGeneralTypeIssues for the argument mismatch, got %+v", sink.Reports)
	}
}

func TestCallFunctionMissingArgumentReports(t *testing.T) {
	ev, env, sink := newModuleEnv()
	span := testSpan()
	fd := ast.NewFunctionDef(
		"takesInt",
		[]*ast.Param{ast.NewParam("n", ast.NewNameExpr("int", span), nil, ast.ParamSimple, span)},
		ast.NewNameExpr("int", span), nil, nil, false, span,
	)
	declareFunc(env.Scope, fd)

	call := ast.NewCallExpr(ast.NewNameExpr("takesInt", span), nil, span)
	ev.GetType(call, env, UsageGet)
	if len(sink.Reports) != 1 || sink.Reports[0].Rule != errors.ReportGeneralTypeIssues {
		t.Fatalf("expected one reportGeneralTypeIssues for the missing argument, got %+v", sink.Reports)
	}
}
