package evaluator

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/typesys"
)

func TestBinaryNumericPromotion(t *testing.T) {
	ev, env, _ := newModuleEnv()
	declareVar(env.Scope, "a", ast.NewNameExpr("int", testSpan()), 0)
	declareVar(env.Scope, "b", ast.NewNameExpr("float", testSpan()), 0)
	bin := ast.NewBinaryExpr("+", ast.NewNameExpr("a", testSpan()), ast.NewNameExpr("b", testSpan()), testSpan())
	got := ev.GetType(bin, env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.FloatClass)) {
		t.Fatalf("expected int + float to promote to float, got %s", got)
	}
}

func TestBinaryComparisonIsBool(t *testing.T) {
	ev, env, _ := newModuleEnv()
	declareVar(env.Scope, "a", ast.NewNameExpr("int", testSpan()), 0)
	declareVar(env.Scope, "b", ast.NewNameExpr("int", testSpan()), 0)
	bin := ast.NewBinaryExpr("<", ast.NewNameExpr("a", testSpan()), ast.NewNameExpr("b", testSpan()), testSpan())
	got := ev.GetType(bin, env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.BoolClass)) {
		t.Fatalf("expected comparison to evaluate to bool, got %s", got)
	}
}

func TestUnaryNotIsBool(t *testing.T) {
	ev, env, _ := newModuleEnv()
	declareVar(env.Scope, "a", ast.NewNameExpr("int", testSpan()), 0)
	un := ast.NewUnaryExpr("not", ast.NewNameExpr("a", testSpan()), testSpan())
	got := ev.GetType(un, env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.BoolClass)) {
		t.Fatalf("expected 'not x' to evaluate to bool, got %s", got)
	}
}

func TestUnaryNegPreservesNumericType(t *testing.T) {
	ev, env, _ := newModuleEnv()
	declareVar(env.Scope, "a", ast.NewNameExpr("int", testSpan()), 0)
	un := ast.NewUnaryExpr("-", ast.NewNameExpr("a", testSpan()), testSpan())
	got := ev.GetType(un, env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected -x on an int to remain int, got %s", got)
	}
}

// TestBinaryDunderDispatch grounds operator resolution on a class
// defining only __add__, without relying on numeric promotion.
func TestBinaryDunderDispatch(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	addFd := ast.NewFunctionDef(
		"__add__",
		[]*ast.Param{
			ast.NewParam("self", nil, nil, ast.ParamSimple, span),
			ast.NewParam("other", nil, nil, ast.ParamSimple, span),
		},
		ast.NewNameExpr("int", span),
		nil, nil, false, span,
	)
	cd := ast.NewClassDef("Vector", nil, nil, []ast.Stmt{addFd}, nil, span)
	declareClass(env.Scope, cd)
	declareVar(env.Scope, "a", ast.NewNameExpr("Vector", span), 0)
	declareVar(env.Scope, "b", ast.NewNameExpr("Vector", span), 0)

	bin := ast.NewBinaryExpr("+", ast.NewNameExpr("a", span), ast.NewNameExpr("b", span), span)
	got := ev.GetType(bin, env, UsageGet)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected Vector.__add__ to dispatch and return int, got %s", got)
	}
}

func TestBoolOpAndDropsKnownTruthyFromNonFinalOperand(t *testing.T) {
	ev, env, _ := newModuleEnv()
	span := testSpan()
	bothBools := typesys.UnionOf(typesys.BoolLiteral(true), typesys.BoolLiteral(false))
	declareVar(env.Scope, "x", nil, 0)
	sym, _ := env.Scope.Table.Get("x")
	narrowedEnv := env.narrowed(sym, bothBools)

	boolOp := ast.NewBoolOpExpr("and", []ast.Expr{
		ast.NewNameExpr("x", span),
		ast.NewLiteral(ast.IntLit, int64(1), span),
	}, span)
	got := ev.GetType(boolOp, narrowedEnv, UsageGet)
	union, ok := got.(*typesys.Union)
	if !ok {
		t.Fatalf("expected a union result, got %T (%s)", got, got)
	}
	for _, m := range union.Members {
		if typesys.IsSame(m, typesys.BoolLiteral(true)) {
			t.Fatal("True should have been dropped from a non-final 'and' operand")
		}
	}
	foundFalse, foundOne := false, false
	for _, m := range union.Members {
		if typesys.IsSame(m, typesys.BoolLiteral(false)) {
			foundFalse = true
		}
		if typesys.IsSame(m, typesys.IntLiteral(1)) {
			foundOne = true
		}
	}
	if !foundFalse || !foundOne {
		t.Fatalf("expected both False and Literal[1] to survive, got %s", got)
	}
}
