package checker

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/errors"
)

func simpleParam(name string, annotation ast.Expr) *ast.Param {
	return ast.NewParam(name, annotation, nil, ast.ParamSimple, testSpan())
}

func TestCheckFunctionDefMissingSelfReports(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("method", []*ast.Param{simpleParam("x", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	cd := ast.NewClassDef("C", nil, nil, []ast.Stmt{fd}, nil, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{cd}, false, testSpan())
	c.CheckModule(mod)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportSelfClsParameterName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportSelfClsParameterName, got %+v", sink.Reports)
	}
}

func TestCheckFunctionDefSelfOK(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("method", []*ast.Param{simpleParam("self", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	cd := ast.NewClassDef("C", nil, nil, []ast.Stmt{fd}, nil, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{cd}, false, testSpan())
	c.CheckModule(mod)
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportSelfClsParameterName {
			t.Fatalf("did not expect reportSelfClsParameterName, got %+v", sink.Reports)
		}
	}
}

func TestCheckFunctionDefClassmethodRequiresCls(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("make", []*ast.Param{simpleParam("self", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())},
		[]ast.Expr{name("classmethod")}, false, testSpan())
	cd := ast.NewClassDef("C", nil, nil, []ast.Stmt{fd}, nil, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{cd}, false, testSpan())
	c.CheckModule(mod)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportSelfClsParameterName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportSelfClsParameterName for a classmethod taking self, got %+v", sink.Reports)
	}
}

func TestCheckFunctionDefStaticmethodSkipsNameCheck(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("util", []*ast.Param{simpleParam("x", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())},
		[]ast.Expr{name("staticmethod")}, false, testSpan())
	cd := ast.NewClassDef("C", nil, nil, []ast.Stmt{fd}, nil, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{cd}, false, testSpan())
	c.CheckModule(mod)
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportSelfClsParameterName {
			t.Fatalf("did not expect reportSelfClsParameterName for staticmethod, got %+v", sink.Reports)
		}
	}
}

func TestCheckFunctionDefUnannotatedParamUnknownReports(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("f", []*ast.Param{simpleParam("x", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{fd}, false, testSpan())
	c.CheckModule(mod)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportUnknownParameterType {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportUnknownParameterType, got %+v", sink.Reports)
	}
}

func TestCheckFunctionDefMissingReturnReports(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("f", nil, name("int"),
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{fd}, false, testSpan())
	c.CheckModule(mod)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportGeneralTypeIssues {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportGeneralTypeIssues for a fall-through int-returning function, got %+v", sink.Reports)
	}
}

func TestCheckFunctionDefAlwaysReturnsNoReport(t *testing.T) {
	c, sink := newChecker()
	ret := ast.NewReturnStmt(ast.NewLiteral(ast.IntLit, int64(1), testSpan()), testSpan())
	fd := ast.NewFunctionDef("f", nil, name("int"), []ast.Stmt{ret}, nil, false, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{fd}, false, testSpan())
	c.CheckModule(mod)
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportGeneralTypeIssues {
			t.Fatalf("did not expect reportGeneralTypeIssues, got %+v", sink.Reports)
		}
	}
}

func TestCheckFunctionDefNoneReturnAllowsFallThrough(t *testing.T) {
	c, sink := newChecker()
	fd := ast.NewFunctionDef("f", nil, name("None"),
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	mod := ast.NewModule("test.py", "test", []ast.Stmt{fd}, false, testSpan())
	c.CheckModule(mod)
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportGeneralTypeIssues {
			t.Fatalf("did not expect reportGeneralTypeIssues, got %+v", sink.Reports)
		}
	}
}

func TestCheckClassDefOverrideIncompatibleReports(t *testing.T) {
	c, sink := newChecker()
	baseMethod := ast.NewFunctionDef("greet", []*ast.Param{
		simpleParam("self", nil), simpleParam("name", name("str")),
	}, nil, []ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	base := ast.NewClassDef("Base", nil, nil, []ast.Stmt{baseMethod}, nil, testSpan())

	overrideMethod := ast.NewFunctionDef("greet", []*ast.Param{
		simpleParam("self", nil), simpleParam("name", name("int")),
	}, nil, []ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	derived := ast.NewClassDef("Derived", []ast.Expr{name("Base")}, nil, []ast.Stmt{overrideMethod}, nil, testSpan())

	mod := ast.NewModule("test.py", "test", []ast.Stmt{base, derived}, false, testSpan())
	c.CheckModule(mod)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportIncompatibleMethodOverride {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportIncompatibleMethodOverride, got %+v", sink.Reports)
	}
}

func TestCheckClassDefFinalMethodOverrideReports(t *testing.T) {
	c, sink := newChecker()
	baseMethod := ast.NewFunctionDef("greet", []*ast.Param{simpleParam("self", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, []ast.Expr{name("final")}, false, testSpan())
	base := ast.NewClassDef("Base", nil, nil, []ast.Stmt{baseMethod}, nil, testSpan())

	overrideMethod := ast.NewFunctionDef("greet", []*ast.Param{simpleParam("self", nil)}, nil,
		[]ast.Stmt{ast.NewPassStmt(testSpan())}, nil, false, testSpan())
	derived := ast.NewClassDef("Derived", []ast.Expr{name("Base")}, nil, []ast.Stmt{overrideMethod}, nil, testSpan())

	mod := ast.NewModule("test.py", "test", []ast.Stmt{base, derived}, false, testSpan())
	c.CheckModule(mod)
	found := false
	for _, r := range sink.Reports {
		if r.Rule == errors.ReportIncompatibleMethodOverride {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportIncompatibleMethodOverride for a final-method override, got %+v", sink.Reports)
	}
}
