package errors

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/gradualtype/internal/ast"
)

func span() ast.Span { return ast.NewSpan("f.py", 1, 0, 1, 5) }

func TestNewUsesRegistryDefaultSeverity(t *testing.T) {
	r := New(ReportUndefinedVariable, span(), "name 'x' is not defined")
	if r.Severity != SeverityError {
		t.Fatalf("expected reportUndefinedVariable to default to error, got %s", r.Severity)
	}
	if r.Schema != SchemaV1 {
		t.Fatalf("expected schema %s, got %s", SchemaV1, r.Schema)
	}
}

func TestNewWithSeverityOverridesDefault(t *testing.T) {
	r := NewWithSeverity(ReportUndefinedVariable, SeverityWarning, span(), "msg")
	if r.Severity != SeverityWarning {
		t.Fatalf("expected overridden severity warning, got %s", r.Severity)
	}
}

func TestWrapAndAsReportRoundTrip(t *testing.T) {
	r := New(ReportGeneralTypeIssues, span(), "boom")
	err := WrapReport(r)
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	got, ok := AsReport(err)
	if !ok || got != r {
		t.Fatal("expected AsReport to recover the exact Report")
	}
}

func TestWrapReportNilIsNilError(t *testing.T) {
	if WrapReport(nil) != nil {
		t.Fatal("expected WrapReport(nil) to be a nil error")
	}
}

func TestWithRelatedAndAction(t *testing.T) {
	base := New(ReportIncompatibleMethodOverride, span(), "B.m incompatible with A.m").
		WithRelated("base method declared here", "a.py", span()).
		WithAction("none", "adjust B.m's signature")
	if len(base.Related) != 1 {
		t.Fatal("expected one related-info entry")
	}
	if base.Action == nil || base.Action.Kind != "none" {
		t.Fatal("expected an attached action")
	}
}

func TestReportErrorMessageFormat(t *testing.T) {
	r := New(ReportUndefinedVariable, span(), "name 'x' is not defined")
	err := WrapReport(r)
	want := "reportUndefinedVariable: name 'x' is not defined"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestCollectingSinkPreservesReportShape(t *testing.T) {
	sink := &CollectingSink{}
	sink.Report(New(ReportIncompatibleMethodOverride, span(), "B.m incompatible with A.m").
		WithRelated("base method declared here", "a.py", span()))

	want := []*Report{
		{
			Schema:   SchemaV1,
			Rule:     ReportIncompatibleMethodOverride,
			Severity: SeverityError,
			Message:  "B.m incompatible with A.m",
			Span:     func() *ast.Span { s := span(); return &s }(),
			Related:  []RelatedInfo{{Message: "base method declared here", Path: "a.py", Range: span()}},
		},
	}
	if diff := cmp.Diff(want, sink.Reports); diff != "" {
		t.Fatalf("collected report diverged from expected shape (-want +got):\n%s", diff)
	}
}

func TestEveryCatalogueRuleHasRegistryEntry(t *testing.T) {
	rules := []Rule{
		ReportUnknownParameterType, ReportUnknownLambdaType, ReportUnknownVariableType,
		ReportUnknownMemberType, ReportMissingTypeStubs, ReportImportCycles,
		ReportUnusedImport, ReportUnusedClass, ReportUnusedFunction, ReportUnusedVariable,
		ReportDuplicateImport, ReportOptionalSubscript, ReportOptionalMemberAccess,
		ReportOptionalCall, ReportOptionalIterable, ReportOptionalContextManager,
		ReportOptionalOperand, ReportUntypedFunctionDecorator, ReportUntypedClassDecorator,
		ReportUntypedBaseClass, ReportUntypedNamedTuple, ReportPrivateUsage,
		ReportConstantRedefinition, ReportIncompatibleMethodOverride,
		ReportInvalidStringEscapeSequence, ReportAssertAlwaysTrue, ReportSelfClsParameterName,
		ReportImplicitStringConcatenation, ReportUndefinedVariable, ReportUnboundVariable,
		ReportInvalidStubStatement, ReportCallInDefaultInitializer, ReportUnnecessaryIsInstance,
		ReportUnnecessaryCast, ReportUnsupportedDunderAll, ReportGeneralTypeIssues,
	}
	if len(rules) != len(Registry) {
		t.Fatalf("test rule list (%d) and Registry (%d) have diverged", len(rules), len(Registry))
	}
	for _, rule := range rules {
		info, ok := GetRuleInfo(rule)
		if !ok {
			t.Errorf("rule %s missing from Registry", rule)
			continue
		}
		if info.Description == "" {
			t.Errorf("rule %s has no description", rule)
		}
	}
}
