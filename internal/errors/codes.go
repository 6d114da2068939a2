// Package errors is the Diagnostics component (spec §6/§7): the closed
// reportXxx rule catalogue, severities, and the structured Report type
// every checker visitor emits instead of raising.
package errors

// Rule identifies one entry of the closed diagnostic-rule catalogue
// spec §6 requires the core to implement.
type Rule string

const (
	ReportUnknownParameterType        Rule = "reportUnknownParameterType"
	ReportUnknownLambdaType           Rule = "reportUnknownLambdaType"
	ReportUnknownVariableType         Rule = "reportUnknownVariableType"
	ReportUnknownMemberType           Rule = "reportUnknownMemberType"
	ReportMissingTypeStubs            Rule = "reportMissingTypeStubs"
	ReportImportCycles                Rule = "reportImportCycles"
	ReportUnusedImport                Rule = "reportUnusedImport"
	ReportUnusedClass                 Rule = "reportUnusedClass"
	ReportUnusedFunction              Rule = "reportUnusedFunction"
	ReportUnusedVariable              Rule = "reportUnusedVariable"
	ReportDuplicateImport             Rule = "reportDuplicateImport"
	ReportOptionalSubscript           Rule = "reportOptionalSubscript"
	ReportOptionalMemberAccess        Rule = "reportOptionalMemberAccess"
	ReportOptionalCall                Rule = "reportOptionalCall"
	ReportOptionalIterable            Rule = "reportOptionalIterable"
	ReportOptionalContextManager      Rule = "reportOptionalContextManager"
	ReportOptionalOperand             Rule = "reportOptionalOperand"
	ReportUntypedFunctionDecorator    Rule = "reportUntypedFunctionDecorator"
	ReportUntypedClassDecorator       Rule = "reportUntypedClassDecorator"
	ReportUntypedBaseClass            Rule = "reportUntypedBaseClass"
	ReportUntypedNamedTuple           Rule = "reportUntypedNamedTuple"
	ReportPrivateUsage                Rule = "reportPrivateUsage"
	ReportConstantRedefinition        Rule = "reportConstantRedefinition"
	ReportIncompatibleMethodOverride  Rule = "reportIncompatibleMethodOverride"
	ReportInvalidStringEscapeSequence Rule = "reportInvalidStringEscapeSequence"
	ReportAssertAlwaysTrue            Rule = "reportAssertAlwaysTrue"
	ReportSelfClsParameterName        Rule = "reportSelfClsParameterName"
	ReportImplicitStringConcatenation Rule = "reportImplicitStringConcatenation"
	ReportUndefinedVariable           Rule = "reportUndefinedVariable"
	ReportUnboundVariable             Rule = "reportUnboundVariable"
	ReportInvalidStubStatement        Rule = "reportInvalidStubStatement"
	ReportCallInDefaultInitializer    Rule = "reportCallInDefaultInitializer"
	ReportUnnecessaryIsInstance       Rule = "reportUnnecessaryIsInstance"
	ReportUnnecessaryCast             Rule = "reportUnnecessaryCast"
	ReportUnsupportedDunderAll        Rule = "reportUnsupportedDunderAll"
	ReportGeneralTypeIssues           Rule = "reportGeneralTypeIssues"
)

// Severity is a diagnostic's reporting level. Levels downgrade
// error -> warning -> information -> suppression per the active
// config.RuleConfig (spec §7 "rule levels downgrade ... per the
// diagnostic-rule set").
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
	SeverityNone        Severity = "none"
)

// Category groups rules by the taxonomy spec §7 lists (kinds, not
// Go types): used only for documentation/filtering, never for
// dispatch.
type Category string

const (
	CategoryTypeMismatch      Category = "type-mismatch"
	CategoryShapeMismatch     Category = "shape-mismatch"
	CategoryResolutionFailure Category = "resolution-failure"
	CategorySemanticViolation Category = "semantic-violation"
	CategoryStyleLint         Category = "style-lint"
	CategoryCompleteness      Category = "completeness"
)

// RuleInfo is the registry entry for one Rule: its default severity
// (before any config.RuleConfig override) and its taxonomy category.
type RuleInfo struct {
	Rule            Rule
	DefaultSeverity Severity
	Category        Category
	Description     string
}

// Registry maps every Rule in the closed catalogue to its RuleInfo.
// GetRuleInfo and the config loader both read this rather than
// hand-coding severities elsewhere.
var Registry = map[Rule]RuleInfo{
	ReportUnknownParameterType:        {ReportUnknownParameterType, SeverityWarning, CategoryCompleteness, "Parameter type is partially or fully unknown"},
	ReportUnknownLambdaType:           {ReportUnknownLambdaType, SeverityWarning, CategoryCompleteness, "Lambda parameter or return type is unknown"},
	ReportUnknownVariableType:         {ReportUnknownVariableType, SeverityWarning, CategoryCompleteness, "Variable's inferred type is unknown"},
	ReportUnknownMemberType:           {ReportUnknownMemberType, SeverityWarning, CategoryCompleteness, "Member's inferred type is unknown"},
	ReportMissingTypeStubs:            {ReportMissingTypeStubs, SeverityWarning, CategoryCompleteness, "No type stub found for an imported module"},
	ReportImportCycles:                {ReportImportCycles, SeverityWarning, CategoryResolutionFailure, "Import graph contains a cycle"},
	ReportUnusedImport:                {ReportUnusedImport, SeverityWarning, CategoryStyleLint, "Imported name is never used"},
	ReportUnusedClass:                 {ReportUnusedClass, SeverityWarning, CategoryStyleLint, "Private class is never used"},
	ReportUnusedFunction:              {ReportUnusedFunction, SeverityWarning, CategoryStyleLint, "Private function is never used"},
	ReportUnusedVariable:              {ReportUnusedVariable, SeverityWarning, CategoryStyleLint, "Private variable or parameter is never used"},
	ReportDuplicateImport:             {ReportDuplicateImport, SeverityWarning, CategoryStyleLint, "Module imported more than once"},
	ReportOptionalSubscript:           {ReportOptionalSubscript, SeverityError, CategoryTypeMismatch, "Subscript of a possibly-None value"},
	ReportOptionalMemberAccess:        {ReportOptionalMemberAccess, SeverityError, CategoryTypeMismatch, "Member access on a possibly-None value"},
	ReportOptionalCall:                {ReportOptionalCall, SeverityError, CategoryTypeMismatch, "Call of a possibly-None value"},
	ReportOptionalIterable:            {ReportOptionalIterable, SeverityError, CategoryTypeMismatch, "Iteration over a possibly-None value"},
	ReportOptionalContextManager:      {ReportOptionalContextManager, SeverityError, CategoryTypeMismatch, "Use of a possibly-None value as a context manager"},
	ReportOptionalOperand:             {ReportOptionalOperand, SeverityError, CategoryTypeMismatch, "Operand of a possibly-None value"},
	ReportUntypedFunctionDecorator:    {ReportUntypedFunctionDecorator, SeverityWarning, CategoryCompleteness, "Decorator obscures the decorated function's type"},
	ReportUntypedClassDecorator:       {ReportUntypedClassDecorator, SeverityWarning, CategoryCompleteness, "Decorator obscures the decorated class's type"},
	ReportUntypedBaseClass:            {ReportUntypedBaseClass, SeverityWarning, CategoryCompleteness, "Base class has an unknown type"},
	ReportUntypedNamedTuple:           {ReportUntypedNamedTuple, SeverityWarning, CategoryCompleteness, "NamedTuple call form has unknown field types"},
	ReportPrivateUsage:                {ReportPrivateUsage, SeverityError, CategoryStyleLint, "Access to a name-mangled private member from outside its class"},
	ReportConstantRedefinition:        {ReportConstantRedefinition, SeverityError, CategorySemanticViolation, "Final-declared symbol reassigned"},
	ReportIncompatibleMethodOverride:  {ReportIncompatibleMethodOverride, SeverityError, CategoryTypeMismatch, "Override signature incompatible with the base method"},
	ReportInvalidStringEscapeSequence: {ReportInvalidStringEscapeSequence, SeverityWarning, CategoryStyleLint, "Unrecognised escape sequence in a string literal"},
	ReportAssertAlwaysTrue:            {ReportAssertAlwaysTrue, SeverityWarning, CategoryStyleLint, "Assert test is a non-empty tuple, always true"},
	ReportSelfClsParameterName:        {ReportSelfClsParameterName, SeverityError, CategorySemanticViolation, "Instance/class method missing its conventional first parameter"},
	ReportImplicitStringConcatenation: {ReportImplicitStringConcatenation, SeverityNone, CategoryStyleLint, "Adjacent string literals concatenated implicitly"},
	ReportUndefinedVariable:           {ReportUndefinedVariable, SeverityError, CategoryResolutionFailure, "Name has no binding reachable from this scope"},
	ReportUnboundVariable:             {ReportUnboundVariable, SeverityError, CategoryResolutionFailure, "Name is possibly unbound along some control-flow path"},
	ReportInvalidStubStatement:        {ReportInvalidStubStatement, SeverityError, CategorySemanticViolation, "Statement form not permitted inside a stub file"},
	ReportCallInDefaultInitializer:    {ReportCallInDefaultInitializer, SeverityWarning, CategoryStyleLint, "Function call used as a default-parameter initializer"},
	ReportUnnecessaryIsInstance:       {ReportUnnecessaryIsInstance, SeverityWarning, CategoryStyleLint, "isinstance check whose result is always true or always false"},
	ReportUnnecessaryCast:             {ReportUnnecessaryCast, SeverityWarning, CategoryStyleLint, "cast() to the expression's already-known type"},
	ReportUnsupportedDunderAll:        {ReportUnsupportedDunderAll, SeverityWarning, CategorySemanticViolation, "__all__ entry is not statically resolvable"},
	ReportGeneralTypeIssues:           {ReportGeneralTypeIssues, SeverityError, CategoryTypeMismatch, "Catch-all for assignability, shape, and constructor-matching failures"},
}

// GetRuleInfo returns the registry entry for rule, and whether it was
// found (every Rule constant above is always found; the bool return
// lets callers handle a rule name loaded from untrusted config).
func GetRuleInfo(rule Rule) (RuleInfo, bool) {
	info, ok := Registry[rule]
	return info, ok
}
