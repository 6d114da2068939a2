package errors

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/gradualtype/internal/ast"
)

// RelatedInfo is one extra location attached to a Report — e.g. the
// base-class method an override is incompatible with (spec §6).
type RelatedInfo struct {
	Message string   `json:"message"`
	Path    string   `json:"path"`
	Range   ast.Span `json:"range"`
}

// Action is a suggested fix a diagnostic can carry, e.g. "unused
// import" carrying a remove-import action (spec §6).
type Action struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// SchemaV1 is the wire schema version every Report carries.
const SchemaV1 = "gradualtype.error/v1"

// Report is the structured diagnostic every checker visitor builds
// instead of raising (spec §6/§7). ReportError below wraps one as an
// error so it still survives ordinary Go error-handling code paths.
type Report struct {
	Schema   string         `json:"schema"`
	Rule     Rule           `json:"rule"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Span     *ast.Span      `json:"span,omitempty"`
	Related  []RelatedInfo  `json:"related,omitempty"`
	Action   *Action        `json:"action,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling code paths.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return string(e.Rep.Rule) + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error, or returns nil if r is nil.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the report as JSON; schema.MarshalDeterministic gives
// it sorted keys when a caller routes it through the schema package
// instead (cmd/typecheck's batch output does).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report at rule's registry default severity.
func New(rule Rule, span ast.Span, message string) *Report {
	severity := SeverityError
	if info, ok := GetRuleInfo(rule); ok {
		severity = info.DefaultSeverity
	}
	return &Report{
		Schema:   SchemaV1,
		Rule:     rule,
		Severity: severity,
		Message:  message,
		Span:     &span,
	}
}

// NewWithSeverity builds a Report at an explicit severity, bypassing
// the rule's registry default — used when config.RuleConfig overrides
// a rule's level for the current file.
func NewWithSeverity(rule Rule, severity Severity, span ast.Span, message string) *Report {
	r := New(rule, span, message)
	r.Severity = severity
	return r
}

// WithRelated appends one related-information entry and returns r.
func (r *Report) WithRelated(message, path string, span ast.Span) *Report {
	r.Related = append(r.Related, RelatedInfo{Message: message, Path: path, Range: span})
	return r
}

// WithAction attaches a suggested fix and returns r.
func (r *Report) WithAction(kind, description string) *Report {
	r.Action = &Action{Kind: kind, Description: description}
	return r
}

// WithData attaches a structured data payload (e.g. an overload
// resolution failure's argument-type list) and returns r.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}
