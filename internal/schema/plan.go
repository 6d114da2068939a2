// Package schema: the per-module batch report for one checked file.
// No cmd/typecheck command emits it.
package schema

import (
	"encoding/json"
	"fmt"
)

// ModuleReport is the structured output for one checked file: its
// diagnostics plus a completeness summary over its exported symbols,
// suitable for CI consumption or diffing against a golden file.
type ModuleReport struct {
	Schema      string            `json:"schema"`
	Path        string            `json:"path"`
	Diagnostics []DiagnosticEntry `json:"diagnostics"`
	Exports     []SymbolEntry     `json:"exports"`
	Stats       CompletenessStats `json:"stats"`
}

// DiagnosticEntry is a flattened errors.Report, kept free of an
// internal/errors import so schema stays a leaf package.
type DiagnosticEntry struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// SymbolEntry describes one module-level exported symbol and its
// resolved type's printed form.
type SymbolEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "class", "function", "variable"
	Type string `json:"type"`
}

// CompletenessStats tallies how many exported symbols carry a fully
// known type versus one that is partially or fully Unknown — the
// metric reportUnknownVariableType/reportUnknownParameterType drive.
type CompletenessStats struct {
	TotalSymbols     int `json:"totalSymbols"`
	FullyKnownTypes  int `json:"fullyKnownTypes"`
	PartiallyUnknown int `json:"partiallyUnknown"`
}

// NewModuleReport creates an empty report at the current schema
// version for the given file path.
func NewModuleReport(path string) *ModuleReport {
	return &ModuleReport{
		Schema:      ModuleV1,
		Path:        path,
		Diagnostics: []DiagnosticEntry{},
		Exports:     []SymbolEntry{},
	}
}

// AddDiagnostic appends one flattened diagnostic entry.
func (m *ModuleReport) AddDiagnostic(rule, severity, message string, line, column int) {
	m.Diagnostics = append(m.Diagnostics, DiagnosticEntry{
		Rule:     rule,
		Severity: severity,
		Message:  message,
		Line:     line,
		Column:   column,
	})
}

// AddExport appends one exported-symbol entry and updates Stats.
func (m *ModuleReport) AddExport(name, kind, typeStr string, fullyKnown bool) {
	m.Exports = append(m.Exports, SymbolEntry{Name: name, Kind: kind, Type: typeStr})
	m.Stats.TotalSymbols++
	if fullyKnown {
		m.Stats.FullyKnownTypes++
	} else {
		m.Stats.PartiallyUnknown++
	}
}

// ToJSON renders the report as deterministic, sorted-key JSON.
func (m *ModuleReport) ToJSON() ([]byte, error) {
	data, err := MarshalDeterministic(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal module report: %w", err)
	}
	return FormatJSON(data)
}

// ModuleReportFromJSON loads a report from JSON bytes, validating its
// schema version.
func ModuleReportFromJSON(data []byte) (*ModuleReport, error) {
	var m ModuleReport
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal module report: %w", err)
	}
	if m.Schema != ModuleV1 {
		return nil, fmt.Errorf("unsupported module report schema: %s (expected %s)", m.Schema, ModuleV1)
	}
	return &m, nil
}
