package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sunholo/gradualtype/internal/errors"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadProjectConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gradualtype.yaml", "rules:\n  reportUndefinedVariable: error\n")

	cfg, err := LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if cfg.LanguageVersion != "3.12" {
		t.Errorf("expected default languageVersion 3.12, got %s", cfg.LanguageVersion)
	}
	if cfg.TypingModulePath != "typing" {
		t.Errorf("expected default typingModulePath 'typing', got %s", cfg.TypingModulePath)
	}
}

func TestLoadProjectConfigInvalidRuleName(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gradualtype.yaml", "rules:\n  reportNotARealRule: error\n")

	if _, err := LoadProjectConfig(path); err == nil {
		t.Fatal("expected an error for an unknown rule name")
	}
}

func TestLoadProjectConfigInvalidSeverity(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gradualtype.yaml", "rules:\n  reportUndefinedVariable: catastrophic\n")

	if _, err := LoadProjectConfig(path); err == nil {
		t.Fatal("expected an error for an invalid severity level")
	}
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	if _, err := LoadProjectConfig("/nonexistent/gradualtype.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestRuleConfigSeverityOverrideAndFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gradualtype.yaml", "rules:\n  reportUndefinedVariable: warning\n")

	cfg, err := LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	rc := cfg.RuleConfig()

	if got := rc.Severity(errors.ReportUndefinedVariable); got != errors.SeverityWarning {
		t.Errorf("expected override severity warning, got %s", got)
	}
	if got := rc.Severity(errors.ReportUnusedImport); got != errors.SeverityWarning {
		t.Errorf("expected registry default for un-overridden rule, got %s", got)
	}
}

func TestDefaultProjectConfigUsesRegistryDefaults(t *testing.T) {
	cfg := DefaultProjectConfig()
	rc := cfg.RuleConfig()
	if got := rc.Severity(errors.ReportGeneralTypeIssues); got != errors.SeverityError {
		t.Errorf("expected registry default error, got %s", got)
	}
}

func TestIsStubFile(t *testing.T) {
	cfg := DefaultProjectConfig()
	cfg.StubFiles = []string{"a/explicit.py"}

	if !cfg.IsStubFile("foo/bar.pyi") {
		t.Error("expected .pyi suffix to be treated as a stub file")
	}
	if !cfg.IsStubFile("a/explicit.py") {
		t.Error("expected an explicitly listed file to be treated as a stub file")
	}
	if cfg.IsStubFile("a/regular.py") {
		t.Error("expected a plain .py file not in the list to not be a stub file")
	}
}

func TestNewFileInfo(t *testing.T) {
	cfg := DefaultProjectConfig()
	importer := map[string]string{"os": "/stubs/os.pyi"}

	fi := NewFileInfo(cfg, "pkg/mod.py", importer)
	if fi.Path != "pkg/mod.py" {
		t.Errorf("expected path 'pkg/mod.py', got %s", fi.Path)
	}
	if fi.IsStubFile {
		t.Error("expected mod.py to not be a stub file")
	}
	if fi.ImporterMap["os"] != "/stubs/os.pyi" {
		t.Error("expected importer map to be carried through unchanged")
	}
	if fi.Rules == nil {
		t.Fatal("expected a non-nil resolved RuleConfig")
	}
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "gradualtype.yaml", "rules: {}\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	found, ok := FindProjectConfig(nested)
	if !ok {
		t.Fatal("expected to find the project config by walking up")
	}
	want := filepath.Join(root, "gradualtype.yaml")
	if found != want {
		t.Errorf("expected %s, got %s", want, found)
	}
}

func TestFindProjectConfigNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, ok := FindProjectConfig(dir); ok {
		t.Fatal("expected no project config to be found in an empty temp dir tree")
	}
}
