// Package config loads the host-supplied, per-file configuration the
// checker consumes but never redesigns (spec §3 "per-file info"):
// a resolved diagnostic-rule-set, stub-file classification, the typing
// module path, and the target language version, loaded from a YAML
// document the same way a host process loads any other resolved spec
// file: unmarshal once at startup, hand the result to every file it
// processes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/gradualtype/internal/errors"
)

// RuleConfig is the diagnostic-rule-set from spec §3: each rule's
// level, overriding errors.Registry's compiled-in default.
type RuleConfig struct {
	Overrides map[errors.Rule]errors.Severity
}

// ruleConfigYAML is the on-disk shape: rule name -> severity string.
type ruleConfigYAML map[string]string

// Severity resolves rule's effective level: an override from this
// config if present, else the rule's registry default, else
// SeverityError for an unrecognised rule name (fail safe, not silent).
func (rc *RuleConfig) Severity(rule errors.Rule) errors.Severity {
	if rc != nil {
		if sev, ok := rc.Overrides[rule]; ok {
			return sev
		}
	}
	if info, ok := errors.GetRuleInfo(rule); ok {
		return info.DefaultSeverity
	}
	return errors.SeverityError
}

func parseRuleConfig(raw ruleConfigYAML) (*RuleConfig, error) {
	rc := &RuleConfig{Overrides: make(map[errors.Rule]errors.Severity, len(raw))}
	for name, level := range raw {
		rule := errors.Rule(name)
		if _, ok := errors.GetRuleInfo(rule); !ok {
			return nil, fmt.Errorf("unknown diagnostic rule %q in config", name)
		}
		sev := errors.Severity(strings.ToLower(level))
		switch sev {
		case errors.SeverityError, errors.SeverityWarning, errors.SeverityInformation, errors.SeverityNone:
		default:
			return nil, fmt.Errorf("rule %q: invalid severity %q", name, level)
		}
		rc.Overrides[rule] = sev
	}
	return rc, nil
}

// ProjectConfig is the on-disk project configuration file: rule-level
// overrides plus the importer/typing-module settings spec §3 says the
// binder supplies per file.
type ProjectConfig struct {
	Rules            ruleConfigYAML `yaml:"rules"`
	TypingModulePath string         `yaml:"typingModulePath"`
	LanguageVersion  string         `yaml:"languageVersion"`
	StubSearchPaths  []string       `yaml:"stubSearchPaths"`
	StubFiles        []string       `yaml:"stubFiles"`
}

// LoadProjectConfig reads and validates a YAML project configuration
// file. A missing languageVersion defaults to "3.12", matching the
// typing-module versioning the spec leaves to the binder.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.LanguageVersion == "" {
		cfg.LanguageVersion = "3.12"
	}
	if cfg.TypingModulePath == "" {
		cfg.TypingModulePath = "typing"
	}

	// Validate eagerly so a bad rule name fails at load time, not at
	// first use deep inside a checker run.
	if _, err := parseRuleConfig(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RuleConfig builds the resolved RuleConfig this project configuration
// describes.
func (c *ProjectConfig) RuleConfig() *RuleConfig {
	rc, _ := parseRuleConfig(c.Rules) // already validated by LoadProjectConfig
	return rc
}

// IsStubFile reports whether path is one of this project's declared
// stub files, either listed explicitly or ending in ".pyi".
func (c *ProjectConfig) IsStubFile(path string) bool {
	if strings.HasSuffix(path, ".pyi") {
		return true
	}
	for _, stub := range c.StubFiles {
		if stub == path {
			return true
		}
	}
	return false
}

// FileInfo is the per-file info the binder hands the checker instance
// for one source file (spec §3): everything except the node->scope
// mapping and accessed-symbols set, which only exist once the binder
// has actually walked this file's parse tree and so are supplied by
// the evaluator/checker at construction time, not loaded here.
type FileInfo struct {
	Path             string
	IsStubFile       bool
	TypingModulePath string
	LanguageVersion  string
	Rules            *RuleConfig
	ImporterMap      map[string]string // resolved module name -> file path
}

// NewFileInfo builds the static, config-derived portion of a FileInfo
// for path under project configuration cfg.
func NewFileInfo(cfg *ProjectConfig, path string, importerMap map[string]string) *FileInfo {
	return &FileInfo{
		Path:             path,
		IsStubFile:       cfg.IsStubFile(path),
		TypingModulePath: cfg.TypingModulePath,
		LanguageVersion:  cfg.LanguageVersion,
		Rules:            cfg.RuleConfig(),
		ImporterMap:      importerMap,
	}
}

// DefaultProjectConfig returns a ProjectConfig with every rule at its
// registry default — used when no config file is present (spec
// leaves "no config" well-defined: registry defaults apply).
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Rules:            ruleConfigYAML{},
		TypingModulePath: "typing",
		LanguageVersion:  "3.12",
	}
}

// FindProjectConfig walks up from dir looking for a
// "gradualtype.yaml" file, resolving a project's config relative to
// the invocation directory the way any config-searching CLI does.
func FindProjectConfig(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, "gradualtype.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
