// Package rules loads and validates the static rule tables: the two-level
// theme taxonomy and the solution category table. Tables are read once at
// startup, validated before any comment is processed, and immutable for the
// lifetime of a run.
package rules

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
)

// ThemeDefinition is one taxonomy entry. Include and Exclude hold
// case-insensitive regular expressions; plain keywords are valid patterns
// and match as substrings. A theme with a Parent is a subtheme, evaluated
// independently of its parent's match outcome.
type ThemeDefinition struct {
	Name    string   `yaml:"name" validate:"required"`
	Parent  string   `yaml:"parent"`
	Include []string `yaml:"include" validate:"required,min=1,dive,required"`
	Exclude []string `yaml:"exclude"`

	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// IsSubtheme reports whether the definition has a parent theme.
func (t *ThemeDefinition) IsSubtheme() bool {
	return t.Parent != ""
}

// MatchInclude returns the first include pattern that matches text, or ""
// when none match. Matching is case-insensitive.
func (t *ThemeDefinition) MatchInclude(text string) string {
	for i, re := range t.include {
		if re.MatchString(text) {
			return t.Include[i]
		}
	}
	return ""
}

// MatchExclude returns the first exclude pattern that matches text, or ""
// when none match. Any exclude hit vetoes the theme regardless of includes.
func (t *ThemeDefinition) MatchExclude(text string) string {
	for i, re := range t.exclude {
		if re.MatchString(text) {
			return t.Exclude[i]
		}
	}
	return ""
}

// Taxonomy is the full ordered theme table.
type Taxonomy struct {
	Themes []ThemeDefinition `yaml:"themes" validate:"required,min=1,dive"`
}

// ByName returns the definition for name, or nil when absent.
func (x *Taxonomy) ByName(name string) *ThemeDefinition {
	for i := range x.Themes {
		if x.Themes[i].Name == name {
			return &x.Themes[i]
		}
	}
	return nil
}

// LoadTaxonomy reads, validates, and compiles the taxonomy table at path.
// All validation happens here, before any comment is processed.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	return ParseTaxonomy(data)
}

// ParseTaxonomy parses and validates taxonomy YAML.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}

	if err := validator.New().Struct(&tax); err != nil {
		return nil, fmt.Errorf("taxonomy validation: %w", err)
	}

	seen := make(map[string]bool, len(tax.Themes))
	for i := range tax.Themes {
		th := &tax.Themes[i]

		if seen[th.Name] {
			return nil, fmt.Errorf("theme %q: %w", th.Name, apperrors.ErrDuplicateTheme)
		}
		seen[th.Name] = true

		if len(th.Include) == 0 {
			return nil, fmt.Errorf("theme %q: %w", th.Name, apperrors.ErrEmptyIncludes)
		}

		include, err := compilePatterns(th.Include)
		if err != nil {
			return nil, fmt.Errorf("theme %q include: %w", th.Name, err)
		}
		exclude, err := compilePatterns(th.Exclude)
		if err != nil {
			return nil, fmt.Errorf("theme %q exclude: %w", th.Name, err)
		}
		th.include, th.exclude = include, exclude
	}

	// Parents must be declared themes. Declaration order is free: a subtheme
	// may appear before its parent in the file.
	for i := range tax.Themes {
		th := &tax.Themes[i]
		if th.Parent != "" && !seen[th.Parent] {
			return nil, fmt.Errorf("theme %q parent %q: %w", th.Name, th.Parent, apperrors.ErrUnknownParent)
		}
	}

	return &tax, nil
}

// compilePatterns compiles patterns case-insensitively. A pattern that is
// not valid regex syntax is a configuration error, rejected at load time.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
