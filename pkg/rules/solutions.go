package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
)

// defaultMarkers are the modal/necessity phrases that flag a clause as a
// candidate suggestion when the table does not declare its own.
var defaultMarkers = []string{
	"should", "need to", "needs to", "must",
	"could", "would help", "suggest", "recommend",
}

// SolutionCategory is one entry of the solution table: a named suggestion
// type with the keywords that place a clause into it.
type SolutionCategory struct {
	Key         string   `yaml:"key" validate:"required"`
	DisplayName string   `yaml:"display_name" validate:"required"`
	Keywords    []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// SolutionTable is the full solution category table plus the suggestion
// markers that gate extraction.
type SolutionTable struct {
	Markers    []string           `yaml:"markers"`
	Categories []SolutionCategory `yaml:"categories" validate:"required,min=1,dive"`
}

// LoadSolutions reads and validates the solution table at path.
func LoadSolutions(path string) (*SolutionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read solutions %s: %w", path, err)
	}
	return ParseSolutions(data)
}

// ParseSolutions parses and validates solution table YAML. Missing markers
// fall back to the default marker set.
func ParseSolutions(data []byte) (*SolutionTable, error) {
	var table SolutionTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse solutions: %w", err)
	}

	if err := validator.New().Struct(&table); err != nil {
		return nil, fmt.Errorf("solutions validation: %w", err)
	}

	if len(table.Markers) == 0 {
		table.Markers = append([]string(nil), defaultMarkers...)
	}
	for i, m := range table.Markers {
		table.Markers[i] = strings.ToLower(strings.TrimSpace(m))
	}

	seen := make(map[string]bool, len(table.Categories))
	for _, cat := range table.Categories {
		if seen[cat.Key] {
			return nil, fmt.Errorf("category %q: %w", cat.Key, apperrors.ErrDuplicateCategory)
		}
		seen[cat.Key] = true

		if len(cat.Keywords) == 0 {
			return nil, fmt.Errorf("category %q: %w", cat.Key, apperrors.ErrEmptyKeywords)
		}
	}

	return &table, nil
}
