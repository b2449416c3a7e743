// Package themes evaluates comments against the theme taxonomy. A comment
// is assigned a theme when any include pattern matches and no exclude
// pattern does; exclusion always wins. Subthemes are evaluated on their own
// patterns, independent of the parent theme's outcome.
package themes

import (
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/rules"
)

// Classifier assigns taxonomy themes to comment text. The taxonomy is
// injected at construction and never mutated during a run, so a Classifier
// is safe for concurrent use.
type Classifier struct {
	taxonomy *rules.Taxonomy
	logger   *zap.Logger
}

// NewClassifier creates a classifier over the given taxonomy.
func NewClassifier(taxonomy *rules.Taxonomy, logger *zap.Logger) *Classifier {
	return &Classifier{
		taxonomy: taxonomy,
		logger:   logger.Named("themes"),
	}
}

// Assign returns the names of all themes matching text, in taxonomy
// declaration order. Matching is a monotone OR over include patterns vetoed
// by any exclude hit, so evaluation order cannot change the result set. A
// comment matching nothing gets an empty (non-nil) set and stays in the
// corpus for sentiment aggregation.
func (c *Classifier) Assign(text string) []string {
	assigned := make([]string, 0, 4)
	for i := range c.taxonomy.Themes {
		th := &c.taxonomy.Themes[i]
		if th.MatchInclude(text) == "" {
			continue
		}
		if th.MatchExclude(text) != "" {
			continue
		}
		assigned = append(assigned, th.Name)
	}
	return assigned
}

// MatchTrace records how one theme evaluated against a comment, for rule
// debugging. A single exclude keyword can silently zero a theme across a
// whole corpus; traces make that visible instead of mysterious.
type MatchTrace struct {
	Theme      string `json:"theme"`
	IncludeHit string `json:"include_hit,omitempty"` // first matching include pattern
	ExcludeHit string `json:"exclude_hit,omitempty"` // first matching exclude pattern
	Assigned   bool   `json:"assigned"`
}

// Explain evaluates text against every theme and reports which patterns
// fired. Themes with no include hit are omitted.
func (c *Classifier) Explain(text string) []MatchTrace {
	traces := make([]MatchTrace, 0, 4)
	for i := range c.taxonomy.Themes {
		th := &c.taxonomy.Themes[i]
		inc := th.MatchInclude(text)
		if inc == "" {
			continue
		}
		exc := th.MatchExclude(text)
		traces = append(traces, MatchTrace{
			Theme:      th.Name,
			IncludeHit: inc,
			ExcludeHit: exc,
			Assigned:   exc == "",
		})
	}
	return traces
}
