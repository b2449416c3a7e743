package models

import (
	"time"

	"github.com/google/uuid"
)

// SentimentBreakdown holds sentence-granularity sentiment counts and the
// derived percentages for one aggregate bucket. Percentages are over scored
// sentences only.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`

	PositivePct float64 `json:"positive_pct"`
	NeutralPct  float64 `json:"neutral_pct"`
	NegativePct float64 `json:"negative_pct"`
}

// Total returns the number of scored sentences in the breakdown.
func (b SentimentBreakdown) Total() int {
	return b.Positive + b.Neutral + b.Negative
}

// ThemeCount pairs a theme name with its comment count inside a bucket.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// AggregateBucket is the computed summary for one grouping key (a department
// name, a theme name, or the overall corpus). Buckets are rebuilt fresh on
// every analysis run and never mutated incrementally.
type AggregateBucket struct {
	Key          string             `json:"key"`
	CommentCount int                `json:"comment_count"`
	Sentences    SentimentBreakdown `json:"sentences"`

	// SentimentRatio is (positive - negative) / scored sentences, in [-1, +1].
	SentimentRatio float64 `json:"sentiment_ratio"`

	TopThemes      []ThemeCount `json:"top_themes,omitempty"`
	SampleExcerpts []string     `json:"sample_excerpts,omitempty"`
	UnscoredCount  int          `json:"unscored_count"`
}

// Coverage reports how much of the corpus the classifier managed to score.
type Coverage struct {
	ScoredComments   int `json:"scored_comments"`
	UnscoredComments int `json:"unscored_comments"`
}

// AnalysisResult is the full output of one analysis run and the sole
// contract handed to serving and presentation layers.
type AnalysisResult struct {
	RunID       uuid.UUID `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Comments    []Comment                  `json:"comments"`
	Departments map[string]AggregateBucket `json:"departments"`
	Themes      map[string]AggregateBucket `json:"themes"`
	Overall     AggregateBucket            `json:"overall"`
	Coverage    Coverage                   `json:"coverage"`
}
