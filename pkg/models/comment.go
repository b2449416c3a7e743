package models

import "github.com/google/uuid"

// DepartmentPlaceholder is assigned to rows with no department value so
// downstream grouping degrades gracefully to overall statistics.
const DepartmentPlaceholder = "Unspecified"

// Row is one raw input record as produced by the ingest layer.
type Row struct {
	Index      int    // zero-based position in the source file (excluding header)
	Department string // empty when the input has no department column
	Text       string
}

// Comment is one survey comment flowing through the pipeline. The derived
// fields are filled in by later stages; Sentiment is always recomputed from
// Sentences, never set independently.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	RowIndex   int       `json:"row_index"`
	Department string    `json:"department"`
	Text       string    `json:"text"`

	Sentences []Sentence      `json:"sentences,omitempty"`
	Sentiment SentimentLabel  `json:"sentiment,omitempty"`
	MeanScore float64         `json:"mean_score"`
	Themes    []string        `json:"themes"`
	Solutions []SolutionMatch `json:"solutions,omitempty"`
}

// Scored reports whether sentence-level sentiment is available for the comment.
func (c *Comment) Scored() bool {
	return c.Sentiment != SentimentUnscored && c.Sentiment != ""
}

// Sentence is an ordered segment of its parent comment's text. Sentences are
// owned exclusively by one Comment and are never shared.
type Sentence struct {
	Index      int            `json:"index"`
	Text       string         `json:"text"`
	Label      SentimentLabel `json:"label,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
}

// SolutionMatch records that a clause of a comment matched a solution
// category's keyword set.
type SolutionMatch struct {
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
}
