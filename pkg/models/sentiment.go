package models

// SentimentLabel is the discrete sentiment class attached to a sentence or
// derived for a whole comment.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"

	// SentimentUnscored marks a comment whose sentences could not be scored
	// (classifier failure). It is an explicit state so aggregates can report
	// coverage instead of silently defaulting to neutral.
	SentimentUnscored SentimentLabel = "unscored"
)

// Valid reports whether l is one of the known sentiment labels.
func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentUnscored:
		return true
	}
	return false
}

// SentimentScore is the classifier output for a single sentence.
type SentimentScore struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"` // 0.0 to 1.0
}

// Signed maps the score onto [-1, +1]: positive confidence for positive
// labels, negated confidence for negative labels, zero for neutral.
func (s SentimentScore) Signed() float64 {
	switch s.Label {
	case SentimentPositive:
		return s.Confidence
	case SentimentNegative:
		return -s.Confidence
	default:
		return 0
	}
}
