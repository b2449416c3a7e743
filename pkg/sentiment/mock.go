package sentiment

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/staffpulse/feedback-engine/pkg/models"
)

// MockScorer is a configurable mock for testing pipeline behavior without a
// live classifier. Set ScoreFunc to control behavior; the default is a tiny
// deterministic keyword heuristic good enough for fixtures.
type MockScorer struct {
	// ScoreFunc is called when ScoreSentence is invoked. If nil, the
	// keyword default is used.
	ScoreFunc func(ctx context.Context, text string) (models.SentimentScore, error)

	// ScoreCalls counts invocations for verification.
	ScoreCalls atomic.Int64
}

// NewMockScorer creates a mock with the deterministic keyword default.
func NewMockScorer() *MockScorer {
	return &MockScorer{}
}

// ScoreSentence implements Scorer.
func (m *MockScorer) ScoreSentence(ctx context.Context, text string) (models.SentimentScore, error) {
	m.ScoreCalls.Add(1)
	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, text)
	}
	return keywordScore(text), nil
}

var (
	positiveCues = []string{"well", "good", "great", "love", "support", "excellent", "happy", "works"}
	negativeCues = []string{"bad", "poor", "terrible", "never", "overwhelming", "understaffed", "worse", "stress"}
)

// keywordScore is the deterministic fallback heuristic: count cue words,
// majority wins, confidence fixed at 0.9 for a hit and 1.0 for neutral.
func keywordScore(text string) models.SentimentScore {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, cue := range positiveCues {
		if strings.Contains(lower, cue) {
			pos++
		}
	}
	for _, cue := range negativeCues {
		if strings.Contains(lower, cue) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return models.SentimentScore{Label: models.SentimentPositive, Confidence: 0.9}
	case neg > pos:
		return models.SentimentScore{Label: models.SentimentNegative, Confidence: 0.9}
	default:
		return models.SentimentScore{Label: models.SentimentNeutral, Confidence: 1.0}
	}
}
