// Package sentiment is the boundary around the external pretrained
// sentiment classifier. The classifier is a black box behind the narrow
// Scorer interface so rule and aggregation logic can be tested with a
// deterministic stub, independent of any actual model.
package sentiment

import (
	"context"

	"github.com/staffpulse/feedback-engine/pkg/models"
)

// Scorer classifies a single sentence. Implementations must be safe for
// concurrent use; the pipeline scores sentences from a bounded worker pool.
type Scorer interface {
	// ScoreSentence returns the sentiment label and confidence for one
	// sentence of comment text.
	ScoreSentence(ctx context.Context, text string) (models.SentimentScore, error)
}

// Ensure the concrete clients implement Scorer at compile time.
var (
	_ Scorer = (*Client)(nil)
	_ Scorer = (*AnthropicClient)(nil)
	_ Scorer = (*MockScorer)(nil)
)
