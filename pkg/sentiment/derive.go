package sentiment

import "github.com/staffpulse/feedback-engine/pkg/models"

// DefaultNeutralBand is the dead-zone around zero for comment-level labels.
// Calibrated against hand-labelled survey fixtures: a single confident
// sentence among several neutral ones should still tilt the comment.
const DefaultNeutralBand = 0.15

// DeriveCommentSentiment maps sentence-level scores to a comment-level
// label. The mean of the signed sentence scores is compared against the
// neutral dead-zone: above +band is positive, below -band is negative,
// anything between is neutral. The label is always recomputed from the
// sentences, never stored independently of them.
//
// A sentence with the unscored label (classifier failure) poisons the whole
// comment: the result is unscored rather than a silently skewed average.
func DeriveCommentSentiment(sentences []models.Sentence, neutralBand float64) (models.SentimentLabel, float64) {
	if neutralBand <= 0 {
		neutralBand = DefaultNeutralBand
	}
	if len(sentences) == 0 {
		return models.SentimentUnscored, 0
	}

	var sum float64
	for _, s := range sentences {
		if s.Label == models.SentimentUnscored || s.Label == "" {
			return models.SentimentUnscored, 0
		}
		sum += models.SentimentScore{Label: s.Label, Confidence: s.Confidence}.Signed()
	}

	mean := sum / float64(len(sentences))
	switch {
	case mean > neutralBand:
		return models.SentimentPositive, mean
	case mean < -neutralBand:
		return models.SentimentNegative, mean
	default:
		return models.SentimentNeutral, mean
	}
}
