package sentiment

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/staffpulse/feedback-engine/pkg/models"
)

// scorePayload is the JSON shape the classifier is prompted to return.
type scorePayload struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// parseScore extracts a SentimentScore from a raw model response. Responses
// may wrap the JSON in markdown code fences or surrounding prose.
func parseScore(raw string) (models.SentimentScore, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return models.SentimentScore{}, NewError(ErrorTypeResponse, "no JSON in classifier response", false, err)
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return models.SentimentScore{}, NewError(ErrorTypeResponse, "malformed classifier JSON", false, err)
	}

	label := models.SentimentLabel(strings.ToLower(strings.TrimSpace(payload.Label)))
	switch label {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
	default:
		return models.SentimentScore{}, NewError(ErrorTypeResponse,
			fmt.Sprintf("unexpected label %q", payload.Label), false, nil)
	}

	conf := payload.Confidence
	if math.IsNaN(conf) {
		conf = 0
	}
	conf = math.Max(0, math.Min(1, conf))

	return models.SentimentScore{Label: label, Confidence: conf}, nil
}

// extractJSON extracts the first balanced JSON object from a response that
// may contain code fences or other formatting.
func extractJSON(response string) (string, error) {
	start := strings.IndexByte(response, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := response[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, nil
				}
				return "", fmt.Errorf("unbalanced JSON in response")
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON in response")
}
