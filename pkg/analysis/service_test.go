package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
	"github.com/staffpulse/feedback-engine/pkg/config"
	"github.com/staffpulse/feedback-engine/pkg/models"
	"github.com/staffpulse/feedback-engine/pkg/rules"
	"github.com/staffpulse/feedback-engine/pkg/sentiment"
)

const serviceTaxonomy = `
themes:
  - name: management
    include:
      - '\bmanagement\b'
      - '\bmanager\b'
  - name: communication
    parent: management
    include:
      - '\bcommunicat(e|ion|ing)\b'
  - name: teamwork
    include:
      - '\bteam\b'
      - '\btogether\b'
`

const serviceSolutions = `
categories:
  - key: better_communication
    display_name: Better Communication
    keywords:
      - communication
      - communicate better
`

func testConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "debug",
		Pool:     config.PoolConfig{MaxConcurrent: 4},
		Sentiment: config.SentimentConfig{
			NeutralBand:        0.15,
			FatalUnscoredRatio: 0.5,
		},
		Breaker:  config.BreakerConfig{Threshold: 100, ResetSeconds: 30},
		Analysis: config.AnalysisConfig{SampleExcerpts: 5, TopThemes: 10},
	}
}

func newTestService(t *testing.T, cfg *config.Config, scorer sentiment.Scorer) *Service {
	t.Helper()
	taxonomy, err := rules.ParseTaxonomy([]byte(serviceTaxonomy))
	require.NoError(t, err)
	table, err := rules.ParseSolutions([]byte(serviceSolutions))
	require.NoError(t, err)
	return NewService(cfg, scorer, taxonomy, table, zap.NewNop())
}

func TestRunWardScenario(t *testing.T) {
	svc := newTestService(t, testConfig(), sentiment.NewMockScorer())

	rows := []models.Row{{
		Index:      0,
		Department: "Ward A",
		Text:       "Staff on the ward work well together. However, management never listens and needs to communicate better.",
	}}

	result, err := svc.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, result.Comments, 1)

	c := result.Comments[0]
	require.Len(t, c.Sentences, 2)
	assert.Equal(t, models.SentimentPositive, c.Sentences[0].Label)
	assert.Equal(t, models.SentimentNegative, c.Sentences[1].Label)

	// One positive and one negative sentence blend to neutral overall.
	assert.Equal(t, models.SentimentNeutral, c.Sentiment)
	assert.InDelta(t, 0, c.MeanScore, 1e-9)

	assert.ElementsMatch(t, []string{"management", "communication", "teamwork"}, c.Themes)
	require.Len(t, c.Solutions, 1)
	assert.Equal(t, "better_communication", c.Solutions[0].Category)

	require.Contains(t, result.Departments, "Ward A")
	ward := result.Departments["Ward A"]
	assert.Equal(t, 1, ward.CommentCount)
	assert.Equal(t, 1, ward.Sentences.Positive)
	assert.Equal(t, 1, ward.Sentences.Negative)

	assert.Contains(t, result.Themes, "communication")
	assert.Equal(t, 1, result.Coverage.ScoredComments)
}

func TestRunCommunicationSuggestion(t *testing.T) {
	svc := newTestService(t, testConfig(), sentiment.NewMockScorer())

	rows := []models.Row{{
		Index:      0,
		Department: "Ward A",
		Text:       "Staff should get better communication from management. The team works well together.",
	}}

	result, err := svc.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, result.Comments, 1)

	c := result.Comments[0]
	require.Len(t, c.Sentences, 2)
	assert.Equal(t, models.SentimentNeutral, c.Sentences[0].Label)
	assert.Equal(t, models.SentimentPositive, c.Sentences[1].Label)
	assert.Equal(t, models.SentimentPositive, c.Sentiment)

	assert.Contains(t, c.Themes, "management")
	assert.Contains(t, c.Themes, "communication")
	require.Len(t, c.Solutions, 1)
	assert.Equal(t, "better_communication", c.Solutions[0].Category)

	assert.Equal(t, 1, result.Departments["Ward A"].CommentCount)
}

func TestRunMissingDepartmentMatchesOverall(t *testing.T) {
	svc := newTestService(t, testConfig(), sentiment.NewMockScorer())

	rows := []models.Row{
		{Index: 0, Text: "The team works well together."},
		{Index: 1, Text: "Management never listens."},
	}

	result, err := svc.Run(context.Background(), rows)
	require.NoError(t, err)

	require.Len(t, result.Departments, 1)
	require.Contains(t, result.Departments, models.DepartmentPlaceholder)

	placeholder := result.Departments[models.DepartmentPlaceholder]
	assert.Equal(t, result.Overall.CommentCount, placeholder.CommentCount)
	assert.Equal(t, result.Overall.Sentences, placeholder.Sentences)
	assert.Equal(t, result.Overall.SentimentRatio, placeholder.SentimentRatio)
	assert.Equal(t, result.Overall.SampleExcerpts, placeholder.SampleExcerpts)
	assert.Equal(t, result.Overall.TopThemes, placeholder.TopThemes)
}

func TestRunDeterministicAcrossRuns(t *testing.T) {
	svc := newTestService(t, testConfig(), sentiment.NewMockScorer())

	rows := []models.Row{
		{Index: 0, Department: "Ward A", Text: "The team works well together."},
		{Index: 1, Department: "Ward B", Text: "Management never listens."},
	}

	first, err := svc.Run(context.Background(), rows)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Departments, second.Departments)
	assert.Equal(t, first.Themes, second.Themes)
	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Coverage, second.Coverage)
}

func TestRunSingleFailureDegradesToUnscored(t *testing.T) {
	scorer := sentiment.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, text string) (models.SentimentScore, error) {
		if strings.Contains(text, "printer") {
			return models.SentimentScore{}, errors.New("classifier rejected input")
		}
		return models.SentimentScore{Label: models.SentimentPositive, Confidence: 0.9}, nil
	}
	svc := newTestService(t, testConfig(), scorer)

	rows := []models.Row{
		{Index: 0, Department: "Ward A", Text: "The team is great."},
		{Index: 1, Department: "Ward A", Text: "The printer is haunted."},
	}

	result, err := svc.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Coverage.ScoredComments)
	assert.Equal(t, 1, result.Coverage.UnscoredComments)

	for _, c := range result.Comments {
		if strings.Contains(c.Text, "printer") {
			assert.Equal(t, models.SentimentUnscored, c.Sentiment)
		} else {
			assert.Equal(t, models.SentimentPositive, c.Sentiment)
		}
	}

	ward := result.Departments["Ward A"]
	assert.Equal(t, 2, ward.CommentCount)
	assert.Equal(t, 1, ward.UnscoredCount)
}

func TestRunAbortsWhenClassifierDown(t *testing.T) {
	scorer := sentiment.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, text string) (models.SentimentScore, error) {
		return models.SentimentScore{}, errors.New("boom")
	}

	cfg := testConfig()
	cfg.Breaker.Threshold = 1
	svc := newTestService(t, cfg, scorer)

	rows := []models.Row{
		{Index: 0, Department: "Ward A", Text: "The team is great."},
		{Index: 1, Department: "Ward B", Text: "Management never listens."},
	}

	_, err := svc.Run(context.Background(), rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrClassifierUnavailable)
}

func TestRunNoUsableRows(t *testing.T) {
	svc := newTestService(t, testConfig(), sentiment.NewMockScorer())

	rows := []models.Row{
		{Index: 0, Department: "Ward A", Text: "   "},
		{Index: 1, Department: "Ward B", Text: ""},
	}

	_, err := svc.Run(context.Background(), rows)
	assert.ErrorIs(t, err, apperrors.ErrNoRows)
}
