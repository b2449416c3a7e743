package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
	"github.com/staffpulse/feedback-engine/pkg/config"
	"github.com/staffpulse/feedback-engine/pkg/logging"
	"github.com/staffpulse/feedback-engine/pkg/models"
	"github.com/staffpulse/feedback-engine/pkg/preprocess"
	"github.com/staffpulse/feedback-engine/pkg/retry"
	"github.com/staffpulse/feedback-engine/pkg/rules"
	"github.com/staffpulse/feedback-engine/pkg/sentiment"
	"github.com/staffpulse/feedback-engine/pkg/solutions"
	"github.com/staffpulse/feedback-engine/pkg/textseg"
	"github.com/staffpulse/feedback-engine/pkg/themes"
)

// Service runs the analysis pipeline: preprocess, segment, score, classify
// themes, extract solutions, aggregate. A Service carries no state between
// runs; every Run starts from the raw rows it is handed.
type Service struct {
	cfg       *config.Config
	scorer    sentiment.Scorer
	breaker   *sentiment.CircuitBreaker
	pool      *sentiment.WorkerPool
	themes    *themes.Classifier
	solutions *solutions.Extractor
	agg       *Aggregator
	logger    *zap.Logger
}

// NewService wires a pipeline from validated configuration and rule tables.
// The scorer is injected so tests can substitute a mock for the external
// classifier.
func NewService(
	cfg *config.Config,
	scorer sentiment.Scorer,
	taxonomy *rules.Taxonomy,
	table *rules.SolutionTable,
	logger *zap.Logger,
) *Service {
	return &Service{
		cfg:    cfg,
		scorer: scorer,
		breaker: sentiment.NewCircuitBreaker(sentiment.CircuitBreakerConfig{
			Threshold:  cfg.Breaker.Threshold,
			ResetAfter: cfg.Breaker.ResetAfter(),
		}),
		pool: sentiment.NewWorkerPool(sentiment.WorkerPoolConfig{
			MaxConcurrent: cfg.Pool.MaxConcurrent,
		}, logger),
		themes:    themes.NewClassifier(taxonomy, logger),
		solutions: solutions.NewExtractor(table, logger),
		agg:       NewAggregator(cfg.Analysis),
		logger:    logger.Named("analysis"),
	}
}

// Run executes the full pipeline over the given rows. Individual classifier
// failures degrade the affected comments to unscored; the run only aborts
// with ErrClassifierUnavailable when the breaker is open and the unscored
// share exceeds the configured fatal ratio.
func (s *Service) Run(ctx context.Context, rows []models.Row) (*models.AnalysisResult, error) {
	start := time.Now()

	comments := preprocess.Run(rows, s.logger)
	if len(comments) == 0 {
		return nil, fmt.Errorf("no usable comments after preprocessing: %w", apperrors.ErrNoRows)
	}

	s.segment(comments)
	if err := s.score(ctx, comments); err != nil {
		return nil, err
	}

	for i := range comments {
		c := &comments[i]
		c.Themes = s.themes.Assign(c.Text)
		c.Solutions = s.solutions.Extract(c.Text)
	}

	departments, themeBuckets, overall, coverage := s.agg.Aggregate(comments)

	result := &models.AnalysisResult{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Comments:    comments,
		Departments: departments,
		Themes:      themeBuckets,
		Overall:     overall,
		Coverage:    coverage,
	}

	s.logger.Info("analysis run complete",
		zap.String("run_id", result.RunID.String()),
		zap.Int("comments", len(comments)),
		zap.Int("departments", len(departments)),
		zap.Int("themes", len(themeBuckets)),
		zap.Int("unscored", coverage.UnscoredComments),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// segment splits each comment into sentences. Preprocessing guarantees
// non-empty text, so every comment gets at least one sentence.
func (s *Service) segment(comments []models.Comment) {
	for i := range comments {
		c := &comments[i]
		parts := textseg.Split(c.Text)
		c.Sentences = make([]models.Sentence, len(parts))
		for j, text := range parts {
			c.Sentences[j] = models.Sentence{Index: j, Text: text}
		}
	}
}

// score runs every sentence through the classifier with bounded parallelism
// and derives each comment's label from its sentence scores.
func (s *Service) score(ctx context.Context, comments []models.Comment) error {
	type sentenceRef struct {
		comment  int
		sentence int
	}

	refs := make(map[string]sentenceRef)
	var items []sentiment.WorkItem[models.SentimentScore]
	for i := range comments {
		for j := range comments[i].Sentences {
			id := fmt.Sprintf("%s#%d", comments[i].ID, j)
			refs[id] = sentenceRef{comment: i, sentence: j}
			text := comments[i].Sentences[j].Text
			items = append(items, sentiment.WorkItem[models.SentimentScore]{
				ID: id,
				Execute: func(ctx context.Context) (models.SentimentScore, error) {
					return s.scoreSentence(ctx, text)
				},
			})
		}
	}

	results := sentiment.Process(ctx, s.pool, items, func(completed, total int) {
		if completed%100 == 0 || completed == total {
			s.logger.Debug("scoring progress",
				zap.Int("completed", completed),
				zap.Int("total", total))
		}
	})

	for _, res := range results {
		ref, ok := refs[res.ID]
		if !ok {
			continue
		}
		sent := &comments[ref.comment].Sentences[ref.sentence]
		if res.Err != nil {
			sent.Label = models.SentimentUnscored
			s.logger.Warn("sentence scoring failed",
				zap.String("comment_id", comments[ref.comment].ID.String()),
				zap.Int("sentence", ref.sentence),
				zap.String("text", logging.Excerpt(sent.Text)),
				zap.Error(res.Err))
			continue
		}
		sent.Label = res.Result.Label
		sent.Confidence = res.Result.Confidence
	}

	unscored := 0
	for i := range comments {
		c := &comments[i]
		c.Sentiment, c.MeanScore = sentiment.DeriveCommentSentiment(c.Sentences, s.cfg.Sentiment.NeutralBand)
		if !c.Scored() {
			unscored++
		}
	}

	ratio := float64(unscored) / float64(len(comments))
	if s.breaker.State() == sentiment.CircuitOpen && ratio > s.cfg.Sentiment.FatalUnscoredRatio {
		return fmt.Errorf("unscored ratio %.2f with breaker open: %w",
			ratio, apperrors.ErrClassifierUnavailable)
	}
	return nil
}

// scoreSentence guards a single classifier call with the circuit breaker
// and retries transient failures.
func (s *Service) scoreSentence(ctx context.Context, text string) (models.SentimentScore, error) {
	if ok, err := s.breaker.Allow(); !ok {
		return models.SentimentScore{}, err
	}

	score, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (models.SentimentScore, error) {
		return s.scorer.ScoreSentence(ctx, text)
	})
	if err != nil {
		s.breaker.RecordFailure()
		return models.SentimentScore{}, err
	}

	s.breaker.RecordSuccess()
	return score, nil
}
