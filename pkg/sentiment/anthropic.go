package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/logging"
	"github.com/staffpulse/feedback-engine/pkg/models"
)

// maxClassifierTokens bounds the completion; the contract is one small JSON
// object.
const maxClassifierTokens = 64

// AnthropicClient scores sentences against the Anthropic Messages API.
type AnthropicClient struct {
	client      *anthropic.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewAnthropicClient creates a classifier client backed by Anthropic.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required for the anthropic provider")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		logger:      logger.Named("sentiment-anthropic"),
	}, nil
}

// ScoreSentence implements Scorer.
func (c *AnthropicClient) ScoreSentence(ctx context.Context, text string) (models.SentimentScore, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	temp := c.temperature

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxClassifierTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(text),
		},
	})
	if err != nil {
		c.logger.Warn("classifier request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return models.SentimentScore{}, ClassifyError(err)
	}

	score, err := parseScore(resp.GetFirstContentText())
	if err != nil {
		c.logger.Warn("unparseable classifier response",
			zap.String("excerpt", logging.Excerpt(text)),
			zap.Error(err))
		return models.SentimentScore{}, err
	}

	return score, nil
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}
