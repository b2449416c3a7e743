package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/logging"
	"github.com/staffpulse/feedback-engine/pkg/models"
)

// systemPrompt pins the classifier to a fixed ternary contract. Strict JSON
// keeps parsing deterministic across models.
const systemPrompt = `You are a sentiment classifier for staff survey comments.
Classify the sentiment of the sentence given by the user.
Respond with only a JSON object of the form
{"label": "positive"|"neutral"|"negative", "confidence": <number between 0 and 1>}
with no other text.`

// Config holds configuration for creating a classifier client.
type Config struct {
	Endpoint    string  // Base URL, e.g. "https://api.openai.com/v1"
	Model       string  // Model name
	APIKey      string  // Optional for local endpoints
	Temperature float64 // 0 for deterministic classification
	Timeout     time.Duration
}

// Client scores sentences against an OpenAI-compatible inference endpoint.
type Client struct {
	client      *openai.Client
	endpoint    string
	model       string
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient creates a new OpenAI-compatible classifier client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger.Named("sentiment"),
	}, nil
}

// ScoreSentence implements Scorer.
func (c *Client) ScoreSentence(ctx context.Context, text string) (models.SentimentScore, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		c.logger.Warn("classifier request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return models.SentimentScore{}, ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return models.SentimentScore{}, NewError(ErrorTypeResponse, "no choices in response", true, nil)
	}

	score, err := parseScore(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("unparseable classifier response",
			zap.String("excerpt", logging.Excerpt(text)),
			zap.Error(err))
		return models.SentimentScore{}, err
	}

	c.logger.Debug("sentence scored",
		zap.String("label", string(score.Label)),
		zap.Float64("confidence", score.Confidence),
		zap.Duration("elapsed", time.Since(start)))

	return score, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}
