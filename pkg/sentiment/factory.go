package sentiment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/config"
)

// NewScorer builds the configured classifier client. Returns the Scorer
// interface to enable dependency injection of mocks.
func NewScorer(cfg *config.ClassifierConfig, logger *zap.Logger) (Scorer, error) {
	clientCfg := &Config{
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	}

	switch cfg.Provider {
	case "openai":
		return NewClient(clientCfg, logger)
	case "anthropic":
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}
