package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the feedback engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// External sentiment classifier endpoint
	Classifier ClassifierConfig `yaml:"classifier"`

	// Bounded parallelism for per-sentence scoring
	Pool PoolConfig `yaml:"pool"`

	// Comment-level sentiment derivation and run-failure policy
	Sentiment SentimentConfig `yaml:"sentiment"`

	// Circuit breaker guarding classifier calls
	Breaker BreakerConfig `yaml:"breaker"`

	// Paths to the theme taxonomy and solution category tables
	Rules RulesConfig `yaml:"rules"`

	// Aggregation tuning
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ClassifierConfig holds the external sentiment classifier settings.
type ClassifierConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"SENTIMENT_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL of an OpenAI-compatible inference endpoint.
	// Ignored by the anthropic provider.
	Endpoint string `yaml:"endpoint" env:"SENTIMENT_ENDPOINT" env-default:"https://api.openai.com/v1"`

	Model string `yaml:"model" env:"SENTIMENT_MODEL" env-default:"gpt-4o-mini"`

	// APIKey is optional for local inference endpoints.
	APIKey string `yaml:"-" env:"SENTIMENT_API_KEY"` // Secret - not in YAML

	TimeoutSeconds int     `yaml:"timeout_seconds" env:"SENTIMENT_TIMEOUT_SECONDS" env-default:"30"`
	Temperature    float64 `yaml:"temperature" env:"SENTIMENT_TEMPERATURE" env-default:"0"`
}

// Timeout returns the per-call classifier timeout.
func (c *ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PoolConfig holds worker pool settings for sentence scoring.
type PoolConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" env:"POOL_MAX_CONCURRENT" env-default:"8"`
}

// SentimentConfig holds the fixed calibration for mapping mean sentence
// scores to comment-level labels, and the run-abort policy.
type SentimentConfig struct {
	// NeutralBand is the dead-zone around zero: mean signed scores in
	// (-NeutralBand, +NeutralBand) map to "neutral".
	NeutralBand float64 `yaml:"neutral_band" env:"SENTIMENT_NEUTRAL_BAND" env-default:"0.15"`

	// FatalUnscoredRatio aborts the run when more than this fraction of
	// comments could not be scored and the circuit breaker is open.
	FatalUnscoredRatio float64 `yaml:"fatal_unscored_ratio" env:"SENTIMENT_FATAL_UNSCORED_RATIO" env-default:"0.5"`
}

// BreakerConfig holds circuit breaker settings for classifier calls.
type BreakerConfig struct {
	Threshold    int `yaml:"threshold" env:"BREAKER_THRESHOLD" env-default:"5"`
	ResetSeconds int `yaml:"reset_seconds" env:"BREAKER_RESET_SECONDS" env-default:"30"`
}

// ResetAfter returns the breaker reset interval.
func (c *BreakerConfig) ResetAfter() time.Duration {
	return time.Duration(c.ResetSeconds) * time.Second
}

// RulesConfig points at the static rule tables. Editing these files changes
// classification without code changes.
type RulesConfig struct {
	TaxonomyPath  string `yaml:"taxonomy_path" env:"RULES_TAXONOMY_PATH" env-default:"rules/taxonomy.yaml"`
	SolutionsPath string `yaml:"solutions_path" env:"RULES_SOLUTIONS_PATH" env-default:"rules/solutions.yaml"`
}

// AnalysisConfig holds aggregation tuning.
type AnalysisConfig struct {
	// SampleExcerpts bounds the example comments kept per bucket.
	SampleExcerpts int `yaml:"sample_excerpts" env:"ANALYSIS_SAMPLE_EXCERPTS" env-default:"5"`
	// TopThemes bounds the per-bucket theme ranking.
	TopThemes int `yaml:"top_themes" env:"ANALYSIS_TOP_THEMES" env-default:"10"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. The version parameter is injected at build time and
// set on the returned Config.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv reads configuration from environment variables only, applying
// the declared defaults. Used when no config file is present.
func LoadFromEnv(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Classifier.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown classifier provider %q", c.Classifier.Provider)
	}

	if c.Sentiment.NeutralBand < 0 || c.Sentiment.NeutralBand >= 1 {
		return fmt.Errorf("neutral_band must be in [0, 1), got %v", c.Sentiment.NeutralBand)
	}
	if c.Sentiment.FatalUnscoredRatio <= 0 || c.Sentiment.FatalUnscoredRatio > 1 {
		return fmt.Errorf("fatal_unscored_ratio must be in (0, 1], got %v", c.Sentiment.FatalUnscoredRatio)
	}
	if c.Pool.MaxConcurrent < 1 {
		return fmt.Errorf("pool max_concurrent must be at least 1, got %d", c.Pool.MaxConcurrent)
	}
	if c.Analysis.SampleExcerpts < 0 {
		return fmt.Errorf("sample_excerpts must not be negative, got %d", c.Analysis.SampleExcerpts)
	}
	return nil
}
