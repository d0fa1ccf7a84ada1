package generator

import (
	"os"
	"strconv"
	"time"
)

// TokenConfig carries the bearer credential for the LLM provider.
type TokenConfig struct {
	OpenRouterAPIKey string
}

func (c TokenConfig) FromEnv() TokenConfig {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.OpenRouterAPIKey = v
	}
	return c
}

// Config configures the generator's model, provider endpoint, and
// calibration knobs.
type Config struct {
	Enabled                 bool
	Model                   string
	BaseURL                 string
	Concurrency             int
	MaxStructuralRetries    int
	ChunkSize               int
	BatchSize               int
	BatchQuestionsPerLanguage int
	RequestTimeout          time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:                   true,
		Model:                     "google/gemini-2.5-flash",
		BaseURL:                   "https://openrouter.ai/api/v1",
		Concurrency:               5,
		MaxStructuralRetries:      3,
		ChunkSize:                 1000,
		BatchSize:                 1,
		BatchQuestionsPerLanguage: 1,
		RequestTimeout:            60 * time.Second,
	}
}

func (c Config) FromEnv() Config {
	if v := os.Getenv("GENERATOR_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GENERATOR_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("GENERATOR_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("GENERATOR_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	return c
}

func (c Config) Validate(token TokenConfig) error {
	if !c.Enabled {
		return nil
	}
	if token.OpenRouterAPIKey == "" {
		return errMissingAPIKey
	}
	if c.Model == "" {
		return errMissingModel
	}
	return nil
}
