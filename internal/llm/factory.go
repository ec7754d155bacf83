package llm

import (
	"fmt"

	"inkwell-report-backend/internal/config"
	"inkwell-report-backend/utilities"
)

// NewClient builds the configured provider and wraps it with the
// timeout, retry and logging decorators, innermost first.
func NewClient(cfg config.LLMConfig, log *utilities.Logger) (LLMClient, error) {
	var base LLMClient

	switch cfg.Provider {
	case "openai", "":
		c, err := NewOpenAIClient(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return nil, err
		}
		base = c
	case "ollama":
		base = NewOllamaClient(cfg.OllamaURL, cfg.Model, cfg.Temperature)
	case "mock":
		base = NewEchoMockClient("[mock] ")
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}

	client := WithTimeout(base, cfg.Timeout)

	retry := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	client = WithRetry(client, retry)

	return WithLogging(client, log), nil
}
