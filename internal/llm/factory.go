package llm

import (
	"fmt"
	"time"

	"github.com/mguerin/compagnon/internal/config"
)

// NewTextGenerator creates the appropriate TextGenerator for the configured
// provider. Returns (nil, nil) when the provider is "none"; callers treat a
// nil generator as "rule engine only".
func NewTextGenerator(cfg config.LLMConfig) (TextGenerator, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	switch cfg.LLMProvider {
	case "none", "":
		return nil, nil
	case "ollama":
		return NewOllamaClient(OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
			Timeout: timeout,
		}), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLMProvider)
	}
}
