package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewClient constructs an LLMClient for the given provider.
func NewClient(provider string, cfg *Config, logger *zap.Logger) (LLMClient, error) {
	switch provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
