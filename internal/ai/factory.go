package ai

import (
	"fmt"
	"time"
)

// NewLLMProvider creates an OpenAI-compatible provider by name.
// Supported providers: "openai", "perplexity"
func NewLLMProvider(providerName, apiKey, modelID string, timeout time.Duration) *BaseProvider {
	switch providerName {
	case "openai":
		return NewBaseProvider(ProviderConfig{
			Name:    "openai",
			BaseURL: "https://api.openai.com/v1/chat/completions",
			APIKey:  apiKey,
			Model:   modelID,
			Timeout: timeout,
		})
	case "perplexity":
		return NewBaseProvider(ProviderConfig{
			Name:    "perplexity",
			BaseURL: "https://api.perplexity.ai/chat/completions",
			APIKey:  apiKey,
			Model:   modelID,
			Timeout: timeout,
		})
	default:
		// Fail fast: don't silently default to an unknown provider
		panic(fmt.Sprintf("unsupported AI provider: %s (supported: openai, perplexity)", providerName))
	}
}
