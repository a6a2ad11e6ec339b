package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates that a provider requiring an API key was
// constructed without one.
var ErrMissingAPIKey = errors.New("missing API key")

// NewProvider creates an LLM provider. The API key is resolved by the
// caller (environment or credential store) so that the llm package stays
// independent of where credentials live. Ollama needs no key; ollamaHost
// is ignored by the other providers.
// Supported provider types: "xai", "openai", "ollama".
func NewProvider(providerType string, model string, apiKey string, ollamaHost string) (Provider, error) {
	switch providerType {
	case "xai":
		if apiKey == "" {
			return nil, fmt.Errorf("xai provider: %w (set XAI_API_KEY)", ErrMissingAPIKey)
		}
		return NewXAIProvider(apiKey, model), nil

	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider: %w (set OPENAI_API_KEY)", ErrMissingAPIKey)
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		if ollamaHost == "" {
			ollamaHost = "http://localhost:11434"
		}
		return NewOllamaProvider(ollamaHost, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
