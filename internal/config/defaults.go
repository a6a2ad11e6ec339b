package config

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderXAI:    "grok-3",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "grammar-translator-llama3.2",
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:   ProviderXAI,
		Model:      defaultModels[ProviderXAI],
		OllamaHost: "http://localhost:11434",
		Slack: SlackConfig{
			RedirectURI: "https://repharsely.com.ar/slack/oauth/callback",
		},
		Server: ServerConfig{
			Port: 3000,
		},
	}
}
