package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderXAI    ProviderType = "xai"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level repharsely configuration, corresponding to .repharsely.yml.
type Config struct {
	Provider   ProviderType `yaml:"provider" koanf:"provider"`
	Model      string       `yaml:"model" koanf:"model"`
	OllamaHost string       `yaml:"ollama_host" koanf:"ollama_host"`
	Slack      SlackConfig  `yaml:"slack" koanf:"slack"`
	Server     ServerConfig `yaml:"server" koanf:"server"`
}

// SlackConfig holds the Slack app settings. ClientID, ClientSecret and
// RedirectURI drive the OAuth flow that obtains the user token; the signing
// secret, when set, enables request signature verification on the webhook
// endpoints.
type SlackConfig struct {
	ClientID      string `yaml:"client_id" koanf:"client_id"`
	ClientSecret  string `yaml:"client_secret" koanf:"client_secret"`
	RedirectURI   string `yaml:"redirect_uri" koanf:"redirect_uri"`
	SigningSecret string `yaml:"signing_secret" koanf:"signing_secret"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
}
