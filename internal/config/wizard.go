package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .repharsely.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to repharsely! Let's configure your Slack app.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"xai", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Slack app credentials.
	clientIDPrompt := promptui.Prompt{Label: "Slack client ID"}
	clientID, err := clientIDPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("slack client ID: %w", err)
	}

	clientSecretPrompt := promptui.Prompt{Label: "Slack client secret", Mask: '*'}
	clientSecret, err := clientSecretPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("slack client secret: %w", err)
	}

	signingSecretPrompt := promptui.Prompt{
		Label: "Slack signing secret (blank to skip request verification)",
		Mask:  '*',
	}
	signingSecret, err := signingSecretPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("slack signing secret: %w", err)
	}

	// 4. OAuth redirect URI.
	redirectPrompt := promptui.Prompt{
		Label:   "OAuth redirect URI",
		Default: DefaultConfig().Slack.RedirectURI,
	}
	redirectURI, err := redirectPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("redirect URI: %w", err)
	}

	// 5. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "Listen port",
		Default: strconv.Itoa(DefaultConfig().Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("port must be a positive number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := &Config{
		Provider:   provider,
		Model:      model,
		OllamaHost: DefaultConfig().OllamaHost,
		Slack: SlackConfig{
			ClientID:      clientID,
			ClientSecret:  clientSecret,
			RedirectURI:   redirectURI,
			SigningSecret: signingSecret,
		},
		Server: ServerConfig{Port: port},
	}

	// Check for the API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: set %s in your environment (or run `repharsely auth %s`) before serving.\n", envVar, provider)
	}

	configPath := ".repharsely.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
