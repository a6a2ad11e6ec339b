package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/bueltan/repharsely/internal/auth"
	"github.com/bueltan/repharsely/internal/config"
	"github.com/bueltan/repharsely/internal/llm"
)

// newLogger builds the process logger. Verbose mode lowers the level to
// debug so the webhook handlers' payload diagnostics show up.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `repharsely init` to create a config file", err)
	}
	return cfg, nil
}

// createRewriterFromConfig builds the LLM rewriter. A missing API key is
// not fatal here: the service still runs and falls back to echoing the
// prompt with an error note, so the returned rewriter may wrap a nil
// provider.
func createRewriterFromConfig(cfg *config.Config, store *auth.Store, logger *slog.Logger) *llm.Rewriter {
	apiKey := ""
	if envVar := config.APIKeyEnvVar(cfg.Provider); envVar != "" {
		apiKey = store.Get(envVar)
	}

	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model, apiKey, cfg.OllamaHost)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			logger.Warn("no API key for provider, suggestions will fail until one is set",
				"provider", cfg.Provider, "env", config.APIKeyEnvVar(cfg.Provider))
			return llm.NewRewriter(nil, cfg.Model)
		}
		logger.Error("creating LLM provider failed", "error", err)
		return llm.NewRewriter(nil, cfg.Model)
	}
	return llm.NewRewriter(provider, cfg.Model)
}
