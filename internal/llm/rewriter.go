package llm

import (
	"context"
	"fmt"
)

// rewriteSystemPrompt is the fixed instruction for the rewrite exchange.
const rewriteSystemPrompt = "You are a precise translator and editor. " +
	"Task: translate the user's text to clear, natural English and improve grammar, " +
	"tone, and flow while preserving meaning. If the input is already in English, " +
	"just improve clarity and correctness. Return only the improved text."

// Rewriter turns free text into an improved English version through a
// single deterministic chat completion (temperature 0, no streaming).
type Rewriter struct {
	provider Provider
	model    string
}

// NewRewriter creates a Rewriter on top of the given provider. A nil
// provider is allowed: Rewrite then fails with ErrMissingAPIKey on every
// call, which callers surface as a fallback message rather than a crash.
func NewRewriter(provider Provider, model string) *Rewriter {
	return &Rewriter{provider: provider, model: model}
}

// Rewrite sends the fixed system instruction plus the caller's text and
// returns the generated text verbatim.
func (r *Rewriter) Rewrite(ctx context.Context, text string) (string, error) {
	if r.provider == nil {
		return "", fmt.Errorf("rewriter: %w", ErrMissingAPIKey)
	}

	resp, err := r.provider.Complete(ctx, CompletionRequest{
		Model: r.model,
		Messages: []Message{
			{Role: RoleSystem, Content: rewriteSystemPrompt},
			{Role: RoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("rewrite completion: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("rewrite completion: response missing content")
	}
	return resp.Content, nil
}
