package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// xaiBaseURL is the x.ai (Grok) API root, which speaks the OpenAI
// chat-completions dialect.
const xaiBaseURL = "https://api.x.ai/v1"

// XAIProvider implements Provider using the x.ai (Grok) API.
type XAIProvider struct {
	client *openai.Client
	model  string
}

// NewXAIProvider creates a new x.ai provider.
func NewXAIProvider(apiKey string, model string) *XAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = xaiBaseURL
	return &XAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *XAIProvider) Name() string {
	return "xai"
}

func (p *XAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return completeChat(ctx, p.client, p.model, req)
}

// completeChat runs a chat completion through an OpenAI-compatible client.
// Shared by the x.ai and OpenAI providers.
func completeChat(ctx context.Context, client *openai.Client, defaultModel string, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, err
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	return &CompletionResponse{
		Content:      content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		FinishReason: finishReason,
	}, nil
}
