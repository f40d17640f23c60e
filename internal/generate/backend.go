package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	completionTimeout = 120 * time.Second
	maxOutputTokens   = 4000
	temperature       = 0.3
)

// Backend produces a completion for a prompt pair. The interface exists so
// tests can substitute a canned model.
type Backend interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// OpenRouter is a Backend speaking the OpenAI chat-completions protocol
// against the OpenRouter gateway.
type OpenRouter struct {
	client openai.Client
	model  string
}

// NewOpenRouter builds a backend for the given model identifier, for example
// "anthropic/claude-3-haiku".
func NewOpenRouter(apiKey, model string) *OpenRouter {
	return &OpenRouter{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(openRouterBaseURL),
		),
		model: model,
	}
}

func (o *OpenRouter) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("completion request (%s): %w", o.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion request (%s): empty response", o.model)
	}
	return resp.Choices[0].Message.Content, nil
}
