package completion

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicEngine completes prompts with the Anthropic messages API.
type AnthropicEngine struct {
	model  string
	client anthropic.Client
}

func NewAnthropicEngine(cfg Config) *AnthropicEngine {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicEngine{
		model:  cfg.Model,
		client: anthropic.NewClient(opts...),
	}
}

func (e *AnthropicEngine) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(e.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", unavailable(ProviderAnthropic, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", unavailable(ProviderAnthropic, errors.New("no text content in response"))
}
