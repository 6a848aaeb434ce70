package completion

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEngine talks to any OpenAI-compatible chat completions endpoint.
// Groq is served through it with a different base URL.
type OpenAIEngine struct {
	provider string
	model    string
	client   openai.Client
}

func NewOpenAIEngine(provider string, cfg Config) *OpenAIEngine {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEngine{
		provider: provider,
		model:    cfg.Model,
		client:   openai.NewClient(opts...),
	}
}

func (e *OpenAIEngine) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", unavailable(e.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", unavailable(e.provider, errors.New("response has no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}
