// Package completion adapts hosted language-model APIs to the
// campaign.Completer interface.
package completion

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadrouter/internal/campaign"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"

	DefaultGroqBaseURL    = "https://api.groq.com/openai/v1"
	DefaultGroqModel      = "llama-3.1-8b-instant"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultRequestTimeout = 5 * time.Second
)

// Config selects and configures one provider.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New builds the completer for cfg.Provider. The "none" provider yields a
// nil completer, which makes the ai strategy fall back or fail.
func New(cfg Config) (campaign.Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == ProviderNone {
		return nil, nil
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("completion provider %s requires an api key", provider)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	switch provider {
	case ProviderGroq:
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultGroqBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = DefaultGroqModel
		}
		return NewOpenAIEngine(provider, cfg), nil
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		return NewOpenAIEngine(provider, cfg), nil
	case ProviderAnthropic:
		if cfg.Model == "" {
			cfg.Model = DefaultAnthropicModel
		}
		return NewAnthropicEngine(cfg), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

func unavailable(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", campaign.ErrCompletionUnavailable, provider, err)
}
