// Package config loads service configuration from the environment. A .env
// file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"

	"leadrouter/internal/campaign"
	"leadrouter/internal/completion"
)

const (
	DefaultPort = 8501

	StoreAirtable = "airtable"
	StoreSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port int

	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string   `env:"LEADROUTER_DB_URL" envDefault:"./leadrouter.db"`
	QueueDir    string   `env:"LEADROUTER_QUEUE_DIR"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	CampaignStore string         `env:"CAMPAIGN_STORE" envDefault:"airtable"`
	Airtable      AirtableConfig `envPrefix:"AIRTABLE_"`

	Strategy        string  `env:"SELECTION_STRATEGY" envDefault:"first"`
	FallbackToFirst bool    `env:"FALLBACK_TO_FIRST" envDefault:"true"`
	Provider        string  `env:"COMPLETION_PROVIDER" envDefault:"groq"`
	MaxTokens       int     `env:"COMPLETION_MAX_TOKENS" envDefault:"5"`
	Temperature     float64 `env:"COMPLETION_TEMPERATURE" envDefault:"0.3"`

	Groq      ProviderConfig `envPrefix:"GROQ_"`
	OpenAI    ProviderConfig `envPrefix:"OPENAI_"`
	Anthropic ProviderConfig `envPrefix:"ANTHROPIC_"`

	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
}

// AirtableConfig is read from AIRTABLE_* variables.
type AirtableConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseID  string `env:"BASE_ID"`
	Table   string `env:"TABLE_NAME"`
	View    string `env:"VIEW"`
	BaseURL string `env:"API_URL" envDefault:"https://api.airtable.com"`

	NameField        string `env:"NAME_FIELD" envDefault:"Name"`
	DescriptionField string `env:"DESCRIPTION_FIELD" envDefault:"Description"`
	KeywordsField    string `env:"KEYWORDS_FIELD" envDefault:"Keywords"`
	SmartleadField   string `env:"SMARTLEAD_FIELD" envDefault:"SmartleadID"`
}

// ProviderConfig is read from <PROVIDER>_* variables.
type ProviderConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"`
	BaseURL string `env:"BASE_URL"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Port = resolvePort()
	if strings.TrimSpace(cfg.QueueDir) == "" {
		cfg.QueueDir = defaultQueueDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected store and strategy have what they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.CampaignStore {
	case StoreAirtable:
		if c.Airtable.APIKey == "" {
			errs = append(errs, errors.New("AIRTABLE_API_KEY is required when CAMPAIGN_STORE=airtable"))
		}
		if c.Airtable.BaseID == "" || c.Airtable.Table == "" {
			errs = append(errs, errors.New("AIRTABLE_BASE_ID and AIRTABLE_TABLE_NAME are required when CAMPAIGN_STORE=airtable"))
		}
	case StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("CAMPAIGN_STORE must be %s or %s, got %q", StoreAirtable, StoreSQLite, c.CampaignStore))
	}

	strategy, err := campaign.ParseStrategy(c.Strategy)
	if err != nil {
		errs = append(errs, err)
	}

	if strategy == campaign.StrategyAI {
		switch c.Provider {
		case completion.ProviderNone:
			if !c.FallbackToFirst {
				errs = append(errs, errors.New("SELECTION_STRATEGY=ai with COMPLETION_PROVIDER=none needs FALLBACK_TO_FIRST=true"))
			}
		case completion.ProviderGroq, completion.ProviderOpenAI, completion.ProviderAnthropic:
			if c.Completion().APIKey == "" {
				errs = append(errs, fmt.Errorf("%s_API_KEY is required when SELECTION_STRATEGY=ai", strings.ToUpper(c.Provider)))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown COMPLETION_PROVIDER %q", c.Provider))
		}
	}

	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// SelectionStrategy returns the parsed strategy, defaulting to first.
func (c *Config) SelectionStrategy() campaign.Strategy {
	strategy, err := campaign.ParseStrategy(c.Strategy)
	if err != nil {
		return campaign.StrategyFirst
	}
	return strategy
}

// Completion returns the completion settings for the selected provider.
func (c *Config) Completion() completion.Config {
	var p ProviderConfig
	switch c.Provider {
	case completion.ProviderGroq:
		p = c.Groq
	case completion.ProviderOpenAI:
		p = c.OpenAI
	case completion.ProviderAnthropic:
		p = c.Anthropic
	}

	return completion.Config{
		Provider: c.Provider,
		APIKey:   p.APIKey,
		Model:    p.Model,
		BaseURL:  p.BaseURL,
		Timeout:  c.UpstreamTimeout,
	}
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

func resolvePort() int {
	value := os.Getenv("PORT")
	if value == "" {
		return DefaultPort
	}

	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 {
		return DefaultPort
	}

	return port
}

func defaultQueueDir() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return ".leadrouter/queue"
	}
	return filepath.Join(home, ".leadrouter", "queue")
}
