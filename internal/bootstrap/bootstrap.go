// Package bootstrap builds the application's long-lived dependencies from
// configuration. The HTTP server and the CLI share it so both surfaces serve
// the same selector.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"leadrouter/internal/campaign"
	"leadrouter/internal/completion"
	"leadrouter/internal/config"
	"leadrouter/internal/database"
	"leadrouter/internal/ledger"
	"leadrouter/internal/metrics"
	"leadrouter/internal/store"
)

// Deps are the clients built once per process.
type Deps struct {
	DB       database.Service
	Assigner *campaign.Service
	Ledger   *ledger.Recorder
}

// Close releases the database connection.
func (d *Deps) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// Build opens the ledger, picks the campaign store and completion engine,
// and wires them into an assignment service.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewSQLiteAdapter(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	campaigns, err := buildStore(ctx, cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	completer, err := completion.New(cfg.Completion())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build completion engine: %w", err)
	}

	strategy := cfg.SelectionStrategy()
	selector := campaign.NewSelector(
		campaign.WithStrategy(strategy),
		campaign.WithCompleter(metrics.InstrumentCompleter(completer)),
		campaign.WithFallbackToFirst(cfg.FallbackToFirst),
		campaign.WithSampling(cfg.MaxTokens, cfg.Temperature),
		campaign.WithTimeout(cfg.UpstreamTimeout),
		campaign.WithLogger(logger.Named("selector")),
	)

	logger.Info("assignment service ready",
		zap.String("store", cfg.CampaignStore),
		zap.String("strategy", string(strategy)),
		zap.String("completion_provider", cfg.Provider),
		zap.Bool("completion_enabled", completer != nil),
		zap.Bool("fallback_to_first", cfg.FallbackToFirst),
	)

	return &Deps{
		DB:       db,
		Assigner: campaign.NewService(metrics.InstrumentStore(campaigns), selector, cfg.UpstreamTimeout),
		Ledger:   ledger.NewRecorder(db, cfg.QueueDir, logger.Named("ledger")),
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config, db database.Service, logger *zap.Logger) (campaign.Store, error) {
	switch cfg.CampaignStore {
	case config.StoreSQLite:
		seeded, err := db.SeedCampaigns(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed campaign catalog: %w", err)
		}
		if seeded > 0 {
			logger.Info("seeded local campaign catalog", zap.Int("campaigns", seeded))
		}
		return db, nil
	case config.StoreAirtable:
		airtable, err := store.NewAirtable(store.AirtableConfig{
			APIKey:  cfg.Airtable.APIKey,
			BaseID:  cfg.Airtable.BaseID,
			Table:   cfg.Airtable.Table,
			View:    cfg.Airtable.View,
			BaseURL: cfg.Airtable.BaseURL,
			Fields: store.FieldMap{
				Name:        cfg.Airtable.NameField,
				Description: cfg.Airtable.DescriptionField,
				Keywords:    cfg.Airtable.KeywordsField,
				SmartleadID: cfg.Airtable.SmartleadField,
			},
			Timeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build airtable store: %w", err)
		}
		return airtable, nil
	default:
		return nil, fmt.Errorf("unknown campaign store %q", cfg.CampaignStore)
	}
}
