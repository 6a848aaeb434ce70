package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leadrouter/internal/config"
	"leadrouter/internal/logging"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadrouter",
		Short:         "Assign inbound leads to outreach campaigns",
		Long:          `leadrouter serves an intake form and a JSON API that match each lead to one campaign from the campaign store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCommand(), newAssignCommand())
	return root
}

// loadRuntime reads configuration and builds the process logger.
func loadRuntime(override func(*config.Config)) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
