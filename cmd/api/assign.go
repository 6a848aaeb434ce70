package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leadrouter/internal/bootstrap"
	"leadrouter/internal/campaign"
	"leadrouter/internal/config"
	"leadrouter/internal/metrics"
)

const surfaceCLI = "cli"

func newAssignCommand() *cobra.Command {
	var (
		file     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign one lead read from a file or stdin and print the result",
		Long: `Reads an assignment request ({"lead": {...}}) and prints the JSON response
the /api/assign endpoint would return.

Examples:
  leadrouter assign --file lead.json
  echo '{"lead":{"name":"Example Corp"}}' | leadrouter assign --strategy keyword`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			var override func(*config.Config)
			if strategy != "" {
				override = func(cfg *config.Config) { cfg.Strategy = strategy }
			}
			cfg, logger, err := loadRuntime(override)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			deps, err := bootstrap.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close() }()

			return runAssign(cmd.Context(), cmd.OutOrStdout(), deps, logger, body)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "request file, or - for stdin")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "selection strategy override (first, ai, keyword)")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}

// runAssign decodes body, assigns the lead and writes the API-shaped
// response to out. Errors are written as {"error": ...} and returned.
func runAssign(ctx context.Context, out io.Writer, deps *bootstrap.Deps, logger *zap.Logger, body []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}

	lead, err := campaign.DecodeAssignRequest(body)
	if err == nil {
		var result campaign.MatchResult
		result, err = deps.Assigner.Assign(ctx, lead)
		metrics.RecordAssignment(surfaceCLI, deps.Assigner.Strategy(), result, err)
		if err == nil {
			if deps.Ledger != nil {
				if recErr := deps.Ledger.Record(ctx, lead, result, surfaceCLI); recErr != nil {
					logger.Error("failed to record assignment", zap.String("surface", surfaceCLI), zap.Error(recErr))
				}
			}
			return writeJSON(out, campaign.NewAssignResponse(result))
		}
	}

	if writeErr := writeJSON(out, map[string]string{"error": campaign.ErrorMessage(err)}); writeErr != nil {
		return writeErr
	}
	return fmt.Errorf("assign: %w", err)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
