package main

import (
	"encoding/json"
	"fmt"
	"os"

	service "github.com/okian/planmatch/internal/app"
	"github.com/okian/planmatch/internal/domain/questionnaire"
	"github.com/okian/planmatch/pkg/logger"
	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	var (
		answersPath string
		catalogPath string
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a questionnaire answers file against the catalog",
		Long:  "Reads questionnaire answers as JSON, matches them against the bundled catalog (or --catalog) and prints the ranked result as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(answersPath)
			if err != nil {
				return fmt.Errorf("failed to read answers file %s: %w", answersPath, err)
			}
			var form questionnaire.Form
			if err := json.Unmarshal(data, &form); err != nil {
				return fmt.Errorf("failed to unmarshal answers JSON: %w", err)
			}
			resp, err := questionnaire.Parse(form)
			if err != nil {
				return err
			}

			svc := service.New(
				service.WithLogger(logger.Nop()),
				service.WithCatalogPath(catalogPath),
				service.WithResultStoreSize(1),
			)
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}
			defer svc.Stop()

			result, err := svc.Match(cmd.Context(), resp)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&answersPath, "answers", "a", "", "Path to questionnaire answers JSON file (required)")
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Path to a plan catalog JSON file (defaults to the bundled catalog)")
	if err := cmd.MarkFlagRequired("answers"); err != nil {
		panic(fmt.Sprintf("failed to mark answers flag as required: %v", err))
	}
	return cmd
}
