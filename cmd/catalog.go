package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/okian/planmatch/internal/domain/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect plan catalogs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate PATH",
		Short: "Validate a plan catalog file",
		Long:  "Checks a catalog file against the catalog JSON schema and the load-time rules (unique IDs, known exclusion rules, ordered cost tiers).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read catalog file %s: %w", args[0], err)
			}
			c, err := catalog.Parse(data)
			if err != nil {
				var schemaErr *catalog.SchemaError
				if errors.As(err, &schemaErr) {
					for _, fe := range schemaErr.Errors {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Message)
					}
				}
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d plans\n", c.Len())
			return err
		},
	})
	return cmd
}
