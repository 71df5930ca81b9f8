package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/planmatch/internal/domain/display"
	"github.com/spf13/cobra"
)

func newDisplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "display SCORE...",
		Short: "Convert raw scores to display percentages",
		Long:  "Sorts the given raw scores highest first and prints the member-facing percentage for each rank.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raws := make([]float64, len(args))
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid score %q: %w", a, err)
				}
				raws[i] = v
			}
			out, err := display.Scores(raws)
			if err != nil {
				return err
			}
			parts := make([]string, len(out))
			for i, v := range out {
				parts[i] = strconv.Itoa(v)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return err
		},
	}
}
