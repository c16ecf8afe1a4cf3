package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hardsub/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				detail := status.Detail
				if detail == "" && status.Available {
					detail = status.Command
				}
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					yesNo(!status.Optional),
					detail,
				})
				if !status.Available && !status.Optional {
					missingRequired = true
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Available", "Required", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if missingRequired {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
}
