package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hardsub/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "add <video>",
		Short: "Queue a video for subtitling",
		Long:  "Queue a video for background processing. The daemon picks it up on its next poll.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, output, opts, err := resolveJobInput(cfg, args[0], flags)
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open queue store: %w", err)
			}
			defer store.Close()

			item, err := store.NewJob(cmd.Context(), source, output, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d: %s -> %s\n", item.ID, source, output)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
