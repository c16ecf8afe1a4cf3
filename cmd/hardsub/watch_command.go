package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hardsub/internal/ipc"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var jobID int64
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live progress events from the daemon",
		Long: "Stream progress events as the daemon processes jobs. Without --job all " +
			"events are shown; with --job only events for that queue entry.",
		RunE: func(cmd *cobra.Command, args []string) error {
			watchCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withClient(func(client *ipc.Client) error {
				var cursor uint64
				lastLine := ""
				for {
					select {
					case <-watchCtx.Done():
						return nil
					default:
					}

					resp, err := client.Progress(ipc.ProgressRequest{
						Since:      cursor,
						Wait:       true,
						WaitMillis: 1000,
					})
					if err != nil {
						return err
					}
					for _, event := range resp.Events {
						if jobID > 0 && event.JobID != jobID {
							continue
						}
						line := fmt.Sprintf("[%3.0f%%] job %d %s: %s", event.Percent, event.JobID, event.Stage, event.Message)
						if line == lastLine {
							continue
						}
						lastLine = line
						fmt.Fprintln(cmd.OutOrStdout(), line)
					}
					if resp.Next > cursor {
						cursor = resp.Next
					}
				}
			})
		},
	}
	cmd.Flags().Int64Var(&jobID, "job", 0, "only show events for the given job id")
	return cmd
}
