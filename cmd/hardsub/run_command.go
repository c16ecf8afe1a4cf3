package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hardsub/internal/daemonrun"
	"hardsub/internal/logging"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Subtitle a single video and wait for it to finish",
		Long: "Process one video end to end in the foreground: extract audio, transcribe " +
			"speech, write subtitles, and burn them into a new video file. Progress is " +
			"printed as the pipeline advances.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, output, opts, err := resolveJobInput(cfg, args[0], flags)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			components, err := daemonrun.Build(cfg, logger)
			if err != nil {
				return err
			}
			defer components.Daemon.Close()

			item, err := components.Store.NewJob(runCtx, source, output, opts)
			if err != nil {
				return err
			}

			if err := components.Manager.Start(runCtx); err != nil {
				return err
			}
			defer components.Manager.Stop()

			return followJob(runCtx, cmd, components.Hub, item.ID)
		},
	}
	flags.register(cmd)
	return cmd
}

// followJob prints progress events for the job until it reaches a terminal
// status or the context is canceled.
func followJob(ctx context.Context, cmd *cobra.Command, hub *progress.Hub, jobID int64) error {
	out := cmd.OutOrStdout()
	var cursor uint64
	var lastMessage string
	for {
		events, next, err := hub.Fetch(ctx, cursor, 0, true)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("read progress: %w", err)
		}
		cursor = next
		for _, evt := range events {
			if evt.JobID != jobID {
				continue
			}
			message := evt.Message
			if message == "" {
				message = evt.Stage
			}
			if message != "" && message != lastMessage {
				fmt.Fprintf(out, "[%3.0f%%] %s\n", evt.Percent, message)
				lastMessage = message
			}
			switch evt.Status {
			case string(queue.StatusCompleted):
				return nil
			case string(queue.StatusFailed):
				return fmt.Errorf("job failed: %s", evt.Message)
			}
		}
	}
}
