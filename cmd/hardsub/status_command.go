package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hardsub/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, queue and dependency status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				printDaemonStatus(cmd, resp)
				return nil
			})
		},
	}
}

func printDaemonStatus(cmd *cobra.Command, resp *ipc.StatusResponse) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintln(out, renderSectionHeader("Daemon"))
	runningKind := statusOK
	runningMsg := fmt.Sprintf("pid %d", resp.PID)
	if !resp.Running {
		runningKind = statusWarn
		runningMsg = "workflow stopped"
	}
	fmt.Fprintln(out, renderStatusLine("Processing", runningKind, runningMsg, colorize))
	fmt.Fprintln(out, renderStatusLine("Queue database", statusInfo, resp.QueueDBPath, colorize))
	fmt.Fprintln(out, renderStatusLine("Lock file", statusInfo, resp.LockPath, colorize))
	if resp.LastError != "" {
		fmt.Fprintln(out, renderStatusLine("Last error", statusError, resp.LastError, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Queue"))
	if len(resp.QueueStats) == 0 {
		fmt.Fprintln(out, statusIndent+"queue is empty")
	} else {
		fmt.Fprintln(out, renderTable(
			[]string{"Status", "Count"},
			buildQueueStatsRows(resp.QueueStats),
			[]columnAlignment{alignLeft, alignRight},
		))
	}
	if resp.LastItem != nil {
		kind := statusInfo
		switch resp.LastItem.Status {
		case "completed":
			kind = statusOK
		case "failed":
			kind = statusError
		}
		detail := fmt.Sprintf("%s (%s, %.0f%%)", resp.LastItem.Title, formatStatusLabel(resp.LastItem.Status), resp.LastItem.Progress.Percent)
		fmt.Fprintln(out, renderStatusLine("Current job", kind, detail, colorize))
	}

	if len(resp.StageHealth) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSectionHeader("Stages"))
		for _, stage := range resp.StageHealth {
			fmt.Fprintln(out, renderStatusLine(formatStatusLabel(stage.Name), boolKind(stage.Ready), stage.Detail, colorize))
		}
	}

	if len(resp.Dependencies) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSectionHeader("Dependencies"))
		for _, dep := range resp.Dependencies {
			fmt.Fprintln(out, renderStatusLine(dep.Name, boolKind(dep.Available), dep.Detail, colorize))
		}
	}
}
