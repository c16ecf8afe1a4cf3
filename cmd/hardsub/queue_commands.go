package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hardsub/internal/api"
	"hardsub/internal/config"
	"hardsub/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the job queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newQueueListCommand(ctx))
	cmd.AddCommand(newQueueShowCommand(ctx))
	cmd.AddCommand(newQueueClearCommand(ctx))
	cmd.AddCommand(newQueueRetryCommand(ctx))
	return cmd
}

func withStore(ctx *commandContext, fn func(cfg *config.Config, store *queue.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue store: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *queue.Store) error {
				statuses := make([]queue.Status, 0, len(statusFilter))
				for _, raw := range statusFilter {
					parsed, ok := queue.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, parsed)
				}
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				rows := buildQueueListRows(api.FromQueueItems(items))
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Status", "Progress", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show details for a single job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return withStore(ctx, func(_ *config.Config, store *queue.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("job %d not found", id)
				}
				printJobDetails(cmd, api.FromQueueItem(item))
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var completedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove jobs from the queue",
		Long:  "Remove all jobs, or only completed ones with --completed. Scratch files are left in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *queue.Store) error {
				var removed int64
				var err error
				if completedOnly {
					removed, err = store.ClearCompleted(cmd.Context())
				} else {
					removed, err = store.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				label := "jobs"
				if completedOnly {
					label = "completed jobs"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s\n", removed, label)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Only remove completed jobs")
	return cmd
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Reset a failed job back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return withStore(ctx, func(_ *config.Config, store *queue.Store) error {
				item, err := store.Retry(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Job %d reset to %s\n", item.ID, item.Status)
				return nil
			})
		},
	}
}

func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

func buildQueueListRows(items []api.QueueItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			if source := strings.TrimSpace(item.SourcePath); source != "" {
				title = filepath.Base(source)
			} else {
				title = "Unknown"
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			title,
			formatStatusLabel(item.Status),
			fmt.Sprintf("%.0f%%", item.Progress.Percent),
			formatDisplayTime(item.CreatedAt),
		})
	}
	return rows
}

func buildQueueStatsRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func printJobDetails(cmd *cobra.Command, item api.QueueItem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job %d: %s\n", item.ID, item.Title)
	fmt.Fprintf(out, "  Status:    %s\n", formatStatusLabel(item.Status))
	fmt.Fprintf(out, "  Source:    %s\n", item.SourcePath)
	fmt.Fprintf(out, "  Output:    %s\n", item.OutputPath)
	if item.Language != "" {
		fmt.Fprintf(out, "  Language:  %s\n", item.Language)
	}
	if item.Model != "" {
		fmt.Fprintf(out, "  Model:     %s\n", item.Model)
	}
	fmt.Fprintf(out, "  Style:     size %d, color %s, %s\n", item.FontSize, item.FontColor, item.Position)
	if item.Progress.Stage != "" {
		fmt.Fprintf(out, "  Progress:  %.0f%% (%s)\n", item.Progress.Percent, item.Progress.Stage)
	}
	if item.Progress.Message != "" {
		fmt.Fprintf(out, "  Message:   %s\n", item.Progress.Message)
	}
	if item.SubtitleFile != "" {
		fmt.Fprintf(out, "  Subtitles: %s\n", item.SubtitleFile)
	}
	if item.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error:     %s\n", item.ErrorMessage)
	}
	if item.CreatedAt != "" {
		fmt.Fprintf(out, "  Created:   %s\n", formatDisplayTime(item.CreatedAt))
	}
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + strings.ToLower(status[1:])
}

func formatDisplayTime(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02T15:04:05.000Z07:00", value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04")
}
