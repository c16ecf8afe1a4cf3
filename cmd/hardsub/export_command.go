package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hardsub/internal/config"
	"hardsub/internal/fileutil"
	"hardsub/internal/queue"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var asSRT bool
	cmd := &cobra.Command{
		Use:   "export <job-id> [destination]",
		Short: "Export a job's subtitled video or SRT file",
		Long: "Copy the finished video for a queue entry to the given destination. " +
			"With --srt the generated subtitle file is exported instead. Exports work " +
			"for any job that produced the requested artifact, including failed ones.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return withStore(ctx, func(cfg *config.Config, store *queue.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("job %d not found", id)
				}

				source := item.OutputPath
				if asSRT {
					source = item.SubtitleFile
				}
				if source == "" {
					return fmt.Errorf("job %d has no exportable file yet", id)
				}
				if _, err := os.Stat(source); err != nil {
					return fmt.Errorf("export source %s: %w", source, err)
				}

				destination := exportDestination(args, source)
				if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				if err := fileutil.CopyFileVerified(source, destination); err != nil {
					return fmt.Errorf("export job %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", filepath.Base(source), destination)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asSRT, "srt", false, "export the subtitle file instead of the video")
	return cmd
}

// exportDestination resolves the target path. A directory destination keeps
// the source file name; no destination means the current directory.
func exportDestination(args []string, source string) string {
	base := filepath.Base(source)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		return base
	}
	dst := args[1]
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return filepath.Join(dst, base)
	}
	if strings.HasSuffix(dst, string(os.PathSeparator)) {
		return filepath.Join(dst, base)
	}
	return dst
}
