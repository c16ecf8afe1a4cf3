package burnin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"hardsub/internal/logging"
	"hardsub/internal/media/ffmpeg"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/services"
	"hardsub/internal/stage"
)

const progressBurning = 85

// Stage re-encodes the source video with the subtitle track burned in. It is
// the final pipeline step and produces the job output file.
type Stage struct {
	store  *queue.Store
	ffmpeg *ffmpeg.Service
	hub    *progress.Hub
	logger *slog.Logger
}

// NewStage constructs the burn-in stage.
func NewStage(store *queue.Store, svc *ffmpeg.Service, hub *progress.Hub, logger *slog.Logger) *Stage {
	return &Stage{store: store, ffmpeg: svc, hub: hub, logger: logging.NewComponentLogger(logger, "burnin")}
}

// SetLogger allows the workflow manager to route stage logs into the job-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "burnin")
}

// Prepare validates the style parameters and reports the burn-in phase.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.ffmpeg == nil {
		return services.Wrap(services.ErrConfiguration, "burnin", "prepare", "Burn-in stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "burnin", "prepare", "Job is nil", nil)
	}
	if item.SubtitleFile == "" {
		return services.Wrap(services.ErrValidation, "burnin", "prepare", "No subtitle file available", nil)
	}
	if err := item.Style().Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "burnin", "prepare", "Invalid subtitle style", err)
	}
	item.SetProgress("Burning subtitles", "Burning subtitles into video", progressBurning)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)
	return nil
}

// Execute runs the burn-in encode and marks the job done at 100%.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	start := time.Now()

	if dir := filepath.Dir(item.OutputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrTransient, "burnin", "create output dir", dir, err)
		}
	}

	if err := s.ffmpeg.BurnIn(ctx, item.SourcePath, item.SubtitleFile, item.OutputPath, item.Style()); err != nil {
		return services.Wrap(services.ErrExternalTool, "burnin", "burn subtitles", "Burn-in failed", err)
	}

	item.SetProgress("Done", fmt.Sprintf("Done. Output: %s", item.OutputPath), 100)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)

	s.logger.Info("burn-in complete",
		logging.String(logging.FieldEventType, "burnin_complete"),
		logging.Int64(logging.FieldJobID, item.ID),
		logging.String("output", item.OutputPath),
		logging.Duration("duration", time.Since(start)),
	)
	return nil
}

// HealthCheck probes the transcoder binary.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "burnin"
	if s == nil || s.ffmpeg == nil {
		return stage.Unhealthy(name, "ffmpeg service not configured")
	}
	if err := s.ffmpeg.Probe(ctx); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
