package subtitling

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"hardsub/internal/logging"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/services"
	"hardsub/internal/stage"
	"hardsub/internal/subtitles"
)

const progressSubtitlesWritten = 80

// Stage materializes the transcribed segments as an SRT artifact in the job
// scratch directory.
type Stage struct {
	store  *queue.Store
	hub    *progress.Hub
	logger *slog.Logger
}

// NewStage constructs the subtitle-writing stage.
func NewStage(store *queue.Store, hub *progress.Hub, logger *slog.Logger) *Stage {
	return &Stage{store: store, hub: hub, logger: logging.NewComponentLogger(logger, "subtitling")}
}

// SetLogger allows the workflow manager to route stage logs into the job-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "subtitling")
}

// Prepare primes progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.store == nil {
		return services.Wrap(services.ErrConfiguration, "subtitles", "prepare", "Subtitle stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "subtitles", "prepare", "Job is nil", nil)
	}
	if strings.TrimSpace(item.SegmentsFile) == "" {
		return services.Wrap(services.ErrValidation, "subtitles", "prepare", "No transcription segments available", nil)
	}
	item.SetProgress("Writing subtitles", "Writing subtitle file", 75)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)
	return nil
}

// Execute writes and validates the SRT file.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	segments, err := subtitles.LoadSegments(item.SegmentsFile)
	if err != nil {
		return services.Wrap(services.ErrTransient, "subtitles", "load segments", item.SegmentsFile, err)
	}

	srtPath := filepath.Join(item.ScratchDir, "out.srt")
	cues, err := subtitles.WriteSRTFile(srtPath, segments)
	if err != nil {
		return services.Wrap(services.ErrTransient, "subtitles", "write srt", srtPath, err)
	}
	item.SubtitleFile = srtPath

	// An empty artifact is legitimate (no speech); the burn-in still runs so
	// the caller gets their output video. Other issues are worth surfacing.
	if issues := subtitles.ValidateSRTContent(srtPath); len(issues) > 0 {
		s.logger.Warn("subtitle file has issues",
			logging.String(logging.FieldEventType, "subtitle_validation"),
			logging.Int64(logging.FieldJobID, item.ID),
			logging.String("issues", strings.Join(issues, ",")),
		)
	}

	item.SetProgress("Writing subtitles", "Subtitle file written", progressSubtitlesWritten)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)

	s.logger.Info("subtitles written",
		logging.String(logging.FieldEventType, "subtitles_written"),
		logging.Int64(logging.FieldJobID, item.ID),
		logging.String("subtitle_file", srtPath),
		logging.Int("cues", cues),
	)
	return nil
}

// HealthCheck reports readiness; this stage has no external dependencies.
func (s *Stage) HealthCheck(context.Context) stage.Health {
	const name = "subtitles"
	if s == nil || s.store == nil {
		return stage.Unhealthy(name, "store not configured")
	}
	return stage.Healthy(name)
}
