package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"hardsub/internal/logging"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/services"
	"hardsub/internal/speech"
	"hardsub/internal/stage"
	"hardsub/internal/subtitles"
)

const (
	progressLoadingModel = 15
	progressTranscribing = 30
	progressTranscribed  = 70
)

// Stage runs the speech engine against the extracted audio and persists the
// timed segments into the job scratch directory.
type Stage struct {
	store  *queue.Store
	engine speech.Engine
	hub    *progress.Hub
	logger *slog.Logger
}

// NewStage constructs the transcription stage around a resolved engine.
func NewStage(store *queue.Store, engine speech.Engine, hub *progress.Hub, logger *slog.Logger) *Stage {
	return &Stage{
		store:  store,
		engine: engine,
		hub:    hub,
		logger: logging.NewComponentLogger(logger, "transcription"),
	}
}

// SetLogger allows the workflow manager to route stage logs into the job-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "transcription")
}

// Prepare verifies the engine binding and reports the model-loading phase.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.engine == nil {
		return services.Wrap(services.ErrSetup, "transcription", "prepare", "No speech engine bound", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "transcription", "prepare", "Job is nil", nil)
	}
	if item.AudioFile == "" {
		return services.Wrap(services.ErrValidation, "transcription", "prepare", "No extracted audio available", nil)
	}
	model := item.Model
	if model == "" {
		model = speech.DefaultModel
	}
	item.SetProgress("Loading model", fmt.Sprintf("Loading model %q", model), progressLoadingModel)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)
	return nil
}

// Execute transcribes the extracted audio into timed segments.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	start := time.Now()

	item.SetProgress("Transcribing", "Transcribing (this may take a while)", progressTranscribing)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)

	segments, err := s.engine.Transcribe(ctx, item.AudioFile, item.ScratchDir, item.Language, item.Model)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "transcription", "transcribe", "Transcription failed", err)
	}

	segmentsPath := filepath.Join(item.ScratchDir, "segments.json")
	if err := subtitles.SaveSegments(segmentsPath, segments); err != nil {
		return services.Wrap(services.ErrTransient, "transcription", "persist segments", segmentsPath, err)
	}
	item.SegmentsFile = segmentsPath

	item.SetProgress("Transcribing", fmt.Sprintf("Transcription complete (%d segments)", len(segments)), progressTranscribed)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)

	s.logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.Int64(logging.FieldJobID, item.ID),
		logging.String("engine", s.engine.Name()),
		logging.Int("segments", len(segments)),
		logging.Duration("duration", time.Since(start)),
	)
	return nil
}

// HealthCheck reports whether the bound engine is still available.
func (s *Stage) HealthCheck(context.Context) stage.Health {
	const name = "transcription"
	if s == nil || s.engine == nil {
		return stage.Unhealthy(name, "no speech engine bound")
	}
	if !s.engine.Available() {
		return stage.Unhealthy(name, fmt.Sprintf("engine %s is no longer available", s.engine.Name()))
	}
	return stage.Healthy(name)
}
