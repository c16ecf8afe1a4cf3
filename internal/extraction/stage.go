package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hardsub/internal/config"
	"hardsub/internal/logging"
	"hardsub/internal/media/ffmpeg"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/services"
	"hardsub/internal/stage"
)

const progressExtracting = 5

// Stage extracts the audio track from the source video into the job scratch
// directory. It is the first pipeline step and owns scratch allocation.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	ffmpeg *ffmpeg.Service
	hub    *progress.Hub
	logger *slog.Logger
}

// NewStage constructs the audio extraction stage.
func NewStage(cfg *config.Config, store *queue.Store, svc *ffmpeg.Service, hub *progress.Hub, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		ffmpeg: svc,
		hub:    hub,
		logger: logging.NewComponentLogger(logger, "extraction"),
	}
}

// SetLogger allows the workflow manager to route stage logs into the job-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "extraction")
}

// Prepare primes progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.ffmpeg == nil {
		return services.Wrap(services.ErrConfiguration, "extraction", "prepare", "Extraction stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "extraction", "prepare", "Job is nil", nil)
	}
	if _, err := os.Stat(item.SourcePath); err != nil {
		return services.Wrap(services.ErrValidation, "extraction", "prepare",
			fmt.Sprintf("Source video %s is not readable", item.SourcePath), err)
	}
	item.SetProgress("Extracting audio", "Extracting audio track", progressExtracting)
	if err := s.store.UpdateProgress(ctx, item); err != nil {
		return err
	}
	s.hub.PublishItem(item)
	return nil
}

// Execute allocates the job scratch directory and extracts the audio track.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	start := time.Now()

	if item.ScratchDir == "" {
		scratch := filepath.Join(s.cfg.Paths.StagingDir, fmt.Sprintf("job-%d-%s", item.ID, uuid.NewString()[:8]))
		if err := os.MkdirAll(scratch, 0o755); err != nil {
			return services.Wrap(services.ErrTransient, "extraction", "create scratch dir", scratch, err)
		}
		item.ScratchDir = scratch
	}

	audioPath := filepath.Join(item.ScratchDir, "audio.wav")
	if err := s.ffmpeg.ExtractAudio(ctx, item.SourcePath, audioPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "extraction", "extract audio", "Audio extraction failed", err)
	}
	item.AudioFile = audioPath

	s.logger.Info("audio extracted",
		logging.String(logging.FieldEventType, "audio_extracted"),
		logging.Int64(logging.FieldJobID, item.ID),
		logging.String("audio_file", audioPath),
		logging.Duration("duration", time.Since(start)),
	)
	return nil
}

// HealthCheck probes the transcoder binary.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "extraction"
	if s == nil || s.ffmpeg == nil {
		return stage.Unhealthy(name, "ffmpeg service not configured")
	}
	if err := s.ffmpeg.Probe(ctx); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
