package extraction_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"hardsub/internal/extraction"
	"hardsub/internal/logging"
	"hardsub/internal/media/ffmpeg"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/services"
	"hardsub/internal/testsupport"
)

func newStage(t *testing.T, runner func(ctx context.Context, name string, args ...string) error) (*extraction.Stage, *queue.Store, *progress.Hub, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := ffmpeg.NewService("ffmpeg")
	svc.WithCommandRunner(runner)
	hub := progress.NewHub(32)
	return extraction.NewStage(cfg, store, svc, hub, logging.NewNop()), store, hub, cfg.Paths.StagingDir
}

func TestStageExtractsAudioIntoScratchDir(t *testing.T) {
	var extracted string
	stage, store, hub, stagingDir := newStage(t, func(ctx context.Context, name string, args ...string) error {
		extracted = args[len(args)-1]
		testsupport.WriteFile(t, extracted, 128)
		return nil
	})

	source := filepath.Join(t.TempDir(), "movie.mkv")
	testsupport.WriteFile(t, source, 1024)
	item := testsupport.NewJob(t, store, source, "/out/movie.mkv", queue.JobOptions{})

	ctx := context.Background()
	if err := stage.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if item.ProgressPercent != 5 {
		t.Fatalf("prepare progress = %v, want 5", item.ProgressPercent)
	}
	if err := stage.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if item.ScratchDir == "" || !strings.HasPrefix(item.ScratchDir, stagingDir) {
		t.Fatalf("scratch dir %q not under staging dir %q", item.ScratchDir, stagingDir)
	}
	if item.AudioFile != filepath.Join(item.ScratchDir, "audio.wav") {
		t.Fatalf("audio file = %q", item.AudioFile)
	}
	if extracted != item.AudioFile {
		t.Fatalf("ffmpeg wrote %q, item records %q", extracted, item.AudioFile)
	}

	events, _, err := hub.Fetch(ctx, 0, 0, false)
	if err != nil || len(events) == 0 {
		t.Fatalf("expected published progress events, got %v (%v)", events, err)
	}
}

func TestStagePrepareRejectsMissingSource(t *testing.T) {
	stage, store, _, _ := newStage(t, func(ctx context.Context, name string, args ...string) error {
		return nil
	})
	item := testsupport.NewJob(t, store, "/nonexistent/video.mkv", "/out/x.mkv", queue.JobOptions{})

	err := stage.Prepare(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStageExecuteSurfacesFFmpegFailure(t *testing.T) {
	stage, store, _, _ := newStage(t, func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})
	source := filepath.Join(t.TempDir(), "movie.mkv")
	testsupport.WriteFile(t, source, 64)
	item := testsupport.NewJob(t, store, source, "/out/x.mkv", queue.JobOptions{})

	err := stage.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error from failing ffmpeg")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestStageHealthCheck(t *testing.T) {
	stage, _, _, _ := newStage(t, func(ctx context.Context, name string, args ...string) error {
		return nil
	})
	health := stage.HealthCheck(context.Background())
	if !health.Ready || health.Name != "extraction" {
		t.Fatalf("unexpected health: %+v", health)
	}

	broken, _, _, _ := newStage(t, func(ctx context.Context, name string, args ...string) error {
		return errors.New("no such binary")
	})
	if got := broken.HealthCheck(context.Background()); got.Ready {
		t.Fatalf("expected unhealthy, got %+v", got)
	}
}
