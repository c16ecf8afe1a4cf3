package burnin_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"hardsub/internal/burnin"
	"hardsub/internal/logging"
	"hardsub/internal/media/ffmpeg"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/services"
	"hardsub/internal/subtitles"
	"hardsub/internal/testsupport"
)

func defaultStyle() subtitles.Style {
	return subtitles.Style{FontSize: 24, FontColor: "FFFFFF", Position: subtitles.PositionBottom}
}

func newJobWithSubtitles(t *testing.T, store *queue.Store, outputPath string) *queue.Item {
	t.Helper()
	scratch := t.TempDir()
	srt := filepath.Join(scratch, "out.srt")
	testsupport.WriteFile(t, srt, 64)

	item := testsupport.NewJob(t, store, "/videos/in.mkv", outputPath, queue.JobOptions{Style: defaultStyle()})
	item.ScratchDir = scratch
	item.SubtitleFile = srt
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	return item
}

func TestStageBurnsSubtitlesAndFinishesAtHundred(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	var gotArgs []string
	svc := ffmpeg.NewService("ffmpeg")
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return nil
	})
	hub := progress.NewHub(32)
	stg := burnin.NewStage(store, svc, hub, logging.NewNop())

	output := filepath.Join(t.TempDir(), "final", "in_subtitled.mkv")
	item := newJobWithSubtitles(t, store, output)

	ctx := context.Background()
	if err := stg.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if item.ProgressPercent != 85 {
		t.Fatalf("prepare progress = %v, want 85", item.ProgressPercent)
	}
	if err := stg.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-c:a copy") {
		t.Fatalf("burn-in must copy audio: %s", joined)
	}
	if !strings.Contains(joined, "force_style=") {
		t.Fatalf("burn-in args missing subtitle filter: %s", joined)
	}
	if item.ProgressPercent != 100 {
		t.Fatalf("final progress = %v, want 100", item.ProgressPercent)
	}
	if !strings.Contains(item.ProgressMessage, output) {
		t.Fatalf("final message should name the output file: %q", item.ProgressMessage)
	}
}

func TestStagePrepareRejectsInvalidStyle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	stg := burnin.NewStage(store, ffmpeg.NewService("ffmpeg"), progress.NewHub(8), logging.NewNop())

	item := newJobWithSubtitles(t, store, "/out/x.mkv")
	item.FontColor = "not-a-color"

	err := stg.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStagePrepareRequiresSubtitleFile(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	stg := burnin.NewStage(store, ffmpeg.NewService("ffmpeg"), progress.NewHub(8), logging.NewNop())
	item := testsupport.NewJob(t, store, "/videos/in.mkv", "/out/in.mkv", queue.JobOptions{Style: defaultStyle()})

	err := stg.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStageExecuteSurfacesEncodeFailure(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := ffmpeg.NewService("ffmpeg")
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})
	stg := burnin.NewStage(store, svc, progress.NewHub(8), logging.NewNop())
	item := newJobWithSubtitles(t, store, filepath.Join(t.TempDir(), "out.mkv"))

	err := stg.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
