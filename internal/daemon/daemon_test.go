package daemon_test

import (
	"context"
	"testing"
	"time"

	"hardsub/internal/daemon"
	"hardsub/internal/logging"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/stage"
	"hardsub/internal/testsupport"
	"hardsub/internal/workflow"
)

type noopStage struct{}

func (noopStage) Prepare(context.Context, *queue.Item) error { return nil }
func (noopStage) Execute(context.Context, *queue.Item) error { return nil }
func (noopStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("noop")
}

func noopStages() workflow.Stages {
	return workflow.Stages{
		Extraction:    noopStage{},
		Transcription: noopStage{},
		Subtitles:     noopStage{},
		Burnin:        noopStage{},
	}
}

func newTestDaemon(t *testing.T) (*daemon.Daemon, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	hub := progress.NewHub(64)
	mgr := workflow.NewManager(cfg, store, logging.NewNop(), nil, hub, noopStages())
	d, err := daemon.New(cfg, store, logging.NewNop(), mgr, hub)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, store
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.LockFilePath == "" || status.QueueDBPath == "" {
		t.Fatalf("expected lock and db paths, got %+v", status)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	time.Sleep(50 * time.Millisecond)
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonQueueOperations(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	item, err := d.Enqueue(ctx, "/videos/a.mp4", "/out/a_subtitled.mp4", queue.JobOptions{Title: "A"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}

	items, err := d.ListQueue(ctx, nil)
	if err != nil {
		t.Fatalf("ListQueue: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	fetched, err := d.GetQueueItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetQueueItem: %v", err)
	}
	if fetched == nil || fetched.Title != "A" {
		t.Fatalf("unexpected item: %+v", fetched)
	}

	if _, err := d.RetryJob(ctx, item.ID); err == nil {
		t.Fatal("expected retry of a pending job to fail")
	}

	removed, err := d.ClearQueue(ctx)
	if err != nil {
		t.Fatalf("ClearQueue: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
}

func TestDaemonStopFailsInFlightJobs(t *testing.T) {
	d, store := newTestDaemon(t)
	ctx := context.Background()

	item, err := d.Enqueue(ctx, "/videos/b.mp4", "/out/b_subtitled.mp4", queue.JobOptions{})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	item.Status = queue.StatusTranscribing
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(runCtx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d.Stop()

	updated, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Status != queue.StatusFailed {
		t.Fatalf("expected in-flight job marked failed on stop, got %s", updated.Status)
	}
	if updated.ErrorMessage != queue.DaemonStopReason {
		t.Fatalf("expected daemon stop reason, got %q", updated.ErrorMessage)
	}
}
