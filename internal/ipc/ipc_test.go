package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hardsub/internal/daemon"
	"hardsub/internal/ipc"
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

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	hub := progress.NewHub(128)
	mgr := workflow.NewManager(cfg, store, logger, nil, hub, workflow.Stages{
		Extraction:    noopStage{},
		Transcription: noopStage{},
		Subtitles:     noopStage{},
		Burnin:        noopStage{},
	})
	d, err := daemon.New(cfg, store, logger, mgr, hub)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "hardsub.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.PID <= 0 {
		t.Fatalf("expected PID, got %d", status.PID)
	}

	enqueued, err := client.Enqueue(ipc.EnqueueRequest{
		SourcePath: "/videos/a.mp4",
		OutputPath: "/out/a_subtitled.mp4",
		Title:      "Video A",
		Language:   "Japanese",
		Model:      "Large",
		Position:   "top",
	})
	if err != nil {
		t.Fatalf("Enqueue RPC failed: %v", err)
	}
	if enqueued.Item.ID <= 0 || enqueued.Item.Title != "Video A" {
		t.Fatalf("unexpected enqueue response: %+v", enqueued.Item)
	}
	if enqueued.Item.Language != "ja" || enqueued.Item.Model != "large" || enqueued.Item.Position != "top" {
		t.Fatalf("enqueue should normalize job options: %+v", enqueued.Item)
	}

	for _, bad := range []ipc.EnqueueRequest{
		{SourcePath: "/videos/b.mp4", Model: "huge"},
		{SourcePath: "/videos/b.mp4", Position: "middle"},
		{SourcePath: "/videos/b.mp4", Language: "klingon"},
	} {
		if _, err := client.Enqueue(bad); err == nil {
			t.Fatalf("expected enqueue rejection for %+v", bad)
		}
	}

	deadline := time.After(30 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job completion")
		default:
		}
		described, err := client.QueueDescribe(enqueued.Item.ID)
		if err != nil {
			t.Fatalf("QueueDescribe RPC failed: %v", err)
		}
		if described.Item.Status == string(queue.StatusCompleted) {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}

	events, err := client.Progress(ipc.ProgressRequest{Since: 0})
	if err != nil {
		t.Fatalf("Progress RPC failed: %v", err)
	}
	if len(events.Events) == 0 {
		t.Fatal("expected progress events for the completed job")
	}
	if events.Next == 0 {
		t.Fatal("expected non-zero progress cursor")
	}
	var prev uint64
	for _, evt := range events.Events {
		if evt.Sequence <= prev {
			t.Fatalf("expected strictly increasing sequences, got %d after %d", evt.Sequence, prev)
		}
		prev = evt.Sequence
	}

	listed, err := client.QueueList(nil)
	if err != nil {
		t.Fatalf("QueueList RPC failed: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(listed.Items))
	}

	cleared, err := client.QueueClearCompleted()
	if err != nil {
		t.Fatalf("QueueClearCompleted RPC failed: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("expected 1 removed, got %d", cleared.Removed)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected Stopped=true")
	}
}

func TestIPCDialFailsWithoutServer(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")
	if _, err := ipc.Dial(socket); err == nil {
		t.Fatal("expected dial to fail without a server")
	}
}
