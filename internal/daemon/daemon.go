package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"hardsub/internal/config"
	"hardsub/internal/logging"
	"hardsub/internal/notifications"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/workflow"
)

// Daemon coordinates background processing and enforces single-instance
// execution via a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	hub      *progress.Hub
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Workflow     workflow.StatusSummary
	QueueDBPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager, hub *progress.Hub) (*Daemon, error) {
	if cfg == nil || store == nil || wf == nil || hub == nil {
		return nil, errors.New("daemon requires config, store, workflow manager, and progress hub")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "hardsubd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		workflow: wf,
		hub:      hub,
		logPath:  filepath.Join(cfg.Paths.LogDir, "hardsub.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start launches the workflow manager and acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hardsub daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	reclaimed, err := d.workflow.ReclaimStale(d.ctx)
	if err != nil {
		d.logger.Warn("failed to reclaim stale jobs", logging.Error(err))
	} else if reclaimed > 0 {
		d.logger.Info("reclaimed stale jobs", logging.Int64("count", reclaimed))
	}

	if err := d.workflow.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start workflow: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("hardsub daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing, marks in-flight work failed, and
// releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.workflow.FailInFlight(context.Background()); err != nil {
		d.logger.Warn("failed to mark in-flight jobs", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("hardsub daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports daemon and workflow health.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Workflow:     d.workflow.Status(ctx),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
	}
}

// LogPath returns the daemon's primary log file path.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Enqueue adds a new job to the queue.
func (d *Daemon) Enqueue(ctx context.Context, sourcePath, outputPath string, opts queue.JobOptions) (*queue.Item, error) {
	return d.store.NewJob(ctx, sourcePath, outputPath, opts)
}

// ListQueue returns queue items filtered by optional statuses.
func (d *Daemon) ListQueue(ctx context.Context, statuses []queue.Status) ([]*queue.Item, error) {
	return d.store.List(ctx, statuses...)
}

// GetQueueItem returns a single queue item by ID, or nil when absent.
func (d *Daemon) GetQueueItem(ctx context.Context, id int64) (*queue.Item, error) {
	return d.store.GetByID(ctx, id)
}

// ClearQueue removes all queue items.
func (d *Daemon) ClearQueue(ctx context.Context) (int64, error) {
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed queue items.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	return d.store.ClearCompleted(ctx)
}

// RetryJob resets a failed job back to pending.
func (d *Daemon) RetryJob(ctx context.Context, id int64) (*queue.Item, error) {
	return d.store.Retry(ctx, id)
}

// Progress returns buffered progress events newer than since. When wait is
// true the call blocks until new events arrive or the context is done.
func (d *Daemon) Progress(ctx context.Context, since uint64, limit int, wait bool) ([]progress.Event, uint64, error) {
	return d.hub.Fetch(ctx, since, limit, wait)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	svc := notifications.NewService(d.cfg)
	if err := svc.TestNotification(ctx); err != nil {
		return false, err.Error(), err
	}
	return true, "test notification sent", nil
}
