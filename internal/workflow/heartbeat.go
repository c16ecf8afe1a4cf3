package workflow

import (
	"context"
	"sync"
	"time"

	"hardsub/internal/logging"
	"hardsub/internal/queue"
)

// heartbeatLoop records liveness timestamps for an in-flight job until the
// context is canceled.
func (m *Manager) heartbeatLoop(ctx context.Context, wg *sync.WaitGroup, jobID int64) {
	defer wg.Done()

	interval := time.Duration(m.cfg.Workflow.HeartbeatInterval) * time.Second
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.store.Heartbeat(ctx, jobID); err != nil && ctx.Err() == nil {
				m.logger.Warn("heartbeat update failed",
					logging.Error(err),
					logging.Int64(logging.FieldJobID, jobID),
					logging.String(logging.FieldEventType, "heartbeat_failed"),
					logging.String(logging.FieldErrorHint, "check job database access"),
				)
			}
		}
	}
}

// ReclaimStale fails jobs whose heartbeat has expired, typically after a
// daemon crash left them in a processing status.
func (m *Manager) ReclaimStale(ctx context.Context) (int64, error) {
	timeout := time.Duration(m.cfg.Workflow.HeartbeatTimeout) * time.Second
	if timeout <= 0 {
		return 0, nil
	}
	return m.store.FailStale(ctx, timeout, queue.DaemonStopReason)
}
