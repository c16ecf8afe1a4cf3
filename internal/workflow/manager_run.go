package workflow

import (
	"context"
	"errors"
	"time"

	"hardsub/internal/logging"
	"hardsub/internal/queue"
)

// Start begins the background worker. Exactly one worker runs per manager;
// jobs are claimed and processed one at a time.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	for _, ps := range m.pipeline {
		if ps.handler == nil {
			m.mu.Unlock()
			return errors.New("workflow stages not configured")
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the worker to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Running reports whether the background worker is active.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := m.store.NextForStatuses(ctx, m.statusOrder...)
		if err != nil {
			m.setLastError(err)
			m.logger.Error("failed to fetch next job",
				logging.Error(err),
				logging.String(logging.FieldEventType, "queue_fetch_failed"),
				logging.String(logging.FieldErrorHint, "check job database access"),
			)
			m.waitForJobOrShutdown(ctx, time.Duration(m.cfg.Workflow.ErrorRetryInterval)*time.Second)
			continue
		}
		if item == nil {
			m.waitForJobOrShutdown(ctx, m.pollInterval)
			continue
		}

		if err := m.processItem(ctx, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) waitForJobOrShutdown(ctx context.Context, wait time.Duration) {
	if wait <= 0 {
		wait = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

// FailInFlight marks any in-flight job as failed with the daemon stop reason.
// Called during shutdown so jobs do not stay stuck in a processing status.
func (m *Manager) FailInFlight(ctx context.Context) error {
	for _, status := range []queue.Status{
		queue.StatusExtracting, queue.StatusTranscribing, queue.StatusSubtitling, queue.StatusBurning,
	} {
		item, err := m.store.NextForStatuses(ctx, status)
		if err != nil {
			return err
		}
		if item == nil {
			continue
		}
		item.SetFailed(queue.DaemonStopReason)
		if err := m.store.Update(ctx, item); err != nil {
			return err
		}
		m.hub.PublishItem(item)
	}
	return nil
}
