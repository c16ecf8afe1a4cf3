package workflow

import (
	"context"

	"hardsub/internal/logging"
	"hardsub/internal/queue"
	"hardsub/internal/stage"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running     bool
	LastError   string
	LastJob     *queue.Item
	QueueStats  map[string]int
	StageHealth map[string]stage.Health
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	running := m.running
	lastErr := m.lastErr
	lastJob := m.lastJob
	stageSet := make([]pipelineStage, len(m.pipeline))
	copy(stageSet, m.pipeline)
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("failed to read queue stats", logging.Error(err))
	}

	health := make(map[string]stage.Health, len(stageSet))
	for _, stg := range stageSet {
		if stg.handler == nil {
			continue
		}
		health[stg.name] = stg.handler.HealthCheck(ctx)
	}

	summary := StatusSummary{Running: running, QueueStats: stats, StageHealth: health}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastJob != nil {
		cp := *lastJob
		summary.LastJob = &cp
	}
	return summary
}

func (m *Manager) notifyStarted(ctx context.Context, item *queue.Item) {
	if err := m.notifier.NotifyJobStarted(ctx, item.Title); err != nil {
		m.logNotifyError("job_started", item.ID, err)
	}
}

func (m *Manager) notifyCompleted(ctx context.Context, item *queue.Item) {
	if err := m.notifier.NotifyJobCompleted(ctx, item.Title, item.OutputPath); err != nil {
		m.logNotifyError("job_completed", item.ID, err)
	}
}

func (m *Manager) notifyFailed(ctx context.Context, item *queue.Item, cause error) {
	if err := m.notifier.NotifyJobFailed(ctx, item.Title, cause); err != nil {
		m.logNotifyError("job_failed", item.ID, err)
	}
}

func (m *Manager) logNotifyError(event string, jobID int64, err error) {
	m.logger.Warn("notification delivery failed",
		logging.Error(err),
		logging.String("notification", event),
		logging.Int64(logging.FieldJobID, jobID),
	)
}
