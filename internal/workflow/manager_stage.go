package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"hardsub/internal/logging"
	"hardsub/internal/queue"
)

func (m *Manager) processItem(ctx context.Context, item *queue.Item) error {
	ps, ok := m.stageForStatus(item.Status)
	if !ok {
		m.logger.Warn("no stage configured for status", logging.String("status", string(item.Status)))
		m.waitForJobOrShutdown(ctx, m.pollInterval)
		return nil
	}

	stageLogger := m.logger.With(
		logging.Int64(logging.FieldJobID, item.ID),
		logging.String(logging.FieldStage, ps.name),
	)
	if aware, ok := ps.handler.(loggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	if err := m.transitionToProcessing(ctx, ps, item); err != nil {
		stageLogger.Error("failed to transition job to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(ctx, stageLogger, ps, item)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, ps pipelineStage, item *queue.Item) error {
	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("source_file", strings.TrimSpace(item.SourcePath)),
	)

	if err := ps.handler.Prepare(ctx, item); err != nil {
		m.handleStageFailure(ctx, ps.name, item, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		stageLogger.Error("failed to persist stage preparation", logging.Error(err))
		m.setLastError(err)
		return err
	}

	execErr := m.executeWithHeartbeat(ctx, ps, item)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(ctx, ps.name, item, execErr)
		m.setLastError(execErr)
		return execErr
	}

	item.Status = ps.doneStatus
	item.LastHeartbeat = nil
	if err := m.store.Update(ctx, item); err != nil {
		stageLogger.Error("failed to persist stage result", logging.Error(err))
		m.setLastError(err)
		return err
	}
	m.hub.PublishItem(item)
	m.setLastJob(item)

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(item.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)

	if item.Status == queue.StatusCompleted {
		m.notifyCompleted(ctx, item)
	}
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, ps pipelineStage, item *queue.Item) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeatLoop(hbCtx, &hbWG, item.ID)

	execErr := ps.handler.Execute(ctx, item)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (m *Manager) transitionToProcessing(ctx context.Context, ps pipelineStage, item *queue.Item) error {
	now := time.Now().UTC()
	firstStage := item.Status == queue.StatusPending
	item.Status = ps.processingStatus
	item.ErrorMessage = ""
	item.LastHeartbeat = &now
	if err := m.store.Update(ctx, item); err != nil {
		return err
	}
	m.hub.PublishItem(item)
	m.setLastJob(item)
	if firstStage {
		m.notifyStarted(ctx, item)
	}
	return nil
}

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, cause error) {
	item.SetFailed(cause.Error())
	if err := m.store.Update(ctx, item); err != nil {
		m.logger.Error("failed to persist job failure",
			logging.Error(err),
			logging.Int64(logging.FieldJobID, item.ID),
		)
	}
	m.hub.PublishItem(item)
	m.setLastJob(item)
	m.logger.Error("stage failed",
		logging.Error(cause),
		logging.String(logging.FieldEventType, "stage_failed"),
		logging.String(logging.FieldStage, stageName),
		logging.Int64(logging.FieldJobID, item.ID),
	)
	m.notifyFailed(ctx, item, cause)
}
