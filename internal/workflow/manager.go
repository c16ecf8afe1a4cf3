package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hardsub/internal/config"
	"hardsub/internal/logging"
	"hardsub/internal/notifications"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/stage"
)

// Stages binds a handler to each pipeline step, in execution order.
type Stages struct {
	Extraction    stage.Handler
	Transcription stage.Handler
	Subtitles     stage.Handler
	Burnin        stage.Handler
}

// pipelineStage maps a waiting status to the handler that advances it.
type pipelineStage struct {
	name             string
	claimStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
	handler          stage.Handler
}

// loggerAware lets stages receive the manager's job-scoped logger.
type loggerAware interface {
	SetLogger(*slog.Logger)
}

// Manager coordinates job processing using the registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	notifier     notifications.Service
	hub          *progress.Hub
	pollInterval time.Duration

	pipeline    []pipelineStage
	statusOrder []queue.Status

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Item
}

// NewManager constructs a workflow manager with the given stage handlers.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service, hub *progress.Hub, stages Stages) *Manager {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	pipeline := []pipelineStage{
		{name: "extraction", claimStatus: queue.StatusPending, processingStatus: queue.StatusExtracting, doneStatus: queue.StatusExtracted, handler: stages.Extraction},
		{name: "transcription", claimStatus: queue.StatusExtracted, processingStatus: queue.StatusTranscribing, doneStatus: queue.StatusTranscribed, handler: stages.Transcription},
		{name: "subtitles", claimStatus: queue.StatusTranscribed, processingStatus: queue.StatusSubtitling, doneStatus: queue.StatusSubtitled, handler: stages.Subtitles},
		{name: "burnin", claimStatus: queue.StatusSubtitled, processingStatus: queue.StatusBurning, doneStatus: queue.StatusCompleted, handler: stages.Burnin},
	}
	statusOrder := make([]queue.Status, 0, len(pipeline))
	for _, ps := range pipeline {
		statusOrder = append(statusOrder, ps.claimStatus)
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		notifier:     notifier,
		hub:          hub,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		pipeline:     pipeline,
		statusOrder:  statusOrder,
	}
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	for _, ps := range m.pipeline {
		if ps.claimStatus == status {
			return ps, true
		}
	}
	return pipelineStage{}, false
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastJob(item *queue.Item) {
	if item == nil {
		return
	}
	cp := *item
	m.mu.Lock()
	m.lastJob = &cp
	m.mu.Unlock()
}
