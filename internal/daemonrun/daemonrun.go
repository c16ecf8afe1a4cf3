// Package daemonrun assembles the full processing stack from configuration:
// queue store, ffmpeg service, speech engine, stage handlers, workflow
// manager, daemon, and IPC server. Both the long-running daemon command and
// the one-shot run command build from here so wiring stays in one place.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"

	"hardsub/internal/burnin"
	"hardsub/internal/config"
	"hardsub/internal/daemon"
	"hardsub/internal/extraction"
	"hardsub/internal/ipc"
	"hardsub/internal/logging"
	"hardsub/internal/media/ffmpeg"
	"hardsub/internal/preflight"
	"hardsub/internal/progress"
	"hardsub/internal/queue"
	"hardsub/internal/speech"
	"hardsub/internal/subtitling"
	"hardsub/internal/transcription"
	"hardsub/internal/workflow"
)

// hubCapacity bounds the progress event ring buffer.
const hubCapacity = 512

// Components holds the assembled processing stack.
type Components struct {
	Store   *queue.Store
	Hub     *progress.Hub
	Manager *workflow.Manager
	Daemon  *daemon.Daemon
}

// Build wires the store, stages, manager, and daemon from configuration.
// The caller owns the returned components and must Close the daemon.
func Build(cfg *config.Config, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open queue store: %w", err)
	}

	ffmpegSvc := ffmpeg.NewService(cfg.Tools.FFmpeg)
	engine, err := speech.Resolve(cfg.Speech.Providers, speech.Config{
		Model:         cfg.Speech.Model,
		UVXBinary:     cfg.Tools.UVX,
		WhisperBinary: cfg.Tools.Whisper,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("speech engine resolved", logging.String("provider", engine.Name()))

	hub := progress.NewHub(hubCapacity)
	stages := workflow.Stages{
		Extraction:    extraction.NewStage(cfg, store, ffmpegSvc, hub, logger),
		Transcription: transcription.NewStage(store, engine, hub, logger),
		Subtitles:     subtitling.NewStage(store, hub, logger),
		Burnin:        burnin.NewStage(store, ffmpegSvc, hub, logger),
	}

	mgr := workflow.NewManager(cfg, store, logger, nil, hub, stages)
	d, err := daemon.New(cfg, store, logger, mgr, hub)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Components{Store: store, Hub: hub, Manager: mgr, Daemon: d}, nil
}

// Run builds the stack, starts the daemon and IPC server, and blocks until
// the context is canceled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "fix the environment before queueing jobs"))
	}

	components, err := Build(cfg, logger)
	if err != nil {
		return err
	}
	defer components.Daemon.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, components.Daemon, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := components.Daemon.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("hardsub daemon shutting down")
	return nil
}
