package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"hardsub/internal/config"
	"hardsub/internal/deps"
	"hardsub/internal/speech"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFFmpeg verifies the configured FFmpeg binary exists and runs.
func CheckFFmpeg(ctx context.Context, cfg *config.Config) Result {
	status := deps.CheckFFmpeg(ctx, cfg.Tools.FFmpeg)
	return Result{Name: status.Name, Passed: status.Available, Detail: detailOrCommand(status)}
}

// CheckSpeechEngine verifies at least one configured transcription provider
// is installed.
func CheckSpeechEngine(cfg *config.Config) Result {
	const name = "Speech engine"
	engine, err := speech.Resolve(cfg.Speech.Providers, speech.Config{
		Model:         cfg.Speech.Model,
		UVXBinary:     cfg.Tools.UVX,
		WhisperBinary: cfg.Tools.Whisper,
	})
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: engine.Name()}
}

// CheckSystemDeps evaluates all external binaries for the given config.
// Both the daemon and the CLI status command use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for i := range statuses {
		if statuses[i].Name == "FFmpeg" && statuses[i].Available {
			statuses[i] = deps.CheckFFmpeg(ctx, cfg.Tools.FFmpeg)
		}
	}
	return statuses
}

func detailOrCommand(status deps.Status) string {
	if status.Detail != "" {
		return status.Detail
	}
	return status.Command
}
