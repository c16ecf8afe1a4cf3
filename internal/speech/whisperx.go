package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "hardsub/internal/language"
	"hardsub/internal/subtitles"
)

// WhisperX configuration constants.
const (
	uvxCommand        = "uvx"
	whisperXBatchSize = "4"
	whisperXDevice    = "cpu"
	whisperXCompute   = "float32"
)

// WhisperX transcribes audio by launching the whisperx tool through uvx.
type WhisperX struct {
	cfg           Config
	launcher      string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewWhisperX creates a whisperx-backed engine.
func NewWhisperX(cfg Config) *WhisperX {
	launcher := cfg.UVXBinary
	if launcher == "" {
		launcher = uvxCommand
	}
	return &WhisperX{cfg: cfg, launcher: launcher}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperX) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	w.commandRunner = runner
}

// Name identifies the provider.
func (w *WhisperX) Name() string { return "whisperx" }

// Available reports whether the uvx launcher is installed.
func (w *WhisperX) Available() bool {
	_, err := exec.LookPath(w.launcher)
	return err == nil
}

// Transcribe runs whisperx and loads the JSON segment output.
func (w *WhisperX) Transcribe(ctx context.Context, audioPath, workDir, language, model string) ([]subtitles.Segment, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	args := w.buildArgs(audioPath, workDir, language, model)
	if err := w.run(ctx, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(workDir, baseName+".json")
	segments, err := subtitles.LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisperx output: %w", err)
	}
	return segments, nil
}

func (w *WhisperX) buildArgs(audioPath, workDir, language, model string) []string {
	args := []string{
		"whisperx",
		audioPath,
		"--model", w.cfg.modelOr(model),
		"--batch_size", whisperXBatchSize,
		"--output_dir", workDir,
		"--output_format", "json",
		"--task", "transcribe",
		"--device", whisperXDevice,
		"--compute_type", whisperXCompute,
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

func (w *WhisperX) run(ctx context.Context, args ...string) error {
	if w.commandRunner != nil {
		return w.commandRunner(ctx, w.launcher, args...)
	}
	cmd := exec.CommandContext(ctx, w.launcher, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
