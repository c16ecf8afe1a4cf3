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

const whisperCommand = "whisper"

// WhisperCLI transcribes audio with the openai-whisper command-line tool.
// It is the fallback provider when whisperx is not installed.
type WhisperCLI struct {
	cfg           Config
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewWhisperCLI creates an openai-whisper-backed engine.
func NewWhisperCLI(cfg Config) *WhisperCLI {
	binary := cfg.WhisperBinary
	if binary == "" {
		binary = whisperCommand
	}
	return &WhisperCLI{cfg: cfg, binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperCLI) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	w.commandRunner = runner
}

// Name identifies the provider.
func (w *WhisperCLI) Name() string { return "whisper" }

// Available reports whether the whisper binary is installed.
func (w *WhisperCLI) Available() bool {
	_, err := exec.LookPath(w.binary)
	return err == nil
}

// Transcribe runs whisper and loads the JSON segment output.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath, workDir, language, model string) ([]subtitles.Segment, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	args := []string{
		audioPath,
		"--model", w.cfg.modelOr(model),
		"--output_dir", workDir,
		"--output_format", "json",
		"--task", "transcribe",
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if err := w.run(ctx, args...); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(workDir, baseName+".json")
	segments, err := subtitles.LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper output: %w", err)
	}
	return segments, nil
}

func (w *WhisperCLI) run(ctx context.Context, args ...string) error {
	if w.commandRunner != nil {
		return w.commandRunner(ctx, w.binary, args...)
	}
	cmd := exec.CommandContext(ctx, w.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
