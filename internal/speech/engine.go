package speech

import (
	"context"

	"hardsub/internal/subtitles"
)

// DefaultModel is the recognition preset used when none is configured.
const DefaultModel = "small"

// Engine is the capability surface the pipeline needs from a speech-to-text
// provider: transcribe an audio file, optionally hinted with a language, into
// ordered timed segments.
type Engine interface {
	// Name identifies the provider for logging and status output.
	Name() string
	// Available reports whether the provider's launcher is installed.
	Available() bool
	// Transcribe converts the audio file into ordered segments. An empty
	// language means auto-detect, an empty model falls back to the
	// configured default. workDir receives the provider's output files.
	Transcribe(ctx context.Context, audioPath, workDir, language, model string) ([]subtitles.Segment, error)
}

// Config captures runtime settings shared by all providers.
type Config struct {
	// Model is the recognition-quality preset (tiny, base, small, medium, large).
	Model string
	// UVXBinary launches the whisperx provider (default "uvx").
	UVXBinary string
	// WhisperBinary is the openai-whisper CLI (default "whisper").
	WhisperBinary string
}

// modelOr picks the per-job preset when set, else the configured one.
func (c Config) modelOr(override string) string {
	if override != "" {
		return override
	}
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}
