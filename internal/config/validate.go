package config

import (
	"errors"
	"fmt"
	"strings"

	"hardsub/internal/subtitles"
)

// SpeechModels are the recognition-quality presets accepted by both providers.
var SpeechModels = []string{"tiny", "base", "small", "medium", "large"}

var speechProviders = map[string]struct{}{
	"whisperx": {},
	"whisper":  {},
}

// Validate checks that the configuration is internally consistent. It returns
// the first problem encountered.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return errors.New("tools.ffmpeg must be set")
	}

	if !ValidSpeechModel(c.Speech.Model) {
		return fmt.Errorf("speech.model %q is not a known preset (%s)",
			c.Speech.Model, strings.Join(SpeechModels, ", "))
	}
	if len(c.Speech.Providers) == 0 {
		return errors.New("speech.providers must list at least one provider")
	}
	for _, provider := range c.Speech.Providers {
		if _, ok := speechProviders[provider]; !ok {
			return fmt.Errorf("speech.providers includes unknown provider %q", provider)
		}
	}

	style := subtitles.Style{
		FontSize:  c.Style.FontSize,
		FontColor: c.Style.FontColor,
		Position:  subtitles.Position(c.Style.Position),
	}
	if err := style.Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (console, json)", c.Logging.Format)
	}

	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout > 0 && c.Workflow.HeartbeatInterval > 0 &&
		c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must exceed heartbeat_interval")
	}

	return nil
}

// ValidSpeechModel reports whether model is one of the known presets. The
// CLI and IPC enqueue paths use it to reject bad presets before a job starts.
func ValidSpeechModel(model string) bool {
	for _, known := range SpeechModels {
		if model == known {
			return true
		}
	}
	return false
}
