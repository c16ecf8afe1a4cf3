package config

import (
	"fmt"
	"strings"
)

// Normalize expands path fields, trims whitespace, and lowercases
// enumerations so validation and later lookups see canonical values.
func (c *Config) Normalize() error {
	pathFields := []struct {
		name  string
		value *string
	}{
		{"paths.staging_dir", &c.Paths.StagingDir},
		{"paths.output_dir", &c.Paths.OutputDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.socket_path", &c.Paths.SocketPath},
	}
	for _, field := range pathFields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", field.name, err)
		}
		*field.value = expanded
	}

	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.UVX = strings.TrimSpace(c.Tools.UVX)
	c.Tools.Whisper = strings.TrimSpace(c.Tools.Whisper)

	c.Speech.Model = strings.ToLower(strings.TrimSpace(c.Speech.Model))
	c.Speech.Language = strings.ToLower(strings.TrimSpace(c.Speech.Language))
	providers := make([]string, 0, len(c.Speech.Providers))
	for _, provider := range c.Speech.Providers {
		if p := strings.ToLower(strings.TrimSpace(provider)); p != "" {
			providers = append(providers, p)
		}
	}
	c.Speech.Providers = providers

	c.Style.FontColor = strings.ToUpper(strings.TrimSpace(c.Style.FontColor))
	c.Style.Position = strings.ToLower(strings.TrimSpace(c.Style.Position))

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	return nil
}
