package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"hardsub/internal/subtitles"
)

// DefaultBinary is the transcoder command resolved from PATH when the
// configuration does not override it.
const DefaultBinary = "ffmpeg"

// Service invokes FFmpeg as an external process.
type Service struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates an FFmpeg service for the given binary.
func NewService(binary string) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Binary returns the configured FFmpeg command name.
func (s *Service) Binary() string {
	return s.binary
}

// Probe runs a version query to confirm the binary is present and runnable.
func (s *Service) Probe(ctx context.Context) error {
	if err := s.run(ctx, "-version"); err != nil {
		return fmt.Errorf("ffmpeg unavailable: %w", err)
	}
	return nil
}

// ExtractAudio extracts the audio stream from a video file into a mono
// 16kHz PCM WAV suitable for speech recognition.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}

// BurnIn re-encodes the video with the subtitle track composited into the
// pixels, copying the audio stream unchanged. A non-zero exit is a hard
// failure.
func (s *Service) BurnIn(ctx context.Context, source, subtitlePath, dest string, style subtitles.Style) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", normalizeInputPath(source),
		"-vf", SubtitlesFilter(subtitlePath, style),
		"-c:a", "copy",
		normalizeInputPath(dest),
	}
	if err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("ffmpeg burn-in: %w", err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
