package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hardsub/internal/config"
	"hardsub/internal/language"
	"hardsub/internal/queue"
	"hardsub/internal/subtitles"
)

// videoExtensions lists the container formats accepted as job input.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
}

// jobFlags collects the per-job input surface shared by run and add.
type jobFlags struct {
	title     string
	output    string
	language  string
	model     string
	fontSize  int
	fontColor string
	position  string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Display title for the job (defaults to the file name)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output video path (defaults to the output directory)")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "Spoken language hint, ISO-639-1 (empty auto-detects)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Recognition model preset (tiny, base, small, medium, large)")
	cmd.Flags().IntVar(&f.fontSize, "font-size", 0, "Subtitle font size in points")
	cmd.Flags().StringVar(&f.fontColor, "font-color", "", "Subtitle color as RRGGBB hex")
	cmd.Flags().StringVar(&f.position, "position", "", "Subtitle position (bottom or top)")
}

// resolveJobInput validates the source and merges flags over config defaults.
func resolveJobInput(cfg *config.Config, source string, flags jobFlags) (string, string, queue.JobOptions, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", "", queue.JobOptions{}, fmt.Errorf("a source video path is required")
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", "", queue.JobOptions{}, fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", queue.JobOptions{}, fmt.Errorf("inspect source %q: %w", source, err)
	}
	if info.IsDir() {
		return "", "", queue.JobOptions{}, fmt.Errorf("source %q is a directory, expected a video file", source)
	}
	ext := strings.ToLower(filepath.Ext(abs))
	if _, ok := videoExtensions[ext]; !ok {
		return "", "", queue.JobOptions{}, fmt.Errorf("unsupported video extension %q", ext)
	}

	style := subtitles.Style{
		FontSize:  cfg.Style.FontSize,
		FontColor: cfg.Style.FontColor,
	}
	style.Position, _ = subtitles.ParsePosition(cfg.Style.Position)
	if flags.fontSize > 0 {
		style.FontSize = flags.fontSize
	}
	if flags.fontColor != "" {
		style.FontColor = strings.ToUpper(strings.TrimSpace(flags.fontColor))
	}
	if flags.position != "" {
		pos, err := subtitles.ParsePosition(flags.position)
		if err != nil {
			return "", "", queue.JobOptions{}, err
		}
		style.Position = pos
	}
	if err := style.Validate(); err != nil {
		return "", "", queue.JobOptions{}, err
	}

	model := strings.ToLower(strings.TrimSpace(flags.model))
	if model == "" {
		model = cfg.Speech.Model
	}
	if !config.ValidSpeechModel(model) {
		return "", "", queue.JobOptions{}, fmt.Errorf("model %q is not a known preset (%s)",
			model, strings.Join(config.SpeechModels, ", "))
	}

	lang := strings.TrimSpace(flags.language)
	if lang == "" {
		lang = cfg.Speech.Language
	}
	lang, err = language.Normalize(lang)
	if err != nil {
		return "", "", queue.JobOptions{}, err
	}

	output := strings.TrimSpace(flags.output)
	if output == "" {
		output = defaultOutputPath(cfg, abs)
	} else if output, err = filepath.Abs(output); err != nil {
		return "", "", queue.JobOptions{}, fmt.Errorf("resolve output path: %w", err)
	}

	opts := queue.JobOptions{
		Title:    strings.TrimSpace(flags.title),
		Language: lang,
		Model:    model,
		Style:    style,
	}
	return abs, output, opts, nil
}

// defaultOutputPath places the result in the output directory with a
// _subtitled suffix, preserving the container extension.
func defaultOutputPath(cfg *config.Config, source string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(cfg.Paths.OutputDir, name+"_subtitled"+ext)
}
