package ffmpeg

import (
	"fmt"
	"strings"

	"hardsub/internal/subtitles"
)

// SubtitlesFilter composes the -vf expression that burns subtitlePath into
// the video with the given style. The subtitle path sits inside a nested
// quoted sub-expression of the filter graph, so it must be escaped per the
// filter-argument grammar.
func SubtitlesFilter(subtitlePath string, style subtitles.Style) string {
	return fmt.Sprintf("subtitles='%s':force_style='%s'",
		EscapeFilterPath(subtitlePath), style.ForceStyle())
}

// EscapeFilterPath makes a file path safe for embedding inside a quoted
// filter argument: path separators are normalized to forward slashes, and
// literal colons and quotes are backslash-escaped.
func EscapeFilterPath(path string) string {
	escaped := strings.ReplaceAll(path, `\`, "/")
	escaped = strings.ReplaceAll(escaped, ":", `\:`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return escaped
}

// normalizeInputPath converts Windows-style separators so FFmpeg accepts the
// path on all platforms. Plain argv paths need no colon escaping.
func normalizeInputPath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
