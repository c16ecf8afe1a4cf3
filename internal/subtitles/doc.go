// Package subtitles converts transcribed speech segments into SubRip (SRT)
// subtitle artifacts and translates user-facing styling into the ASS
// force_style syntax consumed by FFmpeg's subtitles filter.
//
// This package handles:
//   - SRT cue formatting (timestamp arithmetic, blank-segment skipping)
//   - SRT read-back helpers used to validate generated files
//   - Style translation (font size, RGB color, vertical position)
//
// The workflow stage that materializes the artifact lives in package
// subtitling so this package stays import-light.
package subtitles
