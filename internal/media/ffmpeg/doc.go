// Package ffmpeg wraps the FFmpeg binary for the two transcoder operations
// the pipeline needs: extracting an audio track to WAV and re-encoding a
// video with subtitles burned in.
package ffmpeg
