// Package transcription implements the pipeline stage that turns extracted
// audio into timed speech segments via the bound speech engine.
package transcription
