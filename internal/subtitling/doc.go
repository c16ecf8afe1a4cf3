// Package subtitling implements the pipeline stage that turns the persisted
// transcription segments into a validated SRT artifact for burn-in.
package subtitling
