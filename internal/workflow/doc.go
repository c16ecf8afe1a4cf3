// Package workflow sequences the pipeline stages for queued jobs. A single
// background worker claims one job at a time and drives it through
// extraction, transcription, subtitle writing, and burn-in, persisting
// progress and publishing ordered status events. Any stage error ends the
// job in the failed state; remaining stages never run.
package workflow
