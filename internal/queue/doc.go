// Package queue persists subtitle jobs in SQLite and models their lifecycle
// through the pipeline stages (extract → transcribe → subtitle → burn-in).
package queue
