// Package logging builds slog loggers with console and JSON handlers and
// provides the attribute helpers and standard field names used across the
// pipeline.
package logging
