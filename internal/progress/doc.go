// Package progress carries ordered status/progress notifications from the
// pipeline worker to presentation surfaces (CLI, IPC clients).
package progress
