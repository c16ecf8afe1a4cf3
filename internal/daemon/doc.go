// Package daemon hosts the background job processor behind a single-instance
// lock. It wires the queue store, workflow manager, and progress hub together
// and exposes the operations the IPC layer needs: lifecycle control, queue
// management, and progress streaming.
package daemon
