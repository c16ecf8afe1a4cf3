// Package api defines wire-format types and converters for the IPC layer.
// It translates internal queue models into transport-friendly DTOs so CLI
// output code never couples to internal types.
//
// DTOs use camelCase JSON tags. Internal enums (queue.Status) are exposed as
// lowercase strings and timestamps use RFC3339 with milliseconds.
package api
