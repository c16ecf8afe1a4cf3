// Package notifications delivers job lifecycle events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Per-event toggles let operators mute started, completed, or failed messages
// independently.
//
// Extend this package if you need alternative transports; all workflow code
// depends only on the simple Service interface.
package notifications
