// Package config loads, validates, and normalizes the TOML configuration
// that drives the hardsub pipeline: directories, speech engine settings,
// default subtitle styling, notifications, and daemon timing.
package config
