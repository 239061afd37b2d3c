// Package config loads, validates, and normalizes the TOML configuration for
// the socialfactory daemon and CLI. Defaults are applied before parsing so a
// missing file still yields a runnable configuration for local use.
package config
