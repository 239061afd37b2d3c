// Package notifications delivers run lifecycle messages to Slack. When no
// webhook is configured a noop implementation is returned so callers never
// branch on configuration.
package notifications
