// Package logging provides slog-based structured logging for the daemon and
// CLI. It offers a console handler for interactive use, a JSON handler for
// machine consumption, and helpers that standardize the attribute keys used
// across the pipeline.
package logging
