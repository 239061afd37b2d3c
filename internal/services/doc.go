// Package services defines shared utilities consumed by the workflow step
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, step names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify adapter
//     failures so the workflow manager can decide between hard and soft
//     failure handling.
//
// Use these helpers when wiring new step logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
