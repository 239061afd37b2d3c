// Package api defines the transport-friendly run representations shared by
// the IPC surface and the CLI renderers, plus the conversions from the
// persistence model.
package api
