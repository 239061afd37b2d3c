// Package ipc exposes daemon control over a Unix domain socket using
// JSON-RPC. The CLI is the only intended client; the wire types mirror the
// api package DTOs.
package ipc
