// Package daemon owns the long-running process: it enforces single-instance
// execution with a file lock, hosts the workflow manager, and exposes the run
// operations the IPC surface delegates to.
package daemon
