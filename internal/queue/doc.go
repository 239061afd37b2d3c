// Package queue persists content runs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, heartbeat tracking, stale-run recovery, approval resolution, and
// the status transitions that mirror the public workflow enum. Runs carry a
// per-step ledger and a results bag as JSON columns so pipeline steps can
// coordinate without additional state.
//
// The database is treated as transient storage for in-flight runs rather than
// a long-term archive. Schema changes bump the version in schema.go; users
// clear the database to adopt the new schema.
//
// Treat this package as the single source of truth for run semantics; when
// you add new statuses or step fields, update schema.sql and bump
// schemaVersion.
package queue
