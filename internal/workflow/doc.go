// Package workflow runs the content pipeline. A pool of workers claims
// pending runs from the store, drives each run through its steps in order,
// and parks runs that need human approval. A janitor goroutine reclaims runs
// whose worker stopped heartbeating and rejects approval requests that
// outlive their window.
package workflow
