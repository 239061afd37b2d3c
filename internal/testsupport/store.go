package testsupport

import (
	"context"
	"testing"

	"socialfactory/internal/config"
	"socialfactory/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun creates a run for tests using the provided store.
func NewRun(t testing.TB, store *queue.Store, topic, platform string) *queue.Item {
	t.Helper()

	item, err := store.NewRun(context.Background(), queue.RunRequest{
		Topic:           topic,
		Platform:        platform,
		GenerateVideo:   true,
		RequireApproval: false,
	})
	if err != nil {
		t.Fatalf("store.NewRun: %v", err)
	}
	return item
}
