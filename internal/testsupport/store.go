package testsupport

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"reelcap/internal/config"
	"reelcap/internal/runstore"
)

// MustOpenStore opens a runstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg.RunStorePath())
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun inserts a pending run with the given title.
func NewRun(t testing.TB, store *runstore.Store, title string) *runstore.Run {
	t.Helper()

	run, err := store.Create(context.Background(), runstore.Run{
		ID:             uuid.NewString(),
		Title:          title,
		TranscriptPath: "/tmp/" + title + ".json",
		OutputPath:     "/tmp/" + title + ".mp4",
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return run
}
