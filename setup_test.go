package userstore_test

import (
	"context"
	"testing"

	"github.com/arllen133/userstore"
)

// dialects lists every driver the store supports; behavioural tests run
// against each of them.
var dialects = []userstore.Dialect{userstore.SQLite, userstore.PureSQLite}

func setupTestStore(t testing.TB, dialect userstore.Dialect, opts ...userstore.SessionOption) *userstore.Store {
	t.Helper()
	ctx := context.Background()
	store, err := userstore.Open(ctx, ":memory:", dialect, opts...)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return store
}

func forEachDialect(t *testing.T, fn func(t *testing.T, store *userstore.Store)) {
	t.Helper()
	for _, d := range dialects {
		t.Run(d.DriverName(), func(t *testing.T) {
			fn(t, setupTestStore(t, d))
		})
	}
}

func intPtr(n int) *int { return &n }
