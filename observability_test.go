package userstore_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/arllen133/userstore"
)

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := setupTestStore(t, userstore.SQLite,
		userstore.WithLogger(logger),
		userstore.WithQueryLogging(true),
	)
	ctx := context.Background()

	if err := store.Insert(ctx, userstore.NewUser("Test", 1, "t@x.com")); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "query executed") {
		t.Errorf("expected debug query log, got: %s", out)
	}
	if !strings.Contains(out, "INSERT INTO users") {
		t.Errorf("expected statement text in log, got: %s", out)
	}
}

func TestQueryFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))

	store := setupTestStore(t, userstore.SQLite, userstore.WithLogger(logger))
	ctx := context.Background()

	_ = store.Insert(ctx, userstore.NewUser("A", 1, "dup@x.com"))
	_ = store.Insert(ctx, userstore.NewUser("B", 2, "dup@x.com"))

	if !strings.Contains(buf.String(), "query failed") {
		t.Errorf("expected 'query failed' in log, got: %s", buf.String())
	}
}

func TestNotFoundIsNotLoggedAsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))

	store := setupTestStore(t, userstore.SQLite, userstore.WithLogger(logger))
	_, _ = store.FetchByID(context.Background(), 404)

	if buf.Len() != 0 {
		t.Errorf("expected no error log for a missing row, got: %s", buf.String())
	}
}

func TestWithSlowQueryThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store := setupTestStore(t, userstore.SQLite,
		userstore.WithLogger(logger),
		userstore.WithSlowQueryThreshold(1*time.Nanosecond),
	)
	_ = store.Insert(context.Background(), userstore.NewUser("Test", 1, "t@x.com"))

	if !bytes.Contains(buf.Bytes(), []byte("slow query")) {
		t.Errorf("expected 'slow query' warning in log, got: %s", buf.String())
	}
}

func TestCombinedObservability(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := setupTestStore(t, userstore.PureSQLite,
		userstore.WithLogger(logger),
		userstore.WithQueryLogging(true),
		userstore.WithDefaultTracer(),
		userstore.WithDefaultMeter(),
		userstore.WithTracer(tracenoop.NewTracerProvider().Tracer("test")),
		userstore.WithMeter(noop.NewMeterProvider().Meter("test")),
		userstore.WithSlowQueryThreshold(100*time.Millisecond),
	)
	ctx := context.Background()

	u := userstore.NewUser("Combined", 3, "c@x.com")
	if err := store.Insert(ctx, u); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	if _, err := store.FetchByID(ctx, u.ID); err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}
	if err := store.UpdateEmail(ctx, u.ID, "c2@x.com"); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if err := store.Delete(ctx, u.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	if buf.Len() == 0 {
		t.Error("expected some log output")
	}
}
