package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"reel/internal/config"
	"reel/internal/history"
	"reel/internal/session"
)

func newStore(t *testing.T) *history.Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartSessionAndFinish(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec, err := store.StartSession(ctx, session.Request{
		Topic:   "derivatives",
		Quality: "low_quality",
		Voice:   "achernar",
		Theme:   "default",
		Model:   "gemini-2.5-pro",
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("record missing id")
	}
	if rec.Status != session.StatusConnecting {
		t.Fatalf("initial status = %s", rec.Status)
	}

	final := session.State{
		Status:     session.StatusCompleted,
		OutputFile: "/output/derivatives_final.mp4",
		Images:     []session.ImageComponent{{Path: "/images/a.png"}},
	}
	if err := store.Finish(ctx, rec.ID, final); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("session not found after finish")
	}
	if got.Status != session.StatusCompleted {
		t.Fatalf("status = %s", got.Status)
	}
	if got.OutputFile != "/output/derivatives_final.mp4" {
		t.Fatalf("output file = %q", got.OutputFile)
	}
	if got.ImageCount != 1 {
		t.Fatalf("image count = %d", got.ImageCount)
	}
}

func TestFinishUnknownSession(t *testing.T) {
	store := newStore(t)
	err := store.Finish(context.Background(), "missing", session.State{Status: session.StatusErrored})
	if err == nil {
		t.Fatal("expected error for unknown session id")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first, err := store.StartSession(ctx, session.Request{Topic: "first"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	second, err := store.StartSession(ctx, session.Request{Topic: "second"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("list length = %d", len(records))
	}
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Fatalf("list order = [%s %s], want newest first", records[0].Topic, records[1].Topic)
	}
}

func TestGetByPrefix(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec, err := store.StartSession(ctx, session.Request{Topic: "prefix"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	got, err := store.Get(ctx, rec.ID[:8])
	if err != nil {
		t.Fatalf("Get by prefix: %v", err)
	}
	if got == nil || got.ID != rec.ID {
		t.Fatalf("prefix lookup returned %+v", got)
	}

	missing, err := store.Get(ctx, "zzzzzzzz")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown prefix")
	}
}

func TestClear(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.StartSession(ctx, session.Request{Topic: "one"}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := store.StartSession(ctx, session.Request{Topic: "two"}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("list length after clear = %d", len(records))
	}
}
