package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/eraxe/kayland/internal/engine"
)

func openTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"), limit)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func outcomeAt(when time.Time, alias string, kind engine.ActionKind) engine.Outcome {
	o := engine.Outcome{When: when, Alias: alias, OK: true}
	o.Action = engine.Action{Kind: kind}
	switch kind {
	case engine.ActionLaunch:
		o.Action.Command = "/usr/bin/" + alias
	default:
		o.Action.WindowID = "1"
	}
	return o
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t, 100)
	ctx := context.Background()
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	if err := store.Record(outcomeAt(base, "ff", engine.ActionLaunch)); err != nil {
		t.Fatalf("record launch: %v", err)
	}
	if err := store.Record(outcomeAt(base.Add(time.Minute), "ff", engine.ActionActivate)); err != nil {
		t.Fatalf("record activate: %v", err)
	}
	if err := store.Record(outcomeAt(base.Add(2*time.Minute), "term", engine.ActionMinimize)); err != nil {
		t.Fatalf("record minimize: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Alias != "term" || entries[0].Action != "minimize" {
		t.Fatalf("newest entry = %+v, want the term minimize", entries[0])
	}
	if entries[2].Action != "launch" || entries[2].Command != "/usr/bin/ff" {
		t.Fatalf("oldest entry = %+v, want the ff launch", entries[2])
	}
	if !entries[2].When.Equal(base) {
		t.Fatalf("timestamp round-trip: got %v, want %v", entries[2].When, base)
	}
}

func TestRecordFailureDetail(t *testing.T) {
	store := openTestStore(t, 100)

	o := outcomeAt(time.Now(), "ff", engine.ActionLaunch)
	o.OK = false
	o.Detail = `launch "/usr/bin/ff": no such file`
	if err := store.Record(o); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if entries[0].OK {
		t.Fatalf("failure recorded as success")
	}
	if entries[0].Detail == "" {
		t.Fatalf("failure detail lost")
	}
}

func TestRetentionLimit(t *testing.T) {
	store := openTestStore(t, 5)
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		o := outcomeAt(base.Add(time.Duration(i)*time.Second), fmt.Sprintf("app%d", i), engine.ActionActivate)
		if err := store.Record(o); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := store.Recent(context.Background(), 100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries after prune, want 5", len(entries))
	}
	if entries[0].Alias != "app11" || entries[4].Alias != "app7" {
		t.Fatalf("prune kept the wrong window: newest=%s oldest=%s", entries[0].Alias, entries[4].Alias)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	ctx := context.Background()

	store, err := Open(ctx, path, 100)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Record(outcomeAt(time.Now(), "ff", engine.ActionLaunch)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path, 100)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Alias != "ff" {
		t.Fatalf("entries lost across reopen: %+v", entries)
	}
}

func TestPruneAppliesNewLimitOnReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	ctx := context.Background()
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	unlimited, err := Open(ctx, path, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 10; i++ {
		alias := fmt.Sprintf("app%d", i)
		if err := unlimited.Record(outcomeAt(base.Add(time.Duration(i)*time.Minute), alias, engine.ActionLaunch)); err != nil {
			t.Fatalf("record %s: %v", alias, err)
		}
	}
	if err := unlimited.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	capped, err := Open(ctx, path, 3)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer capped.Close()
	if err := capped.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}
	entries, err := capped.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after prune, got %d", len(entries))
	}
	if entries[0].Alias != "app9" || entries[2].Alias != "app7" {
		t.Fatalf("prune kept the wrong entries: %+v", entries)
	}
}
