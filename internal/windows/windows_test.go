package windows

import (
	"context"
	"testing"
	"time"

	"github.com/eraxe/kayland/internal/kayerr"
)

type fakeQuerier struct {
	windows []Window
	desktop int
	err     error
}

func (f *fakeQuerier) ListWindows(ctx context.Context) ([]Window, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.windows, nil
}

func (f *fakeQuerier) CurrentDesktop(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.desktop, nil
}

func TestNewSnapshotCapturesWindowsAndDesktop(t *testing.T) {
	src := &fakeQuerier{
		windows: []Window{
			{ID: "1", Class: "firefox", Desktop: 2},
			{ID: "2", Class: "konsole", Desktop: 1, Active: true},
		},
		desktop: 2,
	}

	snap, err := NewSnapshot(context.Background(), src)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if len(snap.Windows) != 2 {
		t.Fatalf("snapshot has %d windows, want 2", len(snap.Windows))
	}
	if snap.CurrentDesktop != 2 {
		t.Fatalf("CurrentDesktop = %d, want 2", snap.CurrentDesktop)
	}
}

func TestNewSnapshotMapsDeadlineToTimeout(t *testing.T) {
	src := &fakeQuerier{err: context.DeadlineExceeded}

	_, err := NewSnapshot(context.Background(), src)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !kayerr.IsTimeout(err) {
		t.Fatalf("error %v is not a TimeoutError", err)
	}
}

func TestNewSnapshotHonorsContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	src := &fakeQuerier{err: ctx.Err()}
	_, err := NewSnapshot(ctx, src)
	if !kayerr.IsTimeout(err) {
		t.Fatalf("error %v is not a TimeoutError", err)
	}
}

func TestSnapshotActive(t *testing.T) {
	snap := &Snapshot{Windows: []Window{
		{ID: "1", Class: "firefox"},
		{ID: "2", Class: "konsole", Active: true},
	}}

	active := snap.Active()
	if active == nil || active.ID != "2" {
		t.Fatalf("Active() = %+v, want window 2", active)
	}
	if got := snap.Find("1"); got == nil || got.Class != "firefox" {
		t.Fatalf("Find(1) = %+v, want firefox window", got)
	}
	if got := snap.Find("missing"); got != nil {
		t.Fatalf("Find(missing) = %+v, want nil", got)
	}
}
