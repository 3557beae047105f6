package windows

import (
	"context"
	"errors"
	"time"

	"github.com/eraxe/kayland/internal/kayerr"
)

// Window describes one open window as reported by the compositor. Values
// are built fresh for every query and never mutated afterwards.
type Window struct {
	ID       string
	Class    string
	Resource string
	Title    string
	Desktop  int
	Active   bool
}

// Snapshot is the full set of open windows at one point in time, plus the
// virtual desktop the caller occupied when it was taken. A single toggle
// decision consumes exactly one snapshot.
type Snapshot struct {
	Windows        []Window
	CurrentDesktop int
}

// Querier abstracts the window-enumeration primitives so the engine is
// testable without a live desktop.
type Querier interface {
	ListWindows(ctx context.Context) ([]Window, error)
	CurrentDesktop(ctx context.Context) (int, error)
}

// Controller carries out window activation and minimization.
type Controller interface {
	Activate(ctx context.Context, id string) error
	Minimize(ctx context.Context, id string) error
}

// Launcher spawns a command in its own session, detached from the caller.
// The returned pid is informational; the child's exit is never observed.
type Launcher interface {
	Launch(command string) (int, error)
}

// NewSnapshot queries src for the open windows and the caller's current
// desktop. The context bounds the whole query; deadline expiry surfaces as
// a TimeoutError rather than a raw context error.
func NewSnapshot(ctx context.Context, src Querier) (*Snapshot, error) {
	start := time.Now()
	wins, err := src.ListWindows(ctx)
	if err != nil {
		return nil, wrapQueryErr("list windows", start, err)
	}
	desktop, err := src.CurrentDesktop(ctx)
	if err != nil {
		return nil, wrapQueryErr("current desktop", start, err)
	}
	return &Snapshot{Windows: wins, CurrentDesktop: desktop}, nil
}

func wrapQueryErr(op string, start time.Time, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &kayerr.TimeoutError{Op: op, Elapsed: time.Since(start)}
	}
	return err
}

// Find returns the window with id, or nil.
func (s *Snapshot) Find(id string) *Window {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			return &s.Windows[i]
		}
	}
	return nil
}

// Active returns the active window if present.
func (s *Snapshot) Active() *Window {
	for i := range s.Windows {
		if s.Windows[i].Active {
			return &s.Windows[i]
		}
	}
	return nil
}
