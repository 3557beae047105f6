package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/eraxe/kayland/internal/kayerr"
	"github.com/eraxe/kayland/internal/match"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/util"
	"github.com/eraxe/kayland/internal/windows"
)

const defaultSnapshotTimeout = 3 * time.Second

// AppSource resolves an alias to its application definition.
type AppSource interface {
	Get(alias string) (registry.App, error)
}

// Outcome describes one executed toggle for the history log.
type Outcome struct {
	When   time.Time
	Alias  string
	Action Action
	OK     bool
	Detail string
}

// Recorder receives the outcome of each executed toggle. Recording is best
// effort; a failure is logged and never fails the toggle.
type Recorder interface {
	Record(o Outcome) error
}

// Counter receives monotonically increasing event counts.
type Counter interface {
	Inc(name string)
}

// Toggler wires the application registry and the desktop collaborators into
// the full resolve, snapshot, decide, execute flow.
type Toggler struct {
	apps     AppSource
	querier  windows.Querier
	control  windows.Controller
	launcher windows.Launcher
	logger   *util.Logger

	snapshotTimeout time.Duration
	dryRun          bool

	recorder Recorder
	counter  Counter
}

// TogglerOption adjusts optional Toggler wiring.
type TogglerOption func(*Toggler)

// WithSnapshotTimeout bounds the window snapshot query. Zero keeps the
// caller's context deadline only.
func WithSnapshotTimeout(d time.Duration) TogglerOption {
	return func(t *Toggler) { t.snapshotTimeout = d }
}

// WithDryRun makes Toggle return the decided action without executing it.
func WithDryRun(dry bool) TogglerOption {
	return func(t *Toggler) { t.dryRun = dry }
}

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) TogglerOption {
	return func(t *Toggler) { t.recorder = r }
}

// WithCounter attaches a metrics counter.
func WithCounter(c Counter) TogglerOption {
	return func(t *Toggler) { t.counter = c }
}

// NewToggler creates a toggler over the given collaborators.
func NewToggler(apps AppSource, querier windows.Querier, control windows.Controller, launcher windows.Launcher, logger *util.Logger, opts ...TogglerOption) *Toggler {
	t := &Toggler{
		apps:            apps,
		querier:         querier,
		control:         control,
		launcher:        launcher,
		logger:          logger,
		snapshotTimeout: defaultSnapshotTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Toggle runs the full flow for alias and returns the action it executed
// (or, in dry-run mode, would have executed). Errors carry the taxonomy
// types: NotFoundError for an unknown alias, TimeoutError when the snapshot
// provider misses its deadline, ExecutorError when the side effect fails.
func (t *Toggler) Toggle(ctx context.Context, alias string) (Action, error) {
	app, err := t.apps.Get(alias)
	if err != nil {
		t.count("toggle.error")
		return Action{}, err
	}
	m := match.New(match.Patterns{
		Class:    app.ClassPattern,
		Resource: app.ResourcePattern,
		Title:    app.TitlePattern,
	})

	sctx := ctx
	cancel := func() {}
	if t.snapshotTimeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, t.snapshotTimeout)
	}
	snap, err := windows.NewSnapshot(sctx, t.querier)
	cancel()
	if err != nil {
		if kayerr.IsTimeout(err) {
			t.count("snapshot.timeout")
		}
		t.count("toggle.error")
		return Action{}, err
	}

	action := Decide(snap, m, app.Command)
	if t.dryRun {
		t.logger.Infof("dry-run: would %s for %q", action, alias)
		return action, nil
	}
	if err := t.execute(ctx, action); err != nil {
		t.count("toggle.error")
		t.record(alias, action, err)
		return action, err
	}
	t.count("toggle." + string(action.Kind))
	t.count("app." + alias + "." + string(action.Kind))
	t.record(alias, action, nil)
	t.logger.Debugf("%s for %q", action, alias)
	return action, nil
}

func (t *Toggler) execute(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionActivate:
		if err := t.control.Activate(ctx, action.WindowID); err != nil {
			return &kayerr.ExecutorError{Op: "activate window " + action.WindowID, Err: err}
		}
	case ActionMinimize:
		if err := t.control.Minimize(ctx, action.WindowID); err != nil {
			return &kayerr.ExecutorError{Op: "minimize window " + action.WindowID, Err: err}
		}
	case ActionLaunch:
		if _, err := t.launcher.Launch(action.Command); err != nil {
			return &kayerr.ExecutorError{Op: fmt.Sprintf("launch %q", action.Command), Err: err}
		}
	}
	return nil
}

func (t *Toggler) record(alias string, action Action, execErr error) {
	if t.recorder == nil {
		return
	}
	o := Outcome{When: time.Now(), Alias: alias, Action: action, OK: execErr == nil}
	if execErr != nil {
		o.Detail = execErr.Error()
	}
	if err := t.recorder.Record(o); err != nil {
		t.logger.Warnf("history record failed: %v", err)
	}
}

func (t *Toggler) count(name string) {
	if t.counter != nil {
		t.counter.Inc(name)
	}
}

// String renders the action for logs and CLI output.
func (a Action) String() string {
	switch a.Kind {
	case ActionActivate:
		return "activate window " + a.WindowID
	case ActionMinimize:
		return "minimize window " + a.WindowID
	case ActionLaunch:
		return fmt.Sprintf("launch %q", a.Command)
	case ActionNoOp:
		if a.Reason != "" {
			return "no-op (" + a.Reason + ")"
		}
		return "no-op"
	default:
		return string(a.Kind)
	}
}
