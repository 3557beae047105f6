package control

import (
	"time"

	"github.com/eraxe/kayland/internal/engine"
	"github.com/eraxe/kayland/internal/metrics"
)

const (
	// Action names supported by the control protocol.
	ActionToggle    = "toggle"
	ActionTrigger   = "trigger"
	ActionList      = "list"
	ActionShortcuts = "shortcuts"
	ActionReload    = "reload"
	ActionStatus    = "status"
	ActionMetrics   = "metrics"
	ActionPing      = "ping"

	// Response statuses.
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a control API request.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Response represents a control API response. Code carries the error
// taxonomy identifier when Status is "error".
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ToggleResult reports the action the daemon executed (or, in dry-run
// mode, decided) for one toggle or trigger request.
type ToggleResult struct {
	Alias  string        `json:"alias"`
	Action engine.Action `json:"action"`
	DryRun bool          `json:"dryRun,omitempty"`
}

// AppInfo is one application definition plus its execution counters.
type AppInfo struct {
	ID              string            `json:"id,omitempty"`
	Alias           string            `json:"alias"`
	Name            string            `json:"name"`
	ClassPattern    string            `json:"classPattern,omitempty"`
	ResourcePattern string            `json:"resourcePattern,omitempty"`
	TitlePattern    string            `json:"titlePattern,omitempty"`
	Command         string            `json:"command"`
	Counts          map[string]uint64 `json:"counts,omitempty"`
}

// ListResult captures the application registry contents.
type ListResult struct {
	Apps []AppInfo `json:"apps"`
}

// ShortcutInfo is one chord binding.
type ShortcutInfo struct {
	Chord string `json:"chord"`
	Alias string `json:"alias"`
}

// ShortcutsResult captures the shortcut registry contents.
type ShortcutsResult struct {
	Shortcuts []ShortcutInfo `json:"shortcuts"`
}

// StatusResult describes the running daemon.
type StatusResult struct {
	Version       string    `json:"version"`
	Started       time.Time `json:"started"`
	ConfigDir     string    `json:"configDir"`
	SocketPath    string    `json:"socketPath"`
	AppCount      int       `json:"appCount"`
	ShortcutCount int       `json:"shortcutCount"`
	LastReload    time.Time `json:"lastReload,omitempty"`
	DryRun        bool      `json:"dryRun,omitempty"`
}

// MetricsResult is the daemon's counter snapshot.
type MetricsResult = metrics.Snapshot
