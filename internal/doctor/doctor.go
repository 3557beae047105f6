// Package doctor checks whether the host environment can run kayland.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/eraxe/kayland/internal/config"
	"github.com/eraxe/kayland/internal/control/client"
	"github.com/eraxe/kayland/internal/history"
)

// Check statuses. Only fail flips Result.OK; info is for states that are
// neither right nor wrong, like the daemon not running.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusInfo = "info"
	StatusFail = "fail"
)

// Check is one environment probe with its verdict.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Result aggregates all checks. OK is false when any check failed.
type Result struct {
	OK       bool     `json:"ok"`
	Checks   []Check  `json:"checks"`
	Warnings []string `json:"warnings,omitempty"`
}

// Options selects what the checks probe.
type Options struct {
	Settings config.Settings
}

// Run executes every check against the current environment.
func Run(ctx context.Context, opts Options) Result {
	out := Result{OK: true}
	add := func(c Check) {
		out.Checks = append(out.Checks, c)
		if c.Status == StatusWarn {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", c.Name, c.Message))
		}
		if c.Status == StatusFail {
			out.OK = false
		}
	}

	add(checkSessionType())
	add(checkDesktop())
	add(checkKdotool(opts.Settings.KdotoolBin))
	add(checkConfigDir(opts.Settings.ConfigDir))
	add(checkDaemon(ctx, opts.Settings.SocketPath()))
	add(checkHistory(ctx, opts.Settings.HistoryPath))
	return out
}

func checkSessionType() Check {
	session := os.Getenv("XDG_SESSION_TYPE")
	switch {
	case session == "wayland":
		return Check{Name: "session_type", Status: StatusPass, Message: "wayland session"}
	case session == "":
		return Check{Name: "session_type", Status: StatusWarn, Message: "XDG_SESSION_TYPE is not set"}
	default:
		return Check{Name: "session_type", Status: StatusWarn, Message: fmt.Sprintf("session type is %q, expected wayland", session)}
	}
}

func checkDesktop() Check {
	desktop := os.Getenv("XDG_CURRENT_DESKTOP")
	if strings.Contains(strings.ToUpper(desktop), "KDE") {
		return Check{Name: "desktop", Status: StatusPass, Message: "KDE desktop"}
	}
	if desktop == "" {
		return Check{Name: "desktop", Status: StatusWarn, Message: "XDG_CURRENT_DESKTOP is not set"}
	}
	return Check{Name: "desktop", Status: StatusWarn, Message: fmt.Sprintf("desktop is %q, kdotool needs KWin", desktop)}
}

func checkKdotool(bin string) Check {
	if bin == "" {
		bin = "kdotool"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: "kdotool", Status: StatusFail, Message: fmt.Sprintf("%s not found on PATH", bin)}
	}
	return Check{Name: "kdotool", Status: StatusPass, Message: "found", Path: path}
}

func checkConfigDir(dir string) Check {
	if dir == "" {
		return Check{Name: "config_dir", Status: StatusFail, Message: "config directory is not set"}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Check{Name: "config_dir", Status: StatusFail, Message: fmt.Sprintf("cannot create: %v", err), Path: dir}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Check{Name: "config_dir", Status: StatusFail, Message: fmt.Sprintf("not writable: %v", err), Path: dir}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return Check{Name: "config_dir", Status: StatusPass, Message: "writable", Path: dir}
}

func checkDaemon(ctx context.Context, socketPath string) Check {
	if socketPath == "" {
		return Check{Name: "daemon", Status: StatusInfo, Message: "no socket path configured"}
	}
	cli, err := client.New(socketPath)
	if err != nil {
		return Check{Name: "daemon", Status: StatusInfo, Message: err.Error(), Path: socketPath}
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx); err != nil {
		return Check{Name: "daemon", Status: StatusInfo, Message: "daemon not running", Path: socketPath}
	}
	return Check{Name: "daemon", Status: StatusPass, Message: "daemon answered ping", Path: socketPath}
}

func checkHistory(ctx context.Context, path string) Check {
	if path == "" {
		return Check{Name: "history_db", Status: StatusWarn, Message: "history path is not set"}
	}
	store, err := history.Open(ctx, path, 0)
	if err != nil {
		return Check{Name: "history_db", Status: StatusWarn, Message: fmt.Sprintf("cannot open: %v", err), Path: path}
	}
	_ = store.Close()
	return Check{Name: "history_db", Status: StatusPass, Message: "openable", Path: path}
}
