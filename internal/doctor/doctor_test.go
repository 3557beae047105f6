package doctor

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/eraxe/kayland/internal/config"
	"github.com/eraxe/kayland/internal/control"
)

func passingEnv(t *testing.T) config.Settings {
	t.Helper()
	t.Setenv("XDG_SESSION_TYPE", "wayland")
	t.Setenv("XDG_CURRENT_DESKTOP", "KDE")
	t.Setenv("KAYLAND_SOCKET", "")

	binDir := t.TempDir()
	script := filepath.Join(binDir, "kdotool")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write fake kdotool: %v", err)
	}
	t.Setenv("PATH", binDir)

	return config.Settings{
		ConfigDir:   t.TempDir(),
		HistoryPath: filepath.Join(t.TempDir(), "history.db"),
	}
}

func startPingServer(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kayland.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen on unix socket: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			return
		}
		_ = json.NewEncoder(conn).Encode(control.Response{Status: control.StatusOK})
	}()
	return path
}

func statusOf(t *testing.T, result Result, name string) Check {
	t.Helper()
	for _, c := range result.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing from %+v", name, result.Checks)
	return Check{}
}

func TestRunAllPass(t *testing.T) {
	settings := passingEnv(t)
	settings.Socket = startPingServer(t)

	result := Run(context.Background(), Options{Settings: settings})
	if !result.OK {
		t.Fatalf("expected ok=true, got %+v", result)
	}
	for _, c := range result.Checks {
		if c.Status != StatusPass {
			t.Fatalf("check %s = %s (%s), want pass", c.Name, c.Status, c.Message)
		}
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestRunWarnsOutsideKDE(t *testing.T) {
	settings := passingEnv(t)
	settings.Socket = filepath.Join(t.TempDir(), "absent.sock")
	t.Setenv("XDG_SESSION_TYPE", "x11")
	t.Setenv("XDG_CURRENT_DESKTOP", "GNOME")

	result := Run(context.Background(), Options{Settings: settings})
	if !result.OK {
		t.Fatalf("warnings must not flip ok, got %+v", result)
	}
	if c := statusOf(t, result, "session_type"); c.Status != StatusWarn {
		t.Fatalf("session_type = %s, want warn", c.Status)
	}
	if c := statusOf(t, result, "desktop"); c.Status != StatusWarn {
		t.Fatalf("desktop = %s, want warn", c.Status)
	}
	if len(result.Warnings) < 2 {
		t.Fatalf("expected aggregated warnings, got %v", result.Warnings)
	}
}

func TestRunFailsWithoutKdotool(t *testing.T) {
	settings := passingEnv(t)
	settings.Socket = filepath.Join(t.TempDir(), "absent.sock")
	t.Setenv("PATH", t.TempDir())

	result := Run(context.Background(), Options{Settings: settings})
	if result.OK {
		t.Fatalf("expected ok=false without kdotool, got %+v", result)
	}
	if c := statusOf(t, result, "kdotool"); c.Status != StatusFail {
		t.Fatalf("kdotool = %s, want fail", c.Status)
	}
}

func TestDaemonDownIsInfoNotFailure(t *testing.T) {
	settings := passingEnv(t)
	settings.Socket = filepath.Join(t.TempDir(), "absent.sock")

	result := Run(context.Background(), Options{Settings: settings})
	if !result.OK {
		t.Fatalf("missing daemon must not flip ok, got %+v", result)
	}
	c := statusOf(t, result, "daemon")
	if c.Status != StatusInfo {
		t.Fatalf("daemon = %s, want info", c.Status)
	}
}

func TestUnwritableConfigDirFails(t *testing.T) {
	settings := passingEnv(t)
	settings.Socket = filepath.Join(t.TempDir(), "absent.sock")
	blocker := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("write blocker file: %v", err)
	}
	settings.ConfigDir = filepath.Join(blocker, "kayland")

	result := Run(context.Background(), Options{Settings: settings})
	if result.OK {
		t.Fatalf("expected ok=false for unwritable config dir, got %+v", result)
	}
	if c := statusOf(t, result, "config_dir"); c.Status != StatusFail {
		t.Fatalf("config_dir = %s, want fail", c.Status)
	}
}

func TestBrokenHistoryPathWarns(t *testing.T) {
	settings := passingEnv(t)
	settings.Socket = filepath.Join(t.TempDir(), "absent.sock")
	blocker := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("write blocker file: %v", err)
	}
	settings.HistoryPath = filepath.Join(blocker, "nested", "history.db")

	result := Run(context.Background(), Options{Settings: settings})
	if !result.OK {
		t.Fatalf("history warning must not flip ok, got %+v", result)
	}
	if c := statusOf(t, result, "history_db"); c.Status != StatusWarn {
		t.Fatalf("history_db = %s, want warn", c.Status)
	}
}
