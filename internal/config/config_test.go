package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSettings(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.KdotoolBin != "kdotool" {
		t.Fatalf("KdotoolBin = %q, want kdotool", cfg.KdotoolBin)
	}
	if cfg.SnapshotTimeout.Std() != 3*time.Second {
		t.Fatalf("SnapshotTimeout = %v, want 3s", cfg.SnapshotTimeout.Std())
	}
	if cfg.LaunchTimeout.Std() != 5*time.Second {
		t.Fatalf("LaunchTimeout = %v, want 5s", cfg.LaunchTimeout.Std())
	}
	if cfg.WatchDebounce.Std() != 250*time.Millisecond {
		t.Fatalf("WatchDebounce = %v, want 250ms", cfg.WatchDebounce.Std())
	}
	if cfg.HistoryLimit != 1000 {
		t.Fatalf("HistoryLimit = %d, want 1000", cfg.HistoryLimit)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.ConfigDir == "" {
		t.Fatalf("ConfigDir not defaulted")
	}
}

func TestLoadParsesDurationsAndOverrides(t *testing.T) {
	path := writeSettings(t, `
configDir: /tmp/kayland-test
kdotoolBin: /usr/local/bin/kdotool
snapshotTimeout: 1500ms
watchDebounce: 1s
historyLimit: 50
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigDir != "/tmp/kayland-test" {
		t.Fatalf("ConfigDir = %q", cfg.ConfigDir)
	}
	if cfg.SnapshotTimeout.Std() != 1500*time.Millisecond {
		t.Fatalf("SnapshotTimeout = %v, want 1.5s", cfg.SnapshotTimeout.Std())
	}
	if cfg.WatchDebounce.Std() != time.Second {
		t.Fatalf("WatchDebounce = %v, want 1s", cfg.WatchDebounce.Std())
	}
	if cfg.HistoryLimit != 50 {
		t.Fatalf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
	if got := cfg.AppsPath(); got != "/tmp/kayland-test/apps.json" {
		t.Fatalf("AppsPath = %q", got)
	}
	if got := cfg.ShortcutsPath(); got != "/tmp/kayland-test/shortcuts.json" {
		t.Fatalf("ShortcutsPath = %q", got)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeSettings(t, "snapshotTimeout: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error for invalid duration")
	}
}

func TestLoadRejectsNegativeDuration(t *testing.T) {
	path := writeSettings(t, "snapshotTimeout: -3s\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative duration")
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	path := writeSettings(t, "log:\n  level: loud\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown log level")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	path := writeSettings(t, "configDir: ~/kayland-test\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(home, "kayland-test"); cfg.ConfigDir != want {
		t.Fatalf("ConfigDir = %q, want %q", cfg.ConfigDir, want)
	}
}

func TestSocketPathPrecedence(t *testing.T) {
	cfg := &Settings{Socket: "/custom/kayland.sock"}

	t.Setenv("KAYLAND_SOCKET", "/env/kayland.sock")
	if got := cfg.SocketPath(); got != "/env/kayland.sock" {
		t.Fatalf("SocketPath with env override = %q", got)
	}

	t.Setenv("KAYLAND_SOCKET", "")
	if got := cfg.SocketPath(); got != "/custom/kayland.sock" {
		t.Fatalf("SocketPath with settings value = %q", got)
	}

	cfg.Socket = ""
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := cfg.SocketPath(); got != "/run/user/1000/kayland.sock" {
		t.Fatalf("SocketPath from runtime dir = %q", got)
	}

	t.Setenv("XDG_RUNTIME_DIR", "")
	got := cfg.SocketPath()
	if filepath.Dir(got) != os.TempDir() {
		t.Fatalf("SocketPath fallback = %q, want a path under %q", got, os.TempDir())
	}
}
