package tui

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eraxe/kayland/internal/control/client"
	"github.com/eraxe/kayland/internal/history"
)

func rowOf(t *testing.T, out, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	t.Fatalf("no row starting with %q in:\n%s", prefix, out)
	return ""
}

func TestRenderAppsSortsAndShowsCounters(t *testing.T) {
	apps := []client.AppInfo{
		{Alias: "term", Name: "Kitty", ClassPattern: "kitty", Command: "/usr/bin/kitty", Counts: map[string]uint64{"launch": 2}},
		{Alias: "ff", Name: "Firefox", ClassPattern: "firefox", TitlePattern: "Mozilla", Command: "/usr/bin/firefox", Counts: map[string]uint64{"activate": 3}},
	}
	out := renderApps(apps)

	ffIdx := strings.Index(out, "\nff")
	termIdx := strings.Index(out, "\nterm")
	if ffIdx == -1 || termIdx == -1 || ffIdx > termIdx {
		t.Fatalf("apps not sorted by alias:\n%s", out)
	}
	if !strings.Contains(out, "class=firefox title=Mozilla") {
		t.Fatalf("pattern summary missing:\n%s", out)
	}
	fields := strings.Fields(rowOf(t, out, "ff"))
	if got := fields[len(fields)-2]; got != "3" {
		t.Fatalf("activate counter = %s, want 3 in row %q", got, rowOf(t, out, "ff"))
	}
	if got := fields[len(fields)-3]; got != "0" {
		t.Fatalf("launch counter = %s, want 0", got)
	}
}

func TestRenderAppsEmpty(t *testing.T) {
	if out := renderApps(nil); !strings.Contains(out, "(none)") {
		t.Fatalf("expected placeholder for empty registry:\n%s", out)
	}
}

func TestRenderShortcutsSortsByChord(t *testing.T) {
	out := renderShortcuts([]client.ShortcutInfo{
		{Chord: "meta+f", Alias: "ff"},
		{Chord: "alt+b", Alias: "term"},
	})
	altIdx := strings.Index(out, "\nalt+b")
	metaIdx := strings.Index(out, "\nmeta+f")
	if altIdx == -1 || metaIdx == -1 || altIdx > metaIdx {
		t.Fatalf("shortcuts not sorted by chord:\n%s", out)
	}
}

func TestRenderHistoryShowsTargetsAndFailures(t *testing.T) {
	when := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	out := renderHistory([]history.Entry{
		{When: when, Alias: "ff", Action: "launch", Command: "/usr/bin/firefox", OK: true},
		{When: when, Alias: "term", Action: "activate", WindowID: "{abc}", OK: false, Detail: "boom"},
	})
	if !strings.Contains(out, "/usr/bin/firefox") {
		t.Fatalf("launch target missing:\n%s", out)
	}
	if !strings.Contains(out, "{abc}") {
		t.Fatalf("window target missing:\n%s", out)
	}
	if !strings.Contains(out, "failed: boom") {
		t.Fatalf("failure detail missing:\n%s", out)
	}
	if out := renderHistory(nil); !strings.Contains(out, "(none)") {
		t.Fatalf("expected placeholder for empty history:\n%s", out)
	}
}

func TestFormatStatus(t *testing.T) {
	out := formatStatus(client.StatusResult{
		Version:       "1.0.0",
		DryRun:        true,
		AppCount:      2,
		ShortcutCount: 1,
		SocketPath:    "/run/user/1000/kayland.sock",
		LastReload:    time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC),
	})
	if !strings.Contains(out, "Daemon 1.0.0 (dry-run)") {
		t.Fatalf("version line wrong:\n%s", out)
	}
	if !strings.Contains(out, "Apps: 2  Shortcuts: 1") {
		t.Fatalf("counts line wrong:\n%s", out)
	}
	if !strings.Contains(out, "Last reload:") {
		t.Fatalf("reload line missing:\n%s", out)
	}
	if strings.Contains(out, ", up ") {
		t.Fatalf("uptime must be omitted for a zero start time:\n%s", out)
	}
}

func TestPatternSummaryEmpty(t *testing.T) {
	if got := patternSummary(client.AppInfo{}); got != "-" {
		t.Fatalf("patternSummary(empty) = %q, want -", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ab", 4); got != "ab" {
		t.Fatalf("short strings must pass through, got %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("zero width should yield empty, got %q", got)
	}
}

func TestRenderReportsDaemonErrors(t *testing.T) {
	cli, err := client.New(filepath.Join(t.TempDir(), "absent.sock"))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	var buf bytes.Buffer
	r := &Renderer{Client: cli, Writer: &buf}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	r.render(ctx)
	if !strings.Contains(buf.String(), "error:") {
		t.Fatalf("expected error line when the daemon is down:\n%s", buf.String())
	}
}

func TestRunRequiresClient(t *testing.T) {
	r := &Renderer{Writer: &bytes.Buffer{}}
	if err := r.Run(context.Background()); err == nil {
		t.Fatalf("expected error without a control client")
	}
}
