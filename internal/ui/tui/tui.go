package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eraxe/kayland/internal/control/client"
	"github.com/eraxe/kayland/internal/history"
)

const (
	defaultRefresh = 2 * time.Second
	historyTail    = 10
	patternWidth   = 40
	commandWidth   = 32
	detailWidth    = 40
)

// Renderer periodically polls the daemon and renders a textual dashboard.
// History is optional; without it the recent-actions section is omitted.
type Renderer struct {
	Client  *client.Client
	History *history.Store
	Writer  io.Writer
	Refresh time.Duration
}

// New returns a renderer configured with sensible defaults.
func New(cli *client.Client, hist *history.Store, w io.Writer) *Renderer {
	return &Renderer{Client: cli, History: hist, Writer: w, Refresh: defaultRefresh}
}

// Run starts the render loop until the context is cancelled.
func (r *Renderer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Writer == nil {
		r.Writer = os.Stdout
	}
	if r.Client == nil {
		return fmt.Errorf("tui renderer requires a control client")
	}

	refresh := r.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	fmt.Fprint(r.Writer, "\033[?25l")
	defer fmt.Fprint(r.Writer, "\033[?25h")

	r.render(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.render(ctx)
		}
	}
}

func (r *Renderer) render(ctx context.Context) {
	var buf bytes.Buffer
	buf.WriteString("\033[H\033[2J")
	buf.WriteString("kayland dashboard, Ctrl+C to exit\n")
	buf.WriteString(time.Now().Format(time.RFC1123))
	buf.WriteString("\n\n")

	status, err := r.Client.Status(ctx)
	if err != nil {
		buf.WriteString(fmt.Sprintf("error: %v\n", err))
		fmt.Fprint(r.Writer, buf.String())
		return
	}
	buf.WriteString(formatStatus(status))
	buf.WriteByte('\n')

	list, err := r.Client.List(ctx)
	if err != nil {
		buf.WriteString(fmt.Sprintf("error: %v\n", err))
		fmt.Fprint(r.Writer, buf.String())
		return
	}
	buf.WriteString(renderApps(list.Apps))

	shortcuts, err := r.Client.Shortcuts(ctx)
	if err != nil {
		buf.WriteString(fmt.Sprintf("error: %v\n", err))
		fmt.Fprint(r.Writer, buf.String())
		return
	}
	buf.WriteString(renderShortcuts(shortcuts.Shortcuts))

	if r.History != nil {
		entries, err := r.History.Recent(ctx, historyTail)
		if err != nil {
			buf.WriteString(fmt.Sprintf("Recent actions: error: %v\n", err))
		} else {
			buf.WriteString(renderHistory(entries))
		}
	}
	fmt.Fprint(r.Writer, buf.String())
}

func formatStatus(status client.StatusResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Daemon %s", status.Version))
	if status.DryRun {
		b.WriteString(" (dry-run)")
	}
	if !status.Started.IsZero() {
		b.WriteString(fmt.Sprintf(", up %s", time.Since(status.Started).Round(time.Second)))
	}
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("Apps: %d  Shortcuts: %d  Socket: %s\n", status.AppCount, status.ShortcutCount, status.SocketPath))
	if !status.LastReload.IsZero() {
		b.WriteString(fmt.Sprintf("Last reload: %s\n", status.LastReload.Local().Format(time.RFC1123)))
	}
	return b.String()
}

func renderApps(apps []client.AppInfo) string {
	var b strings.Builder
	b.WriteString("Applications:\n")
	if len(apps) == 0 {
		b.WriteString("  (none)\n\n")
		return b.String()
	}
	sorted := append([]client.AppInfo(nil), apps...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Alias < sorted[j].Alias
	})
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Alias\tName\tPatterns\tCommand\tLaunch\tActivate\tMinimize")
	for _, app := range sorted {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			app.Alias,
			app.Name,
			truncate(patternSummary(app), patternWidth),
			truncate(app.Command, commandWidth),
			app.Counts["launch"],
			app.Counts["activate"],
			app.Counts["minimize"])
	}
	tw.Flush()
	b.WriteByte('\n')
	return b.String()
}

func renderShortcuts(shortcuts []client.ShortcutInfo) string {
	var b strings.Builder
	b.WriteString("Shortcuts:\n")
	if len(shortcuts) == 0 {
		b.WriteString("  (none)\n\n")
		return b.String()
	}
	sorted := append([]client.ShortcutInfo(nil), shortcuts...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Chord < sorted[j].Chord
	})
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Chord\tApp")
	for _, sc := range sorted {
		fmt.Fprintf(tw, "%s\t%s\n", sc.Chord, sc.Alias)
	}
	tw.Flush()
	b.WriteByte('\n')
	return b.String()
}

func renderHistory(entries []history.Entry) string {
	var b strings.Builder
	b.WriteString("Recent actions:\n")
	if len(entries) == 0 {
		b.WriteString("  (none)\n\n")
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tAlias\tAction\tTarget\tResult")
	for _, e := range entries {
		target := e.WindowID
		if target == "" {
			target = truncate(e.Command, commandWidth)
		}
		if target == "" {
			target = "-"
		}
		result := "ok"
		if !e.OK {
			result = "failed"
			if e.Detail != "" {
				result = "failed: " + truncate(e.Detail, detailWidth)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.When.Local().Format("15:04:05"), e.Alias, e.Action, target, result)
	}
	tw.Flush()
	b.WriteByte('\n')
	return b.String()
}

func patternSummary(app client.AppInfo) string {
	var parts []string
	if app.ClassPattern != "" {
		parts = append(parts, "class="+app.ClassPattern)
	}
	if app.ResourcePattern != "" {
		parts = append(parts, "resource="+app.ResourcePattern)
	}
	if app.TitlePattern != "" {
		parts = append(parts, "title="+app.TitlePattern)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
