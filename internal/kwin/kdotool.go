// Package kwin wraps kdotool shell-outs for querying and controlling KWin
// windows on a KDE Wayland session.
package kwin

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/eraxe/kayland/internal/util"
	"github.com/eraxe/kayland/internal/windows"
)

// Runner executes one external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s: %v: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Client wraps kdotool invocations.
type Client struct {
	binary string
	runner Runner
	logger *util.Logger
}

// NewClient returns a kdotool client. An empty binary means kdotool on PATH.
func NewClient(binary string, logger *util.Logger) *Client {
	if binary == "" {
		binary = "kdotool"
	}
	return &Client{binary: binary, runner: execRunner{}, logger: logger}
}

// NewClientWithRunner substitutes the command runner, for tests.
func NewClientWithRunner(binary string, r Runner, logger *util.Logger) *Client {
	c := NewClient(binary, logger)
	c.runner = r
	return c
}

// Binary returns the kdotool binary this client invokes.
func (c *Client) Binary() string { return c.binary }

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	return c.runner.Run(ctx, c.binary, args...)
}

func (c *Client) line(ctx context.Context, args ...string) (string, error) {
	out, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

var windowID = regexp.MustCompile(`^\{?[a-zA-Z0-9-]+\}?$`)

func parseWindowIDs(out []byte) []string {
	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && windowID.MatchString(line) {
			ids = append(ids, line)
		}
	}
	return ids
}

// ListWindows enumerates every window id, then describes each one. A window
// that disappears between the search and its description is skipped.
func (c *Client) ListWindows(ctx context.Context) ([]windows.Window, error) {
	out, err := c.run(ctx, "search", "--class", ".*")
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}
	ids := parseWindowIDs(out)
	active, err := c.activeWindowID(ctx)
	if err != nil {
		return nil, err
	}
	wins := make([]windows.Window, 0, len(ids))
	for _, id := range ids {
		w, err := c.describeWindow(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.logger.Debugf("skipping window %s: %v", id, err)
			continue
		}
		w.Active = id == active
		wins = append(wins, w)
	}
	return wins, nil
}

// describeWindow fills in class, title, and desktop. KWin on Wayland does
// not expose a resource name separate from the class, so Resource stays
// empty.
func (c *Client) describeWindow(ctx context.Context, id string) (windows.Window, error) {
	class, err := c.line(ctx, "getwindowclassname", id)
	if err != nil {
		return windows.Window{}, err
	}
	title, err := c.line(ctx, "getwindowname", id)
	if err != nil {
		return windows.Window{}, err
	}
	w := windows.Window{ID: id, Class: class, Title: title}
	desktop, err := c.line(ctx, "get_desktop_for_window", id)
	if err != nil {
		if ctx.Err() != nil {
			return windows.Window{}, err
		}
		return w, nil
	}
	if n, perr := strconv.Atoi(desktop); perr == nil {
		w.Desktop = n
	}
	return w, nil
}

func (c *Client) activeWindowID(ctx context.Context) (string, error) {
	id, err := c.line(ctx, "getactivewindow")
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		// No focused window (desktop or panel has focus) is a valid state.
		return "", nil
	}
	return id, nil
}

// CurrentDesktop returns the virtual desktop the session is showing.
func (c *Client) CurrentDesktop(ctx context.Context) (int, error) {
	out, err := c.line(ctx, "get_desktop")
	if err != nil {
		return 0, fmt.Errorf("current desktop: %w", err)
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse desktop %q: %w", out, err)
	}
	return n, nil
}

// Activate focuses the window.
func (c *Client) Activate(ctx context.Context, id string) error {
	_, err := c.run(ctx, "windowactivate", id)
	return err
}

// Minimize minimizes the window.
func (c *Client) Minimize(ctx context.Context, id string) error {
	_, err := c.run(ctx, "windowminimize", id)
	return err
}

var _ windows.Querier = (*Client)(nil)
var _ windows.Controller = (*Client)(nil)
