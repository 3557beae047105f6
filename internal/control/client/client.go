// Package client talks to a running kaylandd over its control socket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/eraxe/kayland/internal/control"
	"github.com/eraxe/kayland/internal/kayerr"
)

// defaultTimeout bounds a request when the caller supplies no deadline.
const defaultTimeout = 3 * time.Second

// Client issues control requests against one socket path.
type Client struct {
	socketPath string
}

type (
	// ToggleResult reports the action the daemon executed for a toggle.
	ToggleResult = control.ToggleResult
	// AppInfo is one application definition plus its execution counters.
	AppInfo = control.AppInfo
	// ListResult captures the application registry contents.
	ListResult = control.ListResult
	// ShortcutInfo is one chord binding.
	ShortcutInfo = control.ShortcutInfo
	// ShortcutsResult captures the shortcut registry contents.
	ShortcutsResult = control.ShortcutsResult
	// StatusResult describes the running daemon.
	StatusResult = control.StatusResult
	// MetricsResult is the daemon's counter snapshot.
	MetricsResult = control.MetricsResult
)

// New creates a client for the given socket path. Callers derive the path
// from their settings; there is no fallback.
func New(socketPath string) (*Client, error) {
	if socketPath == "" {
		return nil, errors.New("control socket path cannot be empty")
	}
	return &Client{socketPath: socketPath}, nil
}

// Ping checks daemon liveness.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionPing}, nil)
}

// Toggle runs the full toggle flow for alias inside the daemon.
func (c *Client) Toggle(ctx context.Context, alias string) (ToggleResult, error) {
	var result ToggleResult
	req := control.Request{Action: control.ActionToggle, Params: map[string]any{"alias": alias}}
	if err := c.do(ctx, req, &result); err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// Trigger resolves chord through the daemon's shortcut registry and toggles
// the bound application.
func (c *Client) Trigger(ctx context.Context, chord string) (ToggleResult, error) {
	var result ToggleResult
	req := control.Request{Action: control.ActionTrigger, Params: map[string]any{"chord": chord}}
	if err := c.do(ctx, req, &result); err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// List retrieves the application definitions with per-app counters.
func (c *Client) List(ctx context.Context) (ListResult, error) {
	var result ListResult
	if err := c.do(ctx, control.Request{Action: control.ActionList}, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// Shortcuts retrieves the chord bindings.
func (c *Client) Shortcuts(ctx context.Context) (ShortcutsResult, error) {
	var result ShortcutsResult
	if err := c.do(ctx, control.Request{Action: control.ActionShortcuts}, &result); err != nil {
		return ShortcutsResult{}, err
	}
	return result, nil
}

// Reload asks the daemon to re-read both registry documents from disk.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionReload}, nil)
}

// Status retrieves the daemon's run state.
func (c *Client) Status(ctx context.Context) (StatusResult, error) {
	var result StatusResult
	if err := c.do(ctx, control.Request{Action: control.ActionStatus}, &result); err != nil {
		return StatusResult{}, err
	}
	return result, nil
}

// Metrics retrieves the daemon's counter snapshot.
func (c *Client) Metrics(ctx context.Context) (MetricsResult, error) {
	var result MetricsResult
	if err := c.do(ctx, control.Request{Action: control.ActionMetrics}, &result); err != nil {
		return MetricsResult{}, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, req control.Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial control socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	var resp control.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != control.StatusOK {
		if resp.Error == "" {
			resp.Error = "unknown control error"
		}
		if resp.Code != "" {
			return &kayerr.RemoteError{Code: resp.Code, Message: resp.Error}
		}
		return errors.New(resp.Error)
	}
	if out == nil || resp.Data == nil {
		return nil
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
