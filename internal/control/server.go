// Package control hosts the kaylandd unix socket: one JSON request and one
// JSON response per connection.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/eraxe/kayland/internal/engine"
	"github.com/eraxe/kayland/internal/kayerr"
	"github.com/eraxe/kayland/internal/metrics"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/util"
)

// Deps carries the collaborators the control server exposes.
type Deps struct {
	Toggler   *engine.Toggler
	Apps      *registry.Apps
	Shortcuts *registry.Shortcuts
	Collector *metrics.Collector
	Reload    func(reason string) error
	Status    func() StatusResult
	DryRun    bool
}

// Server hosts the kayland control socket and serves requests.
type Server struct {
	socketPath string
	deps       Deps
	logger     *util.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a control server bound to socketPath once Serve runs.
func NewServer(socketPath string, deps Deps, logger *util.Logger) *Server {
	return &Server{socketPath: socketPath, deps: deps, logger: logger}
}

// SocketPath returns the path the server binds.
func (s *Server) SocketPath() string { return s.socketPath }

// Serve listens on the control socket until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.prepareSocket(); err != nil {
		return err
	}
	s.logger.Infof("control server listening on %s", s.socketPath)
	defer s.cleanup()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
	}()

	for {
		conn, err := s.accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Errorf("control accept error: %v", err)
			continue
		}
		go s.handle(ctx, conn)
	}
}

func (s *Server) accept(ctx context.Context) (net.Conn, error) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return nil, context.Canceled
	}
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return conn, nil
}

func (s *Server) prepareSocket() error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on control socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod control socket: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

func (s *Server) cleanup() {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnf("remove control socket: %v", err)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.writeError(conn, fmt.Errorf("decode request: %w", err))
		return
	}
	switch req.Action {
	case ActionToggle:
		s.handleToggle(ctx, conn, req.Params)
	case ActionTrigger:
		s.handleTrigger(ctx, conn, req.Params)
	case ActionList:
		s.handleList(conn)
	case ActionShortcuts:
		s.handleShortcuts(conn)
	case ActionReload:
		s.handleReload(conn)
	case ActionStatus:
		s.handleStatus(conn)
	case ActionMetrics:
		s.writeOK(conn, s.deps.Collector.Snapshot())
	case ActionPing:
		s.writeOK(conn, nil)
	default:
		s.writeError(conn, fmt.Errorf("unknown action %q", req.Action))
	}
}

func (s *Server) handleToggle(ctx context.Context, conn net.Conn, params map[string]any) {
	alias, _ := params["alias"].(string)
	if alias == "" {
		s.writeError(conn, &kayerr.ValidationError{Field: "alias", Reason: "missing"})
		return
	}
	s.runToggle(ctx, conn, alias)
}

func (s *Server) handleTrigger(ctx context.Context, conn net.Conn, params map[string]any) {
	chord, _ := params["chord"].(string)
	if chord == "" {
		s.writeError(conn, &kayerr.ValidationError{Field: "chord", Reason: "missing"})
		return
	}
	alias, err := s.deps.Shortcuts.Resolve(chord)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.runToggle(ctx, conn, alias)
}

func (s *Server) runToggle(ctx context.Context, conn net.Conn, alias string) {
	action, err := s.deps.Toggler.Toggle(ctx, alias)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, ToggleResult{Alias: alias, Action: action, DryRun: s.deps.DryRun})
}

func (s *Server) handleList(conn net.Conn) {
	apps := s.deps.Apps.List()
	result := ListResult{Apps: make([]AppInfo, 0, len(apps))}
	for _, app := range apps {
		info := AppInfo{
			ID:              app.ID,
			Alias:           app.Alias,
			Name:            app.Name,
			ClassPattern:    app.ClassPattern,
			ResourcePattern: app.ResourcePattern,
			TitlePattern:    app.TitlePattern,
			Command:         app.Command,
		}
		for _, kind := range []engine.ActionKind{engine.ActionLaunch, engine.ActionActivate, engine.ActionMinimize} {
			if n := s.deps.Collector.Count("app." + app.Alias + "." + string(kind)); n > 0 {
				if info.Counts == nil {
					info.Counts = map[string]uint64{}
				}
				info.Counts[string(kind)] = n
			}
		}
		result.Apps = append(result.Apps, info)
	}
	s.writeOK(conn, result)
}

func (s *Server) handleShortcuts(conn net.Conn) {
	bindings := s.deps.Shortcuts.List()
	result := ShortcutsResult{Shortcuts: make([]ShortcutInfo, 0, len(bindings))}
	for _, b := range bindings {
		result.Shortcuts = append(result.Shortcuts, ShortcutInfo{Chord: b.Chord, Alias: b.Alias})
	}
	s.writeOK(conn, result)
}

func (s *Server) handleReload(conn net.Conn) {
	if s.deps.Reload == nil {
		s.writeError(conn, errors.New("reload not supported"))
		return
	}
	if err := s.deps.Reload("control request"); err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, nil)
}

func (s *Server) handleStatus(conn net.Conn) {
	if s.deps.Status == nil {
		s.writeError(conn, errors.New("status not supported"))
		return
	}
	s.writeOK(conn, s.deps.Status())
}

func (s *Server) writeOK(conn net.Conn, data any) {
	resp := Response{Status: StatusOK}
	if data != nil {
		resp.Data = data
	}
	_ = json.NewEncoder(conn).Encode(resp)
}

func (s *Server) writeError(conn net.Conn, err error) {
	resp := Response{Status: StatusError}
	if err != nil {
		resp.Error = err.Error()
		resp.Code = kayerr.Code(err)
	}
	_ = json.NewEncoder(conn).Encode(resp)
}
