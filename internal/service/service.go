// Package service manages the kaylandd systemd user unit.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/eraxe/kayland/internal/util"
)

// UnitName is the systemd user unit kayland installs and drives.
const UnitName = "kayland.service"

const unitTemplate = `[Unit]
Description=kayland application toggler daemon
After=graphical-session.target
PartOf=graphical-session.target

[Service]
Type=simple
ExecStart=%s
Restart=on-failure
RestartSec=2

[Install]
WantedBy=graphical-session.target
`

// Runner executes systemctl. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Status reports whether the unit file exists and what systemctl says about
// the unit.
type Status struct {
	Installed bool   `json:"installed"`
	Active    string `json:"active"`
	UnitPath  string `json:"unitPath"`
}

// Manager installs and drives the user unit. UnitDir and Binary may be
// overridden before the first call; empty values resolve to the systemd
// user directory and the kaylandd binary on PATH.
type Manager struct {
	UnitDir string
	Binary  string

	runner Runner
	logger *util.Logger
}

// NewManager builds a manager that shells out to systemctl.
func NewManager(logger *util.Logger) *Manager {
	return NewManagerWithRunner(logger, osRunner{})
}

// NewManagerWithRunner builds a manager with an injected runner.
func NewManagerWithRunner(logger *util.Logger, runner Runner) *Manager {
	return &Manager{UnitDir: defaultUnitDir(), runner: runner, logger: logger}
}

// UnitPath is where the unit file lives.
func (m *Manager) UnitPath() string {
	return filepath.Join(m.UnitDir, UnitName)
}

// Install writes the unit file and enables the unit immediately.
func (m *Manager) Install(ctx context.Context) error {
	if m.UnitDir == "" {
		return errors.New("cannot determine systemd user unit directory")
	}
	binary, err := m.resolveBinary()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.UnitDir, 0o755); err != nil {
		return fmt.Errorf("create unit directory: %w", err)
	}
	unitPath := m.UnitPath()
	if err := os.WriteFile(unitPath, []byte(fmt.Sprintf(unitTemplate, binary)), 0o644); err != nil {
		return fmt.Errorf("write unit file: %w", err)
	}
	m.logger.Infof("wrote %s", unitPath)
	if err := m.systemctl(ctx, "daemon-reload"); err != nil {
		return err
	}
	return m.systemctl(ctx, "enable", "--now", UnitName)
}

// Uninstall disables the unit and removes its file.
func (m *Manager) Uninstall(ctx context.Context) error {
	unitPath := m.UnitPath()
	if _, err := os.Stat(unitPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s is not installed", UnitName)
		}
		return fmt.Errorf("stat unit file: %w", err)
	}
	// Disable while the unit file is still loadable. A unit that was never
	// enabled still disables cleanly, so a failure here is only logged.
	if err := m.systemctl(ctx, "disable", "--now", UnitName); err != nil {
		m.logger.Warnf("disable before removal: %v", err)
	}
	if err := os.Remove(unitPath); err != nil {
		return fmt.Errorf("remove unit file: %w", err)
	}
	m.logger.Infof("removed %s", unitPath)
	return m.systemctl(ctx, "daemon-reload")
}

// Start asks systemd to start the unit.
func (m *Manager) Start(ctx context.Context) error {
	return m.systemctl(ctx, "start", UnitName)
}

// Stop asks systemd to stop the unit.
func (m *Manager) Stop(ctx context.Context) error {
	return m.systemctl(ctx, "stop", UnitName)
}

// CurrentStatus reports unit-file presence and the is-active state.
// is-active exits non-zero for inactive units, so the printed state wins
// over the exit code.
func (m *Manager) CurrentStatus(ctx context.Context) (Status, error) {
	status := Status{UnitPath: m.UnitPath()}
	if _, err := os.Stat(status.UnitPath); err == nil {
		status.Installed = true
	}
	out, err := m.runner.Run(ctx, "systemctl", "--user", "is-active", UnitName)
	state := strings.TrimSpace(string(out))
	if state == "" {
		if err != nil {
			return status, fmt.Errorf("systemctl is-active: %w", err)
		}
		state = "unknown"
	}
	status.Active = state
	return status, nil
}

func (m *Manager) resolveBinary() (string, error) {
	if m.Binary != "" {
		return m.Binary, nil
	}
	if path, err := exec.LookPath("kaylandd"); err == nil {
		return path, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate kaylandd: %w", err)
	}
	sibling := filepath.Join(filepath.Dir(self), "kaylandd")
	if _, err := os.Stat(sibling); err != nil {
		return "", fmt.Errorf("kaylandd not found on PATH or next to %s", self)
	}
	return sibling, nil
}

func (m *Manager) systemctl(ctx context.Context, args ...string) error {
	out, err := m.runner.Run(ctx, "systemctl", append([]string{"--user"}, args...)...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("systemctl %s: %v: %s", strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func defaultUnitDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "systemd", "user")
}
