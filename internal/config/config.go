package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML scalar durations such as "250ms" or "3s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// LogSettings controls log verbosity and the optional log file.
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Settings is the process configuration document. The application and
// shortcut registries live in separate JSON documents under ConfigDir;
// Settings only decides where to find them and how the process behaves.
type Settings struct {
	ConfigDir       string      `yaml:"configDir"`
	Socket          string      `yaml:"socket"`
	KdotoolBin      string      `yaml:"kdotoolBin"`
	SnapshotTimeout Duration    `yaml:"snapshotTimeout"`
	LaunchTimeout   Duration    `yaml:"launchTimeout"`
	WatchDebounce   Duration    `yaml:"watchDebounce"`
	HistoryPath     string      `yaml:"historyPath"`
	HistoryLimit    int         `yaml:"historyLimit"`
	Log             LogSettings `yaml:"log"`
}

// DefaultPath returns the standard settings location,
// $XDG_CONFIG_HOME/kayland/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "kayland", "config.yaml"), nil
}

// Load reads and validates the settings file. A missing file is not an
// error; it yields the defaults.
func Load(path string) (*Settings, error) {
	var cfg Settings
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Settings) applyDefaults() error {
	if c.ConfigDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config directory: %w", err)
		}
		c.ConfigDir = filepath.Join(dir, "kayland")
	}
	if c.KdotoolBin == "" {
		c.KdotoolBin = "kdotool"
	}
	if c.SnapshotTimeout == 0 {
		c.SnapshotTimeout = Duration(3 * time.Second)
	}
	if c.LaunchTimeout == 0 {
		c.LaunchTimeout = Duration(5 * time.Second)
	}
	if c.WatchDebounce == 0 {
		c.WatchDebounce = Duration(250 * time.Millisecond)
	}
	if c.HistoryPath == "" {
		c.HistoryPath = filepath.Join(dataHome(), "kayland", "history.db")
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = 1000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	for _, p := range []*string{&c.ConfigDir, &c.Socket, &c.HistoryPath, &c.Log.File} {
		expanded, err := expandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// Validate performs basic sanity checks.
func (c *Settings) Validate() error {
	if c.ConfigDir == "" {
		return fmt.Errorf("configDir cannot be empty")
	}
	if c.KdotoolBin == "" {
		return fmt.Errorf("kdotoolBin cannot be empty")
	}
	if c.SnapshotTimeout <= 0 {
		return fmt.Errorf("snapshotTimeout must be positive")
	}
	if c.LaunchTimeout <= 0 {
		return fmt.Errorf("launchTimeout must be positive")
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watchDebounce must be positive")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("historyLimit cannot be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of trace, debug, info, warn, error (got %q)", c.Log.Level)
	}
	return nil
}

// AppsPath returns the application registry document path.
func (c *Settings) AppsPath() string {
	return filepath.Join(c.ConfigDir, "apps.json")
}

// ShortcutsPath returns the shortcut registry document path.
func (c *Settings) ShortcutsPath() string {
	return filepath.Join(c.ConfigDir, "shortcuts.json")
}

// SocketPath resolves the control socket location. KAYLAND_SOCKET wins over
// the settings file, then $XDG_RUNTIME_DIR/kayland.sock, then a per-user
// path under /tmp.
func (c *Settings) SocketPath() string {
	if env := os.Getenv("KAYLAND_SOCKET"); env != "" {
		return env
	}
	if c.Socket != "" {
		return c.Socket
	}
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return filepath.Join(runtime, "kayland.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("kayland-%d.sock", os.Getuid()))
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
