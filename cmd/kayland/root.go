package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/config"
	"github.com/eraxe/kayland/internal/control/client"
	"github.com/eraxe/kayland/internal/engine"
	"github.com/eraxe/kayland/internal/history"
	"github.com/eraxe/kayland/internal/kayerr"
	"github.com/eraxe/kayland/internal/kwin"
	"github.com/eraxe/kayland/internal/launch"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/store"
	"github.com/eraxe/kayland/internal/util"
	"github.com/eraxe/kayland/internal/version"
)

// daemonProbeTimeout bounds the ping that decides between delegating a
// command to the daemon and running it in-process.
const daemonProbeTimeout = 500 * time.Millisecond

var (
	flagConfig   string
	flagLogLevel string

	settings *config.Settings
	logger   *util.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kayland",
	Short: "Toggle KDE Wayland applications by alias",
	Long: `kayland toggles applications on KDE Wayland: it activates the matching
window, minimizes it when it already has focus, or launches the
configured command when no window matches. Definitions live in
~/.config/kayland and are shared with the kaylandd daemon.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "settings file (default ~/.config/kayland/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
}

// Execute runs the CLI and exits non-zero on failure: 2 for snapshot
// timeouts, 3 for executor failures, 1 for everything else.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case kayerr.IsTimeout(err):
		return 2
	case kayerr.IsExecutor(err):
		return 3
	default:
		return 1
	}
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	settings = cfg

	level := util.LevelWarn
	if flagLogLevel != "" {
		level = util.ParseLogLevel(flagLogLevel)
	}
	logger = util.NewLogger(level)
	return nil
}

func openApps() (*registry.Apps, error) {
	return registry.LoadApps(store.NewFile(settings.AppsPath(), "apps"))
}

func openShortcuts() (*registry.Shortcuts, error) {
	return registry.LoadShortcuts(store.NewFile(settings.ShortcutsPath(), "shortcuts"))
}

// daemonClient returns a connected client when a daemon answers on the
// control socket. A silent daemon is not an error; callers fall back to
// in-process execution.
func daemonClient(ctx context.Context) (*client.Client, bool) {
	cli, err := client.New(settings.SocketPath())
	if err != nil {
		return nil, false
	}
	pingCtx, cancel := context.WithTimeout(ctx, daemonProbeTimeout)
	defer cancel()
	if err := cli.Ping(pingCtx); err != nil {
		logger.Debugf("daemon not reachable: %v", err)
		return nil, false
	}
	return cli, true
}

// toggleBudget bounds one toggle invocation end to end. The snapshot phase
// carries its own tighter deadline inside the toggler.
func toggleBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := settings.LaunchTimeout.Std(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// localToggle runs the toggle flow in-process for daemonless invocations.
func localToggle(ctx context.Context, alias string) (engine.Action, error) {
	apps, err := openApps()
	if err != nil {
		return engine.Action{}, err
	}
	kdo := kwin.NewClient(settings.KdotoolBin, logger)
	opts := []engine.TogglerOption{engine.WithSnapshotTimeout(settings.SnapshotTimeout.Std())}
	if hist, err := history.Open(ctx, settings.HistoryPath, settings.HistoryLimit); err != nil {
		logger.Warnf("history disabled: %v", err)
	} else {
		defer hist.Close()
		opts = append(opts, engine.WithRecorder(hist))
	}
	toggler := engine.NewToggler(apps, kdo, kdo, launch.NewShell(logger), logger, opts...)
	return toggler.Toggle(ctx, alias)
}

func describeAction(action engine.Action, dryRun bool) string {
	var present, past, target string
	switch action.Kind {
	case engine.ActionLaunch:
		present, past, target = "launch", "launched", action.Command
	case engine.ActionActivate:
		present, past, target = "activate window", "activated window", action.WindowID
	case engine.ActionMinimize:
		present, past, target = "minimize window", "minimized window", action.WindowID
	default:
		if dryRun {
			return "would do nothing"
		}
		return "nothing to do"
	}
	if dryRun {
		return fmt.Sprintf("would %s %s", present, target)
	}
	return fmt.Sprintf("%s %s", past, target)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
