package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eraxe/kayland/internal/config"
	"github.com/eraxe/kayland/internal/control"
	"github.com/eraxe/kayland/internal/engine"
	"github.com/eraxe/kayland/internal/history"
	"github.com/eraxe/kayland/internal/kwin"
	"github.com/eraxe/kayland/internal/launch"
	"github.com/eraxe/kayland/internal/metrics"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/store"
	"github.com/eraxe/kayland/internal/util"
	"github.com/eraxe/kayland/internal/version"
)

// pruneInterval paces the history retention sweep. Every append already
// prunes, so this only catches rows written by other processes.
const pruneInterval = time.Hour

func main() {
	defaultConfig, _ := config.DefaultPath()

	cfgPath := flag.String("config", defaultConfig, "path to settings file")
	dryRun := flag.Bool("dry-run", false, "decide actions but do not execute them")
	logLevel := flag.String("log-level", "", "log level (trace|debug|info|warn|error), overrides settings")
	flag.Parse()

	settings, err := config.Load(*cfgPath)
	if err != nil {
		exitErr(fmt.Errorf("load settings: %w", err))
	}

	level := settings.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	logger := util.NewLogger(util.ParseLogLevel(level))
	if settings.Log.File != "" {
		fileLogger, err := util.NewFileLogger(util.ParseLogLevel(level), settings.Log.File)
		if err != nil {
			exitErr(fmt.Errorf("open log file: %w", err))
		}
		logger = fileLogger
		defer logger.Close()
	}

	apps, err := registry.LoadApps(store.NewFile(settings.AppsPath(), "apps"))
	if err != nil {
		exitErr(fmt.Errorf("load applications: %w", err))
	}
	shortcuts, err := registry.LoadShortcuts(store.NewFile(settings.ShortcutsPath(), "shortcuts"))
	if err != nil {
		exitErr(fmt.Errorf("load shortcuts: %w", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector()
	opts := []engine.TogglerOption{
		engine.WithSnapshotTimeout(settings.SnapshotTimeout.Std()),
		engine.WithDryRun(*dryRun),
		engine.WithCounter(collector),
	}
	hist, err := history.Open(ctx, settings.HistoryPath, settings.HistoryLimit)
	if err != nil {
		logger.Warnf("history disabled: %v", err)
		hist = nil
	} else {
		defer hist.Close()
		opts = append(opts, engine.WithRecorder(hist))
	}

	kdo := kwin.NewClient(settings.KdotoolBin, logger)
	toggler := engine.NewToggler(apps, kdo, kdo, launch.NewShell(logger), logger, opts...)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		exitErr(fmt.Errorf("watch registries: %w", err))
	}
	defer watcher.Close()
	if err := watcher.Add(settings.ConfigDir); err != nil {
		exitErr(fmt.Errorf("watch config dir: %w", err))
	}
	targets := map[string]bool{
		filepath.Clean(settings.AppsPath()):      true,
		filepath.Clean(settings.ShortcutsPath()): true,
	}
	reloadRequests := make(chan string, 1)
	go watchRegistries(logger, watcher, targets, settings.WatchDebounce.Std(), reloadRequests)

	reloader := newRegistryReloader(settings, logger, apps, shortcuts, collector)
	started := time.Now()

	srv := control.NewServer(settings.SocketPath(), control.Deps{
		Toggler:   toggler,
		Apps:      apps,
		Shortcuts: shortcuts,
		Collector: collector,
		Reload:    reloader.Reload,
		Status: func() control.StatusResult {
			return control.StatusResult{
				Version:       version.String(),
				Started:       started,
				ConfigDir:     settings.ConfigDir,
				SocketPath:    settings.SocketPath(),
				AppCount:      len(apps.List()),
				ShortcutCount: len(shortcuts.List()),
				LastReload:    reloader.LastReload(),
				DryRun:        *dryRun,
			}
		},
		DryRun: *dryRun,
	}, logger)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ctx)
	}()
	logger.Infof("kaylandd %s listening on %s", version.Version, settings.SocketPath())
	if *dryRun {
		logger.Infof("dry-run enabled, actions are decided but not executed")
	}

	pruneTicker := time.NewTicker(pruneInterval)
	defer pruneTicker.Stop()

	for {
		select {
		case err := <-errs:
			if err != nil && err != context.Canceled {
				logger.Errorf("control server exited: %v", err)
				os.Exit(1)
			}
			logger.Infof("daemon stopped")
			return
		case reason := <-reloadRequests:
			if err := reloader.Reload(reason); err != nil {
				logger.Errorf("reload failed: %v", err)
			}
		case <-pruneTicker.C:
			if hist == nil {
				continue
			}
			if err := hist.Prune(ctx); err != nil {
				logger.Warnf("history prune failed: %v", err)
			}
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				if err := reloader.Reload("received SIGHUP"); err != nil {
					logger.Errorf("reload failed: %v", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Infof("received %s, shutting down", sig)
				cancel()
			}
		}
	}
}

// watchRegistries forwards debounced change notifications for the registry
// documents. Editors and the atomic-rename store produce bursts of events,
// so a quiet window has to elapse before a reload fires.
func watchRegistries(logger *util.Logger, watcher *fsnotify.Watcher, targets map[string]bool, debounce time.Duration, reloadRequests chan<- string) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case reloadRequests <- "registry document updated":
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("registry watcher error: %v", err)
		}
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
