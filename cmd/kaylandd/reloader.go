package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/eraxe/kayland/internal/config"
	"github.com/eraxe/kayland/internal/metrics"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/util"
)

// registryReloader re-reads both registry documents and reports what
// changed. A document that fails to load is rejected and the in-memory
// registry keeps serving its previous state.
type registryReloader struct {
	settings  *config.Settings
	logger    *util.Logger
	apps      *registry.Apps
	shortcuts *registry.Shortcuts
	collector *metrics.Collector

	mu            sync.Mutex
	lastApps      []byte
	lastShortcuts []byte
	lastReload    time.Time
}

func newRegistryReloader(settings *config.Settings, logger *util.Logger, apps *registry.Apps, shortcuts *registry.Shortcuts, collector *metrics.Collector) *registryReloader {
	r := &registryReloader{
		settings:  settings,
		logger:    logger,
		apps:      apps,
		shortcuts: shortcuts,
		collector: collector,
	}
	r.lastApps, _ = os.ReadFile(settings.AppsPath())
	r.lastShortcuts, _ = os.ReadFile(settings.ShortcutsPath())
	return r
}

func (r *registryReloader) Reload(reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Infof("%s, reloading registries", reason)

	rawApps, _ := os.ReadFile(r.settings.AppsPath())
	rawShortcuts, _ := os.ReadFile(r.settings.ShortcutsPath())

	if err := r.apps.Reload(); err != nil {
		r.logRejected("applications", r.lastApps, rawApps, "apps", "alias")
		return fmt.Errorf("reload applications: %w", err)
	}
	if err := r.shortcuts.Reload(); err != nil {
		r.logRejected("shortcuts", r.lastShortcuts, rawShortcuts, "shortcuts", "key_chord")
		return fmt.Errorf("reload shortcuts: %w", err)
	}

	appsDiff := config.DiffDocument(r.lastApps, rawApps, "apps", "alias")
	shortcutsDiff := config.DiffDocument(r.lastShortcuts, rawShortcuts, "shortcuts", "key_chord")
	r.logger.Infof("registries reloaded: apps %s, shortcuts %s", appsDiff.Summary(), shortcutsDiff.Summary())

	r.lastApps = rawApps
	r.lastShortcuts = rawShortcuts
	r.lastReload = time.Now()
	if r.collector != nil {
		r.collector.Inc("store.reload")
	}
	return nil
}

// LastReload reports when the registries last reloaded successfully.
func (r *registryReloader) LastReload() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReload
}

func (r *registryReloader) logRejected(kind string, last, current []byte, listKey, idField string) {
	diff := config.DiffDocument(last, current, listKey, idField)
	if diff.Empty() {
		r.logger.Warnf("%s change rejected; unable to compute diff vs last valid document", kind)
		return
	}
	r.logger.Warnf("%s change rejected; diff vs last valid document:\n%s", kind, diff.Text)
}
