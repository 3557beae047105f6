// Package registry owns the application catalog and the shortcut bindings.
// Both registries keep an in-memory view in insertion order and write every
// mutation through their document store before returning, re-checking
// uniqueness under the store's cross-process lock.
package registry

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/eraxe/kayland/internal/kayerr"
	"github.com/eraxe/kayland/internal/store"
)

// Apps is the application registry.
type Apps struct {
	mu    sync.Mutex
	store store.Store
	items []App
}

// LoadApps hydrates the registry from its document store. A missing
// document yields an empty registry; an unreadable one is a
// CorruptConfigError.
func LoadApps(st store.Store) (*Apps, error) {
	recs, err := st.Load()
	if err != nil {
		return nil, err
	}
	items, err := decodeApps(st, recs)
	if err != nil {
		return nil, err
	}
	return &Apps{store: st, items: items}, nil
}

func decodeApps(st store.Store, recs []json.RawMessage) ([]App, error) {
	items := make([]App, 0, len(recs))
	for _, rec := range recs {
		var app App
		if err := json.Unmarshal(rec, &app); err != nil {
			return nil, &kayerr.CorruptConfigError{Path: st.Path(), Err: err}
		}
		items = append(items, app)
	}
	return items, nil
}

// Add validates app, assigns an id when absent, and appends it. The
// duplicate check runs again under the document lock so two processes
// adding the same alias cannot both win.
func (r *Apps) Add(app App) error {
	if err := validateApp(app); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	recs, err := r.store.Update(func(recs []json.RawMessage) ([]json.RawMessage, error) {
		fresh, err := decodeApps(r.store, recs)
		if err != nil {
			return nil, err
		}
		for _, existing := range fresh {
			if existing.Alias == app.Alias {
				return nil, &kayerr.DuplicateAliasError{Alias: app.Alias}
			}
		}
		rec, err := json.Marshal(app)
		if err != nil {
			return nil, err
		}
		return append(recs, rec), nil
	})
	if err != nil {
		return err
	}
	return r.resetLocked(recs)
}

// Update replaces the definition stored under alias. The alias itself may
// change as long as the new one is free. The stored id and any unknown
// fields carry over unless the caller supplies replacements.
func (r *Apps) Update(alias string, app App) error {
	if err := validateApp(app); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.store.Update(func(recs []json.RawMessage) ([]json.RawMessage, error) {
		fresh, err := decodeApps(r.store, recs)
		if err != nil {
			return nil, err
		}
		idx := indexOfAlias(fresh, alias)
		if idx < 0 {
			return nil, &kayerr.NotFoundError{Kind: "application", Key: alias}
		}
		if app.Alias != alias && indexOfAlias(fresh, app.Alias) >= 0 {
			return nil, &kayerr.DuplicateAliasError{Alias: app.Alias}
		}
		if app.ID == "" {
			app.ID = fresh[idx].ID
		}
		if app.extra == nil {
			app.extra = fresh[idx].extra
		}
		rec, err := json.Marshal(app)
		if err != nil {
			return nil, err
		}
		recs[idx] = rec
		return recs, nil
	})
	if err != nil {
		return err
	}
	return r.resetLocked(recs)
}

// Remove deletes the definition stored under alias.
func (r *Apps) Remove(alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.store.Update(func(recs []json.RawMessage) ([]json.RawMessage, error) {
		fresh, err := decodeApps(r.store, recs)
		if err != nil {
			return nil, err
		}
		idx := indexOfAlias(fresh, alias)
		if idx < 0 {
			return nil, &kayerr.NotFoundError{Kind: "application", Key: alias}
		}
		return append(recs[:idx], recs[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	return r.resetLocked(recs)
}

// Copy duplicates the definition under srcAlias as a new definition with
// its own alias and id. newName, when non-empty, replaces the display name.
func (r *Apps) Copy(srcAlias, newAlias, newName string) (App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var created App
	recs, err := r.store.Update(func(recs []json.RawMessage) ([]json.RawMessage, error) {
		fresh, err := decodeApps(r.store, recs)
		if err != nil {
			return nil, err
		}
		idx := indexOfAlias(fresh, srcAlias)
		if idx < 0 {
			return nil, &kayerr.NotFoundError{Kind: "application", Key: srcAlias}
		}
		if indexOfAlias(fresh, newAlias) >= 0 {
			return nil, &kayerr.DuplicateAliasError{Alias: newAlias}
		}
		created = fresh[idx]
		created.ID = uuid.NewString()
		created.Alias = newAlias
		if newName != "" {
			created.Name = newName
		}
		if err := validateApp(created); err != nil {
			return nil, err
		}
		rec, err := json.Marshal(created)
		if err != nil {
			return nil, err
		}
		return append(recs, rec), nil
	})
	if err != nil {
		return App{}, err
	}
	if err := r.resetLocked(recs); err != nil {
		return App{}, err
	}
	return created, nil
}

// Get returns the definition stored under alias.
func (r *Apps) Get(alias string) (App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := indexOfAlias(r.items, alias); idx >= 0 {
		return r.items[idx], nil
	}
	return App{}, &kayerr.NotFoundError{Kind: "application", Key: alias}
}

// List returns the definitions in insertion order. The returned slice is a
// copy; iterating it never observes a mutation in progress.
func (r *Apps) List() []App {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]App(nil), r.items...)
}

// Reload replaces the in-memory view with the document's current state.
func (r *Apps) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.store.Load()
	if err != nil {
		return err
	}
	return r.resetLocked(recs)
}

func (r *Apps) resetLocked(recs []json.RawMessage) error {
	items, err := decodeApps(r.store, recs)
	if err != nil {
		return err
	}
	r.items = items
	return nil
}

func indexOfAlias(items []App, alias string) int {
	for i := range items {
		if items[i].Alias == alias {
			return i
		}
	}
	return -1
}

func validateApp(app App) error {
	if strings.TrimSpace(app.Alias) == "" {
		return &kayerr.ValidationError{Field: "alias", Reason: "must not be empty"}
	}
	if strings.TrimSpace(app.Command) == "" {
		return &kayerr.ValidationError{Field: "command", Reason: "must not be empty"}
	}
	if app.ClassPattern == "" && app.ResourcePattern == "" && app.TitlePattern == "" {
		return &kayerr.ValidationError{Field: "patterns", Reason: "at least one of class, resource, or title pattern is required"}
	}
	return nil
}
