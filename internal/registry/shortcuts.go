package registry

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/eraxe/kayland/internal/kayerr"
	"github.com/eraxe/kayland/internal/store"
)

// Shortcuts is the key-chord registry. It stores normalized chords only and
// never checks that a bound alias still names a live definition; that miss
// surfaces when the caller dispatches the resolved alias.
type Shortcuts struct {
	mu    sync.Mutex
	store store.Store
	items []Binding
}

// LoadShortcuts hydrates the registry from its document store.
func LoadShortcuts(st store.Store) (*Shortcuts, error) {
	recs, err := st.Load()
	if err != nil {
		return nil, err
	}
	items, err := decodeBindings(st, recs)
	if err != nil {
		return nil, err
	}
	return &Shortcuts{store: st, items: items}, nil
}

func decodeBindings(st store.Store, recs []json.RawMessage) ([]Binding, error) {
	items := make([]Binding, 0, len(recs))
	for _, rec := range recs {
		var b Binding
		if err := json.Unmarshal(rec, &b); err != nil {
			return nil, &kayerr.CorruptConfigError{Path: st.Path(), Err: err}
		}
		items = append(items, b)
	}
	return items, nil
}

// Add binds chord to alias. The chord is normalized before storage; a chord
// already bound fails even when it is bound to the same alias. One alias
// may hold any number of chords.
func (r *Shortcuts) Add(chord, alias string) error {
	normalized, err := NormalizeChord(chord)
	if err != nil {
		return err
	}
	if strings.TrimSpace(alias) == "" {
		return &kayerr.ValidationError{Field: "alias", Reason: "must not be empty"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	binding := Binding{Chord: normalized, Alias: alias}
	recs, err := r.store.Update(func(recs []json.RawMessage) ([]json.RawMessage, error) {
		fresh, err := decodeBindings(r.store, recs)
		if err != nil {
			return nil, err
		}
		for _, existing := range fresh {
			if existing.Chord == normalized {
				return nil, &kayerr.DuplicateKeyChordError{Chord: normalized}
			}
		}
		rec, err := json.Marshal(binding)
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

// Remove unbinds chord.
func (r *Shortcuts) Remove(chord string) error {
	normalized, err := NormalizeChord(chord)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.store.Update(func(recs []json.RawMessage) ([]json.RawMessage, error) {
		fresh, err := decodeBindings(r.store, recs)
		if err != nil {
			return nil, err
		}
		idx := -1
		for i := range fresh {
			if fresh[i].Chord == normalized {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &kayerr.NotFoundError{Kind: "shortcut", Key: normalized}
		}
		return append(recs[:idx], recs[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	return r.resetLocked(recs)
}

// Resolve returns the alias bound to chord.
func (r *Shortcuts) Resolve(chord string) (string, error) {
	normalized, err := NormalizeChord(chord)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.Chord == normalized {
			return b.Alias, nil
		}
	}
	return "", &kayerr.NotFoundError{Kind: "shortcut", Key: normalized}
}

// List returns the bindings in insertion order.
func (r *Shortcuts) List() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Binding(nil), r.items...)
}

// Reload replaces the in-memory view with the document's current state.
func (r *Shortcuts) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.store.Load()
	if err != nil {
		return err
	}
	return r.resetLocked(recs)
}

func (r *Shortcuts) resetLocked(recs []json.RawMessage) error {
	items, err := decodeBindings(r.store, recs)
	if err != nil {
		return err
	}
	r.items = items
	return nil
}
