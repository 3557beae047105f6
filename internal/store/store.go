// Package store persists the registry documents. Each document is one JSON
// file holding a single record list ("apps" or "shortcuts"); mutations run
// under an exclusive file lock against the freshest on-disk state so that
// concurrent processes editing different records never lose each other's
// writes.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/eraxe/kayland/internal/kayerr"
)

// Store is the document persistence the registries write through. Records
// stay raw so fields this version does not know about survive round-trips.
type Store interface {
	// Load returns the document's records in file order. A missing or
	// empty document yields no records and no error.
	Load() ([]json.RawMessage, error)
	// Update runs fn on the freshest stored records and persists fn's
	// result, returning it. fn's error aborts the write and is returned
	// unchanged.
	Update(fn func(recs []json.RawMessage) ([]json.RawMessage, error)) ([]json.RawMessage, error)
	// Path identifies the document for error reporting.
	Path() string
}

// File stores one document on disk. The write path takes a blocking
// exclusive flock on a sibling .lock file for the whole read-modify-write,
// then replaces the document atomically (temp file, fsync, rename, dir
// fsync).
type File struct {
	path    string
	listKey string
}

// NewFile creates a file store for the document at path whose record list
// lives under listKey.
func NewFile(path, listKey string) *File {
	return &File{path: path, listKey: listKey}
}

func (f *File) Path() string { return f.path }

// Load implements Store. A document that exists but cannot be parsed is a
// CorruptConfigError carrying the path.
func (f *File) Load() ([]json.RawMessage, error) {
	recs, _, err := f.read()
	return recs, err
}

// Update implements Store.
func (f *File) Update(fn func(recs []json.RawMessage) ([]json.RawMessage, error)) ([]json.RawMessage, error) {
	unlock, err := f.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	recs, doc, err := f.read()
	if err != nil {
		return nil, err
	}
	out, err := fn(recs)
	if err != nil {
		return nil, err
	}
	if err := f.write(doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

// read parses the document, returning the record list plus the remaining
// top-level fields so they can be written back untouched.
func (f *File) read() ([]json.RawMessage, map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, map[string]json.RawMessage{}, nil
		}
		return nil, nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, map[string]json.RawMessage{}, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &kayerr.CorruptConfigError{Path: f.path, Err: err}
	}
	var recs []json.RawMessage
	if raw, ok := doc[f.listKey]; ok {
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil, nil, &kayerr.CorruptConfigError{Path: f.path, Err: err}
		}
	}
	delete(doc, f.listKey)
	return recs, doc, nil
}

func (f *File) write(doc map[string]json.RawMessage, recs []json.RawMessage) error {
	if recs == nil {
		recs = []json.RawMessage{}
	}
	list, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", f.listKey, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	doc[f.listKey] = list
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// lock takes the document's exclusive flock, creating parent directories as
// needed. The returned func releases it on every exit path.
func (f *File) lock() (func(), error) {
	lockPath := f.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
		lf.Close()
		return nil, fmt.Errorf("lock %s: %w", lockPath, err)
	}
	return func() {
		syscall.Flock(int(lf.Fd()), syscall.LOCK_UN)
		lf.Close()
	}, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
