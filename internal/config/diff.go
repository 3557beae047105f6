package config

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// DocDiff describes how a serialized registry document changed across a
// reload.
type DocDiff struct {
	Added   []string
	Removed []string
	Text    string
}

// Empty reports whether the documents are byte-for-byte equivalent.
func (d DocDiff) Empty() bool { return d.Text == "" }

// Summary renders the key changes for a single log line.
func (d DocDiff) Summary() string {
	if len(d.Added) == 0 && len(d.Removed) == 0 {
		if d.Empty() {
			return "unchanged"
		}
		return "entries modified"
	}
	parts := make([]string, 0, len(d.Added)+len(d.Removed))
	for _, k := range d.Added {
		parts = append(parts, "+"+k)
	}
	for _, k := range d.Removed {
		parts = append(parts, "-"+k)
	}
	return strings.Join(parts, " ")
}

// DiffDocument compares two serialized registry documents. Entries live in
// the JSON array under listKey and are identified by idField ("alias" for
// applications, "key_chord" for shortcuts).
func DiffDocument(previous, current []byte, listKey, idField string) DocDiff {
	d := DocDiff{Text: cmp.Diff(splitLines(previous), splitLines(current))}
	prev := documentKeys(previous, listKey, idField)
	curr := documentKeys(current, listKey, idField)
	for key := range curr {
		if !prev[key] {
			d.Added = append(d.Added, key)
		}
	}
	for key := range prev {
		if !curr[key] {
			d.Removed = append(d.Removed, key)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}

func documentKeys(data []byte, listKey, idField string) map[string]bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(doc[listKey], &entries); err != nil {
		return nil
	}
	keys := make(map[string]bool, len(entries))
	for _, entry := range entries {
		var key string
		if err := json.Unmarshal(entry[idField], &key); err == nil && key != "" {
			keys[key] = true
		}
	}
	return keys
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
