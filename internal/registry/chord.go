package registry

import (
	"sort"
	"strings"

	"github.com/eraxe/kayland/internal/kayerr"
)

var modifierRank = map[string]int{
	"ctrl":  0,
	"alt":   1,
	"shift": 2,
	"meta":  3,
}

var modifierSynonyms = map[string]string{
	"control": "ctrl",
	"super":   "meta",
	"win":     "meta",
	"cmd":     "meta",
}

// NormalizeChord canonicalizes a key chord so equivalent user input always
// resolves identically: tokens are lower-cased, modifier synonyms folded,
// modifiers ordered ctrl, alt, shift, meta, and the single non-modifier key
// placed last. "B+Alt" normalizes to "alt+b".
func NormalizeChord(chord string) (string, error) {
	parts := strings.Split(chord, "+")
	seen := map[string]bool{}
	var mods []string
	key := ""
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			return "", &kayerr.ValidationError{Field: "key_chord", Reason: "empty token in " + strings.TrimSpace(chord)}
		}
		if canon, ok := modifierSynonyms[token]; ok {
			token = canon
		}
		if _, ok := modifierRank[token]; ok {
			if !seen[token] {
				seen[token] = true
				mods = append(mods, token)
			}
			continue
		}
		if key != "" {
			return "", &kayerr.ValidationError{Field: "key_chord", Reason: "more than one non-modifier key"}
		}
		key = token
	}
	if key == "" {
		return "", &kayerr.ValidationError{Field: "key_chord", Reason: "missing a non-modifier key"}
	}
	sort.Slice(mods, func(i, j int) bool {
		return modifierRank[mods[i]] < modifierRank[mods[j]]
	})
	return strings.Join(append(mods, key), "+"), nil
}
