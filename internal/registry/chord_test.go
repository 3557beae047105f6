package registry

import (
	"testing"

	"github.com/eraxe/kayland/internal/kayerr"
)

func TestNormalizeChord(t *testing.T) {
	tests := map[string]string{
		"B+Alt":        "alt+b",
		"alt+b":        "alt+b",
		"Ctrl+Shift+P": "ctrl+shift+p",
		"shift+ctrl+p": "ctrl+shift+p",
		"Meta+Alt+F1":  "alt+meta+f1",
		"Super+Space":  "meta+space",
		"Control+X":    "ctrl+x",
		"Win+E":        "meta+e",
		"ctrl+ctrl+c":  "ctrl+c",
		"f12":          "f12",
		" alt + b ":    "alt+b",
	}

	for input, want := range tests {
		got, err := NormalizeChord(input)
		if err != nil {
			t.Fatalf("NormalizeChord(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeChord(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeChordRejectsInvalidInput(t *testing.T) {
	for _, input := range []string{"", "ctrl+alt", "a+b", "ctrl++", "+", "alt+"} {
		if _, err := NormalizeChord(input); !kayerr.IsValidation(err) {
			t.Fatalf("NormalizeChord(%q) error = %v, want ValidationError", input, err)
		}
	}
}

func TestEquivalentInputsNormalizeIdentically(t *testing.T) {
	a, err := NormalizeChord("Ctrl+Shift+P")
	if err != nil {
		t.Fatalf("NormalizeChord: %v", err)
	}
	b, err := NormalizeChord("shift+control+p")
	if err != nil {
		t.Fatalf("NormalizeChord: %v", err)
	}
	if a != b {
		t.Fatalf("equivalent chords normalized differently: %q vs %q", a, b)
	}
}
