// Package match compiles application window patterns into reusable
// matchers. Compilation decides once per pattern whether it is a regular
// expression or a plain substring; matching itself is pure.
package match

import (
	"regexp"
	"strings"

	"github.com/eraxe/kayland/internal/windows"
)

// Patterns holds the three optional window patterns of an application
// definition. Empty fields are skipped during matching.
type Patterns struct {
	Class    string
	Resource string
	Title    string
}

type fieldMatcher struct {
	field func(w windows.Window) string
	match func(value string) bool
}

// Matcher is the compiled form of one definition's patterns. Build it once
// per definition; Matches is safe for concurrent use.
type Matcher struct {
	fields []fieldMatcher
}

// New compiles the present pattern fields. Each pattern is first compiled
// as a case-sensitive regular expression with search semantics; a pattern
// that fails to compile degrades to substring containment.
func New(p Patterns) *Matcher {
	m := &Matcher{}
	add := func(pattern string, field func(windows.Window) string) {
		if pattern == "" {
			return
		}
		m.fields = append(m.fields, fieldMatcher{field: field, match: compilePattern(pattern)})
	}
	add(p.Class, func(w windows.Window) string { return w.Class })
	add(p.Resource, func(w windows.Window) string { return w.Resource })
	add(p.Title, func(w windows.Window) string { return w.Title })
	return m
}

func compilePattern(pattern string) func(string) bool {
	if re, err := regexp.Compile(pattern); err == nil {
		return re.MatchString
	}
	return func(value string) bool { return strings.Contains(value, pattern) }
}

// Empty reports whether no pattern field is present. The registry rejects
// such definitions; an empty matcher matches no window.
func (m *Matcher) Empty() bool {
	return len(m.fields) == 0
}

// Matches reports whether at least one present pattern field matches the
// corresponding field of w.
func (m *Matcher) Matches(w windows.Window) bool {
	for _, f := range m.fields {
		if f.match(f.field(w)) {
			return true
		}
	}
	return false
}
