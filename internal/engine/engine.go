// Package engine holds the toggle decision core: given one window snapshot
// and one application definition, pick exactly one action. Decide is pure;
// Toggler carries the decision out against the live desktop.
package engine

import (
	"strconv"

	"github.com/eraxe/kayland/internal/match"
	"github.com/eraxe/kayland/internal/windows"
)

// ActionKind names the variants of a toggle decision.
type ActionKind string

const (
	ActionActivate ActionKind = "activate"
	ActionMinimize ActionKind = "minimize"
	ActionLaunch   ActionKind = "launch"
	ActionNoOp     ActionKind = "noop"
)

// Action is the single decision produced for one snapshot. WindowID is set
// for activate and minimize, Command for launch, Reason for noop.
type Action struct {
	Kind     ActionKind `json:"kind"`
	WindowID string     `json:"windowId,omitempty"`
	Command  string     `json:"command,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// Decide picks the one action for a definition's matcher and launch command
// against snap. It is deterministic for fixed inputs and cannot fail.
//
// No matching window launches the command. An active match minimizes,
// preferring a match on the caller's current desktop over snapshot order.
// Otherwise the inactive match with the lowest window id is activated so
// repeated presses never flap between two idle matches.
func Decide(snap *windows.Snapshot, m *match.Matcher, command string) Action {
	var active, inactive []windows.Window
	for _, w := range snap.Windows {
		if !m.Matches(w) {
			continue
		}
		if w.Active {
			active = append(active, w)
		} else {
			inactive = append(inactive, w)
		}
	}

	if len(active) == 0 && len(inactive) == 0 {
		return Action{Kind: ActionLaunch, Command: command}
	}

	if len(active) > 0 {
		pick := active[0]
		for _, w := range active {
			if w.Desktop == snap.CurrentDesktop {
				pick = w
				break
			}
		}
		return Action{Kind: ActionMinimize, WindowID: pick.ID}
	}

	pick := inactive[0]
	for _, w := range inactive[1:] {
		if lessWindowID(w.ID, pick.ID) {
			pick = w
		}
	}
	return Action{Kind: ActionActivate, WindowID: pick.ID}
}

// lessWindowID orders ids numerically when both parse as integers and
// lexically otherwise, so "3" sorts before "5" and opaque ids stay stable.
func lessWindowID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
