package wm

import (
	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
)

// State is a window's lifecycle state.
type State int

const (
	StateTiled State = iota
	StateFloating
	StateFullscreen
	StateMinimized
)

func (s State) String() string {
	switch s {
	case StateTiled:
		return "tiled"
	case StateFloating:
		return "floating"
	case StateFullscreen:
		return "fullscreen"
	case StateMinimized:
		return "minimized"
	}
	return "unknown"
}

// ParseState maps a state name back to its State. It reports whether the
// name was recognized.
func ParseState(name string) (State, bool) {
	switch name {
	case "tiled":
		return StateTiled, true
	case "floating":
		return StateFloating, true
	case "fullscreen":
		return StateFullscreen, true
	case "minimized":
		return StateMinimized, true
	}
	return StateTiled, false
}

// Saved captures state and geometry before entering fullscreen so the
// exact prior arrangement can be restored on exit.
type Saved struct {
	State State
	Rect  geometry.Rect
}

// Window is the registry-owned record for one managed window. The spatial
// tree refers to it only by ID; it never holds a pointer back here.
type Window struct {
	ID        platform.WindowID
	State     State
	Workspace int
	Monitor   int

	// Cached metadata from the last OS query.
	Title string
	Class string
	PID   int

	// FloatingRect is the saved floating geometry; retained across
	// re-tiles so a later float restores the same placement.
	FloatingRect *geometry.Rect

	// PreFullscreen is set while the window is fullscreen.
	PreFullscreen *Saved

	// MinimizedFrom remembers the state a minimize interrupted.
	MinimizedFrom State

	// Opacity as directed by a window rule; 0 means unset.
	Opacity float64
}
