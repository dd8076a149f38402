package wm

import (
	"sort"

	"github.com/cascadewm/cascade/internal/platform"
)

// Registry is the authoritative index of managed windows. Records are
// created on manage, removed on unmanage and mutated in place otherwise.
// It is owned exclusively by the reconciliation engine and carries no
// locking of its own.
type Registry struct {
	windows map[platform.WindowID]*Window
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{windows: make(map[platform.WindowID]*Window)}
}

// Add registers a record. Re-adding an existing id is a no-op, keeping
// manage idempotent.
func (r *Registry) Add(w *Window) {
	if _, ok := r.windows[w.ID]; ok {
		return
	}
	r.windows[w.ID] = w
}

// Remove deletes the record for id and returns it, or nil if unknown.
func (r *Registry) Remove(id platform.WindowID) *Window {
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	delete(r.windows, id)
	return w
}

// Get returns the record for id, or nil if unknown.
func (r *Registry) Get(id platform.WindowID) *Window {
	return r.windows[id]
}

// Contains reports whether id is managed.
func (r *Registry) Contains(id platform.WindowID) bool {
	_, ok := r.windows[id]
	return ok
}

// Count returns the number of managed windows.
func (r *Registry) Count() int {
	return len(r.windows)
}

// All returns every record ordered by id.
func (r *Registry) All() []*Window {
	out := make([]*Window, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w)
	}
	sortByID(out)
	return out
}

// ByWorkspace returns the records assigned to a workspace, ordered by id.
func (r *Registry) ByWorkspace(workspace int) []*Window {
	var out []*Window
	for _, w := range r.windows {
		if w.Workspace == workspace {
			out = append(out, w)
		}
	}
	sortByID(out)
	return out
}

// ByState returns the records in a given state, ordered by id.
func (r *Registry) ByState(state State) []*Window {
	var out []*Window
	for _, w := range r.windows {
		if w.State == state {
			out = append(out, w)
		}
	}
	sortByID(out)
	return out
}

// TiledInWorkspace returns the tiled records of a workspace, ordered by id.
// Minimized windows that were tiled still occupy the tree but are not
// returned here; placement exclusion is the caller's concern.
func (r *Registry) TiledInWorkspace(workspace int) []*Window {
	var out []*Window
	for _, w := range r.windows {
		if w.Workspace == workspace && w.State == StateTiled {
			out = append(out, w)
		}
	}
	sortByID(out)
	return out
}

func sortByID(ws []*Window) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].ID < ws[j].ID })
}
