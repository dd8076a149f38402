package engine

import (
	"fmt"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
	"github.com/cascadewm/cascade/internal/wm"
)

// WindowInfo is the read-only view of one managed window.
type WindowInfo struct {
	ID        platform.WindowID `json:"id"`
	Title     string            `json:"title"`
	Class     string            `json:"class"`
	PID       int               `json:"pid"`
	State     string            `json:"state"`
	Workspace int               `json:"workspace"`
	Monitor   int               `json:"monitor"`
	Floating  *geometry.Rect    `json:"floating_rect,omitempty"`
	Focused   bool              `json:"focused"`
}

// WorkspaceInfo is the read-only view of one workspace.
type WorkspaceInfo struct {
	ID       int    `json:"id"`
	Monitor  int    `json:"monitor"`
	Strategy string `json:"strategy"`
	Windows  int    `json:"windows"`
	Active   bool   `json:"active"`
}

// MonitorInfo is the read-only view of one monitor.
type MonitorInfo struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	WorkArea        geometry.Rect `json:"work_area"`
	Scale           float64       `json:"scale"`
	Primary         bool          `json:"primary"`
	ActiveWorkspace int           `json:"active_workspace"`
}

// Snapshot is a consistent point-in-time copy of the engine state for
// read-only consumers. It shares no memory with the engine.
type Snapshot struct {
	Focused    platform.WindowID `json:"focused"`
	Current    int               `json:"current_workspace"`
	Windows    []WindowInfo      `json:"windows"`
	Workspaces []WorkspaceInfo   `json:"workspaces"`
	Monitors   []MonitorInfo     `json:"monitors"`
}

// Snapshot returns the full engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{Focused: e.focused, Current: e.current}
	for _, rec := range e.registry.All() {
		snap.Windows = append(snap.Windows, e.windowInfo(rec))
	}
	for _, id := range e.workspaceOrder() {
		ws := e.workspaces[id]
		snap.Workspaces = append(snap.Workspaces, WorkspaceInfo{
			ID:       ws.ID,
			Monitor:  ws.Monitor,
			Strategy: ws.Strategy.Name(),
			Windows:  len(e.registry.ByWorkspace(ws.ID)),
			Active:   e.isActive(ws),
		})
	}
	for _, id := range e.monitorOrder() {
		mon := e.monitors[id]
		snap.Monitors = append(snap.Monitors, MonitorInfo{
			ID:              mon.ID,
			Name:            mon.Name,
			WorkArea:        mon.WorkArea,
			Scale:           mon.Scale,
			Primary:         mon.Primary,
			ActiveWorkspace: e.active[mon.ID],
		})
	}
	return snap
}

// WindowsByWorkspace returns the managed windows of one workspace.
func (e *Engine) WindowsByWorkspace(workspaceID int) ([]WindowInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.workspaces[workspaceID]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	var out []WindowInfo
	for _, rec := range e.registry.ByWorkspace(workspaceID) {
		out = append(out, e.windowInfo(rec))
	}
	return out, nil
}

// WindowsByMonitor returns the managed windows on one monitor.
func (e *Engine) WindowsByMonitor(monitorID int) ([]WindowInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.monitors[monitorID]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrMonitorNotFound, monitorID)
	}
	var out []WindowInfo
	for _, rec := range e.registry.All() {
		if rec.Monitor == monitorID {
			out = append(out, e.windowInfo(rec))
		}
	}
	return out, nil
}

// WindowsByState returns the managed windows in a named state.
func (e *Engine) WindowsByState(state string) ([]WindowInfo, error) {
	s, ok := wm.ParseState(state)
	if !ok {
		return nil, fmt.Errorf("unknown state: %q", state)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []WindowInfo
	for _, rec := range e.registry.ByState(s) {
		out = append(out, e.windowInfo(rec))
	}
	return out, nil
}

// FocusedWindow returns the focused window, if any.
func (e *Engine) FocusedWindow() (WindowInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.registry.Get(e.focused)
	if rec == nil {
		return WindowInfo{}, false
	}
	return e.windowInfo(rec), true
}

// Placements returns the computed tiled placements of one workspace, for
// diagnostic consumers.
func (e *Engine) Placements(workspaceID int) ([]tree.Placement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ws, ok := e.workspaces[workspaceID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	return tree.Apply(ws.Root, e.workArea(ws), e.gaps), nil
}

func (e *Engine) windowInfo(rec *wm.Window) WindowInfo {
	info := WindowInfo{
		ID:        rec.ID,
		Title:     rec.Title,
		Class:     rec.Class,
		PID:       rec.PID,
		State:     rec.State.String(),
		Workspace: rec.Workspace,
		Monitor:   rec.Monitor,
		Focused:   rec.ID == e.focused,
	}
	if rec.FloatingRect != nil {
		r := *rec.FloatingRect
		info.Floating = &r
	}
	return info
}
