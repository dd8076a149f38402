package engine

import (
	"fmt"

	"github.com/cascadewm/cascade/internal/wm"
)

// SwitchWorkspace makes a workspace the active one on its monitor: the
// previously active workspace's windows are hidden, the target's shown
// and retiled. Other monitors are untouched.
func (e *Engine) SwitchWorkspace(workspaceID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, ok := e.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	previous := e.active[target.Monitor]
	if previous == workspaceID {
		e.current = workspaceID
		return nil
	}

	for _, rec := range e.registry.ByWorkspace(previous) {
		if rec.State == wm.StateMinimized {
			continue
		}
		if err := e.backend.Hide(rec.ID); err != nil {
			e.log.Warn("hide failed", "window", rec.ID, "error", err)
		}
	}

	e.active[target.Monitor] = workspaceID
	e.current = workspaceID

	for _, rec := range e.registry.ByWorkspace(workspaceID) {
		if rec.State == wm.StateMinimized {
			continue
		}
		if err := e.backend.Show(rec.ID); err != nil {
			e.log.Warn("show failed", "window", rec.ID, "error", err)
		}
		e.placeWindow(rec, target)
	}
	e.retile(workspaceID)

	e.log.Info("workspace switched", "workspace", workspaceID, "monitor", target.Monitor, "previous", previous)
	return nil
}

// RefreshMonitors re-queries the display layout and reconciles workspaces
// against it. Also invoked from the MonitorsChanged event.
func (e *Engine) RefreshMonitors() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshMonitors()
}

// refreshMonitors replaces the monitor table wholesale. Workspaces on a
// vanished monitor move to the primary; workspaces whose monitor's scale
// changed beyond the no-op threshold have their saved rectangles rescaled.
// Every affected active workspace is retiled.
func (e *Engine) refreshMonitors() {
	displays, err := e.backend.Displays()
	if err != nil {
		e.log.Error("display query failed", "error", err)
		return
	}

	old := e.monitors
	e.setMonitors(displays)

	dirty := make(map[int]bool)
	for _, ws := range e.workspaces {
		mon, exists := e.monitors[ws.Monitor]
		if !exists {
			e.log.Info("monitor vanished, reassigning workspace", "workspace", ws.ID, "monitor", ws.Monitor, "to", e.primary)
			delete(e.active, ws.Monitor)
			ws.Monitor = e.primary
			for _, rec := range e.registry.ByWorkspace(ws.ID) {
				rec.Monitor = e.primary
			}
			dirty[ws.ID] = true
			continue
		}
		prev, had := old[ws.Monitor]
		if had && scalesDiffer(prev.Scale, mon.Scale) {
			e.rescaleWorkspace(ws, mon.Scale/prev.Scale)
			dirty[ws.ID] = true
		} else if !had || prev.WorkArea != mon.WorkArea {
			dirty[ws.ID] = true
		}
	}

	// Every monitor needs an active workspace; reassignment above may have
	// pointed several at the primary, so fill gaps from the pool. A monitor
	// with no workspaces at all (hot-plugged after startup) takes a spare
	// from the primary.
	for id := range e.monitors {
		if ws, ok := e.workspaces[e.active[id]]; ok && ws.Monitor == id {
			continue
		}
		delete(e.active, id)
		for _, wsID := range e.workspaceOrder() {
			if e.workspaces[wsID].Monitor == id {
				e.active[id] = wsID
				break
			}
		}
		if _, ok := e.active[id]; ok || id == e.primary {
			continue
		}
		if wsID := e.spareWorkspace(); wsID != 0 {
			e.moveWorkspaceToMonitor(e.workspaces[wsID], id)
			e.active[id] = wsID
			dirty[wsID] = true
		}
	}
	if _, ok := e.workspaces[e.current]; !ok {
		e.current = e.active[e.primary]
	}

	for wsID := range dirty {
		if e.isActive(e.workspaces[wsID]) {
			e.retile(wsID)
		}
	}
	e.log.Info("monitors refreshed", "monitors", len(e.monitors), "retiled", len(dirty))
}

// spareWorkspace picks a non-active workspace on the primary monitor to
// donate to a monitor that has none, preferring an empty one. Returns 0
// when the primary has nothing to spare.
func (e *Engine) spareWorkspace() int {
	fallback := 0
	for _, wsID := range e.workspaceOrder() {
		ws := e.workspaces[wsID]
		if ws.Monitor != e.primary || wsID == e.active[e.primary] {
			continue
		}
		if len(e.registry.ByWorkspace(wsID)) == 0 {
			return wsID
		}
		if fallback == 0 {
			fallback = wsID
		}
	}
	return fallback
}

// moveWorkspaceToMonitor reassigns a workspace and its window records to a
// monitor and shows its non-minimized windows, since the caller is about to
// make it the monitor's active workspace.
func (e *Engine) moveWorkspaceToMonitor(ws *wm.Workspace, monitorID int) {
	ws.Monitor = monitorID
	for _, rec := range e.registry.ByWorkspace(ws.ID) {
		rec.Monitor = monitorID
		if rec.State == wm.StateMinimized {
			continue
		}
		if err := e.backend.Show(rec.ID); err != nil {
			e.log.Warn("show failed", "window", rec.ID, "error", err)
		}
		e.placeWindow(rec, ws)
	}
	e.log.Info("workspace moved to monitor", "workspace", ws.ID, "monitor", monitorID)
}

// rescaleWorkspace scales the saved rectangles of a workspace's windows by
// the DPI change factor. Tiled placements need no rescale since they are
// recomputed from the new work area.
func (e *Engine) rescaleWorkspace(ws *wm.Workspace, factor float64) {
	for _, rec := range e.registry.ByWorkspace(ws.ID) {
		if rec.FloatingRect != nil {
			scaled := rec.FloatingRect.Scale(factor)
			rec.FloatingRect = &scaled
		}
		if rec.PreFullscreen != nil {
			rec.PreFullscreen.Rect = rec.PreFullscreen.Rect.Scale(factor)
		}
		if rec.State == wm.StateFloating && rec.FloatingRect != nil && e.isActive(ws) {
			if err := e.backend.SetRect(rec.ID, toPlatformRect(*rec.FloatingRect)); err != nil {
				e.log.Warn("rescaled placement failed", "window", rec.ID, "error", err)
			}
		}
	}
}

// workspaceOrder returns workspace ids ascending.
func (e *Engine) workspaceOrder() []int {
	out := make([]int, 0, len(e.workspaces))
	for id := range e.workspaces {
		out = append(out, id)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
