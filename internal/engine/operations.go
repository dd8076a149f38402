package engine

import (
	"fmt"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
	"github.com/cascadewm/cascade/internal/wm"
)

// Manage brings a window under management. Calling it for an already
// managed id is a no-op.
func (e *Engine) Manage(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.manage(id)
}

func (e *Engine) manage(id platform.WindowID) error {
	if e.registry.Contains(id) {
		return nil
	}

	win, err := e.backend.QueryWindow(id)
	if err != nil {
		return fmt.Errorf("query window %d: %w", id, err)
	}

	directives := e.matcher.Match(win)
	if directives.Skip {
		e.log.Debug("rule skips management", "window", id, "class", win.Class)
		return nil
	}

	ws := e.workspaces[e.current]
	if directives.Monitor != nil {
		if wsID, ok := e.active[*directives.Monitor]; ok {
			ws = e.workspaces[wsID]
		} else {
			e.log.Warn("rule names unknown monitor", "window", id, "monitor", *directives.Monitor)
		}
	}
	if directives.Workspace != nil {
		if target, ok := e.workspaces[*directives.Workspace]; ok {
			ws = target
		} else {
			e.log.Warn("rule names unknown workspace", "window", id, "workspace", *directives.Workspace)
		}
	}

	rec := &wm.Window{
		ID:        id,
		State:     wm.StateTiled,
		Workspace: ws.ID,
		Monitor:   ws.Monitor,
		Title:     win.Title,
		Class:     win.Class,
		PID:       win.PID,
	}

	switch {
	case directives.Fullscreen:
		pre := wm.StateTiled
		if directives.Floating {
			pre = wm.StateFloating
		}
		rect := fromPlatformRect(win.Bounds)
		rec.PreFullscreen = &wm.Saved{State: pre, Rect: rect}
		if pre == wm.StateFloating {
			rec.FloatingRect = &rect
		}
		rec.State = wm.StateFullscreen
	case directives.Floating:
		rect := fromPlatformRect(win.Bounds)
		rec.FloatingRect = &rect
		rec.State = wm.StateFloating
	default:
		ws.Root = ws.Strategy.Insert(ws.Root, id, e.workArea(ws))
	}

	e.registry.Add(rec)

	if directives.Opacity != nil {
		rec.Opacity = *directives.Opacity
		if err := e.backend.SetOpacity(id, rec.Opacity); err != nil {
			e.log.Warn("set opacity failed", "window", id, "error", err)
		}
	}

	if e.isActive(ws) {
		e.placeWindow(rec, ws)
		e.retile(ws.ID)
		if !directives.NoFocus {
			if err := e.backend.Focus(id); err != nil {
				e.log.Warn("focus failed", "window", id, "error", err)
			} else {
				e.focused = id
			}
		}
	} else {
		if err := e.backend.Hide(id); err != nil {
			e.log.Warn("hide failed", "window", id, "error", err)
		}
	}

	e.log.Info("managed window", "window", id, "class", win.Class, "workspace", ws.ID, "state", rec.State.String())
	return nil
}

// Unmanage removes a window from management. Unknown ids are a no-op.
func (e *Engine) Unmanage(id platform.WindowID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unmanage(id)
}

func (e *Engine) unmanage(id platform.WindowID) {
	rec := e.registry.Remove(id)
	if rec == nil {
		return
	}
	ws := e.workspaces[rec.Workspace]
	if ws != nil && tree.Contains(ws.Root, id) {
		ws.Root = ws.Strategy.Remove(ws.Root, id)
		if e.isActive(ws) {
			e.retile(ws.ID)
		}
	}
	if e.focused == id {
		e.focused = 0
	}
	e.log.Info("unmanaged window", "window", id, "workspace", rec.Workspace)
}

// Retile recomputes and reapplies placements for one workspace.
func (e *Engine) Retile(workspaceID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.workspaces[workspaceID]; !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	e.retile(workspaceID)
	return nil
}

// retile applies the tree's placements for a workspace. Windows that are
// floating, fullscreen or minimized are excluded from tiling: a minimized
// tiled window's leaf stays in the tree (its space stays reserved) but no
// placement call is made for it. A placement failure is logged and does
// not abort the rest of the batch.
func (e *Engine) retile(workspaceID int) {
	ws := e.workspaces[workspaceID]
	if ws == nil {
		return
	}
	area := e.workArea(ws)
	if area.IsEmpty() {
		return
	}

	for _, p := range tree.Apply(ws.Root, area, e.gaps) {
		rec := e.registry.Get(p.Window)
		if rec == nil || rec.State != wm.StateTiled {
			continue
		}
		if err := e.backend.SetRect(p.Window, toPlatformRect(p.Rect)); err != nil {
			e.log.Error("placement failed", "window", p.Window, "rect", p.Rect, "error", err)
		}
	}

	// Fullscreen windows cover the whole work area, gaps suppressed.
	for _, rec := range e.registry.ByWorkspace(workspaceID) {
		if rec.State != wm.StateFullscreen {
			continue
		}
		if err := e.backend.SetRect(rec.ID, toPlatformRect(area)); err != nil {
			e.log.Error("fullscreen placement failed", "window", rec.ID, "error", err)
		}
	}
}

// placeWindow applies the non-tiled placement of a single record:
// floating windows get their saved rectangle, fullscreen windows the full
// work area. Tiled windows are covered by retile.
func (e *Engine) placeWindow(rec *wm.Window, ws *wm.Workspace) {
	switch rec.State {
	case wm.StateFloating:
		if rec.FloatingRect != nil {
			if err := e.backend.SetRect(rec.ID, toPlatformRect(*rec.FloatingRect)); err != nil {
				e.log.Warn("floating placement failed", "window", rec.ID, "error", err)
			}
		}
	case wm.StateFullscreen:
		if err := e.backend.SetRect(rec.ID, toPlatformRect(e.workArea(ws))); err != nil {
			e.log.Warn("fullscreen placement failed", "window", rec.ID, "error", err)
		}
	}
}

// ToggleFloating flips a window between tiled and floating.
func (e *Engine) ToggleFloating(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	switch rec.State {
	case wm.StateTiled:
		return e.setFloating(rec)
	case wm.StateFloating:
		return e.setTiled(rec)
	default:
		return fmt.Errorf("%w: window %d is %s", ErrWrongState, id, rec.State)
	}
}

// SetFloating makes a tiled window float at its saved rectangle, capturing
// the current on-screen rectangle when no save exists yet.
func (e *Engine) SetFloating(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if rec.State == wm.StateFloating {
		return nil
	}
	if rec.State != wm.StateTiled {
		return fmt.Errorf("%w: window %d is %s", ErrWrongState, id, rec.State)
	}
	return e.setFloating(rec)
}

func (e *Engine) setFloating(rec *wm.Window) error {
	ws := e.workspaces[rec.Workspace]
	ws.Root = ws.Strategy.Remove(ws.Root, rec.ID)

	if rec.FloatingRect == nil {
		if win, err := e.backend.QueryWindow(rec.ID); err == nil {
			rect := fromPlatformRect(win.Bounds)
			rec.FloatingRect = &rect
		} else {
			e.log.Warn("query for floating save failed", "window", rec.ID, "error", err)
			area := e.workArea(ws)
			rect := area.Shrink(area.Width/4, area.Height/4, area.Width/4, area.Height/4)
			rec.FloatingRect = &rect
		}
	}
	rec.State = wm.StateFloating

	if e.isActive(ws) {
		e.placeWindow(rec, ws)
		e.retile(ws.ID)
	}
	return nil
}

// SetTiled re-inserts a floating window into the workspace tree. The saved
// floating rectangle is retained so a later float restores it.
func (e *Engine) SetTiled(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if rec.State == wm.StateTiled {
		return nil
	}
	if rec.State != wm.StateFloating {
		return fmt.Errorf("%w: window %d is %s", ErrWrongState, id, rec.State)
	}
	return e.setTiled(rec)
}

func (e *Engine) setTiled(rec *wm.Window) error {
	ws := e.workspaces[rec.Workspace]
	ws.Root = ws.Strategy.Insert(ws.Root, rec.ID, e.workArea(ws))
	rec.State = wm.StateTiled
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// SetFullscreen enters or exits fullscreen. Entering records the current
// state and geometry; exiting restores them exactly.
func (e *Engine) SetFullscreen(id platform.WindowID, on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if on {
		return e.enterFullscreen(rec)
	}
	return e.exitFullscreen(rec)
}

// ToggleFullscreen flips fullscreen based on the current state.
func (e *Engine) ToggleFullscreen(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if rec.State == wm.StateFullscreen {
		return e.exitFullscreen(rec)
	}
	return e.enterFullscreen(rec)
}

func (e *Engine) enterFullscreen(rec *wm.Window) error {
	if rec.State == wm.StateFullscreen {
		return nil
	}
	ws := e.workspaces[rec.Workspace]

	saved := wm.Saved{State: rec.State, Rect: e.currentRect(rec)}
	rec.PreFullscreen = &saved

	if rec.State == wm.StateTiled {
		ws.Root = ws.Strategy.Remove(ws.Root, rec.ID)
	}
	if rec.State == wm.StateMinimized {
		if err := e.backend.Show(rec.ID); err != nil {
			e.log.Warn("show failed", "window", rec.ID, "error", err)
		}
	}
	rec.State = wm.StateFullscreen

	if e.isActive(ws) {
		e.placeWindow(rec, ws)
		e.retile(ws.ID)
	}
	return nil
}

func (e *Engine) exitFullscreen(rec *wm.Window) error {
	if rec.State != wm.StateFullscreen {
		return nil
	}
	ws := e.workspaces[rec.Workspace]

	saved := rec.PreFullscreen
	rec.PreFullscreen = nil
	if saved == nil {
		saved = &wm.Saved{State: wm.StateTiled}
	}

	switch saved.State {
	case wm.StateTiled:
		ws.Root = ws.Strategy.Insert(ws.Root, rec.ID, e.workArea(ws))
		rec.State = wm.StateTiled
	case wm.StateFloating:
		rec.State = wm.StateFloating
		rect := saved.Rect
		rec.FloatingRect = &rect
		if err := e.backend.SetRect(rec.ID, toPlatformRect(rect)); err != nil {
			e.log.Warn("floating restore failed", "window", rec.ID, "error", err)
		}
	case wm.StateMinimized:
		rec.State = wm.StateMinimized
		if err := e.backend.Hide(rec.ID); err != nil {
			e.log.Warn("hide failed", "window", rec.ID, "error", err)
		}
	}

	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// Minimize hides a window. A minimized tiled window keeps its tree slot
// (and therefore its space) until it is restored or unmanaged, unless the
// reserve-space policy is disabled.
func (e *Engine) Minimize(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.minimize(id)
}

func (e *Engine) minimize(id platform.WindowID) error {
	rec := e.registry.Get(id)
	if rec == nil {
		return nil
	}
	if rec.State == wm.StateMinimized {
		return nil
	}
	ws := e.workspaces[rec.Workspace]

	rec.MinimizedFrom = rec.State
	rec.State = wm.StateMinimized

	if err := e.backend.Hide(id); err != nil {
		// Leave the record unchanged on failure.
		rec.State = rec.MinimizedFrom
		return fmt.Errorf("hide window %d: %w", id, err)
	}

	if rec.MinimizedFrom == wm.StateTiled && !e.reserveMinimized {
		ws.Root = ws.Strategy.Remove(ws.Root, id)
		if e.isActive(ws) {
			e.retile(ws.ID)
		}
	}
	return nil
}

// Restore re-shows a minimized window and reapplies its placement.
func (e *Engine) Restore(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restore(id)
}

func (e *Engine) restore(id platform.WindowID) error {
	rec := e.registry.Get(id)
	if rec == nil {
		return nil
	}
	if rec.State != wm.StateMinimized {
		return nil
	}
	ws := e.workspaces[rec.Workspace]

	if err := e.backend.Show(id); err != nil {
		return fmt.Errorf("show window %d: %w", id, err)
	}

	target := rec.MinimizedFrom
	if target == wm.StateMinimized {
		target = wm.StateTiled
	}
	rec.State = target

	switch target {
	case wm.StateTiled:
		if !tree.Contains(ws.Root, id) {
			ws.Root = ws.Strategy.Insert(ws.Root, id, e.workArea(ws))
		}
	case wm.StateFloating, wm.StateFullscreen:
		e.placeWindow(rec, ws)
	}

	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// CloseWindow asks the OS layer to close the window. The record is removed
// later, when the Destroyed event arrives.
func (e *Engine) CloseWindow(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.registry.Contains(id) {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	return e.backend.Close(id)
}

// FocusWindow focuses a managed window.
func (e *Engine) FocusWindow(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.registry.Contains(id) {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if err := e.backend.Focus(id); err != nil {
		return err
	}
	e.focused = id
	return nil
}

// currentRect returns the best known geometry for a record: the saved
// floating rectangle for floating windows, otherwise a live query.
func (e *Engine) currentRect(rec *wm.Window) geometry.Rect {
	if rec.State == wm.StateFloating && rec.FloatingRect != nil {
		return *rec.FloatingRect
	}
	if win, err := e.backend.QueryWindow(rec.ID); err == nil {
		return fromPlatformRect(win.Bounds)
	}
	return geometry.Rect{}
}
