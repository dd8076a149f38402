package engine

import (
	"fmt"

	"github.com/cascadewm/cascade/internal/layout"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
	"github.com/cascadewm/cascade/internal/wm"
)

// Direction is a tree-relative move direction on screen.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection parses "left", "right", "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q", s)
	}
}

// MoveWindow swaps a tiled window with its nearest neighbor in the given
// direction, judged by placement centers. No neighbor means no change.
func (e *Engine) MoveWindow(id platform.WindowID, dir Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if rec.State != wm.StateTiled {
		return fmt.Errorf("%w: window %d is %s", ErrWrongState, id, rec.State)
	}
	ws := e.workspaces[rec.Workspace]

	neighbor, ok := e.neighborOf(ws, id, dir)
	if !ok {
		return nil
	}
	if ms, isMaster := ws.Strategy.(*layout.MasterStack); isMaster {
		// Keep the explicit order in sync so later rebuilds preserve the swap.
		order := ms.Order()
		for i := range order {
			if order[i] == id {
				order[i] = neighbor
			} else if order[i] == neighbor {
				order[i] = id
			}
		}
		ws.Root = ms.Rebuild(order, e.workArea(ws))
	} else {
		tree.Swap(ws.Root, id, neighbor)
	}
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// neighborOf finds the tiled window whose placement center is nearest to
// id's center in the requested direction.
func (e *Engine) neighborOf(ws *wm.Workspace, id platform.WindowID, dir Direction) (platform.WindowID, bool) {
	placements := tree.Apply(ws.Root, e.workArea(ws), e.gaps)

	var origin *tree.Placement
	for i := range placements {
		if placements[i].Window == id {
			origin = &placements[i]
			break
		}
	}
	if origin == nil {
		return 0, false
	}
	ox, oy := origin.Rect.CenterX(), origin.Rect.CenterY()

	var best platform.WindowID
	bestDist := -1
	for _, p := range placements {
		if p.Window == id {
			continue
		}
		cx, cy := p.Rect.CenterX(), p.Rect.CenterY()
		var ahead bool
		switch dir {
		case DirLeft:
			ahead = cx < ox
		case DirRight:
			ahead = cx > ox
		case DirUp:
			ahead = cy < oy
		case DirDown:
			ahead = cy > oy
		}
		if !ahead {
			continue
		}
		dx, dy := cx-ox, cy-oy
		dist := dx*dx + dy*dy
		if bestDist == -1 || dist < bestDist {
			best, bestDist = p.Window, dist
		}
	}
	return best, bestDist != -1
}

// SwapWithMaster promotes a window to the master slot. Under dwindle the
// window is swapped with the first leaf instead.
func (e *Engine) SwapWithMaster(id platform.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	if rec.State != wm.StateTiled {
		return fmt.Errorf("%w: window %d is %s", ErrWrongState, id, rec.State)
	}
	ws := e.workspaces[rec.Workspace]

	if ms, ok := ws.Strategy.(*layout.MasterStack); ok {
		if ms.SwapWithMaster(id) {
			ws.Root = ms.Rebuild(ms.Order(), e.workArea(ws))
		}
	} else {
		ids := tree.Collect(ws.Root)
		if len(ids) > 0 && ids[0] != id {
			tree.Swap(ws.Root, id, ids[0])
		}
	}
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// AdjustMasterFactor adds delta to the master factor of a master-stack
// workspace; the result is clamped, never rejected.
func (e *Engine) AdjustMasterFactor(workspaceID int, delta float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	ms, ok := ws.Strategy.(*layout.MasterStack)
	if !ok {
		return fmt.Errorf("%w: workspace %d uses %s", ErrWrongStrategy, workspaceID, ws.Strategy.Name())
	}
	ms.AdjustMasterFactor(delta)
	ws.Root = ms.Rebuild(ms.Order(), e.workArea(ws))
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// SetMasterCount sets the master count of a master-stack workspace,
// clamped into the valid range.
func (e *Engine) SetMasterCount(workspaceID, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	ms, ok := ws.Strategy.(*layout.MasterStack)
	if !ok {
		return fmt.Errorf("%w: workspace %d uses %s", ErrWrongStrategy, workspaceID, ws.Strategy.Name())
	}
	ms.SetMasterCount(n)
	ws.Root = ms.Rebuild(ms.Order(), e.workArea(ws))
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// SetStrategy switches a workspace to the named strategy, discarding the
// old tree shape: the new strategy rebuilds from the left-to-right window
// order of the old tree.
func (e *Engine) SetStrategy(workspaceID int, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	strategy, err := layout.New(name, e.strategyParams)
	if err != nil {
		return err
	}
	ids := tree.Collect(ws.Root)
	ws.Strategy = strategy
	ws.Root = strategy.Rebuild(ids, e.workArea(ws))
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	e.log.Info("strategy switched", "workspace", workspaceID, "strategy", name)
	return nil
}

// Rebalance resets every container ratio in a workspace's tree to 0.5.
func (e *Engine) Rebalance(workspaceID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	tree.Rebalance(ws.Root)
	if e.isActive(ws) {
		e.retile(ws.ID)
	}
	return nil
}

// MoveToWorkspace reassigns a window to another workspace. A tiled window
// leaves the source tree and joins the target tree; the window is hidden
// when the target workspace is not the active one on its monitor.
func (e *Engine) MoveToWorkspace(id platform.WindowID, workspaceID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.registry.Get(id)
	if rec == nil {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	target, ok := e.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWorkspaceNotFound, workspaceID)
	}
	if rec.Workspace == workspaceID {
		return nil
	}
	source := e.workspaces[rec.Workspace]

	if tree.Contains(source.Root, id) {
		source.Root = source.Strategy.Remove(source.Root, id)
	}
	rec.Workspace = target.ID
	rec.Monitor = target.Monitor
	if rec.State == wm.StateTiled {
		target.Root = target.Strategy.Insert(target.Root, id, e.workArea(target))
	}

	if e.isActive(target) {
		if rec.State != wm.StateMinimized {
			if err := e.backend.Show(id); err != nil {
				e.log.Warn("show failed", "window", id, "error", err)
			}
		}
		e.placeWindow(rec, target)
		e.retile(target.ID)
	} else if rec.State != wm.StateMinimized {
		if err := e.backend.Hide(id); err != nil {
			e.log.Warn("hide failed", "window", id, "error", err)
		}
	}
	if e.isActive(source) {
		e.retile(source.ID)
	}
	return nil
}
