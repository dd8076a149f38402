package engine

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/layout"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/rules"
	"github.com/cascadewm/cascade/internal/wm"
)

// Options configures a new engine.
type Options struct {
	// Workspaces is the size of the fixed workspace pool (ids 1..N).
	Workspaces int
	// Gaps applied at the leaf level during placement.
	Gaps geometry.Gaps
	// Strategy is the default placement strategy name for every workspace.
	Strategy string
	// StrategyParams are the initial tunables for both strategies.
	StrategyParams layout.Params
	// ReserveMinimized keeps a minimized tiled window's tree slot occupied
	// until it is restored or unmanaged.
	ReserveMinimized bool
	// Logger receives warning/error logs; defaults to slog.Default().
	Logger *slog.Logger
}

// Engine owns the registry, workspace pool and monitor table, and is the
// single writer for all of them. The OS capture layer only enqueues events
// into the channel returned by Events; the engine drains it strictly FIFO,
// one event to completion at a time. Command entry points share the same
// mutex, so exactly one logical thread of control mutates state.
type Engine struct {
	mu      sync.Mutex
	backend platform.Backend
	matcher rules.Matcher
	log     *slog.Logger

	gaps             geometry.Gaps
	reserveMinimized bool
	strategyName     string
	strategyParams   layout.Params

	registry   *wm.Registry
	workspaces map[int]*wm.Workspace
	monitors   map[int]*wm.Monitor
	primary    int
	active     map[int]int // monitor id -> active workspace id
	current    int         // workspace receiving new windows
	focused    platform.WindowID

	events chan platform.Event
}

// New builds an engine over the backend and rule matcher. It queries the
// current monitor layout and creates the workspace pool: the first
// workspaces are spread one per monitor (primary first) and the remainder
// land on the primary.
func New(backend platform.Backend, matcher rules.Matcher, opts Options) (*Engine, error) {
	if opts.Workspaces < 1 {
		opts.Workspaces = 9
	}
	if opts.Strategy == "" {
		opts.Strategy = layout.NameDwindle
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if matcher == nil {
		matcher = rules.NoRules{}
	}

	e := &Engine{
		backend:          backend,
		matcher:          matcher,
		log:              logger,
		gaps:             opts.Gaps,
		reserveMinimized: opts.ReserveMinimized,
		strategyName:     opts.Strategy,
		strategyParams:   opts.StrategyParams,
		registry:         wm.NewRegistry(),
		workspaces:       make(map[int]*wm.Workspace),
		monitors:         make(map[int]*wm.Monitor),
		active:           make(map[int]int),
		events:           make(chan platform.Event, 64),
	}

	displays, err := backend.Displays()
	if err != nil {
		return nil, err
	}
	e.setMonitors(displays)

	order := e.monitorOrder()
	for i := 1; i <= opts.Workspaces; i++ {
		mon := e.primary
		if i-1 < len(order) {
			mon = order[i-1]
		}
		strategy, err := layout.New(opts.Strategy, opts.StrategyParams)
		if err != nil {
			return nil, err
		}
		e.workspaces[i] = &wm.Workspace{ID: i, Monitor: mon, Strategy: strategy}
		if _, ok := e.active[mon]; !ok {
			e.active[mon] = i
		}
	}
	e.current = e.active[e.primary]
	return e, nil
}

// Events returns the send side of the engine's event queue. It is handed
// to the OS capture layer at registration; the capture layer must only
// enqueue, never call back into the engine.
func (e *Engine) Events() chan<- platform.Event {
	return e.events
}

// Run drains the event queue until the context is cancelled. Each event is
// processed to completion before the next is read.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("engine started", "workspaces", len(e.workspaces), "monitors", len(e.monitors))
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped")
			return
		case ev := <-e.events:
			e.handleEvent(ev)
		}
	}
}

// Adopt manages every existing visible window. Called once at startup so
// windows opened before the daemon are brought under management.
func (e *Engine) Adopt() {
	e.mu.Lock()
	defer e.mu.Unlock()

	windows, err := e.backend.ListWindows()
	if err != nil {
		e.log.Error("adopt: window enumeration failed", "error", err)
		return
	}
	for _, win := range windows {
		if !win.Visible {
			continue
		}
		if err := e.manage(win.ID); err != nil {
			e.log.Warn("adopt: manage failed", "window", win.ID, "error", err)
		}
	}
}

// Reconfigure applies the settings that may change across a config
// reload: gaps, rule matcher, strategy tunables and the minimized-space
// policy. New tunables only affect containers built after the call; every
// active workspace is retiled so gap changes show immediately.
func (e *Engine) Reconfigure(matcher rules.Matcher, gaps geometry.Gaps, params layout.Params, reserveMinimized bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if matcher == nil {
		matcher = rules.NoRules{}
	}
	e.matcher = matcher
	e.gaps = gaps
	e.strategyParams = params
	e.reserveMinimized = reserveMinimized

	for _, mon := range e.monitorOrder() {
		e.retile(e.active[mon])
	}
}

func (e *Engine) handleEvent(ev platform.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Debug("event", "kind", ev.Kind.String(), "window", ev.Window)

	switch ev.Kind {
	case platform.EventCreated, platform.EventShown:
		if err := e.manage(ev.Window); err != nil {
			e.log.Warn("manage failed", "window", ev.Window, "error", err)
		}
	case platform.EventDestroyed:
		e.unmanage(ev.Window)
	case platform.EventHidden:
		// The record stays; a hidden window is not an unmanage.
	case platform.EventMoved:
		e.handleMoved(ev.Window)
	case platform.EventMinimized:
		if err := e.minimize(ev.Window); err != nil {
			e.log.Warn("minimize failed", "window", ev.Window, "error", err)
		}
	case platform.EventRestored:
		if err := e.restore(ev.Window); err != nil {
			e.log.Warn("restore failed", "window", ev.Window, "error", err)
		}
	case platform.EventFocused:
		e.handleFocused(ev.Window)
	case platform.EventMonitorsChanged:
		e.refreshMonitors()
	}
}

// handleMoved reacts to a user-driven move: floating windows keep their
// new geometry as the saved rectangle, tiled windows snap back on retile.
func (e *Engine) handleMoved(id platform.WindowID) {
	rec := e.registry.Get(id)
	if rec == nil {
		return
	}
	switch rec.State {
	case wm.StateFloating:
		win, err := e.backend.QueryWindow(id)
		if err != nil {
			e.log.Warn("query after move failed", "window", id, "error", err)
			return
		}
		rect := fromPlatformRect(win.Bounds)
		rec.FloatingRect = &rect
	case wm.StateTiled:
		e.retile(rec.Workspace)
	}
}

func (e *Engine) handleFocused(id platform.WindowID) {
	e.focused = id
	if rec := e.registry.Get(id); rec != nil {
		e.current = rec.Workspace
	}
}

// setMonitors replaces the monitor table wholesale from a display query.
func (e *Engine) setMonitors(displays []platform.Display) {
	e.monitors = make(map[int]*wm.Monitor, len(displays))
	e.primary = 0
	first := -1
	for _, d := range displays {
		scale := d.Scale
		if scale == 0 {
			scale = 1.0
		}
		e.monitors[d.ID] = &wm.Monitor{
			ID:       d.ID,
			Name:     d.Name,
			WorkArea: fromPlatformRect(d.Usable),
			Scale:    scale,
			Primary:  d.Primary,
		}
		if d.Primary {
			e.primary = d.ID
		}
		if first == -1 || d.ID < first {
			first = d.ID
		}
	}
	if _, ok := e.monitors[e.primary]; !ok && first != -1 {
		e.primary = first
	}
}

// monitorOrder returns monitor ids with the primary first, then ascending.
func (e *Engine) monitorOrder() []int {
	out := make([]int, 0, len(e.monitors))
	if _, ok := e.monitors[e.primary]; ok {
		out = append(out, e.primary)
	}
	for id := range e.monitors {
		if id != e.primary {
			out = append(out, id)
		}
	}
	// Stable order for the non-primary tail.
	for i := 1; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// workArea returns the work-area rectangle of a workspace's monitor.
func (e *Engine) workArea(ws *wm.Workspace) geometry.Rect {
	if mon, ok := e.monitors[ws.Monitor]; ok {
		return mon.WorkArea
	}
	return geometry.Rect{}
}

func (e *Engine) isActive(ws *wm.Workspace) bool {
	return e.active[ws.Monitor] == ws.ID
}

func fromPlatformRect(r platform.Rect) geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func toPlatformRect(r geometry.Rect) platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func scalesDiffer(a, b float64) bool {
	return math.Abs(a-b) > 0.01
}
