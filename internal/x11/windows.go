package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/cascadewm/cascade/internal/platform"
)

// ListWindows enumerates the EWMH client list, keeping only normal
// application windows.
func (c *Connection) ListWindows() ([]platform.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	var out []platform.Window
	for _, windowID := range clients {
		if !c.isNormalWindow(windowID) {
			continue
		}
		win, err := c.QueryWindow(platform.WindowID(windowID))
		if err != nil {
			continue
		}
		out = append(out, win)
	}
	return out, nil
}

// QueryWindow reads one window's metadata and geometry.
func (c *Connection) QueryWindow(id platform.WindowID) (platform.Window, error) {
	windowID := xproto.Window(id)

	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return platform.Window{}, fmt.Errorf("failed to get window attributes: %w", err)
	}

	win := platform.Window{
		ID:      id,
		Visible: attrs.MapState == xproto.MapStateViewable,
	}

	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && title != "" {
		win.Title = title
	} else if hints, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		win.Title = hints
	}

	if class, err := icccm.WmClassGet(c.XUtil, windowID); err == nil {
		win.Class = class.Class
	}

	if pid, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
		win.PID = int(pid)
	}

	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return platform.Window{}, fmt.Errorf("failed to get window geometry: %w", err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return platform.Window{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	win.Bounds = platform.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}

	return win, nil
}

// SetRect moves and resizes a window. Maximized state is removed first so
// the window manager honors the new geometry.
func (c *Connection) SetRect(id platform.WindowID, bounds platform.Rect) error {
	windowID := xproto.Window(id)

	c.unmaximizeWindow(windowID)

	win := xwindow.New(c.XUtil, windowID)
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, bounds.X, bounds.Y, bounds.Width, bounds.Height); err != nil {
		// Fallback to direct window manipulation
		win.MoveResize(bounds.X, bounds.Y, bounds.Width, bounds.Height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(c.XUtil, windowID, 0, state)
		}
	}
}

// Show maps a window.
func (c *Connection) Show(id platform.WindowID) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), xproto.Window(id)).Check()
}

// Hide unmaps a window.
func (c *Connection) Hide(id platform.WindowID) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), xproto.Window(id)).Check()
}

// Close asks the window to close via _NET_CLOSE_WINDOW.
func (c *Connection) Close(id platform.WindowID) error {
	atom, err := c.internAtom("_NET_CLOSE_WINDOW")
	if err != nil {
		return err
	}
	const sourceIndication = 2 // pager/direct action
	return c.sendClientMessage(xproto.Window(id), atom, [5]uint32{0, sourceIndication, 0, 0, 0})
}

// Focus activates and raises a window using _NET_ACTIVE_WINDOW.
func (c *Connection) Focus(id platform.WindowID) error {
	atom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}
	const sourceIndication = 2 // pager/direct action
	return c.sendClientMessage(xproto.Window(id), atom, [5]uint32{sourceIndication, 0, 0, 0, 0})
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY. Compositors map the full uint32
// range onto [transparent, opaque].
func (c *Connection) SetOpacity(id platform.WindowID, opacity float64) error {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	atom, err := c.internAtom("_NET_WM_WINDOW_OPACITY")
	if err != nil {
		return err
	}

	value := uint32(math.Round(opacity * float64(0xffffffff)))
	data := []byte{
		byte(value),
		byte(value >> 8),
		byte(value >> 16),
		byte(value >> 24),
	}
	return xproto.ChangePropertyChecked(
		c.XUtil.Conn(),
		xproto.PropModeReplace,
		xproto.Window(id),
		atom,
		xproto.AtomCardinal,
		32,
		1,
		data,
	).Check()
}

// isNormalWindow checks if a window is a normal application window
func (c *Connection) isNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}
