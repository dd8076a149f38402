package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/cascadewm/cascade/internal/platform"
)

// Capture watches the root window for lifecycle notifications and
// translates them into platform events. It runs on its own X connection so
// closing it unblocks the event wait without touching the backend
// connection. Capture only enqueues; it never acts on events itself.
type Capture struct {
	conn *Connection
	log  *slog.Logger

	activeAtom  xproto.Atom
	wmStateAtom xproto.Atom
}

// NewCapture opens a dedicated connection for event capture.
func NewCapture(log *slog.Logger) (*Capture, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, err
	}
	return &Capture{conn: conn, log: log}, nil
}

// Start subscribes to window and screen change notifications and begins
// forwarding events to ch.
func (c *Capture) Start(ch chan<- platform.Event) error {
	var err error
	if c.activeAtom, err = c.conn.internAtom("_NET_ACTIVE_WINDOW"); err != nil {
		return err
	}
	if c.wmStateAtom, err = c.conn.internAtom("WM_STATE"); err != nil {
		return err
	}

	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskPropertyChange)
	if err := xproto.ChangeWindowAttributesChecked(
		c.conn.XUtil.Conn(),
		c.conn.Root,
		xproto.CwEventMask,
		[]uint32{mask},
	).Check(); err != nil {
		return fmt.Errorf("failed to select root events: %w", err)
	}

	if err := randr.SelectInputChecked(
		c.conn.XUtil.Conn(),
		c.conn.Root,
		randr.NotifyMaskScreenChange,
	).Check(); err != nil {
		return fmt.Errorf("failed to select randr events: %w", err)
	}

	go c.loop(ch)
	return nil
}

// Stop closes the capture connection, which unblocks the event loop.
func (c *Capture) Stop() {
	c.conn.Disconnect()
}

func (c *Capture) loop(ch chan<- platform.Event) {
	for {
		ev, xerr := c.conn.XUtil.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			// Connection closed.
			return
		}
		if xerr != nil {
			c.log.Debug("x11 error event", "error", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.CreateNotifyEvent:
			if e.OverrideRedirect {
				continue
			}
			c.send(ch, platform.Event{Kind: platform.EventCreated, Window: platform.WindowID(e.Window)})
		case xproto.DestroyNotifyEvent:
			c.send(ch, platform.Event{Kind: platform.EventDestroyed, Window: platform.WindowID(e.Window)})
		case xproto.MapNotifyEvent:
			if e.OverrideRedirect {
				continue
			}
			c.send(ch, platform.Event{Kind: platform.EventShown, Window: platform.WindowID(e.Window)})
		case xproto.UnmapNotifyEvent:
			c.send(ch, platform.Event{Kind: platform.EventHidden, Window: platform.WindowID(e.Window)})
		case xproto.ConfigureNotifyEvent:
			c.send(ch, platform.Event{Kind: platform.EventMoved, Window: platform.WindowID(e.Window)})
		case xproto.PropertyNotifyEvent:
			c.handleProperty(ch, e)
		case randr.ScreenChangeNotifyEvent:
			c.send(ch, platform.Event{Kind: platform.EventMonitorsChanged})
		}
	}
}

func (c *Capture) handleProperty(ch chan<- platform.Event, e xproto.PropertyNotifyEvent) {
	switch e.Atom {
	case c.activeAtom:
		if e.Window != c.conn.Root {
			return
		}
		active, err := ewmh.ActiveWindowGet(c.conn.XUtil)
		if err != nil || active == 0 {
			return
		}
		c.send(ch, platform.Event{Kind: platform.EventFocused, Window: platform.WindowID(active)})
	case c.wmStateAtom:
		state, err := icccm.WmStateGet(c.conn.XUtil, e.Window)
		if err != nil {
			return
		}
		switch state.State {
		case icccm.StateIconic:
			c.send(ch, platform.Event{Kind: platform.EventMinimized, Window: platform.WindowID(e.Window)})
		case icccm.StateNormal:
			c.send(ch, platform.Event{Kind: platform.EventRestored, Window: platform.WindowID(e.Window)})
		}
	}
}

// send enqueues without blocking. A full queue means the engine has
// stalled; dropping here is preferable to wedging the X event loop.
func (c *Capture) send(ch chan<- platform.Event, ev platform.Event) {
	select {
	case ch <- ev:
	default:
		c.log.Warn("event queue full, dropping event", "kind", ev.Kind.String(), "window", ev.Window)
	}
}
