package platform

// EventKind enumerates window lifecycle notifications from the OS layer.
type EventKind int

const (
	EventCreated EventKind = iota
	EventDestroyed
	EventShown
	EventHidden
	EventMoved
	EventMinimized
	EventRestored
	EventFocused
	EventMonitorsChanged
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventDestroyed:
		return "destroyed"
	case EventShown:
		return "shown"
	case EventHidden:
		return "hidden"
	case EventMoved:
		return "moved"
	case EventMinimized:
		return "minimized"
	case EventRestored:
		return "restored"
	case EventFocused:
		return "focused"
	case EventMonitorsChanged:
		return "monitors_changed"
	}
	return "unknown"
}

// Event is one lifecycle notification. Window is zero for
// EventMonitorsChanged.
type Event struct {
	Kind   EventKind
	Window WindowID
}

// EventSource captures OS events and delivers them to a channel. The
// channel is owned by the consumer and handed over at registration so that
// multiple independent engine instances can each run their own capture.
type EventSource interface {
	// Start begins capture and sends events to ch until Stop is called.
	// The source must only enqueue; it never acts on events itself.
	Start(ch chan<- Event) error
	Stop()
}
