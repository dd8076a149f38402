package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Scale   float64
	Primary bool
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	Class   string
	Title   string
	Bounds  Rect
	Visible bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ListWindows() ([]Window, error)
	QueryWindow(id WindowID) (Window, error)
	SetRect(id WindowID, bounds Rect) error
	Show(id WindowID) error
	Hide(id WindowID) error
	Close(id WindowID) error
	Focus(id WindowID) error
	SetOpacity(id WindowID, opacity float64) error
}
