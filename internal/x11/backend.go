package x11

import "github.com/cascadewm/cascade/internal/platform"

// Connection implements the OS-facing backend; Capture implements the
// event source.
var (
	_ platform.Backend     = (*Connection)(nil)
	_ platform.EventSource = (*Capture)(nil)
)
