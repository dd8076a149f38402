package wm

import (
	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/layout"
	"github.com/cascadewm/cascade/internal/tree"
)

// Workspace is one independent spatial tree plus its placement strategy,
// bound to exactly one monitor at a time. The fixed pool of workspaces is
// created at startup and lives for the process lifetime; only the tree and
// strategy parameters mutate.
type Workspace struct {
	ID       int
	Monitor  int
	Root     *tree.Node
	Strategy layout.Strategy
}

// Monitor is a physical display with its usable work area and DPI scale.
// Entries are replaced wholesale on refresh, never partially patched.
type Monitor struct {
	ID       int
	Name     string
	WorkArea geometry.Rect
	Scale    float64
	Primary  bool
}
