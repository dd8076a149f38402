package layout

import (
	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
)

// Dwindle is the recursive-bisection strategy: each insertion subdivides
// the most recently inserted leaf, producing the characteristic cascade
// toward the bottom-right.
type Dwindle struct {
	// Ratio used for new containers, clamped to [0.1, 0.9].
	Ratio float64
	// SmartSplit picks the split axis from the target leaf's shape:
	// wider leaves split side by side, taller leaves split stacked.
	// When disabled the axis alternates with tree depth.
	SmartSplit bool
}

func (d *Dwindle) Name() string { return NameDwindle }

// Insert places id at the deepest-right leaf. The leaf becomes a container
// keeping the old window on the left/top and the new one on the right/bottom.
func (d *Dwindle) Insert(root *tree.Node, id platform.WindowID, area geometry.Rect) *tree.Node {
	if root == nil {
		return tree.NewLeaf(id)
	}

	// Walk the right spine tracking the leaf's derived rectangle and depth
	// so the split axis can be chosen at the target.
	node := root
	rect := area
	depth := 0
	for !node.IsLeaf() {
		_, rect = rect.Split(node.Axis, node.Ratio)
		node = node.Right
		depth++
	}

	axis := d.splitAxis(rect, depth)
	node.Axis = axis
	node.Ratio = geometry.ClampRatio(d.Ratio)
	node.Left = tree.NewLeaf(node.Window)
	node.Right = tree.NewLeaf(id)
	node.Window = 0
	return root
}

func (d *Dwindle) Remove(root *tree.Node, id platform.WindowID) *tree.Node {
	return tree.Remove(root, id)
}

// Rebuild inserts the windows one by one, reproducing the cascade the
// incremental path would have built.
func (d *Dwindle) Rebuild(ids []platform.WindowID, area geometry.Rect) *tree.Node {
	var root *tree.Node
	for _, id := range ids {
		root = d.Insert(root, id, area)
	}
	return root
}

func (d *Dwindle) splitAxis(rect geometry.Rect, depth int) geometry.Axis {
	if d.SmartSplit {
		if rect.Width > rect.Height {
			return geometry.Vertical
		}
		return geometry.Horizontal
	}
	if depth%2 == 0 {
		return geometry.Vertical
	}
	return geometry.Horizontal
}
