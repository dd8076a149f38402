package tree

import (
	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
)

// Node is one node of the spatial tree. A leaf holds exactly one window;
// a container holds exactly two children split along Axis at Ratio.
// Rectangles are derived top-down during Apply and never stored.
type Node struct {
	// Window is valid only on leaves.
	Window platform.WindowID

	// Container fields. Left and Right are both nil (leaf) or both set.
	Axis  geometry.Axis
	Ratio float64
	Left  *Node
	Right *Node
}

// Placement pairs a window with its computed rectangle.
type Placement struct {
	Window platform.WindowID
	Rect   geometry.Rect
}

// NewLeaf returns a leaf node for the given window.
func NewLeaf(id platform.WindowID) *Node {
	return &Node{Window: id}
}

// NewContainer returns a container over two children. The ratio is clamped
// into [0.1, 0.9].
func NewContainer(axis geometry.Axis, ratio float64, left, right *Node) *Node {
	return &Node{
		Axis:  axis,
		Ratio: geometry.ClampRatio(ratio),
		Left:  left,
		Right: right,
	}
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Remove deletes the leaf holding id and returns the new root. When the
// leaf's parent container disappears its sibling subtree is promoted in a
// single structural step, so no container is ever left with one child.
// Removing the only window yields a nil (empty) tree. Unknown ids leave
// the tree unchanged.
func Remove(root *Node, id platform.WindowID) *Node {
	if root == nil {
		return nil
	}
	if root.IsLeaf() {
		if root.Window == id {
			return nil
		}
		return root
	}
	if left := Remove(root.Left, id); left == nil {
		return root.Right
	} else if right := Remove(root.Right, id); right == nil {
		return root.Left
	} else {
		root.Left, root.Right = left, right
		return root
	}
}

// Collect returns all window ids in left-to-right leaf order.
func Collect(root *Node) []platform.WindowID {
	var out []platform.WindowID
	walk(root, func(n *Node) {
		out = append(out, n.Window)
	})
	return out
}

// Count returns the number of windows in the tree.
func Count(root *Node) int {
	count := 0
	walk(root, func(*Node) { count++ })
	return count
}

// Contains reports whether the tree holds a leaf for id.
func Contains(root *Node, id platform.WindowID) bool {
	found := false
	walk(root, func(n *Node) {
		if n.Window == id {
			found = true
		}
	})
	return found
}

// Swap exchanges the windows held by the leaves for a and b. It reports
// whether both leaves were found.
func Swap(root *Node, a, b platform.WindowID) bool {
	var la, lb *Node
	walk(root, func(n *Node) {
		switch n.Window {
		case a:
			la = n
		case b:
			lb = n
		}
	})
	if la == nil || lb == nil {
		return false
	}
	la.Window, lb.Window = lb.Window, la.Window
	return true
}

// Rebalance resets every container ratio to 0.5.
func Rebalance(root *Node) {
	if root == nil || root.IsLeaf() {
		return
	}
	root.Ratio = 0.5
	Rebalance(root.Left)
	Rebalance(root.Right)
}

// Apply computes the placement of every window in the tree within area.
// It is a pure walk: containers split their rectangle and recurse, leaves
// yield one placement after gap shrinkage. Gaps are applied once, at the
// leaf level: edges touching the workspace boundary get the outer gap,
// edges shared with a sibling get half the inner gap on each side.
func Apply(root *Node, area geometry.Rect, gaps geometry.Gaps) []Placement {
	if root == nil {
		return nil
	}
	var out []Placement
	applyNode(root, area, area, gaps, &out)
	return out
}

func applyNode(n *Node, rect, bounds geometry.Rect, gaps geometry.Gaps, out *[]Placement) {
	if n.IsLeaf() {
		*out = append(*out, Placement{Window: n.Window, Rect: shrinkForGaps(rect, bounds, gaps)})
		return
	}
	first, second := rect.Split(n.Axis, n.Ratio)
	applyNode(n.Left, first, bounds, gaps, out)
	applyNode(n.Right, second, bounds, gaps, out)
}

// shrinkForGaps applies the outer gap to edges on the workspace boundary
// and half the inner gap to shared edges, so two adjacent leaves end up a
// full inner gap apart.
func shrinkForGaps(rect, bounds geometry.Rect, gaps geometry.Gaps) geometry.Rect {
	half := gaps.Inner / 2
	left, top, right, bottom := half, half, half, half
	if rect.X == bounds.X {
		left = gaps.Outer
	}
	if rect.Y == bounds.Y {
		top = gaps.Outer
	}
	if rect.X+rect.Width == bounds.X+bounds.Width {
		right = gaps.Outer
	}
	if rect.Y+rect.Height == bounds.Y+bounds.Height {
		bottom = gaps.Outer
	}
	return rect.Shrink(left, top, right, bottom)
}

func walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		visit(n)
		return
	}
	walk(n.Left, visit)
	walk(n.Right, visit)
}
