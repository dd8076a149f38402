package layout

import (
	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
)

// MasterStack keeps an explicit ordered window list and rebuilds its
// two-region tree from scratch on every membership or parameter change.
// The first MasterCount windows fill a master region sized by MasterFactor
// of the workspace width; the rest divide the remaining region evenly
// along StackAxis.
type MasterStack struct {
	MasterFactor float64
	MasterCount  int
	StackAxis    geometry.Axis

	order []platform.WindowID
}

func (m *MasterStack) Name() string { return NameMasterStack }

// Order returns the current window order, masters first.
func (m *MasterStack) Order() []platform.WindowID {
	out := make([]platform.WindowID, len(m.order))
	copy(out, m.order)
	return out
}

func (m *MasterStack) Insert(root *tree.Node, id platform.WindowID, area geometry.Rect) *tree.Node {
	for _, existing := range m.order {
		if existing == id {
			return root
		}
	}
	m.order = append(m.order, id)
	return m.build(area)
}

func (m *MasterStack) Remove(root *tree.Node, id platform.WindowID) *tree.Node {
	kept := m.order[:0]
	for _, existing := range m.order {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	m.order = kept
	// The area only affects split geometry at Apply time, not tree shape,
	// so a unit rectangle is fine here.
	return m.build(geometry.Rect{Width: 1, Height: 1})
}

// Rebuild replaces the order wholesale and constructs the two-region tree.
func (m *MasterStack) Rebuild(ids []platform.WindowID, area geometry.Rect) *tree.Node {
	m.order = append(m.order[:0], ids...)
	return m.build(area)
}

// SwapWithMaster moves id to the front of the order, demoting the current
// first master to id's old slot. It reports whether id was found.
func (m *MasterStack) SwapWithMaster(id platform.WindowID) bool {
	for i, existing := range m.order {
		if existing == id {
			m.order[0], m.order[i] = m.order[i], m.order[0]
			return true
		}
	}
	return false
}

// AdjustMasterFactor adds delta and clamps the result into [0.1, 0.9].
func (m *MasterStack) AdjustMasterFactor(delta float64) {
	m.MasterFactor = geometry.ClampRatio(m.MasterFactor + delta)
}

// SetMasterCount clamps n into [1, window count] (or a minimum of 1 when
// the workspace is empty).
func (m *MasterStack) SetMasterCount(n int) {
	if n < 1 {
		n = 1
	}
	if len(m.order) > 0 && n > len(m.order) {
		n = len(m.order)
	}
	m.MasterCount = n
}

func (m *MasterStack) build(area geometry.Rect) *tree.Node {
	n := len(m.order)
	if n == 0 {
		return nil
	}

	count := m.MasterCount
	if count < 1 {
		count = 1
	}
	if count > n {
		count = n
	}

	masters := evenSplit(m.order[:count], geometry.Horizontal)
	if count == n {
		return masters
	}
	stack := evenSplit(m.order[count:], m.StackAxis)
	return tree.NewContainer(geometry.Vertical, geometry.ClampRatio(m.MasterFactor), masters, stack)
}

// evenSplit divides a region evenly among the windows with a balanced tree
// of containers. Halving keeps every ratio within [1/3, 1/2], so the
// [0.1, 0.9] ratio clamp never distorts the division regardless of window
// count (a 1/n chain would hit the clamp past ten windows).
func evenSplit(ids []platform.WindowID, axis geometry.Axis) *tree.Node {
	if len(ids) == 1 {
		return tree.NewLeaf(ids[0])
	}
	mid := len(ids) / 2
	ratio := float64(mid) / float64(len(ids))
	return tree.NewContainer(axis, ratio, evenSplit(ids[:mid], axis), evenSplit(ids[mid:], axis))
}
