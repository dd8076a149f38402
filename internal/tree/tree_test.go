package tree

import (
	"testing"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
)

// checkShape verifies the structural invariant: every container has two
// children and every leaf holds a window.
func checkShape(t *testing.T, n *Node) {
	t.Helper()
	if n == nil {
		return
	}
	if n.IsLeaf() {
		return
	}
	if n.Left == nil || n.Right == nil {
		t.Fatalf("container with a single child: %+v", n)
	}
	checkShape(t, n.Left)
	checkShape(t, n.Right)
}

func TestRemoveOnlyWindowEmptiesTree(t *testing.T) {
	root := NewLeaf(1)
	root = Remove(root, 1)
	if root != nil {
		t.Fatalf("expected empty tree, got %+v", root)
	}
	if Count(root) != 0 {
		t.Fatalf("count = %d, want 0", Count(root))
	}
}

func TestRemovePromotesSibling(t *testing.T) {
	root := NewContainer(geometry.Vertical, 0.5, NewLeaf(1), NewLeaf(2))
	root = Remove(root, 1)
	if !root.IsLeaf() || root.Window != 2 {
		t.Fatalf("expected sibling leaf 2 promoted to root, got %+v", root)
	}
	checkShape(t, root)
}

func TestRemoveDeepLeaf(t *testing.T) {
	// ((1|2)|3): removing 2 must promote 1 into the inner slot.
	inner := NewContainer(geometry.Vertical, 0.5, NewLeaf(1), NewLeaf(2))
	root := NewContainer(geometry.Horizontal, 0.5, inner, NewLeaf(3))
	root = Remove(root, 2)
	checkShape(t, root)
	got := Collect(root)
	want := []platform.WindowID{1, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("collect = %v, want %v", got, want)
	}
}

func TestRemoveUnknownIDLeavesTreeAlone(t *testing.T) {
	root := NewContainer(geometry.Vertical, 0.5, NewLeaf(1), NewLeaf(2))
	out := Remove(root, 99)
	if Count(out) != 2 || !Contains(out, 1) || !Contains(out, 2) {
		t.Fatalf("tree changed by unknown removal: %v", Collect(out))
	}
	checkShape(t, out)
}

func TestCollectOrderAndCount(t *testing.T) {
	root := NewContainer(geometry.Vertical, 0.5,
		NewLeaf(10),
		NewContainer(geometry.Horizontal, 0.5, NewLeaf(20), NewLeaf(30)))
	got := Collect(root)
	want := []platform.WindowID{10, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collect = %v, want %v", got, want)
		}
	}
	if Count(root) != 3 {
		t.Fatalf("count = %d, want 3", Count(root))
	}
}

func TestSwap(t *testing.T) {
	root := NewContainer(geometry.Vertical, 0.5, NewLeaf(1), NewLeaf(2))
	if !Swap(root, 1, 2) {
		t.Fatal("swap reported failure")
	}
	if root.Left.Window != 2 || root.Right.Window != 1 {
		t.Fatalf("swap did not exchange windows: %v", Collect(root))
	}
	if Swap(root, 1, 99) {
		t.Fatal("swap with unknown id reported success")
	}
}

func TestRebalance(t *testing.T) {
	root := NewContainer(geometry.Vertical, 0.7,
		NewContainer(geometry.Horizontal, 0.3, NewLeaf(1), NewLeaf(2)),
		NewLeaf(3))
	Rebalance(root)
	if root.Ratio != 0.5 || root.Left.Ratio != 0.5 {
		t.Fatalf("ratios not reset: %v, %v", root.Ratio, root.Left.Ratio)
	}
}

func TestContainerClampsRatio(t *testing.T) {
	n := NewContainer(geometry.Vertical, 1.5, NewLeaf(1), NewLeaf(2))
	if n.Ratio != 0.9 {
		t.Fatalf("ratio = %v, want 0.9", n.Ratio)
	}
	n = NewContainer(geometry.Vertical, 0.0, NewLeaf(1), NewLeaf(2))
	if n.Ratio != 0.1 {
		t.Fatalf("ratio = %v, want 0.1", n.Ratio)
	}
}

func TestApplyNoGaps(t *testing.T) {
	area := geometry.Rect{Width: 1000, Height: 1000}
	root := NewContainer(geometry.Vertical, 0.5, NewLeaf(1), NewLeaf(2))
	got := Apply(root, area, geometry.Gaps{})
	if len(got) != 2 {
		t.Fatalf("got %d placements, want 2", len(got))
	}
	wantLeft := geometry.Rect{X: 0, Y: 0, Width: 500, Height: 1000}
	wantRight := geometry.Rect{X: 500, Y: 0, Width: 500, Height: 1000}
	if got[0].Rect != wantLeft || got[1].Rect != wantRight {
		t.Fatalf("placements %+v, want %+v / %+v", got, wantLeft, wantRight)
	}
}

func TestApplyGaps(t *testing.T) {
	// 1000 wide, inner 10, outer 20. Left leaf: outer 20 on the left and
	// vertical edges, inner/2 = 5 on the shared edge -> x=20 w=475.
	area := geometry.Rect{Width: 1000, Height: 1000}
	root := NewContainer(geometry.Vertical, 0.5, NewLeaf(1), NewLeaf(2))
	got := Apply(root, area, geometry.Gaps{Inner: 10, Outer: 20})

	wantLeft := geometry.Rect{X: 20, Y: 20, Width: 475, Height: 960}
	wantRight := geometry.Rect{X: 505, Y: 20, Width: 475, Height: 960}
	if got[0].Rect != wantLeft {
		t.Fatalf("left = %+v, want %+v", got[0].Rect, wantLeft)
	}
	if got[1].Rect != wantRight {
		t.Fatalf("right = %+v, want %+v", got[1].Rect, wantRight)
	}
	// The two leaves end up a full inner gap apart.
	if gap := wantRight.X - (wantLeft.X + wantLeft.Width); gap != 10 {
		t.Fatalf("gap between siblings = %d, want 10", gap)
	}
}

func TestApplySingleLeafGetsOuterGapOnly(t *testing.T) {
	area := geometry.Rect{Width: 800, Height: 600}
	got := Apply(NewLeaf(1), area, geometry.Gaps{Inner: 10, Outer: 15})
	want := geometry.Rect{X: 15, Y: 15, Width: 770, Height: 570}
	if got[0].Rect != want {
		t.Fatalf("got %+v, want %+v", got[0].Rect, want)
	}
}

func TestApplyEmptyTree(t *testing.T) {
	if got := Apply(nil, geometry.Rect{Width: 100, Height: 100}, geometry.Gaps{}); got != nil {
		t.Fatalf("expected no placements, got %v", got)
	}
}
