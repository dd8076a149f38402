package layout

import (
	"testing"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
)

func placementFor(t *testing.T, ps []tree.Placement, id platform.WindowID) geometry.Rect {
	t.Helper()
	for _, p := range ps {
		if p.Window == id {
			return p.Rect
		}
	}
	t.Fatalf("no placement for window %d in %v", id, ps)
	return geometry.Rect{}
}

func TestMasterStackThreeWindows(t *testing.T) {
	// 1000x1000, factor 0.6, one master: A gets the left 600 column, B and
	// C stack evenly in the remaining 400.
	area := geometry.Rect{Width: 1000, Height: 1000}
	m := &MasterStack{MasterFactor: 0.6, MasterCount: 1, StackAxis: geometry.Horizontal}

	var root *tree.Node
	for _, id := range []platform.WindowID{1, 2, 3} {
		root = m.Insert(root, id, area)
	}
	got := tree.Apply(root, area, geometry.Gaps{})

	wantA := geometry.Rect{X: 0, Y: 0, Width: 600, Height: 1000}
	wantB := geometry.Rect{X: 600, Y: 0, Width: 400, Height: 500}
	wantC := geometry.Rect{X: 600, Y: 500, Width: 400, Height: 500}
	if r := placementFor(t, got, 1); r != wantA {
		t.Fatalf("A = %+v, want %+v", r, wantA)
	}
	if r := placementFor(t, got, 2); r != wantB {
		t.Fatalf("B = %+v, want %+v", r, wantB)
	}
	if r := placementFor(t, got, 3); r != wantC {
		t.Fatalf("C = %+v, want %+v", r, wantC)
	}
}

func TestMasterStackSingleWindowFillsArea(t *testing.T) {
	area := geometry.Rect{Width: 1000, Height: 1000}
	m := &MasterStack{MasterFactor: 0.6, MasterCount: 1}

	root := m.Insert(nil, 1, area)
	got := tree.Apply(root, area, geometry.Gaps{})
	want := geometry.Rect{Width: 1000, Height: 1000}
	if len(got) != 1 || got[0].Rect != want {
		t.Fatalf("got %+v, want full area", got)
	}
}

func TestMasterStackDuplicateInsertIsNoOp(t *testing.T) {
	area := geometry.Rect{Width: 1000, Height: 1000}
	m := &MasterStack{MasterFactor: 0.5, MasterCount: 1}

	root := m.Insert(nil, 1, area)
	root = m.Insert(root, 1, area)
	if tree.Count(root) != 1 {
		t.Fatalf("count = %d, want 1", tree.Count(root))
	}
}

func TestMasterStackRemoveRebuilds(t *testing.T) {
	area := geometry.Rect{Width: 1000, Height: 1000}
	m := &MasterStack{MasterFactor: 0.6, MasterCount: 1}

	var root *tree.Node
	for _, id := range []platform.WindowID{1, 2, 3} {
		root = m.Insert(root, id, area)
	}
	root = m.Remove(root, 1)

	// 2 is promoted to master; 3 fills the whole stack region.
	got := tree.Apply(root, area, geometry.Gaps{})
	if r := placementFor(t, got, 2); r.Width != 600 || r.Height != 1000 {
		t.Fatalf("new master = %+v, want 600x1000", r)
	}
	if r := placementFor(t, got, 3); r.Width != 400 || r.Height != 1000 {
		t.Fatalf("stack = %+v, want 400x1000", r)
	}
}

func TestMasterStackSwapWithMaster(t *testing.T) {
	area := geometry.Rect{Width: 1000, Height: 1000}
	m := &MasterStack{MasterFactor: 0.6, MasterCount: 1}

	var root *tree.Node
	for _, id := range []platform.WindowID{1, 2, 3} {
		root = m.Insert(root, id, area)
	}
	if !m.SwapWithMaster(3) {
		t.Fatal("swap reported failure")
	}
	order := m.Order()
	if order[0] != 3 || order[2] != 1 {
		t.Fatalf("order = %v, want [3 2 1]", order)
	}
	if m.SwapWithMaster(99) {
		t.Fatal("swap with unknown id reported success")
	}
	_ = root
}

func TestMasterStackMultipleMasters(t *testing.T) {
	// Two masters split the 600 column evenly; the stack gets the rest.
	area := geometry.Rect{Width: 1000, Height: 1000}
	m := &MasterStack{MasterFactor: 0.6, MasterCount: 2, StackAxis: geometry.Horizontal}

	root := m.Rebuild([]platform.WindowID{1, 2, 3}, area)
	got := tree.Apply(root, area, geometry.Gaps{})

	if r := placementFor(t, got, 1); r != (geometry.Rect{X: 0, Y: 0, Width: 600, Height: 500}) {
		t.Fatalf("master 1 = %+v", r)
	}
	if r := placementFor(t, got, 2); r != (geometry.Rect{X: 0, Y: 500, Width: 600, Height: 500}) {
		t.Fatalf("master 2 = %+v", r)
	}
	if r := placementFor(t, got, 3); r != (geometry.Rect{X: 600, Y: 0, Width: 400, Height: 1000}) {
		t.Fatalf("stack = %+v", r)
	}
}

func TestMasterStackLargeStackDividesEvenly(t *testing.T) {
	// 16 stack windows share 1600px of height, so each should get exactly
	// 100. A ratio clamp must not skew the first windows even though 1/16
	// is far below the 0.1 minimum a single container may hold.
	area := geometry.Rect{Width: 1000, Height: 1600}
	m := &MasterStack{MasterFactor: 0.6, MasterCount: 1, StackAxis: geometry.Horizontal}

	ids := make([]platform.WindowID, 17)
	for i := range ids {
		ids[i] = platform.WindowID(i + 1)
	}
	root := m.Rebuild(ids, area)
	got := tree.Apply(root, area, geometry.Gaps{})

	if r := placementFor(t, got, 1); r != (geometry.Rect{X: 0, Y: 0, Width: 600, Height: 1600}) {
		t.Fatalf("master = %+v, want 600x1600", r)
	}
	for i := 2; i <= 17; i++ {
		want := geometry.Rect{X: 600, Y: (i - 2) * 100, Width: 400, Height: 100}
		if r := placementFor(t, got, platform.WindowID(i)); r != want {
			t.Fatalf("stack window %d = %+v, want %+v", i, r, want)
		}
	}
}

func TestMasterFactorAndCountClamping(t *testing.T) {
	m := &MasterStack{MasterFactor: 0.85, MasterCount: 1}
	m.AdjustMasterFactor(0.2)
	if m.MasterFactor != 0.9 {
		t.Fatalf("factor = %v, want clamp at 0.9", m.MasterFactor)
	}
	m.AdjustMasterFactor(-5)
	if m.MasterFactor != 0.1 {
		t.Fatalf("factor = %v, want clamp at 0.1", m.MasterFactor)
	}

	m.Rebuild([]platform.WindowID{1, 2}, geometry.Rect{Width: 100, Height: 100})
	m.SetMasterCount(10)
	if m.MasterCount != 2 {
		t.Fatalf("count = %d, want clamp at window count 2", m.MasterCount)
	}
	m.SetMasterCount(0)
	if m.MasterCount != 1 {
		t.Fatalf("count = %d, want minimum 1", m.MasterCount)
	}
}

func TestNewStrategyDefaults(t *testing.T) {
	s, err := New(NameMasterStack, Params{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := s.(*MasterStack)
	if m.MasterFactor != 0.55 || m.MasterCount != 1 {
		t.Fatalf("defaults = %v/%d, want 0.55/1", m.MasterFactor, m.MasterCount)
	}

	if _, err := New("spiral", Params{}); err == nil {
		t.Fatal("expected error for unknown strategy name")
	}
}
