package layout

import (
	"testing"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
)

func TestDwindleFirstInsertFillsArea(t *testing.T) {
	area := geometry.Rect{Width: 1920, Height: 1080}
	d := &Dwindle{Ratio: 0.5, SmartSplit: true}

	root := d.Insert(nil, 1, area)
	got := tree.Apply(root, area, geometry.Gaps{})
	want := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	if len(got) != 1 || got[0].Rect != want {
		t.Fatalf("got %+v, want single placement %+v", got, want)
	}
}

func TestDwindleSecondInsertSplitsWideLeafVertically(t *testing.T) {
	// 1920 > 1080 so smart-split puts B side by side with A.
	area := geometry.Rect{Width: 1920, Height: 1080}
	d := &Dwindle{Ratio: 0.5, SmartSplit: true}

	root := d.Insert(nil, 1, area)
	root = d.Insert(root, 2, area)

	got := tree.Apply(root, area, geometry.Gaps{})
	wantA := geometry.Rect{X: 0, Y: 0, Width: 960, Height: 1080}
	wantB := geometry.Rect{X: 960, Y: 0, Width: 960, Height: 1080}
	if got[0].Window != 1 || got[0].Rect != wantA {
		t.Fatalf("A = %+v, want %+v", got[0], wantA)
	}
	if got[1].Window != 2 || got[1].Rect != wantB {
		t.Fatalf("B = %+v, want %+v", got[1], wantB)
	}
}

func TestDwindleThirdInsertSplitsDeepestRight(t *testing.T) {
	// B's region is 960x1080: taller than wide, so C stacks under B.
	area := geometry.Rect{Width: 1920, Height: 1080}
	d := &Dwindle{Ratio: 0.5, SmartSplit: true}

	var root *tree.Node
	for _, id := range []platform.WindowID{1, 2, 3} {
		root = d.Insert(root, id, area)
	}

	got := tree.Apply(root, area, geometry.Gaps{})
	wantB := geometry.Rect{X: 960, Y: 0, Width: 960, Height: 540}
	wantC := geometry.Rect{X: 960, Y: 540, Width: 960, Height: 540}
	if got[1].Rect != wantB || got[2].Rect != wantC {
		t.Fatalf("B = %+v C = %+v, want %+v / %+v", got[1].Rect, got[2].Rect, wantB, wantC)
	}
}

func TestDwindleDepthAlternationWithoutSmartSplit(t *testing.T) {
	// Without smart-split the axis alternates with depth: the root split is
	// vertical, the next is horizontal, regardless of leaf shape.
	area := geometry.Rect{Width: 1000, Height: 2000}
	d := &Dwindle{Ratio: 0.5}

	var root *tree.Node
	for _, id := range []platform.WindowID{1, 2, 3} {
		root = d.Insert(root, id, area)
	}
	if root.Axis != geometry.Vertical {
		t.Fatalf("root axis = %v, want vertical", root.Axis)
	}
	if root.Right.Axis != geometry.Horizontal {
		t.Fatalf("second split axis = %v, want horizontal", root.Right.Axis)
	}
}

func TestDwindleCollectMatchesInsertions(t *testing.T) {
	area := geometry.Rect{Width: 1600, Height: 900}
	d := &Dwindle{Ratio: 0.5, SmartSplit: true}

	var root *tree.Node
	ids := []platform.WindowID{5, 9, 2, 7}
	for _, id := range ids {
		root = d.Insert(root, id, area)
	}
	got := tree.Collect(root)
	if len(got) != len(ids) {
		t.Fatalf("collect = %v, want %v", got, ids)
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("collect = %v, want %v", got, ids)
		}
	}

	root = d.Remove(root, 2)
	if tree.Count(root) != 3 || tree.Contains(root, 2) {
		t.Fatalf("remove left %v", tree.Collect(root))
	}
}

func TestDwindleRebuildMatchesIncrementalInserts(t *testing.T) {
	area := geometry.Rect{Width: 1920, Height: 1080}
	d := &Dwindle{Ratio: 0.5, SmartSplit: true}

	ids := []platform.WindowID{1, 2, 3, 4}
	var incremental *tree.Node
	for _, id := range ids {
		incremental = d.Insert(incremental, id, area)
	}
	rebuilt := d.Rebuild(ids, area)

	a := tree.Apply(incremental, area, geometry.Gaps{})
	b := tree.Apply(rebuilt, area, geometry.Gaps{})
	if len(a) != len(b) {
		t.Fatalf("placement counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
