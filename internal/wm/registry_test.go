package wm

import "testing"

func TestRegistryAddIsIdempotent(t *testing.T) {
	r := NewRegistry()
	first := &Window{ID: 1, Workspace: 1}
	r.Add(first)
	r.Add(&Window{ID: 1, Workspace: 9})

	if r.Count() != 1 {
		t.Fatalf("count = %d, want 1", r.Count())
	}
	if got := r.Get(1); got != first {
		t.Fatal("second add replaced the original record")
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Add(&Window{ID: 1})

	if got := r.Remove(1); got == nil || got.ID != 1 {
		t.Fatalf("remove returned %v", got)
	}
	if got := r.Remove(1); got != nil {
		t.Fatal("second remove should return nil")
	}
	if r.Contains(1) {
		t.Fatal("record still present after remove")
	}
}

func TestRegistryViews(t *testing.T) {
	r := NewRegistry()
	r.Add(&Window{ID: 3, Workspace: 1, State: StateTiled})
	r.Add(&Window{ID: 1, Workspace: 1, State: StateFloating})
	r.Add(&Window{ID: 2, Workspace: 2, State: StateTiled})

	ws1 := r.ByWorkspace(1)
	if len(ws1) != 2 || ws1[0].ID != 1 || ws1[1].ID != 3 {
		t.Fatalf("ByWorkspace(1) = %v, want ids [1 3]", ids(ws1))
	}

	tiled := r.ByState(StateTiled)
	if len(tiled) != 2 || tiled[0].ID != 2 || tiled[1].ID != 3 {
		t.Fatalf("ByState(tiled) = %v, want ids [2 3]", ids(tiled))
	}

	tw := r.TiledInWorkspace(1)
	if len(tw) != 1 || tw[0].ID != 3 {
		t.Fatalf("TiledInWorkspace(1) = %v, want ids [3]", ids(tw))
	}

	all := r.All()
	if len(all) != 3 || all[0].ID != 1 || all[2].ID != 3 {
		t.Fatalf("All = %v, want ascending ids", ids(all))
	}
}

func ids(ws []*Window) []uint32 {
	out := make([]uint32, len(ws))
	for i, w := range ws {
		out[i] = uint32(w.ID)
	}
	return out
}

func TestStateRoundTrip(t *testing.T) {
	for _, s := range []State{StateTiled, StateFloating, StateFullscreen, StateMinimized} {
		got, ok := ParseState(s.String())
		if !ok || got != s {
			t.Fatalf("ParseState(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseState("zoomed"); ok {
		t.Fatal("unknown state name parsed")
	}
}
