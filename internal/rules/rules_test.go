package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cascadewm/cascade/internal/platform"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestMatchByClass(t *testing.T) {
	m, err := NewRuleMatcher([]Rule{
		{Class: "firefox", Workspace: intp(2)},
		{Class: "mpv", Floating: true},
	})
	if err != nil {
		t.Fatalf("NewRuleMatcher: %v", err)
	}

	got := m.Match(platform.Window{Class: "firefox", Title: "Mozilla Firefox"})
	want := Directives{Workspace: intp(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternsAreAnchored(t *testing.T) {
	m, err := NewRuleMatcher([]Rule{{Class: "fire", Skip: true}})
	if err != nil {
		t.Fatalf("NewRuleMatcher: %v", err)
	}
	if d := m.Match(platform.Window{Class: "firefox"}); d.Skip {
		t.Fatal("pattern matched a prefix; should require a full match")
	}
}

func TestFirstMatchWinsForValues(t *testing.T) {
	m, err := NewRuleMatcher([]Rule{
		{Class: "term.*", Workspace: intp(1), Opacity: floatp(0.9)},
		{Title: ".*scratch.*", Workspace: intp(5), NoFocus: true},
	})
	if err != nil {
		t.Fatalf("NewRuleMatcher: %v", err)
	}

	got := m.Match(platform.Window{Class: "terminal", Title: "scratchpad"})
	want := Directives{Workspace: intp(1), Opacity: floatp(0.9), NoFocus: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestBooleansAreSticky(t *testing.T) {
	m, err := NewRuleMatcher([]Rule{
		{Class: "popup", Floating: true},
		{Class: "popup", Fullscreen: true},
	})
	if err != nil {
		t.Fatalf("NewRuleMatcher: %v", err)
	}
	got := m.Match(platform.Window{Class: "popup"})
	if !got.Floating || !got.Fullscreen {
		t.Fatalf("expected both booleans set, got %+v", got)
	}
}

func TestBothCriteriaMustMatch(t *testing.T) {
	m, err := NewRuleMatcher([]Rule{{Class: "term", Title: "htop", Skip: true}})
	if err != nil {
		t.Fatalf("NewRuleMatcher: %v", err)
	}
	if d := m.Match(platform.Window{Class: "term", Title: "vim"}); d.Skip {
		t.Fatal("rule matched with a non-matching title")
	}
	if d := m.Match(platform.Window{Class: "term", Title: "htop"}); !d.Skip {
		t.Fatal("rule failed to match with both criteria satisfied")
	}
}

func TestInvalidPatternRejected(t *testing.T) {
	if _, err := NewRuleMatcher([]Rule{{Class: "("}}); err == nil {
		t.Fatal("expected error for invalid regexp")
	}
}

func TestNoRules(t *testing.T) {
	got := NoRules{}.Match(platform.Window{Class: "anything"})
	if diff := cmp.Diff(Directives{}, got); diff != "" {
		t.Fatalf("NoRules produced directives:\n%s", diff)
	}
}
