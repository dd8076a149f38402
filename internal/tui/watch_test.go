package tui

import (
	"strings"
	"testing"

	"github.com/cascadewm/cascade/internal/engine"
)

func TestRenderWindowsNarrowTerminal(t *testing.T) {
	// Widths below the 40-column fixed prefix must not slice the title
	// with a negative bound. 0 covers the state before the first
	// WindowSizeMsg arrives.
	for _, width := range []int{0, 20, 30, 39, 40, 80} {
		m := model{
			snap: &engine.Snapshot{
				Windows: []engine.WindowInfo{
					{ID: 1, Workspace: 1, State: "tiled", Class: "term", Title: "a long window title"},
				},
			},
			width: width,
		}
		out := m.renderWindows()
		if !strings.Contains(out, "WINDOWS") {
			t.Fatalf("width %d: missing section header in %q", width, out)
		}
	}
}

func TestRenderWindowsTruncatesWideTitles(t *testing.T) {
	m := model{
		snap: &engine.Snapshot{
			Windows: []engine.WindowInfo{
				{ID: 1, Workspace: 1, State: "tiled", Class: "term", Title: strings.Repeat("x", 100)},
			},
		},
		width: 60,
	}
	out := m.renderWindows()
	// 60 - 40 = 20 columns remain for the title.
	if strings.Contains(out, strings.Repeat("x", 21)) {
		t.Fatalf("title not truncated to 20 columns: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("x", 20)) {
		t.Fatalf("truncated title missing: %q", out)
	}
}
