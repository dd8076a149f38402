package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cascadewm/cascade/internal/engine"
	"github.com/cascadewm/cascade/internal/ipc"
)

const pollInterval = time.Second

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

type snapshotMsg struct {
	snap *engine.Snapshot
	err  error
}

type tickMsg time.Time

// model is the bubbletea model for the live status view.
type model struct {
	client *ipc.Client

	snap    *engine.Snapshot
	lastErr error

	width  int
	height int
}

func newModel() model {
	return model{client: ipc.NewClient()}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) fetch() tea.Msg {
	snap, err := m.client.GetSnapshot()
	return snapshotMsg{snap: snap, err: err}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tea.Batch(m.fetch, tick())
	case snapshotMsg:
		if msg.err != nil {
			m.lastErr = msg.err
		} else {
			m.lastErr = nil
			m.snap = msg.snap
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cascade"))
	b.WriteString("\n\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("daemon unreachable"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.lastErr.Error()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("r: retry  q: quit"))
		return b.String()
	}
	if m.snap == nil {
		b.WriteString(dimStyle.Render("connecting..."))
		return b.String()
	}

	b.WriteString(m.renderMonitors())
	b.WriteString("\n")
	b.WriteString(m.renderWorkspaces())
	b.WriteString("\n")
	b.WriteString(m.renderWindows())
	b.WriteString(helpStyle.Render("r: refresh  q: quit"))
	return b.String()
}

func (m model) renderMonitors() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("MONITORS"))
	b.WriteString("\n")
	for _, mon := range m.snap.Monitors {
		label := fmt.Sprintf("  %d %-10s %dx%d+%d+%d  scale %.2f  ws %d",
			mon.ID, mon.Name,
			mon.WorkArea.Width, mon.WorkArea.Height, mon.WorkArea.X, mon.WorkArea.Y,
			mon.Scale, mon.ActiveWorkspace)
		if mon.Primary {
			label += "  primary"
		}
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderWorkspaces() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("WORKSPACES"))
	b.WriteString("\n  ")
	for _, ws := range m.snap.Workspaces {
		label := fmt.Sprintf("%d:%d", ws.ID, ws.Windows)
		switch {
		case ws.Active:
			b.WriteString(activeStyle.Render(label))
		case ws.Windows > 0:
			b.WriteString(label)
		default:
			b.WriteString(dimStyle.Render(label))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderWindows() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("WINDOWS"))
	b.WriteString("\n")

	windows := append([]engine.WindowInfo(nil), m.snap.Windows...)
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Workspace != windows[j].Workspace {
			return windows[i].Workspace < windows[j].Workspace
		}
		return windows[i].ID < windows[j].ID
	})

	for _, win := range windows {
		title := win.Title
		if title == "" {
			title = win.Class
		}
		if limit := m.width - 40; limit >= 0 && len(title) > limit {
			title = title[:limit]
		}
		line := fmt.Sprintf("  ws%d  %-10s %-10s %s", win.Workspace, win.State, win.Class, title)
		if win.Focused {
			b.WriteString(focusedStyle.Render(line + "  *"))
		} else if win.State == "minimized" {
			b.WriteString(dimStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	if len(windows) == 0 {
		b.WriteString(dimStyle.Render("  no managed windows"))
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the live status view and blocks until the user quits.
func Run() error {
	_, err := tea.NewProgram(newModel(), tea.WithAltScreen()).Run()
	return err
}
