package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/cascadewm/cascade/internal/config"
	"github.com/cascadewm/cascade/internal/engine"
	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/ipc"
	"github.com/cascadewm/cascade/internal/rules"
	"github.com/cascadewm/cascade/internal/tui"
	"github.com/cascadewm/cascade/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: cascade daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: cascade daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "workspaces":
		os.Exit(runWorkspaces(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "workspace":
		os.Exit(runWorkspace(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cascade <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon                  Start the cascade daemon (foreground)")
	fmt.Fprintln(w, "  status                  Show daemon status")
	fmt.Fprintln(w, "  windows                 List managed windows")
	fmt.Fprintln(w, "  workspaces              List workspaces")
	fmt.Fprintln(w, "  monitors                List monitors")
	fmt.Fprintln(w, "  watch                   Open a live status view")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window float            Toggle a window between tiled and floating")
	fmt.Fprintln(w, "  window fullscreen       Toggle (or set) fullscreen")
	fmt.Fprintln(w, "  window minimize         Minimize a window")
	fmt.Fprintln(w, "  window restore          Restore a minimized window")
	fmt.Fprintln(w, "  window close            Close a window")
	fmt.Fprintln(w, "  window focus            Focus a window")
	fmt.Fprintln(w, "  window move             Swap a window with its neighbor")
	fmt.Fprintln(w, "  window swap-master      Promote a window to the master slot")
	fmt.Fprintln(w, "  window to-workspace     Send a window to another workspace")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  workspace switch        Activate a workspace on its monitor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout set              Switch a workspace's placement strategy")
	fmt.Fprintln(w, "  layout factor           Adjust the master region factor")
	fmt.Fprintln(w, "  layout count            Set the master window count")
	fmt.Fprintln(w, "  layout rebalance        Reset container split ratios")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate         Validate configuration")
	fmt.Fprintln(w, "  config print            Print configuration")
	fmt.Fprintln(w, "  reload                  Reload the daemon's configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'cascade <command> --help' for command-specific options.")
}

// useJSON decides between human tables and JSON: explicit --json wins, and
// piped output gets JSON so scripts never have to parse tables.
func useJSON(jsonFlag bool) bool {
	if jsonFlag {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(v interface{}) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseWindowID(s string) (uint32, error) {
	// Base 0 accepts the 0x-prefixed ids X tools print.
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cascade status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if useJSON(*jsonOut) {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("workspace:      %d\n", status.Workspace)
	if status.Focused != 0 {
		fmt.Printf("focused:        0x%x\n", status.Focused)
	}
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cascade windows [--workspace N] [--monitor N] [--state STATE] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List managed windows, optionally filtered by workspace, monitor or")
		fmt.Fprintln(os.Stderr, "state (tiled, floating, fullscreen, minimized).")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	workspace := fs.Int("workspace", 0, "Only windows on this workspace")
	monitor := fs.Int("monitor", -1, "Only windows on this monitor")
	state := fs.String("state", "", "Only windows in this state")
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	var windows []engine.WindowInfo
	var err error
	if *monitor >= 0 {
		windows, err = client.GetWindowsByMonitor(*monitor)
	} else {
		windows, err = client.GetWindows(*workspace, *state)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if useJSON(*jsonOut) {
		return printJSON(windows)
	}
	for _, win := range windows {
		marker := " "
		if win.Focused {
			marker = "*"
		}
		title := win.Title
		if title == "" {
			title = win.Class
		}
		fmt.Printf("%s 0x%-8x ws%-2d %-10s %-14s %s\n", marker, win.ID, win.Workspace, win.State, win.Class, title)
	}
	if len(windows) == 0 {
		fmt.Println("no managed windows")
	}
	return 0
}

func runWorkspaces(args []string) int {
	fs := flag.NewFlagSet("workspaces", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cascade workspaces [--json]")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	workspaces, err := client.GetWorkspaces()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if useJSON(*jsonOut) {
		return printJSON(workspaces)
	}
	for _, ws := range workspaces {
		marker := " "
		if ws.Active {
			marker = "*"
		}
		fmt.Printf("%s %-2d monitor %-2d %-13s %d windows\n", marker, ws.ID, ws.Monitor, ws.Strategy, ws.Windows)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cascade monitors [--json]")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	monitors, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if useJSON(*jsonOut) {
		return printJSON(monitors)
	}
	for _, mon := range monitors {
		label := fmt.Sprintf("%d %-10s %dx%d+%d+%d scale %.2f ws %d",
			mon.ID, mon.Name,
			mon.WorkArea.Width, mon.WorkArea.Height, mon.WorkArea.X, mon.WorkArea.Y,
			mon.Scale, mon.ActiveWorkspace)
		if mon.Primary {
			label += " primary"
		}
		fmt.Println(label)
	}
	return 0
}

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cascade window float <id>")
	fmt.Fprintln(w, "  cascade window fullscreen [--on|--off] <id>")
	fmt.Fprintln(w, "  cascade window minimize <id>")
	fmt.Fprintln(w, "  cascade window restore <id>")
	fmt.Fprintln(w, "  cascade window close <id>")
	fmt.Fprintln(w, "  cascade window focus <id>")
	fmt.Fprintln(w, "  cascade window move <id> <left|right|up|down>")
	fmt.Fprintln(w, "  cascade window swap-master <id>")
	fmt.Fprintln(w, "  cascade window to-workspace <id> <workspace>")
}

// windowCommand parses a single <id> argument and applies op to it.
func windowCommand(name string, args []string, op func(*ipc.Client, uint32) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cascade window %s <id>\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "window %s requires <id>\n", name)
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := op(ipc.NewClient(), id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "float":
		return windowCommand("float", args[1:], (*ipc.Client).ToggleFloating)
	case "minimize":
		return windowCommand("minimize", args[1:], (*ipc.Client).Minimize)
	case "restore":
		return windowCommand("restore", args[1:], (*ipc.Client).Restore)
	case "close":
		return windowCommand("close", args[1:], (*ipc.Client).Close)
	case "focus":
		return windowCommand("focus", args[1:], (*ipc.Client).Focus)
	case "swap-master":
		return windowCommand("swap-master", args[1:], (*ipc.Client).SwapMaster)

	case "fullscreen":
		fs := flag.NewFlagSet("fullscreen", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade window fullscreen [--on|--off] <id>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Toggles by default; --on/--off set the state explicitly.")
		}
		on := fs.Bool("on", false, "Enter fullscreen")
		off := fs.Bool("off", false, "Exit fullscreen")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "window fullscreen requires <id>")
			fs.Usage()
			return 2
		}
		if *on && *off {
			fmt.Fprintln(os.Stderr, "--on and --off are mutually exclusive")
			return 2
		}
		id, err := parseWindowID(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		client := ipc.NewClient()
		switch {
		case *on:
			err = client.SetFullscreen(id, true)
		case *off:
			err = client.SetFullscreen(id, false)
		default:
			err = client.ToggleFullscreen(id)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "move":
		fs := flag.NewFlagSet("move", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade window move <id> <left|right|up|down>")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "window move requires <id> and <direction>")
			fs.Usage()
			return 2
		}
		id, err := parseWindowID(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := ipc.NewClient().Move(id, fs.Arg(1)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "to-workspace":
		fs := flag.NewFlagSet("to-workspace", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade window to-workspace <id> <workspace>")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "window to-workspace requires <id> and <workspace>")
			fs.Usage()
			return 2
		}
		id, err := parseWindowID(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		workspace, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid workspace %q\n", fs.Arg(1))
			return 2
		}
		if err := ipc.NewClient().MoveToWorkspace(id, workspace); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWorkspace(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: cascade workspace switch <id>")
		return 2
	}

	switch args[0] {
	case "switch":
		fs := flag.NewFlagSet("switch", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade workspace switch <id>")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "workspace switch requires <id>")
			fs.Usage()
			return 2
		}
		id, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid workspace %q\n", fs.Arg(0))
			return 2
		}
		if err := ipc.NewClient().SwitchWorkspace(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown workspace command: %s\n", args[0])
		return 2
	}
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cascade layout set [--workspace N] <dwindle|master_stack>")
	fmt.Fprintln(w, "  cascade layout factor [--workspace N] <delta>")
	fmt.Fprintln(w, "  cascade layout count [--workspace N] <count>")
	fmt.Fprintln(w, "  cascade layout rebalance [--workspace N]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without --workspace the command targets the current workspace.")
}

// resolveWorkspace maps the zero value to the daemon's current workspace.
func resolveWorkspace(client *ipc.Client, workspace int) (int, error) {
	if workspace != 0 {
		return workspace, nil
	}
	status, err := client.GetStatus()
	if err != nil {
		return 0, err
	}
	return status.Workspace, nil
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printLayoutUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("set", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade layout set [--workspace N] <dwindle|master_stack>")
		}
		workspace := fs.Int("workspace", 0, "Target workspace (default: current)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "layout set requires <strategy>")
			fs.Usage()
			return 2
		}
		ws, err := resolveWorkspace(client, *workspace)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := client.SetStrategy(ws, fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "factor":
		fs := flag.NewFlagSet("factor", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade layout factor [--workspace N] <delta>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Adds delta to the master region factor, e.g. 0.05 or -0.05.")
		}
		workspace := fs.Int("workspace", 0, "Target workspace (default: current)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "layout factor requires <delta>")
			fs.Usage()
			return 2
		}
		delta, err := strconv.ParseFloat(fs.Arg(0), 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid delta %q\n", fs.Arg(0))
			return 2
		}
		ws, err := resolveWorkspace(client, *workspace)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := client.AdjustMasterFactor(ws, delta); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "count":
		fs := flag.NewFlagSet("count", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade layout count [--workspace N] <count>")
		}
		workspace := fs.Int("workspace", 0, "Target workspace (default: current)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "layout count requires <count>")
			fs.Usage()
			return 2
		}
		count, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid count %q\n", fs.Arg(0))
			return 2
		}
		ws, err := resolveWorkspace(client, *workspace)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := client.SetMasterCount(ws, count); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "rebalance":
		fs := flag.NewFlagSet("rebalance", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: cascade layout rebalance [--workspace N]")
		}
		workspace := fs.Int("workspace", 0, "Target workspace (default: current)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "layout rebalance takes no arguments")
			fs.Usage()
			return 2
		}
		ws, err := resolveWorkspace(client, *workspace)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := client.Rebalance(ws); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  cascade config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  cascade config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/cascade/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/cascade/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		if *printDefaults {
			cfg = config.Default()
		} else {
			var err error
			if *path == "" {
				cfg, err = config.Load()
			} else {
				cfg, err = config.LoadFromPath(*path)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cascade reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running daemon to reload its configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWatch(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: cascade watch")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of monitors, workspaces and managed windows.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  r         Refresh now")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "watch takes no arguments")
		return 2
	}

	if err := tui.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func engineGaps(cfg *config.Config) geometry.Gaps {
	return geometry.Gaps{Inner: cfg.Gaps.Inner, Outer: cfg.Gaps.Outer}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	matcher, err := rules.NewRuleMatcher(cfg.EngineRules())
	if err != nil {
		logger.Error("invalid window rules", "error", err)
		os.Exit(1)
	}

	backend, err := x11.NewConnection()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		os.Exit(1)
	}
	defer backend.Disconnect()

	eng, err := engine.New(backend, matcher, engine.Options{
		Workspaces:       cfg.Workspaces,
		Gaps:             engineGaps(cfg),
		Strategy:         cfg.Layout.Strategy,
		StrategyParams:   cfg.StrategyParams(),
		ReserveMinimized: cfg.ReserveMinimized(),
		Logger:           logger,
	})
	if err != nil {
		logger.Error("failed to initialize engine", "error", err)
		os.Exit(1)
	}

	capture, err := x11.NewCapture(logger)
	if err != nil {
		logger.Error("failed to open capture connection", "error", err)
		os.Exit(1)
	}
	if err := capture.Start(eng.Events()); err != nil {
		logger.Error("failed to start event capture", "error", err)
		os.Exit(1)
	}
	defer capture.Stop()

	// Bring pre-existing windows under management before the first event.
	eng.Adopt()

	reloadChan := make(chan struct{}, 1)
	server, err := ipc.NewServer(eng, logger, reloadChan)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		os.Exit(1)
	}
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		os.Exit(1)
	}
	defer server.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// File watcher, SIGHUP and the IPC RELOAD command all funnel into
	// reloadChan so there is a single reload path.
	if path, err := config.DefaultConfigPath(); err == nil {
		go func() {
			if err := config.Watch(ctx, path, logger, func() {
				select {
				case reloadChan <- struct{}{}:
				default:
				}
			}); err != nil {
				logger.Warn("config watcher unavailable", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					select {
					case reloadChan <- struct{}{}:
					default:
					}
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				cancel()
			case <-reloadChan:
				applyReload(eng, logger)
			}
		}
	}()

	logger.Info("cascade daemon started")
	eng.Run(ctx)
}

// applyReload re-reads the config and pushes the runtime-changeable parts
// into the engine. A broken config keeps the previous settings.
func applyReload(eng *engine.Engine, logger *slog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config reload failed", "error", err)
		return
	}
	matcher, err := rules.NewRuleMatcher(cfg.EngineRules())
	if err != nil {
		logger.Error("config reload failed", "error", err)
		return
	}
	eng.Reconfigure(matcher, engineGaps(cfg), cfg.StrategyParams(), cfg.ReserveMinimized())
	logger.Info("configuration reloaded")
}
