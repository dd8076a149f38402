package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/cascadewm/cascade/internal/engine"
	"github.com/cascadewm/cascade/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) sendCommand(cmd CommandType, payload interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	_, err := c.sendRequest(req)
	return err
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() error {
	return c.sendCommand(CommandReload, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetSnapshot retrieves the full engine state.
func (c *Client) GetSnapshot() (*engine.Snapshot, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetSnapshot})
	if err != nil {
		return nil, err
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(resp.Data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot data: %w", err)
	}
	return &snap, nil
}

// GetWindows retrieves managed windows, optionally filtered by workspace
// (non-zero) or state (non-empty).
func (c *Client) GetWindows(workspace int, state string) ([]engine.WindowInfo, error) {
	payload, err := json.Marshal(GetWindowsPayload{Workspace: workspace, State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal windows payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGetWindows, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return data.Windows, nil
}

// GetWindowsByMonitor retrieves the managed windows on one monitor.
func (c *Client) GetWindowsByMonitor(monitor int) ([]engine.WindowInfo, error) {
	payload, err := json.Marshal(GetWindowsPayload{Monitor: &monitor})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal windows payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGetWindows, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return data.Windows, nil
}

// GetWorkspaces retrieves the workspace table.
func (c *Client) GetWorkspaces() ([]engine.WorkspaceInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetWorkspaces})
	if err != nil {
		return nil, err
	}

	var data WorkspacesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse workspaces data: %w", err)
	}
	return data.Workspaces, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() ([]engine.MonitorInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var data MonitorsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return data.Monitors, nil
}

// ToggleFloating flips a window between tiled and floating.
func (c *Client) ToggleFloating(id uint32) error {
	return c.sendCommand(CommandWindowFloat, WindowPayload{ID: id})
}

// ToggleFullscreen flips a window's fullscreen state.
func (c *Client) ToggleFullscreen(id uint32) error {
	return c.sendCommand(CommandWindowFullscreen, WindowPayload{ID: id})
}

// SetFullscreen enters or exits fullscreen explicitly.
func (c *Client) SetFullscreen(id uint32, on bool) error {
	return c.sendCommand(CommandWindowFullscreen, WindowPayload{ID: id, On: &on})
}

// Minimize hides a window.
func (c *Client) Minimize(id uint32) error {
	return c.sendCommand(CommandWindowMinimize, WindowPayload{ID: id})
}

// Restore re-shows a minimized window.
func (c *Client) Restore(id uint32) error {
	return c.sendCommand(CommandWindowRestore, WindowPayload{ID: id})
}

// Close asks the daemon to close a window.
func (c *Client) Close(id uint32) error {
	return c.sendCommand(CommandWindowClose, WindowPayload{ID: id})
}

// Focus focuses a window.
func (c *Client) Focus(id uint32) error {
	return c.sendCommand(CommandWindowFocus, WindowPayload{ID: id})
}

// Move swaps a window with its neighbor in a direction.
func (c *Client) Move(id uint32, direction string) error {
	return c.sendCommand(CommandWindowMove, WindowMovePayload{ID: id, Direction: direction})
}

// SwapMaster promotes a window to the master slot.
func (c *Client) SwapMaster(id uint32) error {
	return c.sendCommand(CommandWindowSwapMaster, WindowPayload{ID: id})
}

// MoveToWorkspace reassigns a window to a workspace.
func (c *Client) MoveToWorkspace(id uint32, workspace int) error {
	return c.sendCommand(CommandWindowToWorkspace, WindowToWorkspacePayload{ID: id, Workspace: workspace})
}

// SwitchWorkspace activates a workspace on its monitor.
func (c *Client) SwitchWorkspace(id int) error {
	return c.sendCommand(CommandWorkspaceSwitch, WorkspacePayload{ID: id})
}

// SetStrategy switches a workspace's placement strategy.
func (c *Client) SetStrategy(workspace int, strategy string) error {
	return c.sendCommand(CommandLayoutSet, LayoutSetPayload{Workspace: workspace, Strategy: strategy})
}

// AdjustMasterFactor adds delta to a master-stack workspace's factor.
func (c *Client) AdjustMasterFactor(workspace int, delta float64) error {
	return c.sendCommand(CommandLayoutFactor, LayoutFactorPayload{Workspace: workspace, Delta: delta})
}

// SetMasterCount sets a master-stack workspace's master count.
func (c *Client) SetMasterCount(workspace int, count int) error {
	return c.sendCommand(CommandLayoutCount, LayoutCountPayload{Workspace: workspace, Count: count})
}

// Rebalance resets a workspace's container ratios.
func (c *Client) Rebalance(workspace int) error {
	return c.sendCommand(CommandLayoutRebalance, WorkspacePayload{ID: workspace})
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
