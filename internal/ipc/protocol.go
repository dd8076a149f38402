package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/cascadewm/cascade/internal/engine"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload            CommandType = "RELOAD"
	CommandGetStatus         CommandType = "GET_STATUS"
	CommandGetSnapshot       CommandType = "GET_SNAPSHOT"
	CommandGetWindows        CommandType = "GET_WINDOWS"
	CommandGetWorkspaces     CommandType = "GET_WORKSPACES"
	CommandGetMonitors       CommandType = "GET_MONITORS"
	CommandWindowFloat       CommandType = "WINDOW_FLOAT"
	CommandWindowFullscreen  CommandType = "WINDOW_FULLSCREEN"
	CommandWindowMinimize    CommandType = "WINDOW_MINIMIZE"
	CommandWindowRestore     CommandType = "WINDOW_RESTORE"
	CommandWindowClose       CommandType = "WINDOW_CLOSE"
	CommandWindowFocus       CommandType = "WINDOW_FOCUS"
	CommandWindowMove        CommandType = "WINDOW_MOVE"
	CommandWindowSwapMaster  CommandType = "WINDOW_SWAP_MASTER"
	CommandWindowToWorkspace CommandType = "WINDOW_TO_WORKSPACE"
	CommandWorkspaceSwitch   CommandType = "WORKSPACE_SWITCH"
	CommandLayoutSet         CommandType = "LAYOUT_SET"
	CommandLayoutFactor      CommandType = "LAYOUT_MASTER_FACTOR"
	CommandLayoutCount       CommandType = "LAYOUT_MASTER_COUNT"
	CommandLayoutRebalance   CommandType = "LAYOUT_REBALANCE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	WindowCount   int    `json:"window_count"`
	Workspace     int    `json:"workspace"`
	Focused       uint32 `json:"focused"`
}

// WindowsData wraps the window list for GET_WINDOWS.
type WindowsData struct {
	Windows []engine.WindowInfo `json:"windows"`
}

// WorkspacesData wraps the workspace list for GET_WORKSPACES.
type WorkspacesData struct {
	Workspaces []engine.WorkspaceInfo `json:"workspaces"`
}

// MonitorsData wraps the monitor list for GET_MONITORS.
type MonitorsData struct {
	Monitors []engine.MonitorInfo `json:"monitors"`
}

// GetWindowsPayload filters GET_WINDOWS; zero values mean no filter.
// Monitor is a pointer because 0 is a valid monitor id.
type GetWindowsPayload struct {
	Workspace int    `json:"workspace,omitempty"`
	State     string `json:"state,omitempty"`
	Monitor   *int   `json:"monitor,omitempty"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID uint32 `json:"id"`
	// On resolves WINDOW_FULLSCREEN; nil means toggle.
	On *bool `json:"on,omitempty"`
}

// WindowMovePayload carries a directional move.
type WindowMovePayload struct {
	ID        uint32 `json:"id"`
	Direction string `json:"direction"`
}

// WindowToWorkspacePayload reassigns a window to a workspace.
type WindowToWorkspacePayload struct {
	ID        uint32 `json:"id"`
	Workspace int    `json:"workspace"`
}

// WorkspacePayload addresses a single workspace.
type WorkspacePayload struct {
	ID int `json:"id"`
}

// LayoutSetPayload switches a workspace's strategy.
type LayoutSetPayload struct {
	Workspace int    `json:"workspace"`
	Strategy  string `json:"strategy"`
}

// LayoutFactorPayload adjusts the master factor by a delta.
type LayoutFactorPayload struct {
	Workspace int     `json:"workspace"`
	Delta     float64 `json:"delta"`
}

// LayoutCountPayload sets the master count.
type LayoutCountPayload struct {
	Workspace int `json:"workspace"`
	Count     int `json:"count"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
