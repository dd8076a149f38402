package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/cascadewm/cascade/internal/engine"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/runtimepath"
)

// Server handles IPC requests from clients. Commands are translated into
// engine calls; the engine's own mutex serializes them against the event
// loop, so the server needs no ordering guarantees of its own.
type Server struct {
	socketPath   string
	listener     net.Listener
	eng          *engine.Engine
	log          *slog.Logger
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to the engine. reloadChan is
// poked (non-blocking) when a client requests a config reload.
func NewServer(eng *engine.Engine, log *slog.Logger, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		eng:        eng,
		log:        log,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetSnapshot:
		return okOrError(s.eng.Snapshot(), nil)
	case CommandGetWindows:
		return s.handleGetWindows(req.Payload)
	case CommandGetWorkspaces:
		return okOrError(WorkspacesData{Workspaces: s.eng.Snapshot().Workspaces}, nil)
	case CommandGetMonitors:
		return okOrError(MonitorsData{Monitors: s.eng.Snapshot().Monitors}, nil)
	case CommandWindowFloat:
		return s.handleWindowCommand(req.Payload, s.eng.ToggleFloating)
	case CommandWindowFullscreen:
		return s.handleFullscreen(req.Payload)
	case CommandWindowMinimize:
		return s.handleWindowCommand(req.Payload, s.eng.Minimize)
	case CommandWindowRestore:
		return s.handleWindowCommand(req.Payload, s.eng.Restore)
	case CommandWindowClose:
		return s.handleWindowCommand(req.Payload, s.eng.CloseWindow)
	case CommandWindowFocus:
		return s.handleWindowCommand(req.Payload, s.eng.FocusWindow)
	case CommandWindowMove:
		return s.handleWindowMove(req.Payload)
	case CommandWindowSwapMaster:
		return s.handleWindowCommand(req.Payload, s.eng.SwapWithMaster)
	case CommandWindowToWorkspace:
		return s.handleWindowToWorkspace(req.Payload)
	case CommandWorkspaceSwitch:
		return s.handleWorkspaceSwitch(req.Payload)
	case CommandLayoutSet:
		return s.handleLayoutSet(req.Payload)
	case CommandLayoutFactor:
		return s.handleLayoutFactor(req.Payload)
	case CommandLayoutCount:
		return s.handleLayoutCount(req.Payload)
	case CommandLayoutRebalance:
		return s.handleLayoutRebalance(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	s.log.Info("IPC: received RELOAD command")

	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	snap := s.eng.Snapshot()
	status := StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		WindowCount:   len(snap.Windows),
		Workspace:     snap.Current,
		Focused:       uint32(snap.Focused),
	}
	return okOrError(status, nil)
}

func (s *Server) handleGetWindows(payload json.RawMessage) *Response {
	var filter GetWindowsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &filter); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid windows payload: %v", err))
		}
	}

	switch {
	case filter.Monitor != nil:
		windows, err := s.eng.WindowsByMonitor(*filter.Monitor)
		return okOrError(WindowsData{Windows: windows}, err)
	case filter.Workspace != 0:
		windows, err := s.eng.WindowsByWorkspace(filter.Workspace)
		return okOrError(WindowsData{Windows: windows}, err)
	case filter.State != "":
		windows, err := s.eng.WindowsByState(filter.State)
		return okOrError(WindowsData{Windows: windows}, err)
	default:
		return okOrError(WindowsData{Windows: s.eng.Snapshot().Windows}, nil)
	}
}

func (s *Server) handleWindowCommand(payload json.RawMessage, op func(platform.WindowID) error) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	return okOrError(nil, op(platform.WindowID(req.ID)))
}

func (s *Server) handleFullscreen(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	id := platform.WindowID(req.ID)
	if req.On == nil {
		return okOrError(nil, s.eng.ToggleFullscreen(id))
	}
	return okOrError(nil, s.eng.SetFullscreen(id, *req.On))
}

func (s *Server) handleWindowMove(payload json.RawMessage) *Response {
	var req WindowMovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okOrError(nil, s.eng.MoveWindow(platform.WindowID(req.ID), dir))
}

func (s *Server) handleWindowToWorkspace(payload json.RawMessage) *Response {
	var req WindowToWorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	return okOrError(nil, s.eng.MoveToWorkspace(platform.WindowID(req.ID), req.Workspace))
}

func (s *Server) handleWorkspaceSwitch(payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid workspace payload: %v", err))
	}
	return okOrError(nil, s.eng.SwitchWorkspace(req.ID))
}

func (s *Server) handleLayoutSet(payload json.RawMessage) *Response {
	var req LayoutSetPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	return okOrError(nil, s.eng.SetStrategy(req.Workspace, req.Strategy))
}

func (s *Server) handleLayoutFactor(payload json.RawMessage) *Response {
	var req LayoutFactorPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid factor payload: %v", err))
	}
	return okOrError(nil, s.eng.AdjustMasterFactor(req.Workspace, req.Delta))
}

func (s *Server) handleLayoutCount(payload json.RawMessage) *Response {
	var req LayoutCountPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid count payload: %v", err))
	}
	return okOrError(nil, s.eng.SetMasterCount(req.Workspace, req.Count))
}

func (s *Server) handleLayoutRebalance(payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid workspace payload: %v", err))
	}
	return okOrError(nil, s.eng.Rebalance(req.ID))
}

func okOrError(data interface{}, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, marshalErr := NewOKResponse(data)
	if marshalErr != nil {
		return NewErrorResponse(marshalErr.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
