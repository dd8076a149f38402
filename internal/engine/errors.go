package engine

import "errors"

// Typed failures for explicit commands. Lifecycle paths (manage/unmanage
// and event handling) stay idempotent and do not return these.
var (
	ErrWindowNotFound    = errors.New("window not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrMonitorNotFound   = errors.New("monitor not found")
	ErrWrongState        = errors.New("window is in the wrong state for this operation")
	ErrWrongStrategy     = errors.New("workspace strategy does not support this operation")
)
