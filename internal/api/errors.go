package api

import "fmt"

// Fixed, user-facing messages per endpoint
const (
	MsgLogin         = "invalid login"
	MsgRegister      = "failed to register"
	MsgMe            = "failed to fetch account"
	MsgFetchProjects = "failed to fetch projects"
	MsgCreateProject = "failed to create project"
	MsgUpdateProject = "failed to update project"
	MsgDeleteProject = "failed to delete project"
	MsgFetchMetrics  = "failed to fetch metrics"
	MsgFetchAlerts   = "failed to fetch alerts"
)

// Error is returned by every Client call that does not complete with a 2xx
// status. Error() is always the endpoint's fixed message; the status code,
// backend detail and transport cause are kept for logs and errors.As.
type Error struct {
	Op         string // Endpoint name, e.g. "create_project"
	Message    string // Fixed human-readable message
	StatusCode int    // 0 when no response was received
	Detail     string // Backend "detail" field, if any
	Err        error  // Transport or decoding cause
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Describe returns the message with status and detail, for logs
func (e *Error) Describe() string {
	s := e.Message
	if e.StatusCode != 0 {
		s += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Err != nil {
		s += fmt.Sprintf(" [%v]", e.Err)
	}
	return s
}
