package board

import "errors"

var (
	// ErrProjectNotFound indicates no project on the board has the requested ID.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoBackend indicates an operation needs a backend and none is configured.
	ErrNoBackend = errors.New("no backend configured")
)
