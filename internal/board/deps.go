package board

import (
	"context"
	"time"

	"github.com/kallinyester/jato/internal/model"
)

// Backend persists board mutations. api.Authed implements it.
type Backend interface {
	ListProjects(ctx context.Context, stage model.Stage) ([]model.Project, error)
	CreateProject(ctx context.Context, d model.Draft) (model.Project, error)
	UpdateProject(ctx context.Context, id string, u model.ProjectUpdate) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// Confirmer asks the user whether a project may be deleted
type Confirmer interface {
	Confirm(p model.Project) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(p model.Project) bool

func (f ConfirmFunc) Confirm(p model.Project) bool {
	return f(p)
}

// Timer is a pending scheduled call
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
