package model

import (
	"math"
	"slices"
	"time"
)

// DateLayout is the calendar date format used for start dates and deadlines
const DateLayout = "2006-01-02"

// CopySuffix is appended to the name of a duplicated project
const CopySuffix = " (Copy)"

// Project represents a client project tracked on the board
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Client      string    `json:"client"`
	Description string    `json:"description"`
	Languages   []string  `json:"languages"`
	Stage       Stage     `json:"stage"`
	Priority    Priority  `json:"priority"`
	Progress    int       `json:"progress"`
	StartDate   string    `json:"start_date"`
	Deadline    string    `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Draft holds the user-entered fields of a project that does not exist yet
type Draft struct {
	Name        string   `json:"name" validate:"required"`
	Client      string   `json:"client" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Languages   []string `json:"languages" validate:"unique,dive,language"`
	Stage       Stage    `json:"stage" validate:"required,stage"`
	Priority    Priority `json:"priority" validate:"required,priority"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	Deadline    string   `json:"deadline" validate:"required,datetime=2006-01-02"`
}

// ProjectUpdate is a partial set of project fields. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Client      *string   `json:"client,omitempty" validate:"omitempty,min=1"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1"`
	Languages   *[]string `json:"languages,omitempty"`
	Stage       *Stage    `json:"stage,omitempty" validate:"omitempty,stage"`
	Priority    *Priority `json:"priority,omitempty" validate:"omitempty,priority"`
	Progress    *int      `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	StartDate   *string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Deadline    *string   `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// NewProject creates a project from a draft with progress 0 and both timestamps set to now
func NewProject(id string, d Draft, now time.Time) Project {
	return Project{
		ID:          id,
		Name:        d.Name,
		Client:      d.Client,
		Description: d.Description,
		Languages:   slices.Clone(d.Languages),
		Stage:       d.Stage,
		Priority:    d.Priority,
		Progress:    0,
		StartDate:   d.StartDate,
		Deadline:    d.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Draft returns the user-editable fields of the project
func (p Project) Draft() Draft {
	return Draft{
		Name:        p.Name,
		Client:      p.Client,
		Description: p.Description,
		Languages:   slices.Clone(p.Languages),
		Stage:       p.Stage,
		Priority:    p.Priority,
		StartDate:   p.StartDate,
		Deadline:    p.Deadline,
	}
}

// Clone returns a deep copy of the project
func (p Project) Clone() Project {
	p.Languages = slices.Clone(p.Languages)
	return p
}

// Apply merges the set fields of u into the project
func (p *Project) Apply(u ProjectUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Client != nil {
		p.Client = *u.Client
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Languages != nil {
		p.Languages = slices.Clone(*u.Languages)
	}
	if u.Stage != nil {
		p.Stage = *u.Stage
	}
	if u.Priority != nil {
		p.Priority = *u.Priority
	}
	if u.Progress != nil {
		p.Progress = *u.Progress
	}
	if u.StartDate != nil {
		p.StartDate = *u.StartDate
	}
	if u.Deadline != nil {
		p.Deadline = *u.Deadline
	}
}

// IsEmpty reports whether the update changes nothing
func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Client == nil && u.Description == nil &&
		u.Languages == nil && u.Stage == nil && u.Priority == nil &&
		u.Progress == nil && u.StartDate == nil && u.Deadline == nil
}

// DeadlineAt returns the deadline as midnight in loc. ok is false when the
// deadline is unset or malformed.
func (p Project) DeadlineAt(loc *time.Location) (time.Time, bool) {
	if p.Deadline == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, p.Deadline, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsOverdue returns true if the deadline has passed and the project is not live
func (p Project) IsOverdue(now time.Time) bool {
	deadline, ok := p.DeadlineAt(now.Location())
	if !ok {
		return false
	}
	return deadline.Before(now) && p.Stage != StageProduction
}

// DaysUntilDeadline returns the whole days left until the deadline, rounded up
func (p Project) DaysUntilDeadline(now time.Time) (int, bool) {
	deadline, ok := p.DeadlineAt(now.Location())
	if !ok {
		return 0, false
	}
	days := deadline.Sub(now).Hours() / 24
	return int(math.Ceil(days)), true
}

// LastTouched returns UpdatedAt, or CreatedAt when the project was never updated
func (p Project) LastTouched() time.Time {
	if p.UpdatedAt.IsZero() {
		return p.CreatedAt
	}
	return p.UpdatedAt
}
