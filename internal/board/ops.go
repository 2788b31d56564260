package board

import (
	"context"
	"fmt"

	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/model"
)

// Notification messages for successful mutations
const (
	MsgCreated    = "Project created"
	MsgUpdated    = "Project updated"
	MsgDeleted    = "Project deleted"
	MsgDuplicated = "Project duplicated"
)

// Add creates a project from d with progress 0 and fresh timestamps, appends
// it and closes the add form. Fields are validated by the caller.
func (c *Controller) Add(ctx context.Context, d model.Draft) (model.Project, error) {
	p, err := c.create(ctx, d)
	if err != nil {
		c.CloseAddForm()
		return model.Project{}, err
	}

	c.apply(func() {
		c.insertLocked(p)
		c.addFormOpen = false
		c.notifyLocked(MsgCreated, model.NotifySuccess, model.CategoryNone)
		c.deadlineCheckLocked()
	})
	c.log.Info("Project created", logger.F("id", p.ID), logger.F("name", p.Name))
	return p.Clone(), nil
}

// Duplicate adds a copy of src with a new ID, " (Copy)" appended to the name,
// progress 0 and fresh timestamps. Every other field is kept.
func (c *Controller) Duplicate(ctx context.Context, src model.Project) (model.Project, error) {
	d := src.Draft()
	d.Name += model.CopySuffix

	p, err := c.create(ctx, d)
	if err != nil {
		return model.Project{}, err
	}

	c.apply(func() {
		c.insertLocked(p)
		c.notifyLocked(MsgDuplicated, model.NotifySuccess, model.CategoryNone)
		c.deadlineCheckLocked()
	})
	c.log.Info("Project duplicated", logger.F("source", src.ID), logger.F("id", p.ID))
	return p.Clone(), nil
}

// create builds the new project, persisting it first when a backend is set
func (c *Controller) create(ctx context.Context, d model.Draft) (model.Project, error) {
	now := c.now()
	p := model.NewProject("", d, now)

	if c.backend != nil {
		saved, err := c.backend.CreateProject(ctx, d)
		if err != nil {
			return model.Project{}, c.backendFailed("create", err)
		}
		p.ID = saved.ID
	}
	if p.ID == "" {
		p.ID = c.newID()
	}
	return p, nil
}

// insertLocked appends p, replacing an existing project with the same ID
func (c *Controller) insertLocked(p model.Project) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.projects[i] = p
		return
	}
	c.projects = append(c.projects, p)
}

// Update merges the set fields of u into the project with id and refreshes
// its UpdatedAt. The edit form closes if it was editing this project.
func (c *Controller) Update(ctx context.Context, id string, u model.ProjectUpdate) (model.Project, error) {
	if _, ok := c.find(id); !ok {
		return model.Project{}, fmt.Errorf("update %s: %w", id, ErrProjectNotFound)
	}

	if c.backend != nil {
		if _, err := c.backend.UpdateProject(ctx, id, u); err != nil {
			return model.Project{}, c.backendFailed("update", err)
		}
	}

	var (
		updated model.Project
		missing bool
	)
	c.apply(func() {
		i := c.indexOf(id)
		if i < 0 {
			missing = true
			return
		}
		p := &c.projects[i]
		p.Apply(u)
		p.UpdatedAt = c.now()
		if p.UpdatedAt.Before(p.CreatedAt) {
			p.UpdatedAt = p.CreatedAt
		}
		updated = p.Clone()

		if c.editingID == id {
			c.editingID = ""
		}
		c.notifyLocked(MsgUpdated, model.NotifySuccess, model.CategoryNone)
		c.deadlineCheckLocked()
	})
	if missing {
		return model.Project{}, fmt.Errorf("update %s: %w", id, ErrProjectNotFound)
	}

	c.log.Info("Project updated", logger.F("id", id))
	return updated, nil
}

// Delete removes the project with id once the Confirmer approves. A declined
// confirmation returns false and changes nothing.
func (c *Controller) Delete(ctx context.Context, id string) (bool, error) {
	p, ok := c.find(id)
	if !ok {
		return false, fmt.Errorf("delete %s: %w", id, ErrProjectNotFound)
	}

	if c.confirm == nil || !c.confirm.Confirm(p) {
		c.log.Debug("Delete declined", logger.F("id", id))
		return false, nil
	}

	if c.backend != nil {
		if err := c.backend.DeleteProject(ctx, id); err != nil {
			return false, c.backendFailed("delete", err)
		}
	}

	c.apply(func() {
		if i := c.indexOf(id); i >= 0 {
			c.projects = append(c.projects[:i], c.projects[i+1:]...)
		}
		if c.selectedID == id {
			c.selectedID = ""
		}
		if c.editingID == id {
			c.editingID = ""
		}
		c.notifyLocked(MsgDeleted, model.NotifySuccess, model.CategoryNone)
		c.deadlineCheckLocked()
	})
	c.log.Info("Project deleted", logger.F("id", id), logger.F("name", p.Name))
	return true, nil
}

// Load replaces the collection with projects. Later duplicates of an ID are
// dropped, and selection or editing of a project that is gone is cleared.
func (c *Controller) Load(projects []model.Project) {
	c.apply(func() {
		seen := make(map[string]bool, len(projects))
		loaded := make([]model.Project, 0, len(projects))
		for _, p := range projects {
			if seen[p.ID] {
				c.log.Warn("Dropping duplicate project", logger.F("id", p.ID))
				continue
			}
			seen[p.ID] = true
			loaded = append(loaded, p.Clone())
		}
		c.projects = loaded

		if !seen[c.selectedID] {
			c.selectedID = ""
		}
		if !seen[c.editingID] {
			c.editingID = ""
		}
		c.deadlineCheckLocked()
	})
	c.log.Debug("Board loaded", logger.F("projects", len(projects)))
}

// Refresh reloads the collection from the backend
func (c *Controller) Refresh(ctx context.Context) error {
	if c.backend == nil {
		return ErrNoBackend
	}

	projects, err := c.backend.ListProjects(ctx, model.StageAll)
	if err != nil {
		return c.backendFailed("refresh", err)
	}

	// The backend does not send timestamps. Known projects keep theirs; the
	// others stay zero until they change here.
	known := make(map[string]model.Project)
	for _, p := range c.Projects() {
		known[p.ID] = p
	}
	for i := range projects {
		if old, ok := known[projects[i].ID]; ok && projects[i].CreatedAt.IsZero() {
			projects[i].CreatedAt = old.CreatedAt
			projects[i].UpdatedAt = old.UpdatedAt
		}
	}
	c.Load(projects)
	return nil
}

// backendFailed surfaces err as an error notification and returns it wrapped
func (c *Controller) backendFailed(op string, err error) error {
	c.log.Error("Backend call failed", logger.F("op", op), logger.F("error", err.Error()))
	c.apply(func() {
		c.notifyLocked(err.Error(), model.NotifyError, model.CategoryBackend)
	})
	return fmt.Errorf("%s project: %w", op, err)
}
