package board

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kallinyester/jato/internal/model"
)

// Stats summarises the whole collection, ignoring filter and search
type Stats struct {
	Total              int `json:"total"`
	InDevelopment      int `json:"in_development"`
	InProduction       int `json:"in_production"`
	AvgProgress        int `json:"avg_progress"`
	Overdue            int `json:"overdue"`
	CompletedThisMonth int `json:"completed_this_month"`
}

// List returns the projects in stage (every stage for model.StageAll) whose
// name, client or description contains search, case-insensitively.
// Insertion order is kept.
func (c *Controller) List(stage model.Stage, search string) []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked(stage, search)
}

// Visible lists the projects matching the current filter and search
func (c *Controller) Visible() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked(c.filter, c.search)
}

func (c *Controller) listLocked(stage model.Stage, search string) []model.Project {
	needle := strings.ToLower(search)
	out := []model.Project{}
	for _, p := range c.projects {
		if stage != "" && stage != model.StageAll && p.Stage != stage {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

func matches(p model.Project, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Client), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// Stats computes the dashboard figures at the current time
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	s := Stats{Total: len(c.projects)}
	sum := 0
	for _, p := range c.projects {
		sum += p.Progress
		switch p.Stage {
		case model.StageDevelopment:
			s.InDevelopment++
		case model.StageProduction:
			s.InProduction++
			if completedIn(p, now) {
				s.CompletedThisMonth++
			}
		}
		if p.IsOverdue(now) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.AvgProgress = int(math.Round(float64(sum) / float64(s.Total)))
	}
	return s
}

// completedIn reports whether p was last touched in now's calendar month.
// Projects loaded from the backend carry no timestamps; for those the
// deadline month stands in.
func completedIn(p model.Project, now time.Time) bool {
	touched := p.LastTouched()
	if touched.IsZero() {
		d, err := time.ParseInLocation(model.DateLayout, p.Deadline, now.Location())
		if err != nil {
			return false
		}
		touched = d
	}
	touched = touched.In(now.Location())
	return touched.Year() == now.Year() && touched.Month() == now.Month()
}

// Upcoming lists the unreleased projects whose deadline is at most the
// deadline window away and not yet reached
func (c *Controller) Upcoming() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upcomingLocked()
}

func (c *Controller) upcomingLocked() []model.Project {
	now := c.now()
	var out []model.Project
	for _, p := range c.projects {
		if p.Stage == model.StageProduction {
			continue
		}
		days, ok := p.DaysUntilDeadline(now)
		if ok && days > 0 && days <= c.windowDays {
			out = append(out, p.Clone())
		}
	}
	return out
}

// DeadlineCheck emits one warning for the upcoming deadlines unless a
// deadline warning is still active. It reports whether it emitted one.
// Every change to the collection runs it automatically.
func (c *Controller) DeadlineCheck() bool {
	var emitted bool
	c.apply(func() {
		emitted = c.deadlineCheckLocked()
	})
	return emitted
}

func (c *Controller) deadlineCheckLocked() bool {
	n := len(c.upcomingLocked())
	if n == 0 || c.notes.active(model.CategoryDeadline) {
		return false
	}
	c.notifyLocked(fmt.Sprintf("%d project(s) with upcoming deadline", n), model.NotifyWarning, model.CategoryDeadline)
	return true
}

// Notify adds a notification and returns it
func (c *Controller) Notify(message string, typ model.NotificationType) model.Notification {
	var n model.Notification
	c.apply(func() {
		n = c.notifyLocked(message, typ, model.CategoryNone)
	})
	return n
}

func (c *Controller) notifyLocked(message string, typ model.NotificationType, cat model.Category) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      typ,
		Category:  cat,
		CreatedAt: c.now(),
	}
	c.notes.push(n, func() { c.expire(n.ID) })
	return n
}

// expire is the timer callback; the notification may already be gone
func (c *Controller) expire(id string) {
	var removed bool
	c.apply(func() {
		removed = c.notes.remove(id)
	})
	if removed {
		c.log.Debug("Notification expired")
	}
}

// Dismiss removes a notification before it expires. Unknown IDs are ignored.
func (c *Controller) Dismiss(id string) {
	c.apply(func() {
		c.notes.remove(id)
	})
}

// Notifications returns the active notifications, newest first
func (c *Controller) Notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notes.list()
}

// Filter returns the current stage filter
func (c *Controller) Filter() model.Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter changes the stage filter. An empty stage means every stage.
func (c *Controller) SetFilter(s model.Stage) {
	if s == "" {
		s = model.StageAll
	}
	c.apply(func() { c.filter = s })
}

// Search returns the current search text
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// SetSearch changes the search text
func (c *Controller) SetSearch(q string) {
	c.apply(func() { c.search = q })
}

// Select marks the project with id as the one shown in detail
func (c *Controller) Select(id string) error {
	return c.pointAt(&c.selectedID, id)
}

// Selected returns the selected project, if any
func (c *Controller) Selected() (model.Project, bool) {
	return c.pointee(&c.selectedID)
}

// ClearSelection closes the detail view
func (c *Controller) ClearSelection() {
	c.apply(func() { c.selectedID = "" })
}

// StartEdit opens the edit form for the project with id
func (c *Controller) StartEdit(id string) error {
	return c.pointAt(&c.editingID, id)
}

// Editing returns the project in the edit form, if any
func (c *Controller) Editing() (model.Project, bool) {
	return c.pointee(&c.editingID)
}

// CancelEdit closes the edit form
func (c *Controller) CancelEdit() {
	c.apply(func() { c.editingID = "" })
}

// OpenAddForm shows the add form
func (c *Controller) OpenAddForm() {
	c.apply(func() { c.addFormOpen = true })
}

// CloseAddForm hides the add form
func (c *Controller) CloseAddForm() {
	c.apply(func() { c.addFormOpen = false })
}

// AddFormOpen reports whether the add form is shown
func (c *Controller) AddFormOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addFormOpen
}

func (c *Controller) pointAt(field *string, id string) error {
	var err error
	c.apply(func() {
		if c.indexOf(id) < 0 {
			err = fmt.Errorf("%s: %w", id, ErrProjectNotFound)
			return
		}
		*field = id
	})
	return err
}

func (c *Controller) pointee(field *string) (model.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *field == "" {
		return model.Project{}, false
	}
	i := c.indexOf(*field)
	if i < 0 {
		return model.Project{}, false
	}
	return c.projects[i].Clone(), true
}
