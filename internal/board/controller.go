// Package board holds the state of the project dashboard: the ordered project
// collection, the view state around it (stage filter, search, selection, open
// forms) and the transient notifications. Views read and mutate the board only
// through a Controller.
package board

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/model"
)

// Default notification and deadline settings
const (
	DefaultNotifyTTL      = 5 * time.Second
	DefaultNotifyLimit    = 5
	DefaultDeadlineWindow = 7
)

// Controller is the board's state container. It is safe for concurrent use;
// notification timers fire on their own goroutines.
type Controller struct {
	mu sync.Mutex

	projects    []model.Project
	filter      model.Stage
	search      string
	selectedID  string
	editingID   string
	addFormOpen bool

	notes *notifier

	backend    Backend
	confirm    Confirmer
	now        func() time.Time
	newID      func() string
	windowDays int
	onChange   func()
	log        *logger.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithBackend persists every mutation through b before applying it
func WithBackend(b Backend) Option {
	return func(c *Controller) { c.backend = b }
}

// WithConfirmer sets who approves deletions. Without one, deletions are declined.
func WithConfirmer(cf Confirmer) Option {
	return func(c *Controller) { c.confirm = cf }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithScheduler replaces the timer source used for notification expiry
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.notes.sched = s }
}

// WithNotifyTTL sets how long a notification stays active
func WithNotifyTTL(d time.Duration) Option {
	return func(c *Controller) { c.notes.ttl = d }
}

// WithNotifyLimit caps the number of active notifications
func WithNotifyLimit(n int) Option {
	return func(c *Controller) { c.notes.limit = n }
}

// WithDeadlineWindow sets how many days ahead a deadline counts as upcoming
func WithDeadlineWindow(days int) Option {
	return func(c *Controller) { c.windowDays = days }
}

// WithIDGenerator replaces the generator of local project IDs
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

// WithLogger sets the controller's logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates an empty board showing all stages
func New(opts ...Option) *Controller {
	c := &Controller{
		filter:     model.StageAll,
		now:        time.Now,
		newID:      newProjectID,
		windowDays: DefaultDeadlineWindow,
		log:        logger.Named("board"),
		notes: &notifier{
			ttl:   DefaultNotifyTTL,
			limit: DefaultNotifyLimit,
			sched: realScheduler{},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newProjectID returns a time-ordered UUIDv7, falling back to a random UUID
func newProjectID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// OnChange registers f to be called after every state change, including
// notification expiry. f runs without the controller lock held.
func (c *Controller) OnChange(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = f
}

// HasBackend reports whether mutations are persisted
func (c *Controller) HasBackend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend != nil
}

// Close stops all pending notification timers
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes.stopAll()
}

// apply runs fn under the lock and then notifies the change listener
func (c *Controller) apply(fn func()) {
	c.mu.Lock()
	fn()
	listener := c.onChange
	c.mu.Unlock()

	if listener != nil {
		listener()
	}
}

// indexOf returns the position of id in the collection, or -1
func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.projects, func(p model.Project) bool { return p.ID == id })
}

// find returns a copy of the project with id
func (c *Controller) find(id string) (model.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return model.Project{}, false
	}
	return c.projects[i].Clone(), true
}

// Project returns a copy of the project with id
func (c *Controller) Project(id string) (model.Project, error) {
	p, ok := c.find(id)
	if !ok {
		return model.Project{}, ErrProjectNotFound
	}
	return p, nil
}

// Projects returns a copy of the whole collection in insertion order
func (c *Controller) Projects() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAll(c.projects)
}

func cloneAll(ps []model.Project) []model.Project {
	out := make([]model.Project, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
