package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/model"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeEdit
	ModeSearch
	ModeDetail
	ModeConfirmDelete
	ModeHelp
)

// ConfirmGate approves exactly the deletion the user confirmed in the TUI.
// Pass it to board.WithConfirmer when building the controller.
type ConfirmGate struct {
	mu sync.Mutex
	id string
}

// NewConfirmGate returns a gate that declines everything until approved
func NewConfirmGate() *ConfirmGate {
	return &ConfirmGate{}
}

func (g *ConfirmGate) approve(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

// Confirm consumes a matching approval
func (g *ConfirmGate) Confirm(p model.Project) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ok := g.id != "" && g.id == p.ID
	g.id = ""
	return ok
}

// Model is the main TUI model
type Model struct {
	ctrl *board.Controller
	gate *ConfirmGate
	ctx  context.Context
	log  *logger.Logger

	// Signals board changes made outside Update, e.g. notification expiry
	changes chan struct{}

	// UI state
	width  int
	height int
	mode   Mode
	cursor int

	form   projectForm
	search textinput.Model

	// Project awaiting delete confirmation
	pendingDelete model.Project

	busy    bool
	message string
}

// NewModel creates a TUI over ctrl. gate must be the controller's Confirmer.
func NewModel(ctx context.Context, ctrl *board.Controller, gate *ConfirmGate) Model {
	log := logger.Named("tui")
	log.Info("Initializing TUI model")

	si := textinput.New()
	si.Placeholder = "Search name, client or description..."
	si.CharLimit = 128
	si.Width = 50
	si.SetValue(ctrl.Search())

	m := Model{
		ctrl:    ctrl,
		gate:    gate,
		ctx:     ctx,
		log:     log,
		changes: make(chan struct{}, 1),
		mode:    ModeNormal,
		search:  si,
	}

	// Non-blocking so timer goroutines never wait on the UI
	ctrl.OnChange(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	log.Debug("TUI model initialized", logger.F("projects", len(ctrl.Projects())))
	return m
}

// visible returns the projects shown in the list
func (m Model) visible() []model.Project {
	return m.ctrl.Visible()
}

// current returns the project under the cursor
func (m Model) current() (model.Project, bool) {
	ps := m.visible()
	if m.cursor < 0 || m.cursor >= len(ps) {
		return model.Project{}, false
	}
	return ps[m.cursor], true
}

// clampCursor keeps the cursor inside the visible list
func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// stageOrder is the filter cycle shown as tabs
var stageOrder = append([]model.Stage{model.StageAll}, model.Stages...)

func (m *Model) cycleFilter(delta int) {
	cur := m.ctrl.Filter()
	i := 0
	for j, s := range stageOrder {
		if s == cur {
			i = j
			break
		}
	}
	next := stageOrder[(i+delta+len(stageOrder))%len(stageOrder)]
	m.ctrl.SetFilter(next)
	m.cursor = 0
}
