package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/model"
)

// boardChangedMsg is sent when the board changed outside of Update
type boardChangedMsg struct{}

// opDoneMsg carries the result of a board operation run as a command
type opDoneMsg struct {
	op  string
	err error
}

// Init loads the board from the backend, if any, and starts listening for changes
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	if m.ctrl.HasBackend() {
		cmds = append(cmds, m.run("refresh", func() error { return m.ctrl.Refresh(m.ctx) }))
	}
	return tea.Batch(cmds...)
}

// waitForChange listens for board change signals
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return boardChangedMsg{}
	}
}

// run executes a board operation off the UI loop; backend calls may block
func (m Model) run(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn()}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardChangedMsg:
		m.clampCursor()
		return m, m.waitForChange()

	case opDoneMsg:
		m.busy = false
		m.clampCursor()
		if msg.err != nil {
			m.log.Warn("Board operation failed", logger.F("op", msg.op), logger.F("error", msg.err.Error()))
			if errors.Is(msg.err, board.ErrProjectNotFound) {
				m.message = "Project no longer exists"
			}
			return m, nil
		}
		m.message = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAdd, ModeEdit:
			return m.updateForm(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeDetail:
			return m.updateDetail(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case msg.String() == "G":
		m.cursor = len(m.visible()) - 1
		m.clampCursor()

	case msg.String() == "g":
		m.cursor = 0

	case key.Matches(msg, keys.Left):
		m.cycleFilter(-1)

	case key.Matches(msg, keys.Right):
		m.cycleFilter(1)

	case key.Matches(msg, keys.Enter):
		if p, ok := m.current(); ok {
			if err := m.ctrl.Select(p.ID); err == nil {
				m.mode = ModeDetail
			}
		}

	case key.Matches(msg, keys.Add):
		return m.startAdd()

	case key.Matches(msg, keys.Edit):
		return m.startEdit()

	case key.Matches(msg, keys.Duplicate):
		if p, ok := m.current(); ok {
			return m.startOp("duplicate", func() error {
				_, err := m.ctrl.Duplicate(m.ctx, p)
				return err
			})
		}

	case key.Matches(msg, keys.Delete):
		if p, ok := m.current(); ok {
			m.pendingDelete = p
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, keys.Progress):
		return m.bumpProgress(msg.String())

	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Escape):
		if m.ctrl.Search() != "" {
			m.search.SetValue("")
			m.ctrl.SetSearch("")
			m.cursor = 0
			m.message = "Search cleared"
		}

	case key.Matches(msg, keys.Dismiss):
		if notes := m.ctrl.Notifications(); len(notes) > 0 {
			m.ctrl.Dismiss(notes[0].ID)
		}

	case key.Matches(msg, keys.Refresh):
		if !m.ctrl.HasBackend() {
			m.message = "Not logged in - use 'jato auth login' first"
			return m, nil
		}
		return m.startOp("refresh", func() error { return m.ctrl.Refresh(m.ctx) })

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

// startOp marks the UI busy and runs fn as a command
func (m Model) startOp(op string, fn func() error) (tea.Model, tea.Cmd) {
	if m.busy {
		m.message = "Still working..."
		return m, nil
	}
	m.busy = true
	return m, m.run(op, fn)
}

func (m Model) bumpProgress(dir string) (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	step := 10
	if dir == "-" {
		step = -10
	}
	next := min(max(p.Progress+step, 0), 100)
	if next == p.Progress {
		return m, nil
	}
	return m.startOp("progress", func() error {
		_, err := m.ctrl.Update(m.ctx, p.ID, model.ProjectUpdate{Progress: &next})
		return err
	})
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	m.ctrl.OpenAddForm()
	m.form = newProjectForm()
	m.mode = ModeAdd
	return m, textinput.Blink
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	if err := m.ctrl.StartEdit(p.ID); err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.form = editProjectForm(p)
	m.mode = ModeEdit
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		if m.mode == ModeAdd {
			m.ctrl.CloseAddForm()
		} else {
			m.ctrl.CancelEdit()
		}
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.mode == ModeAdd {
		d, err := m.form.draft()
		if err != nil {
			m.form.err = firstProblem(err)
			return m, nil
		}
		m.mode = ModeNormal
		return m.startOp("add", func() error {
			_, err := m.ctrl.Add(m.ctx, d)
			return err
		})
	}

	u, err := m.form.changes()
	if err != nil {
		m.form.err = firstProblem(err)
		return m, nil
	}
	m.mode = ModeNormal
	if u.IsEmpty() {
		m.ctrl.CancelEdit()
		m.message = "No changes"
		return m, nil
	}
	id := m.form.original.ID
	return m.startOp("update", func() error {
		_, err := m.ctrl.Update(m.ctx, id, u)
		return err
	})
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.search.SetValue("")
		m.ctrl.SetSearch("")
		m.search.Blur()
		m.mode = ModeNormal
		m.cursor = 0
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.search.Blur()
		m.mode = ModeNormal
		if q := m.ctrl.Search(); q != "" {
			m.message = fmt.Sprintf("%d match(es) for %q", len(m.visible()), q)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter), msg.String() == "q":
		m.ctrl.ClearSelection()
		m.mode = ModeNormal
	case key.Matches(msg, keys.Edit):
		m.ctrl.ClearSelection()
		m.mode = ModeNormal
		return m.startEdit()
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.pendingDelete
	m.pendingDelete = model.Project{}
	m.mode = ModeNormal

	if !key.Matches(msg, keys.Confirm) {
		m.message = "Delete cancelled"
		return m, nil
	}

	if m.gate != nil {
		m.gate.approve(p.ID)
	}
	return m.startOp("delete", func() error {
		_, err := m.ctrl.Delete(m.ctx, p.ID)
		return err
	})
}
