package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *board.Controller) {
	t.Helper()
	gate := NewConfirmGate()
	ctrl := board.New(board.WithConfirmer(gate), board.WithNotifyTTL(0))
	t.Cleanup(ctrl.Close)
	return NewModel(context.Background(), ctrl, gate), ctrl
}

func seed(t *testing.T, ctrl *board.Controller, name, client, description string) model.Project {
	t.Helper()
	p, err := ctrl.Add(context.Background(), model.Draft{
		Name:        name,
		Client:      client,
		Description: description,
		Languages:   []string{"React"},
		Stage:       model.StageDevelopment,
		Priority:    model.PriorityHigh,
		StartDate:   "2026-01-15",
		Deadline:    "2099-12-31",
	})
	require.NoError(t, err)
	return p
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

// finish runs a board operation command and feeds its result back
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(opDoneMsg)
	require.True(t, ok, "expected opDoneMsg, got %T", msg)
	require.NoError(t, done.err)
	next, _ := m.Update(done)
	return next.(Model)
}

func TestAddProjectThroughForm(t *testing.T) {
	m, ctrl := newTestModel(t)

	m, _ = press(m, "a")
	require.Equal(t, ModeAdd, m.mode)
	assert.True(t, ctrl.AddFormOpen())

	m.form.fields[fName].input.SetValue("E-commerce")
	m.form.fields[fClient].input.SetValue("TechStore")
	m.form.fields[fDescription].input.SetValue("Online store")
	m.form.fields[fLanguages].input.SetValue("react, node.js")
	m.form.fields[fStartDate].input.SetValue("2026-01-15")
	m.form.fields[fDeadline].input.SetValue("2026-03-30")

	m, cmd := press(m, "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.True(t, m.busy)
	m = finish(t, m, cmd)
	assert.False(t, m.busy)

	ps := ctrl.Projects()
	require.Len(t, ps, 1)
	assert.Equal(t, "E-commerce", ps[0].Name)
	assert.Equal(t, []string{"React", "Node.js"}, ps[0].Languages)
	assert.Equal(t, model.StagePlanning, ps[0].Stage)
	assert.Equal(t, model.PriorityMedium, ps[0].Priority)
	assert.Equal(t, 0, ps[0].Progress)
	assert.False(t, ctrl.AddFormOpen())
}

func TestAddFormReportsFirstProblem(t *testing.T) {
	m, ctrl := newTestModel(t)

	m, _ = press(m, "a")
	m, cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, ModeAdd, m.mode)
	assert.Equal(t, "name is required", m.form.err)
	assert.Empty(t, ctrl.Projects())

	m, _ = press(m, "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.False(t, ctrl.AddFormOpen())
}

func TestFormCyclesStageAndPriority(t *testing.T) {
	f := newProjectForm()
	f.focus = fStage
	f, _ = f.update(keyPress("right"))
	assert.Equal(t, model.StageDevelopment.Label(), f.value(fStage))
	f, _ = f.update(keyPress("left"))
	f, _ = f.update(keyPress("left"))
	assert.Equal(t, model.StageMaintenance.Label(), f.value(fStage))

	// Typing is ignored on choice fields
	f, _ = f.update(keyPress("x"))
	assert.Equal(t, model.StageMaintenance.Label(), f.value(fStage))

	f.focus = fPriority
	f, _ = f.update(keyPress("right"))
	assert.Equal(t, model.PriorityHigh.Label(), f.value(fPriority))
}

func TestEditFormSendsOnlyChangedFields(t *testing.T) {
	m, ctrl := newTestModel(t)
	p := seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	f := editProjectForm(p)
	u, err := f.changes()
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())

	f.fields[fProgress].input.SetValue("40")
	u, err = f.changes()
	require.NoError(t, err)
	require.NotNil(t, u.Progress)
	assert.Equal(t, 40, *u.Progress)
	assert.Nil(t, u.Name)
	assert.Nil(t, u.Languages)

	f.fields[fProgress].input.SetValue("lots")
	_, err = f.changes()
	assert.EqualError(t, err, "progress must be a whole number")

	m, _ = press(m, "e")
	require.Equal(t, ModeEdit, m.mode)
	editing, ok := ctrl.Editing()
	require.True(t, ok)
	assert.Equal(t, p.ID, editing.ID)

	m.form.fields[fProgress].input.SetValue("75")
	m, cmd := press(m, "enter")
	m = finish(t, m, cmd)

	got, err := ctrl.Project(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, got.Progress)
	assert.Equal(t, "CRM System", got.Name)
	_, ok = ctrl.Editing()
	assert.False(t, ok)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestEditWithoutChanges(t *testing.T) {
	m, ctrl := newTestModel(t)
	seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	m, _ = press(m, "e")
	m, cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "No changes", m.message)
	_, ok := ctrl.Editing()
	assert.False(t, ok)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, ctrl := newTestModel(t)
	seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	m, _ = press(m, "d")
	require.Equal(t, ModeConfirmDelete, m.mode)
	m, cmd := press(m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, "Delete cancelled", m.message)
	assert.Len(t, ctrl.Projects(), 1)

	m, _ = press(m, "d")
	m, cmd = press(m, "y")
	finish(t, m, cmd)
	assert.Empty(t, ctrl.Projects())
}

func TestConfirmGateApprovesOnce(t *testing.T) {
	g := NewConfirmGate()
	p := model.Project{ID: "7"}

	assert.False(t, g.Confirm(p))

	g.approve("7")
	assert.False(t, g.Confirm(model.Project{ID: "8"}))
	assert.False(t, g.Confirm(p), "a mismatched confirm consumes the approval")

	g.approve("7")
	assert.True(t, g.Confirm(p))
	assert.False(t, g.Confirm(p))
}

func TestDuplicateAndProgressKeys(t *testing.T) {
	m, ctrl := newTestModel(t)
	p := seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	m, cmd := press(m, "+")
	m = finish(t, m, cmd)
	got, _ := ctrl.Project(p.ID)
	assert.Equal(t, 10, got.Progress)

	m, cmd = press(m, "-")
	m = finish(t, m, cmd)
	m, cmd = press(m, "-")
	assert.Nil(t, cmd, "progress cannot go below zero")

	m, cmd = press(m, "c")
	finish(t, m, cmd)
	names := []string{}
	for _, q := range ctrl.Projects() {
		names = append(names, q.Name)
	}
	assert.ElementsMatch(t, []string{"CRM System", "CRM System (Copy)"}, names)
}

func TestBusyBlocksSecondOperation(t *testing.T) {
	m, ctrl := newTestModel(t)
	seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	m, cmd := press(m, "+")
	require.NotNil(t, cmd)
	m, cmd2 := press(m, "+")
	assert.Nil(t, cmd2)
	assert.Equal(t, "Still working...", m.message)
	finish(t, m, cmd)
}

func TestFilterTabsAndSearch(t *testing.T) {
	m, ctrl := newTestModel(t)
	seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")
	seed(t, ctrl, "E-commerce", "TechStore", "Online store")

	m, _ = press(m, "right")
	assert.Equal(t, model.StagePlanning, ctrl.Filter())
	assert.Empty(t, m.visible())
	m, _ = press(m, "left")
	m, _ = press(m, "left")
	assert.Equal(t, model.StageMaintenance, ctrl.Filter())
	m, _ = press(m, "right")
	assert.Equal(t, model.StageAll, ctrl.Filter())

	m, _ = press(m, "/")
	require.Equal(t, ModeSearch, m.mode)
	for _, r := range "acme" {
		m, _ = press(m, string(r))
	}
	assert.Equal(t, "acme", ctrl.Search())
	require.Len(t, m.visible(), 1)
	assert.Equal(t, "CRM System", m.visible()[0].Name)

	m, _ = press(m, "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, `1 match(es) for "acme"`, m.message)

	m, _ = press(m, "esc")
	assert.Empty(t, ctrl.Search())
	assert.Len(t, m.visible(), 2)
}

func TestDetailSelectsProject(t *testing.T) {
	m, ctrl := newTestModel(t)
	p := seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	m, _ = press(m, "enter")
	require.Equal(t, ModeDetail, m.mode)
	sel, ok := ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, p.ID, sel.ID)

	m, _ = press(m, "esc")
	assert.Equal(t, ModeNormal, m.mode)
	_, ok = ctrl.Selected()
	assert.False(t, ok)
}

func TestRefreshWithoutBackend(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(m, "r")
	assert.Nil(t, cmd)
	assert.Contains(t, m.message, "Not logged in")
}

func TestBoardChangesReachTheModel(t *testing.T) {
	m, ctrl := newTestModel(t)
	seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")

	// Drain the signal from seeding, then expect a fresh one
	msg := m.waitForChange()()
	assert.IsType(t, boardChangedMsg{}, msg)

	ctrl.Notify("Saved elsewhere", model.NotifyInfo)
	msg = m.waitForChange()()
	assert.IsType(t, boardChangedMsg{}, msg)

	m, _ = press(m, "x")
	assert.Len(t, ctrl.Notifications(), 1)
}

func TestViewRendersBoard(t *testing.T) {
	m, ctrl := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	seed(t, ctrl, "CRM System", "Acme", "Sales pipeline")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "CRM System")
	assert.Contains(t, out, "1 project(s)")
	assert.Contains(t, out, "Project created")

	m, _ = press(m, "?")
	assert.Equal(t, ModeHelp, m.mode)
	assert.NotEmpty(t, m.View())
}

func TestDetailOmitsUnknownTimestamps(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.Load([]model.Project{{
		ID: "42", Name: "Loaded", Client: "Acme", Description: "From the backend",
		Stage: model.StageProduction, Priority: model.PriorityLow, Deadline: "2024-03-01",
	}})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = next.(Model)

	m, _ = press(m, "enter")
	require.Equal(t, ModeDetail, m.mode)
	out := m.View()
	assert.Contains(t, out, "From the backend")
	assert.NotContains(t, out, "0001-01-01")
	assert.NotContains(t, out, "created")
}
