package tui

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kallinyester/jato/internal/model"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldStage
	fieldPriority
	fieldNumber
)

const (
	fName = iota
	fClient
	fDescription
	fLanguages
	fStage
	fPriority
	fStartDate
	fDeadline
	fProgress
)

type formField struct {
	label string
	kind  fieldKind
	input textinput.Model
}

// projectForm is the add/edit modal. The progress field only exists when editing.
type projectForm struct {
	fields   []formField
	focus    int
	editing  bool
	original model.Project
	err      string
}

func newField(label, placeholder string, kind fieldKind) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	return formField{label: label, kind: kind, input: ti}
}

func newProjectForm() projectForm {
	f := projectForm{
		fields: []formField{
			newField("Name", "Project name", fieldText),
			newField("Client", "Client name", fieldText),
			newField("Description", "What is being built", fieldText),
			newField("Languages", "React, Node.js, ...", fieldText),
			newField("Stage", "←/→ to choose", fieldStage),
			newField("Priority", "←/→ to choose", fieldPriority),
			newField("Start", model.DateLayout, fieldText),
			newField("Deadline", model.DateLayout, fieldText),
		},
	}
	f.fields[fStage].input.SetValue(model.StagePlanning.Label())
	f.fields[fPriority].input.SetValue(model.PriorityMedium.Label())
	f.fields[fName].input.Focus()
	return f
}

func editProjectForm(p model.Project) projectForm {
	f := newProjectForm()
	f.editing = true
	f.original = p.Clone()
	f.fields = append(f.fields, newField("Progress", "0-100", fieldNumber))

	f.fields[fName].input.SetValue(p.Name)
	f.fields[fClient].input.SetValue(p.Client)
	f.fields[fDescription].input.SetValue(p.Description)
	f.fields[fLanguages].input.SetValue(strings.Join(p.Languages, ", "))
	f.fields[fStage].input.SetValue(p.Stage.Label())
	f.fields[fPriority].input.SetValue(p.Priority.Label())
	f.fields[fStartDate].input.SetValue(p.StartDate)
	f.fields[fDeadline].input.SetValue(p.Deadline)
	f.fields[fProgress].input.SetValue(strconv.Itoa(p.Progress))
	f.fields[fName].input.CursorEnd()
	return f
}

func (f *projectForm) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *projectForm) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// cycle steps a stage or priority field through its options
func (f *projectForm) cycle(delta int) bool {
	fld := &f.fields[f.focus]
	switch fld.kind {
	case fieldStage:
		cur, _ := model.ParseStage(fld.input.Value())
		i := slices.Index(model.Stages, cur)
		next := model.Stages[(i+delta+len(model.Stages))%len(model.Stages)]
		fld.input.SetValue(next.Label())
	case fieldPriority:
		cur, _ := model.ParsePriority(fld.input.Value())
		i := slices.Index(model.Priorities, cur)
		next := model.Priorities[(i+delta+len(model.Priorities))%len(model.Priorities)]
		fld.input.SetValue(next.Label())
	default:
		return false
	}
	return true
}

// update routes a key to the focused input
func (f projectForm) update(msg tea.KeyMsg) (projectForm, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.move(1)
		return f, nil
	case "shift+tab", "up":
		f.move(-1)
		return f, nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		if f.cycle(delta) {
			return f, nil
		}
	}

	if k := f.fields[f.focus].kind; k == fieldStage || k == fieldPriority {
		return f, nil
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

// draft collects and validates the fields of a new project
func (f *projectForm) draft() (model.Draft, error) {
	stage, _ := model.ParseStage(f.value(fStage))
	priority, _ := model.ParsePriority(f.value(fPriority))
	d := model.Draft{
		Name:        f.value(fName),
		Client:      f.value(fClient),
		Description: f.value(fDescription),
		Languages:   model.ParseLanguages(f.value(fLanguages)),
		Stage:       stage,
		Priority:    priority,
		StartDate:   f.value(fStartDate),
		Deadline:    f.value(fDeadline),
	}
	if err := model.ValidateDraft(d); err != nil {
		return model.Draft{}, err
	}
	return d, nil
}

// changes returns an update holding only the fields that differ from the
// project being edited
func (f *projectForm) changes() (model.ProjectUpdate, error) {
	var u model.ProjectUpdate
	o := f.original

	setText := func(i int, old string, dst **string) {
		if v := f.value(i); v != old {
			*dst = &v
		}
	}
	setText(fName, o.Name, &u.Name)
	setText(fClient, o.Client, &u.Client)
	setText(fDescription, o.Description, &u.Description)
	setText(fStartDate, o.StartDate, &u.StartDate)
	setText(fDeadline, o.Deadline, &u.Deadline)

	if langs := model.ParseLanguages(f.value(fLanguages)); !slices.Equal(langs, o.Languages) {
		if langs == nil {
			langs = []string{}
		}
		u.Languages = &langs
	}
	if s, ok := model.ParseStage(f.value(fStage)); ok && s != o.Stage {
		u.Stage = &s
	}
	if p, ok := model.ParsePriority(f.value(fPriority)); ok && p != o.Priority {
		u.Priority = &p
	}
	if raw := f.value(fProgress); raw != strconv.Itoa(o.Progress) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return u, errors.New("progress must be a whole number")
		}
		u.Progress = &n
	}

	if err := model.ValidateUpdate(u); err != nil {
		return u, err
	}
	return u, nil
}

// firstProblem shortens a validation error to its first field
func firstProblem(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		fp := verr.Fields[0]
		return fp.Field + " " + fp.Problem
	}
	return err.Error()
}
