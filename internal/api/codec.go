package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kallinyester/jato/internal/model"
)

// The backend stores stages and priorities with Portuguese values.
var (
	stageToWire = map[model.Stage]string{
		model.StagePlanning:    "planejamento",
		model.StageDevelopment: "desenvolvimento",
		model.StageTesting:     "testes",
		model.StageStaging:     "homologacao",
		model.StageProduction:  "producao",
		model.StageMaintenance: "manutencao",
	}
	priorityToWire = map[model.Priority]string{
		model.PriorityLow:    "baixa",
		model.PriorityMedium: "media",
		model.PriorityHigh:   "alta",
	}
)

func encodeStage(s model.Stage) string {
	if w, ok := stageToWire[s]; ok {
		return w
	}
	return string(s)
}

func decodeStage(w string) model.Stage {
	for s, v := range stageToWire {
		if v == w {
			return s
		}
	}
	if s, ok := model.ParseStage(w); ok && s.Valid() {
		return s
	}
	return model.StagePlanning
}

func encodePriority(p model.Priority) string {
	if w, ok := priorityToWire[p]; ok {
		return w
	}
	return string(p)
}

func decodePriority(w string) model.Priority {
	for p, v := range priorityToWire {
		if v == w {
			return p
		}
	}
	if p, ok := model.ParsePriority(w); ok {
		return p
	}
	return model.PriorityMedium
}

// wireID accepts integer or string IDs
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid project id %s: %w", b, err)
	}
	*id = wireID(n.String())
	return nil
}

// wireTechnologies accepts a JSON list or a comma separated string
type wireTechnologies []string

func (t *wireTechnologies) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = wireTechnologies(model.ParseLanguages(s))
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

// wireProject mirrors the backend's ProjectOut schema
type wireProject struct {
	ID           wireID           `json:"id"`
	Name         string           `json:"name"`
	Client       string           `json:"client"`
	Description  *string          `json:"description"`
	Stage        *string          `json:"stage"`
	Progress     *float64         `json:"progress"`
	StartDate    *string          `json:"start_date"`
	Deadline     *string          `json:"deadline"`
	Priority     *string          `json:"priority"`
	Technologies wireTechnologies `json:"technologies"`
}

func (w wireProject) toModel() model.Project {
	p := model.Project{
		ID:        string(w.ID),
		Name:      w.Name,
		Client:    w.Client,
		Languages: []string(w.Technologies),
		Stage:     model.StagePlanning,
		Priority:  model.PriorityMedium,
	}
	if w.Description != nil {
		p.Description = *w.Description
	}
	if w.Stage != nil {
		p.Stage = decodeStage(*w.Stage)
	}
	if w.Priority != nil {
		p.Priority = decodePriority(*w.Priority)
	}
	if w.Progress != nil {
		p.Progress = clampProgress(int(math.Round(*w.Progress)))
	}
	if w.StartDate != nil {
		p.StartDate = *w.StartDate
	}
	if w.Deadline != nil {
		p.Deadline = *w.Deadline
	}
	return p
}

func clampProgress(n int) int {
	return min(max(n, 0), 100)
}

// wireCreate is the body of POST /projects/
type wireCreate struct {
	Name         string   `json:"name"`
	Client       string   `json:"client"`
	Description  string   `json:"description"`
	Stage        string   `json:"stage"`
	Progress     float64  `json:"progress"`
	StartDate    string   `json:"start_date,omitempty"`
	Deadline     string   `json:"deadline,omitempty"`
	Priority     string   `json:"priority"`
	Technologies []string `json:"technologies"`
}

func createBody(d model.Draft) wireCreate {
	techs := d.Languages
	if techs == nil {
		techs = []string{}
	}
	return wireCreate{
		Name:         d.Name,
		Client:       d.Client,
		Description:  d.Description,
		Stage:        encodeStage(d.Stage),
		Progress:     0,
		StartDate:    d.StartDate,
		Deadline:     d.Deadline,
		Priority:     encodePriority(d.Priority),
		Technologies: techs,
	}
}

// wireUpdate is the partial body of PUT /projects/{id}; unset fields are omitted
type wireUpdate struct {
	Name         *string   `json:"name,omitempty"`
	Client       *string   `json:"client,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Stage        *string   `json:"stage,omitempty"`
	Progress     *float64  `json:"progress,omitempty"`
	StartDate    *string   `json:"start_date,omitempty"`
	Deadline     *string   `json:"deadline,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
}

func updateBody(u model.ProjectUpdate) wireUpdate {
	w := wireUpdate{
		Name:         u.Name,
		Client:       u.Client,
		Description:  u.Description,
		StartDate:    u.StartDate,
		Deadline:     u.Deadline,
		Technologies: u.Languages,
	}
	if u.Stage != nil {
		s := encodeStage(*u.Stage)
		w.Stage = &s
	}
	if u.Priority != nil {
		p := encodePriority(*u.Priority)
		w.Priority = &p
	}
	if u.Progress != nil {
		f := float64(*u.Progress)
		w.Progress = &f
	}
	return w
}

// errorBody is FastAPI's error envelope
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorBody) text() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(e.Detail))
}
