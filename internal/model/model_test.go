package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Name:        "E-commerce Premium",
		Client:      "TechCorp Solutions",
		Description: "Storefront with integrated payments",
		Languages:   []string{"React", "Node.js", "PostgreSQL"},
		Stage:       StageDevelopment,
		Priority:    PriorityHigh,
		StartDate:   "2026-01-15",
		Deadline:    "2026-03-30",
	}
}

func TestValidateDraft(t *testing.T) {
	require.NoError(t, ValidateDraft(validDraft()))

	tests := []struct {
		name   string
		mutate func(d *Draft)
		field  string
	}{
		{"missing name", func(d *Draft) { d.Name = "" }, "name"},
		{"missing client", func(d *Draft) { d.Client = "" }, "client"},
		{"missing description", func(d *Draft) { d.Description = "" }, "description"},
		{"unknown stage", func(d *Draft) { d.Stage = "shipping" }, "stage"},
		{"unknown priority", func(d *Draft) { d.Priority = "urgent" }, "priority"},
		{"bad deadline", func(d *Draft) { d.Deadline = "30/03/2026" }, "deadline"},
		{"missing start date", func(d *Draft) { d.StartDate = "" }, "start_date"},
		{"unknown language", func(d *Draft) { d.Languages = []string{"COBOL"} }, "languages[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := ValidateDraft(d)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	progress := 50
	stage := StageTesting
	assert.NoError(t, ValidateUpdate(ProjectUpdate{Progress: &progress, Stage: &stage}))
	assert.NoError(t, ValidateUpdate(ProjectUpdate{}))

	tooMuch := 101
	err := ValidateUpdate(ProjectUpdate{Progress: &tooMuch})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress must be between 0 and 100")

	empty := ""
	assert.Error(t, ValidateUpdate(ProjectUpdate{Name: &empty}))

	langs := []string{"Go", "Go"}
	err = ValidateUpdate(ProjectUpdate{Languages: &langs})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates")
}

func TestParseStage(t *testing.T) {
	s, ok := ParseStage("Development")
	assert.True(t, ok)
	assert.Equal(t, StageDevelopment, s)

	s, ok = ParseStage("all")
	assert.True(t, ok)
	assert.Equal(t, StageAll, s)
	assert.False(t, s.Valid())

	_, ok = ParseStage("done")
	assert.False(t, ok)
}

func TestParseLanguages(t *testing.T) {
	got := ParseLanguages("react, node.js ,React,, Go")
	assert.Equal(t, []string{"React", "Node.js", "Go"}, got)
	assert.Nil(t, ParseLanguages(""))
}

func TestProjectApplyPartial(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	p := NewProject("p1", validDraft(), now)
	assert.Equal(t, 0, p.Progress)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	progress := 40
	p.Apply(ProjectUpdate{Progress: &progress})
	assert.Equal(t, 40, p.Progress)
	assert.Equal(t, "E-commerce Premium", p.Name)
	assert.Equal(t, StageDevelopment, p.Stage)
}

func TestProjectDeadlineHelpers(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	p := Project{Stage: StageTesting, Deadline: "2026-10-14"}
	assert.True(t, p.IsOverdue(now))

	p.Stage = StageProduction
	assert.False(t, p.IsOverdue(now))

	p.Deadline = "2026-10-18"
	days, ok := p.DaysUntilDeadline(now)
	require.True(t, ok)
	assert.Equal(t, 3, days)

	p.Deadline = ""
	_, ok = p.DaysUntilDeadline(now)
	assert.False(t, ok)
}

func TestCloneDoesNotShareLanguages(t *testing.T) {
	p := Project{Languages: []string{"Go"}}
	c := p.Clone()
	c.Languages[0] = "Ruby"
	assert.Equal(t, "Go", p.Languages[0])
}
