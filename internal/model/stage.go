package model

import "strings"

// Stage is the delivery stage of a project. Any stage may move to any other.
type Stage string

const (
	StagePlanning    Stage = "planning"
	StageDevelopment Stage = "development"
	StageTesting     Stage = "testing"
	StageStaging     Stage = "staging"
	StageProduction  Stage = "production"
	StageMaintenance Stage = "maintenance"
)

// StageAll is the filter sentinel that matches every stage
const StageAll Stage = "all"

// Stages lists the stages in board order
var Stages = []Stage{
	StagePlanning,
	StageDevelopment,
	StageTesting,
	StageStaging,
	StageProduction,
	StageMaintenance,
}

var stageLabels = map[Stage]string{
	StagePlanning:    "Planning",
	StageDevelopment: "Development",
	StageTesting:     "Testing",
	StageStaging:     "Staging",
	StageProduction:  "Production",
	StageMaintenance: "Maintenance",
	StageAll:         "All",
}

// Valid reports whether s is one of the six board stages
func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok && s != StageAll
}

// Label returns the display name of the stage
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStage converts user input to a Stage. Matching is case-insensitive
// and accepts either the value or the label.
func ParseStage(s string) (Stage, bool) {
	s = strings.TrimSpace(s)
	for st, label := range stageLabels {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, label) {
			return st, true
		}
	}
	return "", false
}

// Priority levels for projects
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists priorities from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the display name of the priority
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

// ParsePriority converts user input to a Priority
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// LanguageOptions is the fixed set of technologies a project can use
var LanguageOptions = []string{
	"React", "Vue.js", "Angular", "Node.js", "Python", "Java",
	"C#", "PHP", "Ruby", "Go", "React Native", "Flutter",
	"PostgreSQL", "MySQL", "MongoDB", "Firebase", "Express.js",
}

// IsLanguageOption reports whether lang is in LanguageOptions
func IsLanguageOption(lang string) bool {
	for _, opt := range LanguageOptions {
		if opt == lang {
			return true
		}
	}
	return false
}

// ParseLanguages splits a comma separated list, maps each entry onto its
// canonical option (case-insensitive) and drops duplicates. Unknown entries
// are kept verbatim so validation can report them.
func ParseLanguages(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, opt := range LanguageOptions {
			if strings.EqualFold(opt, part) {
				part = opt
				break
			}
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
