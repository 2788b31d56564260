package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kallinyester/jato/internal/model"
)

// Color palette
var (
	// Priority colors
	PriorityHigh   = lipgloss.Color("#FF6B6B") // Red
	PriorityMedium = lipgloss.Color("#FFE66D") // Yellow
	PriorityLow    = lipgloss.Color("#4ECDC4") // Blue

	// Notification colors
	NoteSuccess = lipgloss.Color("#95E1A3")
	NoteWarning = lipgloss.Color("#FFB347")
	NoteError   = lipgloss.Color("#FF6B6B")
	NoteInfo    = lipgloss.Color("#4ECDC4")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Overdue   = lipgloss.Color("#FF6B6B")
)

var stageColors = map[model.Stage]lipgloss.Color{
	model.StagePlanning:    lipgloss.Color("#A78BFA"),
	model.StageDevelopment: lipgloss.Color("#60A5FA"),
	model.StageTesting:     lipgloss.Color("#FFB347"),
	model.StageStaging:     lipgloss.Color("#F472B6"),
	model.StageProduction:  lipgloss.Color("#95E1A3"),
	model.StageMaintenance: lipgloss.Color("#6C757D"),
}

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Stat cards in the header
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	CardValueStyle = lipgloss.NewStyle().Bold(true)

	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(TextMuted)

	TabActiveStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(Primary).
			Underline(true)

	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	PriorityHighStyle   = lipgloss.NewStyle().Foreground(PriorityHigh).Bold(true)
	PriorityMediumStyle = lipgloss.NewStyle().Foreground(PriorityMedium)
	PriorityLowStyle    = lipgloss.NewStyle().Foreground(PriorityLow)

	OverdueStyle = lipgloss.NewStyle().Foreground(Overdue).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	DangerModalStyle = ModalStyle.
				BorderForeground(NoteError)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Width(12)

	ErrorStyle = lipgloss.NewStyle().Foreground(NoteError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// PriorityStyle returns the style for a given priority
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return PriorityHighStyle
	case model.PriorityMedium:
		return PriorityMediumStyle
	default:
		return PriorityLowStyle
	}
}

// FormatPriority returns a colored priority badge
func FormatPriority(p model.Priority) string {
	return PriorityStyle(p).Render(p.Label())
}

// FormatStage returns a colored stage label
func FormatStage(s model.Stage) string {
	c, ok := stageColors[s]
	if !ok {
		c = Secondary
	}
	return lipgloss.NewStyle().Foreground(c).Render(s.Label())
}

// NotificationStyle returns the style for a notification of type t
func NotificationStyle(t model.NotificationType) lipgloss.Style {
	c := NoteInfo
	switch t {
	case model.NotifySuccess:
		c = NoteSuccess
	case model.NotifyWarning:
		c = NoteWarning
	case model.NotifyError:
		c = NoteError
	}
	return lipgloss.NewStyle().
		Foreground(c).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(c).
		PaddingLeft(1)
}
