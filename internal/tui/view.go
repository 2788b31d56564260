package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)

	var body string
	switch m.mode {
	case ModeAdd, ModeEdit:
		body = m.place(bodyHeight, m.renderForm())
	case ModeDetail:
		body = m.place(bodyHeight, m.renderDetail())
	case ModeConfirmDelete:
		body = m.place(bodyHeight, m.renderConfirm())
	case ModeHelp:
		body = m.place(bodyHeight, m.renderHelp())
	default:
		body = m.renderList(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) place(height int, modal string) string {
	return lipgloss.Place(
		m.width, max(height, 1),
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderHeader() string {
	s := m.ctrl.Stats()
	card := func(label string, value string) string {
		return CardStyle.Render(HelpStyle.Render(label) + "\n" + CardValueStyle.Render(value))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Jato") +
		HelpStyle.Render("  "+time.Now().Format("Mon 02 Jan 15:04"))

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", fmt.Sprint(s.Total)),
		card("Development", fmt.Sprint(s.InDevelopment)),
		card("Production", fmt.Sprint(s.InProduction)),
		card("Avg progress", fmt.Sprintf("%d%%", s.AvgProgress)),
		card("Overdue", fmt.Sprint(s.Overdue)),
		card("Done this month", fmt.Sprint(s.CompletedThisMonth)),
	)

	var tabs []string
	filter := m.ctrl.Filter()
	for _, st := range stageOrder {
		style := TabStyle
		if st == filter {
			style = TabActiveStyle
		}
		tabs = append(tabs, style.Render(st.Label()))
	}

	parts := []string{HeaderStyle.Render(title), cards, lipgloss.JoinHorizontal(lipgloss.Top, tabs...)}
	if notes := m.renderNotifications(); notes != "" {
		parts = append(parts, notes)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderNotifications() string {
	var lines []string
	for _, n := range m.ctrl.Notifications() {
		lines = append(lines, NotificationStyle(n.Type).Render(clip(n.Message, m.width-4)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderList(height int) string {
	width := m.width - 4
	projects := m.visible()

	var s string
	header := fmt.Sprintf("%d project(s)", len(projects))
	if q := m.ctrl.Search(); q != "" {
		header += fmt.Sprintf(" matching %q", q)
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(rule(width-4)) + "\n"

	if len(projects) == 0 {
		s += HelpStyle.Render("  No projects. Press 'a' to add one.")
	}

	now := time.Now()
	nameWidth := max(width-70, 16)
	for i, p := range projects {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		due := p.Deadline
		if p.IsOverdue(now) {
			due = OverdueStyle.Render(p.Deadline + " !")
		}

		line := fmt.Sprintf("%s%-*s %-18s %-12s %-8s %s  %s",
			cursor,
			nameWidth, clip(p.Name, nameWidth),
			clip(p.Client, 18),
			FormatStage(p.Stage),
			FormatPriority(p.Priority),
			progressBar(p.Progress, 10),
			due)
		s += style.Render(line) + "\n"
	}

	return ListStyle.Width(m.width).Height(max(height, 1)).Render(s)
}

func (m Model) renderStatusBar() string {
	left := "a add  e edit  c duplicate  d delete  / search  ←/→ stage  ? help  q quit"
	if m.busy {
		left = "Working..."
	}
	if m.message != "" {
		left = m.message
	}

	right := "offline"
	if m.ctrl.HasBackend() {
		right = "connected"
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 1)
	return StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderForm() string {
	title := "New project"
	if m.form.editing {
		title = "Edit " + m.form.original.Name
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title) + "\n\n")
	for i, f := range m.form.fields {
		marker := "  "
		if i == m.form.focus {
			marker = "❯ "
		}
		b.WriteString(marker + LabelStyle.Render(f.label) + f.input.View() + "\n")
	}
	if m.form.err != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.form.err) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("tab next • ←/→ choose • enter save • esc cancel"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderDetail() string {
	p, ok := m.ctrl.Selected()
	if !ok {
		return ModalStyle.Render(HelpStyle.Render("Nothing selected"))
	}

	width := min(max(m.width-10, 30), 80)
	now := time.Now()
	row := func(label, value string) string {
		return LabelStyle.Render(label) + value + "\n"
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(wordwrap.String(p.Name, width-2)) + "\n\n")
	b.WriteString(row("Client", p.Client))
	b.WriteString(row("Stage", FormatStage(p.Stage)))
	b.WriteString(row("Priority", FormatPriority(p.Priority)))
	b.WriteString(row("Progress", progressBar(p.Progress, 20)))
	b.WriteString(row("Start", p.StartDate))

	due := p.Deadline
	if days, ok := p.DaysUntilDeadline(now); ok {
		switch {
		case p.IsOverdue(now):
			due = OverdueStyle.Render(fmt.Sprintf("%s (overdue)", p.Deadline))
		case days > 0:
			due = fmt.Sprintf("%s (in %d day(s))", p.Deadline, days)
		}
	}
	b.WriteString(row("Deadline", due))
	if len(p.Languages) > 0 {
		b.WriteString(row("Languages", strings.Join(p.Languages, ", ")))
	}
	b.WriteString("\n" + wordwrap.String(p.Description, width-2) + "\n\n")
	if !p.CreatedAt.IsZero() {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("created %s • updated %s",
			p.CreatedAt.Format("2006-01-02 15:04"), p.LastTouched().Format("2006-01-02 15:04"))) + "\n")
	}
	b.WriteString(HelpStyle.Render("e edit • esc close"))

	return ModalStyle.Width(width).Render(b.String())
}

func (m Model) renderConfirm() string {
	p := m.pendingDelete
	text := fmt.Sprintf("Delete %q (%s)?\n\nThis cannot be undone.\n\n", p.Name, p.Client)
	return DangerModalStyle.Render(text + HelpStyle.Render("y confirm • any other key cancels"))
}

func (m Model) renderHelp() string {
	bindings := []struct {
		key  string
		desc string
	}{
		{"↑/k ↓/j", "Move up/down"},
		{"g / G", "Go to top/bottom"},
		{"←/h →/l", "Previous/next stage filter"},
		{"enter", "Show project details"},
		{"a", "Add project"},
		{"e", "Edit project"},
		{"c", "Duplicate project"},
		{"d", "Delete project"},
		{"+ / -", "Progress ±10%"},
		{"/", "Search name, client, description"},
		{"esc", "Clear search"},
		{"x", "Dismiss newest notification"},
		{"R", "Reload from backend"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Keyboard shortcuts") + "\n\n")
	for _, kb := range bindings {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", kb.key, kb.desc))
	}
	b.WriteString("\n" + HelpStyle.Render("Press any key to close"))
	return ModalStyle.Render(b.String())
}
