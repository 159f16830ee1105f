package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Offblink/Flow/internal/config"
	"github.com/Offblink/Flow/internal/status"
	"github.com/Offblink/Flow/internal/task"
)

var (
	styleOverdue  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleOngoing  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleUpcoming = lipgloss.NewStyle()
	styleDone     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleMeta     = lipgloss.NewStyle().Faint(true)
)

func styleFor(tier status.Tier) lipgloss.Style {
	switch tier {
	case status.TierOverdue:
		return styleOverdue
	case status.TierOngoing:
		return styleOngoing
	case status.TierDone:
		return styleDone
	default:
		return styleUpcoming
	}
}

func (m Model) View() string {
	var b strings.Builder

	title := "Flow (open tasks)"
	if m.view == viewDone {
		title = "Flow (completed tasks)"
	}
	b.WriteString(styleHeader.Render(title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		if m.view == viewOpen {
			b.WriteString("No open tasks. Press 'a' to add one.")
		} else {
			b.WriteString("Nothing completed yet.")
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows())
	}

	if m.view == viewDone {
		b.WriteString("\n")
		b.WriteString(styleMeta.Render(statsLine(m.list.Completed())))
		b.WriteString("\n")
	}

	b.WriteString("\n---\n")

	if m.form != nil {
		b.WriteString(m.renderForm())
	}

	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(styleMeta.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderRows() string {
	var b strings.Builder
	for i, t := range m.rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}

		row := status.Classify(t, m.now)
		line := fmt.Sprintf("%s %s %s", cursor, checkbox, t.Note)
		detail := fmt.Sprintf("  %s • %s • %s", row.Phrase, row.Weekday, row.DateLabel)

		b.WriteString(styleFor(row.Tier).Render(line + detail))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder
	if f.editID == 0 {
		b.WriteString("New task (tab/shift+tab to move, enter to advance, esc to cancel)\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Edit task #%d (tab/shift+tab to move, enter to advance, esc to cancel)\n\n", f.editID))
	}
	fields := formFields()
	values := []string{f.note, f.kind, f.start, f.end}
	for i, name := range fields {
		prefix := " "
		if i == f.index {
			prefix = ">"
		}
		val := values[i]
		if i == f.index {
			val = m.input.Value()
		}
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-38s : %s\n", prefix, name, val))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	return b.String()
}

func statsLine(completed []task.Task) string {
	s := status.Summary(completed)
	return fmt.Sprintf("%d completed • %d on time • %d early • %d late • %d without deadline",
		s.Total(), s.OnTime, s.Early, s.Late, s.Timeless)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s top of group • %s up in group • %s open/done • %s export • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.MoveTop, k.MoveUp, k.SwitchView, k.Export, k.Quit)
}
