package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Offblink/Flow/internal/task"
)

// formState walks the add/edit fields one at a time through the shared
// text input, the same way the metadata editor works elsewhere in the
// charm ecosystem: tab moves, enter advances, the last enter saves.
type formState struct {
	editID int // 0 means adding a new task
	note   string
	kind   string
	start  string
	end    string
	index  int
}

func formFields() []string {
	return []string{
		"note",
		"kind (instant/spanning/timeless)",
		"due or start date (YYYY-MM-DD [HH:MM])",
		"end date (spanning only)",
	}
}

func (f formState) currentLabel() string {
	return formFields()[f.index]
}

func (f formState) currentValue() string {
	switch f.index {
	case 0:
		return f.note
	case 1:
		return f.kind
	case 2:
		return f.start
	case 3:
		return f.end
	default:
		return ""
	}
}

func (f *formState) setCurrentValue(v string) {
	switch f.index {
	case 0:
		f.note = v
	case 1:
		f.kind = v
	case 2:
		f.start = v
	case 3:
		f.end = v
	}
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	f := &formState{kind: task.Timeless.String()}
	if t != nil {
		f.editID = t.ID
		f.note = t.Note
		f.kind = t.Kind.String()
		f.start = task.FormatAnchor(t.Start)
		f.end = task.FormatAnchor(t.End)
	}
	m.form = f
	m.mode = modeForm
	m.input.SetValue(f.currentValue())
	m.input.Placeholder = f.currentLabel()
	m.input.Focus()
	if t == nil {
		m.status = "Add task: enter to advance, esc to cancel"
	} else {
		m.status = fmt.Sprintf("Editing task #%d: enter to advance, esc to cancel", t.ID)
	}
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index < len(formFields())-1 {
			m.form.index++
			m.input.SetValue(m.form.currentValue())
			m.input.Placeholder = m.form.currentLabel()
			return m, nil
		}
		return m.saveForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// saveForm validates and applies the pending add or edit. A rejected
// mutation leaves both the task list and the form untouched so the
// user can fix the input.
func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form
	kind, err := task.ParseKind(f.kind)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	start, err := task.ParseAnchor(f.start)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	end, err := task.ParseAnchor(f.end)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	var saved task.Task
	if f.editID == 0 {
		saved, err = m.list.Add(f.note, kind, start, end, m.now)
	} else {
		saved, err = m.list.Edit(f.editID, f.note, kind, start, end)
	}
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.refreshRows()
	for i, t := range m.rows {
		if t.ID == saved.ID {
			m.cursor = clampCursor(i, len(m.rows))
			break
		}
	}
	if f.editID == 0 {
		m.persist("Added task")
	} else {
		m.persist("Saved task")
	}
	return m, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
