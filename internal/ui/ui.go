package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Offblink/Flow/internal/config"
	"github.com/Offblink/Flow/internal/schedule"
	"github.com/Offblink/Flow/internal/storage"
	"github.com/Offblink/Flow/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
)

type view int

const (
	viewOpen view = iota
	viewDone
)

// tickMsg drives the periodic refresh that keeps relative phrases
// current as real time advances.
type tickMsg time.Time

type Model struct {
	store   *storage.Store
	cfg     config.Config
	list    *task.List
	userKey string

	view       view
	rows       []task.Task // current display order
	cursor     int
	mode       mode
	form       *formState
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	now        time.Time
}

func Run(store *storage.Store, cfg config.Config) error {
	open, completed, nextID, err := store.Load(cfg.User)
	warning := ""
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			warning = fmt.Sprintf("Saved tasks could not be read and were discarded: %v", err)
			open, completed, nextID = nil, nil, 1
		} else {
			return err
		}
	}
	list := task.NewList(open, completed, nextID)

	ti := textinput.New()
	ti.Placeholder = "Task note"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:   store,
		cfg:     cfg,
		list:    list,
		userKey: cfg.User,
		input:   ti,
		now:     time.Now(),
		status:  "Press 'a' to add, space to toggle, 'T'/'u' to reorder within a group.",
	}
	if warning != "" {
		m.status = warning
	}
	m.refreshRows()

	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.cfg.RefreshSeconds) * time.Second
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		m.refreshRows()
		return m, m.tickCmd()
	case tea.KeyMsg:
		m.now = time.Now()
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// refreshRows recomputes the display order from current state and now.
// Nothing is cached between refreshes.
func (m *Model) refreshRows() {
	if m.view == viewOpen {
		m.rows = schedule.Order(m.list.Open(), m.now)
	} else {
		m.rows = schedule.OrderCompleted(m.list.Completed())
	}
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m *Model) selected() (task.Task, bool) {
	if len(m.rows) == 0 {
		return task.Task{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

// persist writes the full snapshot after a mutation. Failure is
// surfaced on the status line; in-memory state stays authoritative.
func (m *Model) persist(okStatus string) {
	err := m.store.Save(m.userKey, m.list.Open(), m.list.Completed(), m.list.NextID())
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v (changes kept in memory)", err)
		return
	}
	m.status = okStatus
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.rows) > 0 {
			m.cursor = clampCursor(m.cursor+1, len(m.rows))
		}
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.rows))
		}
	case m.cfg.Keys.SwitchView:
		if m.view == viewOpen {
			m.view = viewDone
		} else {
			m.view = viewOpen
		}
		m.cursor = 0
		m.refreshRows()
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		if m.view != viewOpen {
			m.status = "Completed tasks cannot be edited; toggle them open first"
			return m, nil
		}
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.list.Toggle(t.ID, m.now); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refreshRows()
		m.persist("Toggled task")
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Note)
	case m.cfg.Keys.MoveTop:
		m.reorder((*task.List).MoveToTop, "Moved to top of its group")
	case m.cfg.Keys.MoveUp:
		m.reorder((*task.List).MoveUpOne, "Moved up within its group")
	case m.cfg.Keys.Export:
		m.exportCompleted()
	}
	return m, nil
}

func (m *Model) reorder(move func(*task.List, int) bool, okStatus string) {
	if m.view != viewOpen {
		m.status = "Reordering applies to open tasks only"
		return
	}
	t, ok := m.selected()
	if !ok {
		return
	}
	if len(m.list.GroupOf(t.ID)) <= 1 {
		m.status = "No other tasks share this task's dates"
		return
	}
	if !move(m.list, t.ID) {
		m.status = "Already first in its group"
		return
	}
	m.refreshRows()
	m.persist(okStatus)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.list.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.refreshRows()
			m.persist("Deleted task")
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
