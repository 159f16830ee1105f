package task

import (
	"fmt"
	"strings"
	"time"
)

// List owns the task collection for one user: the open tasks in master
// (insertion) order, the completed tasks, and the next id to issue.
// There is a single writer; every mutation runs to completion and the
// caller persists a full snapshot afterwards.
type List struct {
	open      []Task
	completed []Task
	nextID    int
}

func NewList(open, completed []Task, nextID int) *List {
	// nextID must outrank every id already present, whatever the
	// snapshot claims.
	for _, t := range open {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}
	for _, t := range completed {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}
	if nextID < 1 {
		nextID = 1
	}
	return &List{open: open, completed: completed, nextID: nextID}
}

// Open returns the open tasks in master order. The slice is a copy;
// the elements are values.
func (l *List) Open() []Task {
	out := make([]Task, len(l.open))
	copy(out, l.open)
	return out
}

func (l *List) Completed() []Task {
	out := make([]Task, len(l.completed))
	copy(out, l.completed)
	return out
}

func (l *List) NextID() int {
	return l.nextID
}

// Add validates and appends a new open task, issuing a fresh id.
func (l *List) Add(note string, kind Kind, start, end *time.Time, now time.Time) (Task, error) {
	note = strings.TrimSpace(note)
	if err := validate(note, kind, start, end); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        l.nextID,
		Note:      note,
		Kind:      kind,
		Start:     start,
		End:       end,
		CreatedAt: now,
	}
	l.nextID++
	l.open = append(l.open, t)
	return t, nil
}

// Edit replaces the note, kind and anchors of an open task in place.
// On validation failure the task is left exactly as it was.
func (l *List) Edit(id int, note string, kind Kind, start, end *time.Time) (Task, error) {
	idx := l.openIndex(id)
	if idx < 0 {
		return Task{}, fmt.Errorf("no open task #%d", id)
	}
	note = strings.TrimSpace(note)
	if err := validate(note, kind, start, end); err != nil {
		return Task{}, err
	}
	t := &l.open[idx]
	t.Note = note
	t.Kind = kind
	t.Start = start
	t.End = end
	return *t, nil
}

// Toggle flips completion. An open task moves to the completed set with
// DoneAt = now; a completed task moves back to the end of the master
// list with DoneAt cleared.
func (l *List) Toggle(id int, now time.Time) (Task, error) {
	if idx := l.openIndex(id); idx >= 0 {
		t := l.open[idx]
		t.Done = true
		at := now
		t.DoneAt = &at
		l.open = append(l.open[:idx], l.open[idx+1:]...)
		l.completed = append(l.completed, t)
		return t, nil
	}
	for idx, t := range l.completed {
		if t.ID == id {
			t.Done = false
			t.DoneAt = nil
			l.completed = append(l.completed[:idx], l.completed[idx+1:]...)
			l.open = append(l.open, t)
			return t, nil
		}
	}
	return Task{}, fmt.Errorf("no task #%d", id)
}

// Delete removes a task from whichever set holds it. Ids are never
// reissued afterwards.
func (l *List) Delete(id int) error {
	if idx := l.openIndex(id); idx >= 0 {
		l.open = append(l.open[:idx], l.open[idx+1:]...)
		return nil
	}
	for idx, t := range l.completed {
		if t.ID == id {
			l.completed = append(l.completed[:idx], l.completed[idx+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no task #%d", id)
}

func (l *List) openIndex(id int) int {
	for i, t := range l.open {
		if t.ID == id {
			return i
		}
	}
	return -1
}
