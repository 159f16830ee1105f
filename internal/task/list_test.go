package task

import (
	"errors"
	"testing"
	"time"
)

func date(day, hour, min int) *time.Time {
	t := time.Date(2025, time.June, day, hour, min, 0, 0, time.Local)
	return &t
}

func mustAdd(t *testing.T, l *List, note string, kind Kind, start, end *time.Time) Task {
	t.Helper()
	added, err := l.Add(note, kind, start, end, time.Date(2025, time.May, 1, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", note, err)
	}
	return added
}

func TestAddIssuesMonotonicIDs(t *testing.T) {
	l := NewList(nil, nil, 1)
	a := mustAdd(t, l, "first", Timeless, nil, nil)
	b := mustAdd(t, l, "second", Instant, date(1, 12, 0), nil)
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", a.ID, b.ID)
	}
	if err := l.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c := mustAdd(t, l, "third", Timeless, nil, nil)
	if c.ID != 3 {
		t.Errorf("id after delete = %d; want 3 (ids are never reused)", c.ID)
	}
}

func TestNewListRepairsNextID(t *testing.T) {
	open := []Task{{ID: 7, Note: "n", Kind: Timeless}}
	l := NewList(open, nil, 2)
	if got := l.NextID(); got != 8 {
		t.Fatalf("NextID = %d; want 8 (must exceed every stored id)", got)
	}
}

func TestAddValidation(t *testing.T) {
	cases := []struct {
		name  string
		note  string
		kind  Kind
		start *time.Time
		end   *time.Time
	}{
		{"empty note", "  ", Timeless, nil, nil},
		{"instant without due", "task", Instant, nil, nil},
		{"instant with end", "task", Instant, date(1, 12, 0), date(2, 12, 0)},
		{"spanning without end", "task", Spanning, date(1, 12, 0), nil},
		{"spanning end before start", "task", Spanning, date(2, 12, 0), date(1, 12, 0)},
		{"spanning end equals start", "task", Spanning, date(1, 12, 0), date(1, 12, 0)},
		{"timeless with date", "task", Timeless, date(1, 12, 0), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewList(nil, nil, 1)
			_, err := l.Add(tc.note, tc.kind, tc.start, tc.end, time.Now())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Add = %v; want ValidationError", err)
			}
			if len(l.Open()) != 0 {
				t.Errorf("rejected add still mutated the list")
			}
		})
	}
}

func TestEditRejectionLeavesTaskUnchanged(t *testing.T) {
	l := NewList(nil, nil, 1)
	orig := mustAdd(t, l, "pay rent", Spanning, date(1, 0, 0), date(5, 0, 0))

	_, err := l.Edit(orig.ID, "pay rent", Spanning, date(10, 0, 0), date(3, 0, 0))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Edit = %v; want ValidationError for end before start", err)
	}

	got := l.Open()[0]
	if !got.Start.Equal(*orig.Start) || !got.End.Equal(*orig.End) {
		t.Errorf("rejected edit changed anchors: %v..%v", got.Start, got.End)
	}
}

func TestEditChangesKindAndAnchors(t *testing.T) {
	l := NewList(nil, nil, 1)
	orig := mustAdd(t, l, "reading", Timeless, nil, nil)

	got, err := l.Edit(orig.ID, "reading", Spanning, date(1, 9, 0), date(8, 18, 0))
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Kind != Spanning || got.Start == nil || got.End == nil {
		t.Fatalf("edit did not apply: %+v", got)
	}
	if got.ID != orig.ID || !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("edit must not change id or creation time")
	}
}

func TestToggleMovesBetweenSets(t *testing.T) {
	l := NewList(nil, nil, 1)
	added := mustAdd(t, l, "laundry", Timeless, nil, nil)
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.Local)

	done, err := l.Toggle(added.ID, now)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !done.Done || done.DoneAt == nil || !done.DoneAt.Equal(now) {
		t.Fatalf("toggled task = %+v; want done with DoneAt = now", done)
	}
	if len(l.Open()) != 0 || len(l.Completed()) != 1 {
		t.Fatalf("open/completed = %d/%d; want 0/1", len(l.Open()), len(l.Completed()))
	}

	back, err := l.Toggle(added.ID, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Toggle back: %v", err)
	}
	if back.Done || back.DoneAt != nil {
		t.Fatalf("untoggled task = %+v; want not done with DoneAt cleared", back)
	}
	if len(l.Open()) != 1 || len(l.Completed()) != 0 {
		t.Fatalf("open/completed = %d/%d; want 1/0", len(l.Open()), len(l.Completed()))
	}
}

func TestDeleteUnknownID(t *testing.T) {
	l := NewList(nil, nil, 1)
	if err := l.Delete(42); err == nil {
		t.Fatal("Delete(42) on empty list should fail")
	}
}
