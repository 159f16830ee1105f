package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Offblink/Flow/internal/task"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "flow.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(v time.Time) *time.Time {
	return &v
}

func sampleTasks() (open, completed []task.Task) {
	start := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, time.June, 10, 18, 0, 0, 0, time.Local)
	created := time.Date(2025, time.May, 1, 8, 30, 15, 0, time.Local)
	doneAt := time.Date(2025, time.June, 9, 20, 0, 5, 0, time.Local)

	open = []task.Task{
		{ID: 1, Note: "write report", Kind: task.Instant, Start: ptr(start), CreatedAt: created},
		{ID: 2, Note: "conference", Kind: task.Spanning, Start: ptr(start), End: ptr(end), CreatedAt: created},
		{ID: 3, Note: "read more", Kind: task.Timeless, CreatedAt: created},
	}
	completed = []task.Task{
		{ID: 4, Note: "book flights", Kind: task.Instant, Start: ptr(end), Done: true, DoneAt: ptr(doneAt), CreatedAt: created},
	}
	return open, completed
}

func tasksEqual(a, b task.Task) bool {
	timeEq := func(x, y *time.Time) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return x.Equal(*y)
	}
	return a.ID == b.ID && a.Note == b.Note && a.Kind == b.Kind &&
		a.Done == b.Done && timeEq(a.Start, b.Start) && timeEq(a.End, b.End) &&
		timeEq(a.DoneAt, b.DoneAt) && a.CreatedAt.Equal(b.CreatedAt)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	open, completed := sampleTasks()

	if err := s.Save("alice", open, completed, 5); err != nil {
		t.Fatalf("Save: %v", err)
	}
	gotOpen, gotCompleted, nextID, err := s.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if nextID != 5 {
		t.Errorf("nextID = %d; want 5", nextID)
	}
	if len(gotOpen) != len(open) || len(gotCompleted) != len(completed) {
		t.Fatalf("got %d open, %d completed; want %d, %d",
			len(gotOpen), len(gotCompleted), len(open), len(completed))
	}
	for i := range open {
		if !tasksEqual(gotOpen[i], open[i]) {
			t.Errorf("open[%d] = %+v; want %+v", i, gotOpen[i], open[i])
		}
	}
	if !tasksEqual(gotCompleted[0], completed[0]) {
		t.Errorf("completed[0] = %+v; want %+v", gotCompleted[0], completed[0])
	}
}

func TestSaveReplacesWholeSnapshot(t *testing.T) {
	s := openTemp(t)
	open, completed := sampleTasks()
	if err := s.Save("alice", open, completed, 5); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save("alice", open[:1], nil, 6); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	gotOpen, gotCompleted, nextID, err := s.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(gotOpen) != 1 || len(gotCompleted) != 0 || nextID != 6 {
		t.Errorf("snapshot not fully replaced: %d open, %d completed, nextID %d",
			len(gotOpen), len(gotCompleted), nextID)
	}
}

func TestLoadMissingUserIsEmptyState(t *testing.T) {
	s := openTemp(t)
	open, completed, nextID, err := s.Load("nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(open) != 0 || len(completed) != 0 || nextID != 1 {
		t.Errorf("missing user = %d open, %d completed, nextID %d; want empty with nextID 1",
			len(open), len(completed), nextID)
	}
}

func TestSnapshotsAreKeyedPerUser(t *testing.T) {
	s := openTemp(t)
	open, completed := sampleTasks()
	if err := s.Save("alice", open, completed, 5); err != nil {
		t.Fatalf("Save: %v", err)
	}
	gotOpen, _, _, err := s.Load("bob")
	if err != nil {
		t.Fatalf("Load(bob): %v", err)
	}
	if len(gotOpen) != 0 {
		t.Errorf("bob sees alice's tasks")
	}
}

func TestLoadCorruptPayloadRejectsWholeSnapshot(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", "hello"},
		{"unknown kind", `{"todo_items":[{"id":1,"note":"n","kind":"weekly","anchor1":null,"anchor2":null,"completed":false,"completed_at":null,"created_at":"2025-05-01 08:30:15"}],"completed_items":[],"next_id":2}`},
		{"anchor2 before anchor1", `{"todo_items":[{"id":1,"note":"n","kind":"spanning","anchor1":"2025-06-10 09:00","anchor2":"2025-06-01 09:00","completed":false,"completed_at":null,"created_at":"2025-05-01 08:30:15"}],"completed_items":[],"next_id":2}`},
		{"completed flag without stamp", `{"todo_items":[],"completed_items":[{"id":1,"note":"n","kind":"timeless","anchor1":null,"anchor2":null,"completed":true,"completed_at":null,"created_at":"2025-05-01 08:30:15"}],"next_id":2}`},
		{"open item marked completed", `{"todo_items":[{"id":1,"note":"n","kind":"timeless","anchor1":null,"anchor2":null,"completed":true,"completed_at":"2025-05-02 10:00:00","created_at":"2025-05-01 08:30:15"}],"completed_items":[],"next_id":2}`},
		{"bad anchor format", `{"todo_items":[{"id":1,"note":"n","kind":"instant","anchor1":"tomorrow","anchor2":null,"completed":false,"completed_at":null,"created_at":"2025-05-01 08:30:15"}],"completed_items":[],"next_id":2}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := openTemp(t)
			_, err := s.db.Exec(`INSERT INTO snapshots (user_key, payload, updated_at) VALUES (?, ?, ?);`,
				"alice", tc.payload, "2025-05-01 08:30:15")
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			open, completed, nextID, err := s.Load("alice")
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Load = %v; want ErrCorrupt", err)
			}
			if len(open) != 0 || len(completed) != 0 || nextID != 1 {
				t.Errorf("corrupt load must not return partial state: %d open, %d completed, nextID %d",
					len(open), len(completed), nextID)
			}
		})
	}
}

func TestOneBadRecordRejectsEverything(t *testing.T) {
	// A valid item ahead of a broken one must not survive the load.
	payload := `{"todo_items":[` +
		`{"id":1,"note":"good","kind":"timeless","anchor1":null,"anchor2":null,"completed":false,"completed_at":null,"created_at":"2025-05-01 08:30:15"},` +
		`{"id":2,"note":"","kind":"timeless","anchor1":null,"anchor2":null,"completed":false,"completed_at":null,"created_at":"2025-05-01 08:30:15"}` +
		`],"completed_items":[],"next_id":3}`
	s := openTemp(t)
	if _, err := s.db.Exec(`INSERT INTO snapshots (user_key, payload, updated_at) VALUES (?, ?, ?);`,
		"alice", payload, "2025-05-01 08:30:15"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	open, _, _, err := s.Load("alice")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load = %v; want ErrCorrupt", err)
	}
	if len(open) != 0 {
		t.Errorf("partial load leaked %d tasks", len(open))
	}
}
