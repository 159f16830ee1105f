package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Offblink/Flow/internal/task"
)

// Persisted snapshot schema: one mapping per user with the open items,
// the completed items and the next id to issue. Anchors are local
// wall-clock strings or null.
type snapshot struct {
	TodoItems      []record `json:"todo_items"`
	CompletedItems []record `json:"completed_items"`
	NextID         int      `json:"next_id"`
}

type record struct {
	ID          int     `json:"id"`
	Note        string  `json:"note"`
	Kind        string  `json:"kind"`
	Anchor1     *string `json:"anchor1"`
	Anchor2     *string `json:"anchor2"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
	CreatedAt   string  `json:"created_at"`
}

func encodeSnapshot(open, completed []task.Task, nextID int) ([]byte, error) {
	snap := snapshot{
		TodoItems:      make([]record, 0, len(open)),
		CompletedItems: make([]record, 0, len(completed)),
		NextID:         nextID,
	}
	for _, t := range open {
		snap.TodoItems = append(snap.TodoItems, encodeRecord(t))
	}
	for _, t := range completed {
		snap.CompletedItems = append(snap.CompletedItems, encodeRecord(t))
	}
	return json.MarshalIndent(snap, "", "  ")
}

func encodeRecord(t task.Task) record {
	r := record{
		ID:        t.ID,
		Note:      t.Note,
		Kind:      t.Kind.String(),
		Completed: t.Done,
		CreatedAt: t.CreatedAt.Format(task.StampLayout),
	}
	if t.Start != nil {
		v := t.Start.Format(task.AnchorLayout)
		r.Anchor1 = &v
	}
	if t.End != nil {
		v := t.End.Format(task.AnchorLayout)
		r.Anchor2 = &v
	}
	if t.DoneAt != nil {
		v := t.DoneAt.Format(task.StampLayout)
		r.CompletedAt = &v
	}
	return r
}

// decodeSnapshot parses a persisted payload back into tasks, rejecting
// the whole snapshot on the first record that breaks an invariant. A
// partially-loaded task set is never returned.
func decodeSnapshot(payload []byte) (open, completed []task.Task, nextID int, err error) {
	var snap snapshot
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	for _, r := range snap.TodoItems {
		t, err := decodeRecord(r, false)
		if err != nil {
			return nil, nil, 0, err
		}
		open = append(open, t)
	}
	for _, r := range snap.CompletedItems {
		t, err := decodeRecord(r, true)
		if err != nil {
			return nil, nil, 0, err
		}
		completed = append(completed, t)
	}
	return open, completed, snap.NextID, nil
}

func decodeRecord(r record, wantDone bool) (task.Task, error) {
	kind, err := task.ParseKind(r.Kind)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: item %d: %v", ErrCorrupt, r.ID, err)
	}
	start, err := decodeStamp(r.Anchor1, task.AnchorLayout)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: item %d: anchor1: %v", ErrCorrupt, r.ID, err)
	}
	end, err := decodeStamp(r.Anchor2, task.AnchorLayout)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: item %d: anchor2: %v", ErrCorrupt, r.ID, err)
	}
	doneAt, err := decodeStamp(r.CompletedAt, task.StampLayout)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: item %d: completed_at: %v", ErrCorrupt, r.ID, err)
	}
	created, err := time.ParseInLocation(task.StampLayout, r.CreatedAt, time.Local)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: item %d: created_at: %v", ErrCorrupt, r.ID, err)
	}
	t := task.Task{
		ID:        r.ID,
		Note:      r.Note,
		Kind:      kind,
		Start:     start,
		End:       end,
		Done:      r.Completed,
		DoneAt:    doneAt,
		CreatedAt: created,
	}
	if err := checkRecord(t, wantDone); err != nil {
		return task.Task{}, fmt.Errorf("%w: item %d: %v", ErrCorrupt, r.ID, err)
	}
	return t, nil
}

func checkRecord(t task.Task, wantDone bool) error {
	if strings.TrimSpace(t.Note) == "" {
		return fmt.Errorf("empty note")
	}
	if t.Done != wantDone {
		return fmt.Errorf("completed flag does not match its list")
	}
	if t.Done != (t.DoneAt != nil) {
		return fmt.Errorf("completed flag and completed_at disagree")
	}
	switch t.Kind {
	case task.Instant:
		if t.Start == nil || t.End != nil {
			return fmt.Errorf("instant task needs exactly anchor1")
		}
	case task.Spanning:
		if t.Start == nil || t.End == nil {
			return fmt.Errorf("spanning task needs both anchors")
		}
		if !t.End.After(*t.Start) {
			return fmt.Errorf("anchor2 not after anchor1")
		}
	case task.Timeless:
		if t.Start != nil || t.End != nil {
			return fmt.Errorf("timeless task cannot have anchors")
		}
	}
	return nil
}

func decodeStamp(v *string, layout string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := time.ParseInLocation(layout, *v, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
