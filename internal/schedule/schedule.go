// Package schedule orders tasks for display: open tasks by urgency
// tier, completed tasks by most recent completion.
package schedule

import (
	"sort"
	"time"

	"github.com/Offblink/Flow/internal/task"
)

const (
	tierOverdue = iota
	tierOngoing
	tierUpcoming
)

// sortKey is the (tier, timestamp) pair an open task sorts on.
// Timeless tasks get the far-future sentinel so they trail every timed
// upcoming task.
func sortKey(t task.Task, now time.Time) (int, time.Time) {
	switch t.Kind {
	case task.Instant:
		due := *t.Start
		if now.After(due) {
			return tierOverdue, due
		}
		return tierUpcoming, due
	case task.Spanning:
		start, end := *t.Start, *t.End
		switch {
		case now.After(end):
			return tierOverdue, end
		case now.Before(start):
			return tierUpcoming, start
		default:
			return tierOngoing, end
		}
	default:
		return tierUpcoming, sentinel
	}
}

// sentinel sorts after any real timestamp a task could carry.
var sentinel = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Order sorts open tasks for display: overdue first (earliest due
// first), then ongoing spans (soonest-ending first), then everything
// not yet due, with timeless tasks last. The sort is stable, so tasks
// with equal keys keep their master-list order.
func Order(open []task.Task, now time.Time) []task.Task {
	out := make([]task.Task, len(open))
	copy(out, open)
	sort.SliceStable(out, func(i, j int) bool {
		ti, ki := sortKey(out[i], now)
		tj, kj := sortKey(out[j], now)
		if ti != tj {
			return ti < tj
		}
		return ki.Before(kj)
	})
	return out
}

// OrderCompleted sorts completed tasks most recently completed first.
func OrderCompleted(completed []task.Task) []task.Task {
	out := make([]task.Task, len(completed))
	copy(out, completed)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DoneAt, out[j].DoneAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return out
}
