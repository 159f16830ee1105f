package task

import "time"

// sameGroup reports whether two open tasks share identical temporal
// anchors: all timeless tasks group together, instants by equal due
// moment, spans by equal start and end.
func sameGroup(a, b Task) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Timeless:
		return true
	case Instant:
		return timesEqual(a.Start, b.Start)
	case Spanning:
		return timesEqual(a.Start, b.Start) && timesEqual(a.End, b.End)
	default:
		return false
	}
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// GroupOf returns the open tasks that share the given task's kind and
// anchors, in master-list order. A completed or unknown id yields an
// empty group.
func (l *List) GroupOf(id int) []Task {
	idx := l.openIndex(id)
	if idx < 0 {
		return nil
	}
	ref := l.open[idx]
	var group []Task
	for _, t := range l.open {
		if sameGroup(ref, t) {
			group = append(group, t)
		}
	}
	return group
}

// groupIndexes returns the master-list positions of the group members
// of the open task at idx, ascending.
func (l *List) groupIndexes(idx int) []int {
	ref := l.open[idx]
	var members []int
	for i, t := range l.open {
		if sameGroup(ref, t) {
			members = append(members, i)
		}
	}
	return members
}

// MoveToTop relocates the task to immediately precede the first member
// of its group in the master list. Returns false when nothing moved:
// unknown or completed id, singleton group, or already first.
func (l *List) MoveToTop(id int) bool {
	idx := l.openIndex(id)
	if idx < 0 {
		return false
	}
	members := l.groupIndexes(idx)
	if len(members) <= 1 || members[0] == idx {
		return false
	}
	first := members[0]
	t := l.open[idx]
	copy(l.open[first+1:idx+1], l.open[first:idx])
	l.open[first] = t
	return true
}

// MoveUpOne swaps the task with its immediate predecessor within the
// group (their positions in the master list are exchanged). No-op when
// the task is already the group's first member.
func (l *List) MoveUpOne(id int) bool {
	idx := l.openIndex(id)
	if idx < 0 {
		return false
	}
	members := l.groupIndexes(idx)
	if len(members) <= 1 || members[0] == idx {
		return false
	}
	var prev int
	for _, m := range members {
		if m == idx {
			break
		}
		prev = m
	}
	l.open[prev], l.open[idx] = l.open[idx], l.open[prev]
	return true
}
