package status

import (
	"fmt"
	"time"

	"github.com/Offblink/Flow/internal/task"
)

// Tier is the coarse urgency bucket used for ordering and row styling.
type Tier int

const (
	TierOverdue Tier = iota
	TierOngoing
	TierUpcoming
	TierDone
)

// Row is everything the display needs for one task at one moment.
type Row struct {
	DateLabel string
	Weekday   string
	Phrase    string
	Tier      Tier
}

const noDate = "—"

// Classify derives the display row for a task relative to now. Pure,
// total over valid tasks.
func Classify(t task.Task, now time.Time) Row {
	if t.Done {
		return classifyDone(t)
	}
	switch t.Kind {
	case task.Instant:
		return classifyInstant(t, now)
	case task.Spanning:
		return classifySpanning(t, now)
	default:
		return Row{
			DateLabel: noDate,
			Weekday:   noDate,
			Phrase:    "no deadline",
			Tier:      TierUpcoming,
		}
	}
}

func classifyInstant(t task.Task, now time.Time) Row {
	due := *t.Start
	r := Row{
		DateLabel: due.Format(task.AnchorLayout),
		Weekday:   due.Weekday().String(),
	}
	switch {
	case now.Before(due):
		r.Phrase = fmt.Sprintf("%s until due", spell(due.Sub(now)))
		r.Tier = TierUpcoming
	case now.After(due):
		r.Phrase = fmt.Sprintf("overdue by %s", spell(now.Sub(due)))
		r.Tier = TierOverdue
	default:
		r.Phrase = "due today"
		r.Tier = TierUpcoming
	}
	return r
}

func classifySpanning(t task.Task, now time.Time) Row {
	start, end := *t.Start, *t.End
	r := Row{
		DateLabel: start.Format(task.AnchorLayout) + " to " + end.Format(task.AnchorLayout),
	}
	switch {
	case now.Before(start):
		r.Phrase = fmt.Sprintf("%s until start", spell(start.Sub(now)))
		r.Weekday = start.Weekday().String()
		r.Tier = TierUpcoming
	case now.After(end):
		r.Phrase = fmt.Sprintf("overdue by %s", spell(now.Sub(end)))
		r.Weekday = end.Weekday().String()
		r.Tier = TierOverdue
	default:
		r.Phrase = fmt.Sprintf("%s until end", spell(end.Sub(now)))
		r.Weekday = end.Weekday().String()
		r.Tier = TierOngoing
	}
	return r
}

func classifyDone(t task.Task) Row {
	r := Row{Tier: TierDone, DateLabel: noDate, Weekday: noDate}
	if t.DoneAt != nil {
		r.Weekday = t.DoneAt.Weekday().String()
	}
	due, ok := t.Due()
	if !ok {
		if t.DoneAt != nil {
			r.Phrase = "completed at " + t.DoneAt.Format(task.AnchorLayout)
		} else {
			r.Phrase = "completed"
		}
		return r
	}
	switch t.Kind {
	case task.Instant:
		r.DateLabel = due.Format(task.AnchorLayout)
	case task.Spanning:
		r.DateLabel = t.Start.Format(task.AnchorLayout) + " to " + t.End.Format(task.AnchorLayout)
	}
	if t.DoneAt == nil {
		r.Phrase = "completed"
		return r
	}
	// The per-row phrase always carries a signed magnitude, even inside
	// the ±6h band that Bucket treats as on time.
	diff := t.DoneAt.Sub(due)
	if diff < 0 {
		r.Phrase = fmt.Sprintf("completed early by %s", spell(-diff))
	} else {
		r.Phrase = fmt.Sprintf("completed late by %s", spell(diff))
	}
	return r
}

// spell renders a non-negative duration per the threshold rule: under
// an hour in minutes, under a day in hours, otherwise whole days by
// integer division of total seconds.
func spell(d time.Duration) string {
	s := int64(d / time.Second)
	if s < 0 {
		s = -s
	}
	switch {
	case s < 3600:
		return fmt.Sprintf("%d minutes", s/60)
	case s < 86400:
		return fmt.Sprintf("%d hours", s/3600)
	default:
		return fmt.Sprintf("%d days", s/86400)
	}
}
