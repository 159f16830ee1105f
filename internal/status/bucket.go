package status

import (
	"time"

	"github.com/Offblink/Flow/internal/task"
)

// CompletionBucket is the aggregate early/on-time/late classification
// of a completed task.
type CompletionBucket int

const (
	BucketOnTime CompletionBucket = iota
	BucketEarly
	BucketLate
	BucketTimeless
)

func (b CompletionBucket) String() string {
	switch b {
	case BucketOnTime:
		return "on time"
	case BucketEarly:
		return "early"
	case BucketLate:
		return "late"
	case BucketTimeless:
		return "no deadline"
	default:
		return "unknown"
	}
}

// OnTimeBand is how far either side of the due moment still counts as
// on time for aggregate statistics. The per-row phrase ignores it.
const OnTimeBand = 6 * time.Hour

// Bucket classifies a completed task against its due moment and returns
// the bucket with the magnitude of the miss. Only meaningful for
// completed tasks; every completed task lands in exactly one bucket.
func Bucket(t task.Task) (CompletionBucket, time.Duration) {
	due, ok := t.Due()
	if !ok || t.DoneAt == nil {
		return BucketTimeless, 0
	}
	diff := t.DoneAt.Sub(due)
	mag := diff
	if mag < 0 {
		mag = -mag
	}
	switch {
	case mag <= OnTimeBand:
		return BucketOnTime, mag
	case diff < 0:
		return BucketEarly, mag
	default:
		return BucketLate, mag
	}
}

// Stats aggregates completion buckets for the statistics line and the
// grouped export.
type Stats struct {
	OnTime   int
	Early    int
	Late     int
	Timeless int
}

func (s Stats) Total() int {
	return s.OnTime + s.Early + s.Late + s.Timeless
}

func Summary(completed []task.Task) Stats {
	var s Stats
	for _, t := range completed {
		b, _ := Bucket(t)
		switch b {
		case BucketOnTime:
			s.OnTime++
		case BucketEarly:
			s.Early++
		case BucketLate:
			s.Late++
		case BucketTimeless:
			s.Timeless++
		}
	}
	return s
}
