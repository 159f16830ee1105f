package task

import (
	"fmt"
	"strings"
	"time"
)

// Kind tells how a task relates to time: a single due moment, a
// start/end span, or nothing at all.
type Kind int

const (
	Instant Kind = iota
	Spanning
	Timeless
)

func (k Kind) String() string {
	switch k {
	case Instant:
		return "instant"
	case Spanning:
		return "spanning"
	case Timeless:
		return "timeless"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(v string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "instant":
		return Instant, nil
	case "spanning":
		return Spanning, nil
	case "timeless":
		return Timeless, nil
	default:
		return 0, &ValidationError{Reason: fmt.Sprintf("unknown task kind %q", v)}
	}
}

// Anchor layouts are local wall-clock, no zone suffix.
const (
	AnchorLayout = "2006-01-02 15:04"
	StampLayout  = "2006-01-02 15:04:05"
)

type Task struct {
	ID        int
	Note      string
	Kind      Kind
	Start     *time.Time // due moment for Instant, span start for Spanning
	End       *time.Time // span end for Spanning, nil otherwise
	Done      bool
	DoneAt    *time.Time
	CreatedAt time.Time
}

// Due reports the moment the task is measured against: the due moment
// for Instant, the span end for Spanning. ok is false for Timeless.
func (t Task) Due() (time.Time, bool) {
	switch t.Kind {
	case Instant:
		if t.Start != nil {
			return *t.Start, true
		}
	case Spanning:
		if t.End != nil {
			return *t.End, true
		}
	}
	return time.Time{}, false
}

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ParseAnchor reads user-entered date-time text. An empty string yields
// a nil anchor. Both "2006-01-02 15:04" and a bare "2006-01-02"
// (midnight) are accepted.
func ParseAnchor(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(AnchorLayout, v, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return &t, nil
	}
	return nil, &ValidationError{Reason: fmt.Sprintf("cannot parse date-time %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", v)}
}

// FormatAnchor renders an optional anchor for display and persistence.
func FormatAnchor(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(AnchorLayout)
}

func validate(note string, kind Kind, start, end *time.Time) error {
	if strings.TrimSpace(note) == "" {
		return &ValidationError{Reason: "note cannot be empty"}
	}
	switch kind {
	case Instant:
		if start == nil {
			return &ValidationError{Reason: "an instant task needs a due date"}
		}
		if end != nil {
			return &ValidationError{Reason: "an instant task cannot have an end date"}
		}
	case Spanning:
		if start == nil || end == nil {
			return &ValidationError{Reason: "a spanning task needs both a start and an end date"}
		}
		if !end.After(*start) {
			return &ValidationError{Reason: "end must be after start"}
		}
	case Timeless:
		if start != nil || end != nil {
			return &ValidationError{Reason: "a timeless task cannot have dates"}
		}
	default:
		return &ValidationError{Reason: "unknown task kind"}
	}
	return nil
}
