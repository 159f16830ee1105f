package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Offblink/Flow/internal/schedule"
	"github.com/Offblink/Flow/internal/status"
	"github.com/Offblink/Flow/internal/task"
)

// exportCompleted writes the completed tasks grouped by completion
// bucket to the configured export path.
func (m *Model) exportCompleted() {
	completed := m.list.Completed()
	if len(completed) == 0 {
		m.status = "Nothing completed to export"
		return
	}
	data := renderExport(completed)
	if err := os.WriteFile(m.cfg.ExportPath, []byte(data), 0o644); err != nil {
		m.status = fmt.Sprintf("export failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("Exported %d completed tasks to %s", len(completed), m.cfg.ExportPath)
}

func renderExport(completed []task.Task) string {
	groups := map[status.CompletionBucket][]task.Task{}
	for _, t := range schedule.OrderCompleted(completed) {
		b, _ := status.Bucket(t)
		groups[b] = append(groups[b], t)
	}

	var b strings.Builder
	s := status.Summary(completed)
	b.WriteString(fmt.Sprintf("Completed tasks: %d total, %d on time, %d early, %d late, %d without deadline\n",
		s.Total(), s.OnTime, s.Early, s.Late, s.Timeless))
	order := []status.CompletionBucket{
		status.BucketOnTime,
		status.BucketEarly,
		status.BucketLate,
		status.BucketTimeless,
	}
	for _, bucket := range order {
		tasks := groups[bucket]
		if len(tasks) == 0 {
			continue
		}
		b.WriteString("\n## " + bucket.String() + "\n")
		for _, t := range tasks {
			row := status.Classify(t, time.Now())
			b.WriteString(fmt.Sprintf("- #%d %s (%s)\n", t.ID, t.Note, row.Phrase))
		}
	}
	return b.String()
}
