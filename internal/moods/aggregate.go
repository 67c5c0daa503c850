package moods

import (
	"slices"
	"time"
)

// TimelineEntry is one point on the mood-over-time chart.
type TimelineEntry struct {
	Date      string    `json:"date"`
	Mood      Mood      `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds per-mood counts and the chronological timeline.
type Stats struct {
	MoodCounts map[Mood]int    `json:"mood_counts"`
	Timeline   []TimelineEntry `json:"timeline"`
}

// Aggregate counts records per mood and builds a timeline sorted ascending by
// timestamp. Every taxonomy key is present in the counts. Records with equal
// timestamps keep their input order.
func Aggregate(records []Record) Stats {
	counts := make(map[Mood]int, len(Taxonomy))
	for _, m := range Taxonomy {
		counts[m] = 0
	}

	timeline := make([]TimelineEntry, 0, len(records))
	for _, r := range records {
		mood := ParseMood(string(r.Mood))
		counts[mood]++

		ts := r.Timestamp.UTC()
		timeline = append(timeline, TimelineEntry{
			Date:      ts.Format(dateLayout),
			Mood:      mood,
			Timestamp: ts,
		})
	}

	slices.SortStableFunc(timeline, func(a, b TimelineEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return Stats{
		MoodCounts: counts,
		Timeline:   timeline,
	}
}
