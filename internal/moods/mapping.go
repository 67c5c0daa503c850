package moods

import (
	"github.com/JaimeStill/moodlog/pkg/query"
	"github.com/JaimeStill/moodlog/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "mood_entries", "m").
	Project("id", "ID").
	Project("mood", "Mood").
	Project("note", "Note").
	Project("detection_method", "DetectionMethod").
	Project("timestamp", "Timestamp")

var defaultSort = query.SortField{
	Field:      "Timestamp",
	Descending: true,
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var mood, method *string
	if f.Mood != nil {
		s := string(*f.Mood)
		mood = &s
	}
	if f.DetectionMethod != nil {
		s := string(*f.DetectionMethod)
		method = &s
	}

	return b.
		WhereEquals("Mood", mood).
		WhereEquals("DetectionMethod", method).
		WhereRange("Timestamp", f.Start, f.End)
}

// scanRecord coerces stored mood and method values so rows written by older
// or foreign writers still read as valid records.
func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r      Record
		mood   string
		method string
	)

	err := s.Scan(
		&r.ID,
		&mood,
		&r.Note,
		&method,
		&r.Timestamp,
	)
	if err != nil {
		return r, err
	}

	r.Mood = ParseMood(mood)
	r.DetectionMethod = ParseMethod(method)
	r.Timestamp = r.Timestamp.UTC()
	return r, nil
}
