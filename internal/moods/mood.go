// Package moods implements the mood record domain: the record model, the
// store contract and its Postgres and MongoDB implementations, statistics
// aggregation, and CSV/JSON export.
package moods

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mood is a category in the fixed mood taxonomy.
type Mood string

const (
	Happy   Mood = "happy"
	Sad     Mood = "sad"
	Angry   Mood = "angry"
	Anxious Mood = "anxious"
	Neutral Mood = "neutral"
)

// Taxonomy lists every mood in display order.
var Taxonomy = []Mood{Happy, Sad, Angry, Anxious, Neutral}

// ParseMood maps s onto the taxonomy, ignoring case and surrounding space.
// Anything unrecognized becomes Neutral.
func ParseMood(s string) Mood {
	switch m := Mood(strings.ToLower(strings.TrimSpace(s))); m {
	case Happy, Sad, Angry, Anxious, Neutral:
		return m
	default:
		return Neutral
	}
}

// Method records how a mood was captured.
type Method string

const (
	Manual Method = "manual"
	Camera Method = "camera"
)

// ParseMethod returns Camera for "camera" in any case and Manual otherwise.
func ParseMethod(s string) Method {
	if Method(strings.ToLower(strings.TrimSpace(s))) == Camera {
		return Camera
	}
	return Manual
}

// Record is a single immutable mood entry.
type Record struct {
	ID              uuid.UUID `json:"id"`
	Mood            Mood      `json:"mood"`
	Note            *string   `json:"note"`
	DetectionMethod Method    `json:"detection_method"`
	Timestamp       time.Time `json:"timestamp"`
}

// CreateCommand carries the caller-supplied fields of a new record.
// Mood and DetectionMethod are coerced rather than validated. A nil
// Timestamp means now.
type CreateCommand struct {
	Mood            string     `json:"mood"`
	Note            *string    `json:"note,omitempty"`
	DetectionMethod string     `json:"detection_method,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
}

// NewRecord builds a record from cmd with a fresh id. Timestamps are stored in UTC.
func NewRecord(cmd CreateCommand, now time.Time) Record {
	ts := now
	if cmd.Timestamp != nil && !cmd.Timestamp.IsZero() {
		ts = *cmd.Timestamp
	}

	return Record{
		ID:              uuid.New(),
		Mood:            ParseMood(cmd.Mood),
		Note:            cmd.Note,
		DetectionMethod: ParseMethod(cmd.DetectionMethod),
		Timestamp:       ts.UTC(),
	}
}
