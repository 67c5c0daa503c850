package moods

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/moodlog/pkg/pagination"
)

const dateLayout = time.DateOnly

// Store is the persistence contract for mood records. Every failure of the
// underlying engine is reported as ErrStoreUnavailable, never as an empty
// result. QueryRange and ScanAll return records newest first.
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	// QueryRange returns records whose timestamp lies within the inclusive bounds.
	QueryRange(ctx context.Context, rng Range) ([]Record, error)
	// ScanAll returns every record up to the store's scan cap.
	ScanAll(ctx context.Context) ([]Record, error)
	// DeleteByID removes at most one record and reports how many were removed.
	DeleteByID(ctx context.Context, id uuid.UUID) (int64, error)
	Page(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error)
}

// Range bounds a timestamp query. Nil bounds are open.
type Range struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Validate rejects a range whose start falls after its end.
func (r Range) Validate() error {
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// RangeFromQuery reads start_date and end_date. Each accepts an RFC 3339
// timestamp or a YYYY-MM-DD date; a bare end date covers the whole day.
func RangeFromQuery(values url.Values) (Range, error) {
	var rng Range

	if s := values.Get("start_date"); s != "" {
		t, err := parseBound(s, false)
		if err != nil {
			return Range{}, err
		}
		rng.Start = &t
	}

	if s := values.Get("end_date"); s != "" {
		t, err := parseBound(s, true)
		if err != nil {
			return Range{}, err
		}
		rng.End = &t
	}

	return rng, rng.Validate()
}

func parseBound(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is neither RFC 3339 nor YYYY-MM-DD", ErrInvalidRange, s)
	}
	if end {
		return d.Add(24*time.Hour - time.Nanosecond), nil
	}
	return d, nil
}

// Filters narrows a paged search. Nil fields are ignored.
type Filters struct {
	Mood            *Mood      `json:"mood,omitempty"`
	DetectionMethod *Method    `json:"detection_method,omitempty"`
	Start           *time.Time `json:"start,omitempty"`
	End             *time.Time `json:"end,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if s := values.Get("mood"); s != "" {
		m := ParseMood(s)
		f.Mood = &m
	}
	if s := values.Get("detection_method"); s != "" {
		m := ParseMethod(s)
		f.DetectionMethod = &m
	}

	rng, err := RangeFromQuery(values)
	if err != nil {
		return Filters{}, err
	}
	f.Start, f.End = rng.Start, rng.End

	return f, nil
}

// normalize coerces filter values decoded from JSON onto the taxonomy.
func (f Filters) normalize() Filters {
	if f.Mood != nil {
		m := ParseMood(string(*f.Mood))
		f.Mood = &m
	}
	if f.DetectionMethod != nil {
		m := ParseMethod(string(*f.DetectionMethod))
		f.DetectionMethod = &m
	}
	return f
}
