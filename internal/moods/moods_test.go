package moods_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/moodlog/internal/moods"
)

func ptr[T any](v T) *T { return &v }

func record(mood moods.Mood, ts time.Time, note *string) moods.Record {
	return moods.Record{
		ID:              uuid.New(),
		Mood:            mood,
		Note:            note,
		DetectionMethod: moods.Manual,
		Timestamp:       ts,
	}
}

var base = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestParseMood(t *testing.T) {
	tests := []struct {
		in   string
		want moods.Mood
	}{
		{"happy", moods.Happy},
		{"SAD", moods.Sad},
		{" Angry ", moods.Angry},
		{"anxious", moods.Anxious},
		{"neutral", moods.Neutral},
		{"ecstatic", moods.Neutral},
		{"", moods.Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := moods.ParseMood(tt.in); got != tt.want {
				t.Errorf("ParseMood(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want moods.Method
	}{
		{"camera", moods.Camera},
		{"Camera", moods.Camera},
		{"manual", moods.Manual},
		{"", moods.Manual},
		{"telepathy", moods.Manual},
	}

	for _, tt := range tests {
		if got := moods.ParseMethod(tt.in); got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRecord(t *testing.T) {
	t.Run("coerces and stamps", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
		rec := moods.NewRecord(moods.CreateCommand{Mood: "elated"}, now)

		if rec.ID == uuid.Nil {
			t.Error("id not assigned")
		}
		if rec.Mood != moods.Neutral {
			t.Errorf("mood = %q, want neutral", rec.Mood)
		}
		if rec.DetectionMethod != moods.Manual {
			t.Errorf("method = %q, want manual", rec.DetectionMethod)
		}
		if rec.Timestamp.Location() != time.UTC {
			t.Errorf("timestamp location = %v, want UTC", rec.Timestamp.Location())
		}
		if !rec.Timestamp.Equal(now) {
			t.Errorf("timestamp = %v, want %v", rec.Timestamp, now)
		}
	})

	t.Run("keeps supplied timestamp", func(t *testing.T) {
		rec := moods.NewRecord(moods.CreateCommand{Mood: "sad", Timestamp: &base}, time.Now())
		if !rec.Timestamp.Equal(base) {
			t.Errorf("timestamp = %v, want %v", rec.Timestamp, base)
		}
	})

	t.Run("unique ids", func(t *testing.T) {
		a := moods.NewRecord(moods.CreateCommand{Mood: "happy"}, base)
		b := moods.NewRecord(moods.CreateCommand{Mood: "happy"}, base)
		if a.ID == b.ID {
			t.Error("ids collided")
		}
	})
}

func TestRecordJSON(t *testing.T) {
	rec := record(moods.Happy, base, nil)
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"id", "mood", "note", "detection_method", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if fields["note"] != nil {
		t.Errorf("note = %v, want null", fields["note"])
	}
}

func TestAggregate(t *testing.T) {
	t.Run("happy happy sad", func(t *testing.T) {
		records := []moods.Record{
			record(moods.Sad, base.Add(2*time.Hour), nil),
			record(moods.Happy, base, nil),
			record(moods.Happy, base.Add(time.Hour), nil),
		}

		stats := moods.Aggregate(records)

		want := map[moods.Mood]int{
			moods.Happy:   2,
			moods.Sad:     1,
			moods.Angry:   0,
			moods.Anxious: 0,
			moods.Neutral: 0,
		}
		for mood, n := range want {
			got, ok := stats.MoodCounts[mood]
			if !ok {
				t.Errorf("missing key %q", mood)
			}
			if got != n {
				t.Errorf("count[%s] = %d, want %d", mood, got, n)
			}
		}

		if len(stats.Timeline) != 3 {
			t.Fatalf("timeline length = %d, want 3", len(stats.Timeline))
		}
		if stats.Timeline[0].Mood != moods.Happy || stats.Timeline[2].Mood != moods.Sad {
			t.Errorf("timeline order = %v", stats.Timeline)
		}
		if stats.Timeline[0].Date != "2026-03-14" {
			t.Errorf("date = %q, want 2026-03-14", stats.Timeline[0].Date)
		}
	})

	t.Run("empty", func(t *testing.T) {
		stats := moods.Aggregate(nil)

		if len(stats.MoodCounts) != len(moods.Taxonomy) {
			t.Errorf("keys = %d, want %d", len(stats.MoodCounts), len(moods.Taxonomy))
		}
		if stats.Timeline == nil {
			t.Error("timeline is nil, want empty")
		}

		data, _ := json.Marshal(stats)
		if !strings.Contains(string(data), `"timeline":[]`) {
			t.Errorf("json = %s, want empty timeline array", data)
		}
	})

	t.Run("counts sum and timeline is ordered for any input order", func(t *testing.T) {
		r := rand.New(rand.NewPCG(1, 2))
		raw := []moods.Mood{moods.Happy, moods.Sad, moods.Angry, moods.Anxious, moods.Neutral, "bogus"}

		for trial := range 20 {
			n := r.IntN(50)
			records := make([]moods.Record, n)
			for i := range records {
				ts := base.Add(time.Duration(r.IntN(10000)) * time.Minute)
				records[i] = record(raw[r.IntN(len(raw))], ts, nil)
			}

			stats := moods.Aggregate(records)

			sum := 0
			for _, c := range stats.MoodCounts {
				sum += c
			}
			if sum != n {
				t.Errorf("trial %d: counts sum = %d, want %d", trial, sum, n)
			}
			if len(stats.MoodCounts) != 5 {
				t.Errorf("trial %d: keys = %d, want 5", trial, len(stats.MoodCounts))
			}
			for i := 1; i < len(stats.Timeline); i++ {
				if stats.Timeline[i].Timestamp.Before(stats.Timeline[i-1].Timestamp) {
					t.Fatalf("trial %d: timeline decreases at %d", trial, i)
				}
			}
		}
	})

	t.Run("unknown stored mood counts as neutral", func(t *testing.T) {
		stats := moods.Aggregate([]moods.Record{record("furious", base, nil)})
		if stats.MoodCounts[moods.Neutral] != 1 {
			t.Errorf("neutral = %d, want 1", stats.MoodCounts[moods.Neutral])
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    moods.Format
		wantErr bool
	}{
		{"", moods.FormatCSV, false},
		{"csv", moods.FormatCSV, false},
		{"JSON", moods.FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := moods.ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, moods.ErrInvalidFormat) {
					t.Errorf("err = %v, want ErrInvalidFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	records := []moods.Record{
		record(moods.Happy, base, ptr("sunny walk")),
		record(moods.Sad, base.Add(time.Hour), nil),
	}

	file, err := moods.Export(records, moods.FormatJSON, base)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if file.Filename != "mood_export_20260314.json" {
		t.Errorf("filename = %q", file.Filename)
	}
	if file.ContentType != "application/json" {
		t.Errorf("content type = %q", file.ContentType)
	}
	if !bytes.Contains(file.Data, []byte("\n  {")) {
		t.Errorf("output is not indented with two spaces:\n%s", file.Data)
	}

	var rows []map[string]any
	if err := json.Unmarshal(file.Data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != len(records) {
		t.Fatalf("rows = %d, want %d", len(rows), len(records))
	}
	for i, row := range rows {
		if len(row) != 5 {
			t.Errorf("row %d has %d fields, want 5", i, len(row))
		}
		if row["id"] != records[i].ID.String() {
			t.Errorf("row %d out of order", i)
		}
	}
	if rows[1]["note"] != nil {
		t.Errorf("absent note = %v, want null", rows[1]["note"])
	}
}

func TestExportJSONEmpty(t *testing.T) {
	file, err := moods.Export(nil, moods.FormatJSON, base)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(file.Data) != "[]" {
		t.Errorf("data = %q, want []", file.Data)
	}
}

func TestExportCSV(t *testing.T) {
	records := []moods.Record{
		record(moods.Happy, base, ptr("coffee, then a nap")),
		record(moods.Anxious, base.Add(time.Hour), nil),
		record(moods.Neutral, base.Add(2*time.Hour), ptr("")),
	}

	file, err := moods.Export(records, moods.FormatCSV, base)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if file.Filename != "mood_export_20260314.csv" {
		t.Errorf("filename = %q", file.Filename)
	}

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("lines = %d, want %d", len(rows), len(records)+1)
	}
	if strings.Join(rows[0], ",") != "id,mood,note,detection_method,timestamp" {
		t.Errorf("header = %v", rows[0])
	}
	for i, row := range rows {
		if len(row) != 5 {
			t.Errorf("line %d has %d fields, want 5", i, len(row))
		}
	}
	if rows[1][2] != "coffee, then a nap" {
		t.Errorf("note = %q", rows[1][2])
	}
	if rows[2][2] != "" {
		t.Errorf("absent note = %q, want empty", rows[2][2])
	}
	if rows[2][4] != base.Add(time.Hour).Format(time.RFC3339Nano) {
		t.Errorf("timestamp = %q", rows[2][4])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	file, err := moods.Export(nil, moods.FormatCSV, base)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1: %q", len(lines), file.Data)
	}
	if lines[0] != "id,mood,note,detection_method,timestamp" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestRangeFromQuery(t *testing.T) {
	t.Run("dates", func(t *testing.T) {
		rng, err := moods.RangeFromQuery(url.Values{
			"start_date": {"2026-03-01"},
			"end_date":   {"2026-03-14"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rng.Start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", rng.Start)
		}
		wantEnd := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		if !rng.End.Equal(wantEnd) {
			t.Errorf("end = %v, want %v", rng.End, wantEnd)
		}
	})

	t.Run("timestamps", func(t *testing.T) {
		rng, err := moods.RangeFromQuery(url.Values{"start_date": {"2026-03-01T08:00:00+02:00"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rng.Start.Equal(time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", rng.Start)
		}
		if rng.End != nil {
			t.Errorf("end = %v, want nil", rng.End)
		}
	})

	tests := []struct {
		name   string
		values url.Values
	}{
		{"malformed", url.Values{"start_date": {"last tuesday"}}},
		{"inverted", url.Values{"start_date": {"2026-03-14"}, "end_date": {"2026-03-01"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := moods.RangeFromQuery(tt.values)
			if !errors.Is(err, moods.ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f, err := moods.FiltersFromQuery(url.Values{
		"mood":             {"HAPPY"},
		"detection_method": {"camera"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Mood == nil || *f.Mood != moods.Happy {
		t.Errorf("mood = %v", f.Mood)
	}
	if f.DetectionMethod == nil || *f.DetectionMethod != moods.Camera {
		t.Errorf("method = %v", f.DetectionMethod)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{moods.ErrNotFound, http.StatusNotFound},
		{moods.ErrDuplicate, http.StatusConflict},
		{moods.ErrInvalidID, http.StatusBadRequest},
		{moods.ErrInvalidRange, http.StatusBadRequest},
		{moods.ErrInvalidFormat, http.StatusBadRequest},
		{fmt.Errorf("insert: %w", moods.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{moods.ErrArchiveDisabled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := moods.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
