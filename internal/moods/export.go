package moods

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var csvHeader = []string{"id", "mood", "note", "detection_method", "timestamp"}

// ParseFormat accepts "csv" or "json" in any case. An empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want csv or json)", ErrInvalidFormat, s)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the media type served for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// ExportFile is a rendered export ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportRow struct {
	ID              string  `json:"id"`
	Mood            string  `json:"mood"`
	Note            *string `json:"note"`
	DetectionMethod string  `json:"detection_method"`
	Timestamp       string  `json:"timestamp"`
}

func toRow(r Record) exportRow {
	return exportRow{
		ID:              r.ID.String(),
		Mood:            string(r.Mood),
		Note:            r.Note,
		DetectionMethod: string(r.DetectionMethod),
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// Export renders records in the given format, preserving input order. The
// filename embeds the UTC date of now.
func Export(records []Record, format Format, now time.Time) (*ExportFile, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = renderCSV(records)
	case FormatJSON:
		data, err = renderJSON(records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	return &ExportFile{
		Filename:    ExportFilename(format, now),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// ExportFilename returns mood_export_YYYYMMDD.<ext> for the UTC date of now.
func ExportFilename(format Format, now time.Time) string {
	return fmt.Sprintf("mood_export_%s.%s", now.UTC().Format("20060102"), format.Extension())
}

func renderJSON(records []Record) ([]byte, error) {
	rows := make([]exportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toRow(r))
	}
	return json.MarshalIndent(rows, "", "  ")
}

func renderCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range records {
		row := toRow(r)
		note := ""
		if row.Note != nil {
			note = *row.Note
		}
		if err := w.Write([]string{row.ID, row.Mood, note, row.DetectionMethod, row.Timestamp}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
