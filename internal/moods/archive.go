package moods

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/moodlog/pkg/storage"
)

// ArchivedFile describes one export written to blob storage.
type ArchivedFile struct {
	Key         string `json:"key"`
	Format      Format `json:"format"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
}

// ArchiveResult reports a completed export archive.
type ArchiveResult struct {
	Records   int            `json:"records"`
	CreatedAt time.Time      `json:"created_at"`
	Files     []ArchivedFile `json:"files"`
}

var archiveFormats = []Format{FormatCSV, FormatJSON}

// archiveKey places each run under exports/<yyyymmdd>/<hhmmss>/ so that
// repeated archives on the same day do not overwrite each other.
func archiveKey(filename string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("exports/%s/%s/%s", now.Format("20060102"), now.Format("150405"), filename)
}

// writeArchive renders records in every export format and uploads each file
// concurrently. The first failure cancels the remaining uploads.
func writeArchive(
	ctx context.Context,
	store storage.System,
	records []Record,
	now time.Time,
) (*ArchiveResult, error) {
	files := make([]ArchivedFile, len(archiveFormats))
	g, gctx := errgroup.WithContext(ctx)

	for i, format := range archiveFormats {
		g.Go(func() error {
			file, err := Export(records, format, now)
			if err != nil {
				return err
			}

			key := archiveKey(file.Filename, now)
			if err := store.Upload(gctx, key, bytes.NewReader(file.Data), file.ContentType); err != nil {
				return unavailable("archive "+string(format)+" export", err)
			}

			files[i] = ArchivedFile{
				Key:         key,
				Format:      format,
				ContentType: file.ContentType,
				SizeBytes:   len(file.Data),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ArchiveResult{
		Records:   len(records),
		CreatedAt: now.UTC(),
		Files:     files,
	}, nil
}
