package moods

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/moodlog/pkg/pagination"
	"github.com/JaimeStill/moodlog/pkg/storage"
)

type repo struct {
	store      Store
	archive    storage.System
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a mood repository implementing the System interface. archive
// may be nil, in which case Archive reports ErrArchiveDisabled.
func New(
	store Store,
	archive storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		store:      store,
		archive:    archive,
		logger:     logger.With("system", "moods"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	rec, err := r.store.Insert(ctx, NewRecord(cmd, r.now()))
	if err != nil {
		return nil, err
	}

	r.logger.Info("mood entry created", "id", rec.ID, "mood", rec.Mood, "method", rec.DetectionMethod)
	return &rec, nil
}

func (r *repo) List(ctx context.Context, rng Range) ([]Record, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return r.store.QueryRange(ctx, rng)
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	records, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := Aggregate(records)
	return &stats, nil
}

func (r *repo) Export(ctx context.Context, format Format) (*ExportFile, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	records, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	return Export(records, format, r.now())
}

func (r *repo) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)
	filters = filters.normalize()

	if err := (Range{Start: filters.Start, End: filters.End}).Validate(); err != nil {
		return nil, err
	}

	return r.store.Page(ctx, page, filters)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := r.store.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		r.logger.Info("mood entry deleted", "id", id)
	}
	return n, nil
}

func (r *repo) ArchiveEnabled() bool {
	return r.archive != nil
}

func (r *repo) Archive(ctx context.Context) (*ArchiveResult, error) {
	if r.archive == nil {
		return nil, ErrArchiveDisabled
	}

	records, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	result, err := writeArchive(ctx, r.archive, records, r.now())
	if err != nil {
		return nil, err
	}

	r.logger.Info("mood export archived", "records", result.Records, "files", len(result.Files))
	return result, nil
}
