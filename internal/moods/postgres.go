package moods

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/JaimeStill/moodlog/pkg/pagination"
	"github.com/JaimeStill/moodlog/pkg/query"
	"github.com/JaimeStill/moodlog/pkg/repository"
)

type pgStore struct {
	db      *sql.DB
	maxScan int
}

// NewPostgresStore returns a Store over the public.mood_entries table.
// ScanAll and QueryRange return at most maxScan rows.
func NewPostgresStore(db *sql.DB, maxScan int) Store {
	return &pgStore{db: db, maxScan: maxScan}
}

func (s *pgStore) Insert(ctx context.Context, rec Record) (Record, error) {
	q := `
		INSERT INTO public.mood_entries(id, mood, note, detection_method, "timestamp")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, mood, note, detection_method, "timestamp"`

	args := []any{
		rec.ID,
		string(rec.Mood),
		rec.Note,
		string(rec.DetectionMethod),
		rec.Timestamp,
	}

	out, err := repository.QueryOne(ctx, s.db, q, args, scanRecord)
	if err != nil {
		if mapped := repository.MapError(err, ErrNotFound, ErrDuplicate); errors.Is(mapped, ErrDuplicate) {
			return Record{}, mapped
		}
		return Record{}, unavailable("insert mood entry", err)
	}
	return out, nil
}

func (s *pgStore) QueryRange(ctx context.Context, rng Range) ([]Record, error) {
	q, args := rangeQuery(rng, s.maxScan)
	records, err := repository.QueryMany(ctx, s.db, q, args, scanRecord)
	if err != nil {
		return nil, unavailable("query mood entries", err)
	}
	return records, nil
}

func (s *pgStore) ScanAll(ctx context.Context) ([]Record, error) {
	return s.QueryRange(ctx, Range{})
}

func (s *pgStore) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := repository.ExecCount(ctx, s.db, deleteSQL, id)
	if err != nil {
		return 0, unavailable("delete mood entry", err)
	}
	return n, nil
}

func (s *pgStore) Page(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	pq := newPageQuery(page, filters)

	var total int
	records, err := repository.WithSnapshot(ctx, s.db, func(q repository.Querier) ([]Record, error) {
		n, err := repository.Count(ctx, q, pq.countSQL, pq.countArgs)
		if err != nil {
			return nil, err
		}
		total = n
		return repository.QueryMany(ctx, q, pq.pageSQL, pq.pageArgs, scanRecord)
	})
	if err != nil {
		return nil, unavailable("page mood entries", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

const deleteSQL = "DELETE FROM public.mood_entries WHERE id = $1"

// rangeQuery selects entries inside rng, newest first, capped at limit.
func rangeQuery(rng Range, limit int) (string, []any) {
	return query.
		NewBuilder(projection, defaultSort).
		WhereRange("Timestamp", rng.Start, rng.End).
		BuildLimit(limit)
}

// pageQuery is the count and page statement pair for one search request.
// Both share the same conditions and placeholder numbering.
type pageQuery struct {
	countSQL  string
	countArgs []any
	pageSQL   string
	pageArgs  []any
}

func newPageQuery(page pagination.PageRequest, filters Filters) pageQuery {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Note")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	var pq pageQuery
	pq.countSQL, pq.countArgs = qb.BuildCount()
	pq.pageSQL, pq.pageArgs = qb.BuildPage(page.Page, page.PageSize)
	return pq
}
