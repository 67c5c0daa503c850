package moods

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JaimeStill/moodlog/pkg/pagination"
	"github.com/JaimeStill/moodlog/pkg/query"
)

// document is the persisted layout: flat, five fields, keyed by the string
// form of the record id. Unknown fields are ignored on read.
type document struct {
	ID              string  `bson:"id"`
	Mood            string  `bson:"mood"`
	Note            *string `bson:"note"`
	DetectionMethod string  `bson:"detection_method"`
	Timestamp       any     `bson:"timestamp"`
}

var mongoFields = map[string]string{
	"ID":               "id",
	"id":               "id",
	"Mood":             "mood",
	"mood":             "mood",
	"Note":             "note",
	"note":             "note",
	"DetectionMethod":  "detection_method",
	"detection_method": "detection_method",
	"Timestamp":        "timestamp",
	"timestamp":        "timestamp",
}

type mongoStore struct {
	coll    *mongo.Collection
	maxScan int
	logger  *slog.Logger
}

// NewMongoStore returns a Store over a MongoDB collection. ScanAll and
// QueryRange return at most maxScan documents.
func NewMongoStore(coll *mongo.Collection, maxScan int, logger *slog.Logger) Store {
	return &mongoStore{
		coll:    coll,
		maxScan: maxScan,
		logger:  logger.With("store", "mongo"),
	}
}

func (s *mongoStore) Insert(ctx context.Context, rec Record) (Record, error) {
	rec, doc := newDocument(rec)
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Record{}, ErrDuplicate
		}
		return Record{}, unavailable("insert mood entry", err)
	}
	return rec, nil
}

func (s *mongoStore) QueryRange(ctx context.Context, rng Range) ([]Record, error) {
	filter := timestampFilter(bson.M{}, rng.Start, rng.End)
	sort := bson.D{{Key: "timestamp", Value: -1}}

	records, err := s.find(ctx, pipeline(filter, sort, 0, int64(s.maxScan)))
	if err != nil {
		return nil, unavailable("query mood entries", err)
	}
	return records, nil
}

func (s *mongoStore) ScanAll(ctx context.Context) ([]Record, error) {
	return s.QueryRange(ctx, Range{})
}

func (s *mongoStore) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id.String()})
	if err != nil {
		return 0, unavailable("delete mood entry", err)
	}
	return res.DeletedCount, nil
}

func (s *mongoStore) Page(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	filter := bson.M{}
	if page.Search != nil && *page.Search != "" {
		filter["note"] = primitive.Regex{Pattern: regexp.QuoteMeta(*page.Search), Options: "i"}
	}
	if filters.Mood != nil {
		filter["mood"] = string(*filters.Mood)
	}
	if filters.DetectionMethod != nil {
		filter["detection_method"] = string(*filters.DetectionMethod)
	}
	filter = timestampFilter(filter, filters.Start, filters.End)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, unavailable("count mood entries", err)
	}

	records, err := s.find(ctx, pipeline(filter, sortDoc(page.Sort), int64(page.Offset()), int64(page.PageSize)))
	if err != nil {
		return nil, unavailable("page mood entries", err)
	}

	result := pagination.NewPageResult(records, int(total), page.Page, page.PageSize)
	return &result, nil
}

func (s *mongoStore) find(ctx context.Context, stages mongo.Pipeline) ([]Record, error) {
	cursor, err := s.coll.Aggregate(ctx, stages)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]Record, 0)
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		rec, ok := doc.record()
		if !ok {
			s.logger.Warn("skipping unreadable mood entry", "id", doc.ID)
			continue
		}
		records = append(records, rec)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// newDocument returns rec as it will read back and its persisted form.
// BSON dates hold milliseconds, so the timestamp is truncated first.
func newDocument(rec Record) (Record, document) {
	rec.Timestamp = rec.Timestamp.Truncate(time.Millisecond)
	return rec, document{
		ID:              rec.ID.String(),
		Mood:            string(rec.Mood),
		Note:            rec.Note,
		DetectionMethod: string(rec.DetectionMethod),
		Timestamp:       rec.Timestamp,
	}
}

// record converts a stored document, coercing mood and method. Timestamps
// may be BSON dates or ISO 8601 strings from earlier writers.
func (d document) record() (Record, bool) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Record{}, false
	}

	ts, ok := decodeTimestamp(d.Timestamp)
	if !ok {
		return Record{}, false
	}

	return Record{
		ID:              id,
		Mood:            ParseMood(d.Mood),
		Note:            d.Note,
		DetectionMethod: ParseMethod(d.DetectionMethod),
		Timestamp:       ts.UTC(),
	}, true
}

func decodeTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02T15:04:05.999999999", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Timestamps are stored as BSON dates, but earlier writers stored ISO 8601
// strings in UTC. MongoDB never compares a string with a date, so range
// bounds are expressed once per representation. String bounds compare
// lexically at one-second granularity: the upper bound is the start of the
// following second, exclusive.
const (
	sortKey      = "_ts"
	legacyLayout = "2006-01-02T15:04:05"
)

func timestampFilter(filter bson.M, start, end *time.Time) bson.M {
	dates, strs := bson.M{}, bson.M{}
	if start != nil {
		dates["$gte"] = *start
		strs["$gte"] = start.UTC().Format(legacyLayout)
	}
	if end != nil {
		dates["$lte"] = *end
		strs["$lt"] = end.UTC().Truncate(time.Second).Add(time.Second).Format(legacyLayout)
	}
	if len(dates) > 0 {
		filter["$or"] = bson.A{
			bson.M{"timestamp": dates},
			bson.M{"timestamp": strs},
		}
	}
	return filter
}

// pipeline matches filter and orders by sort. A timestamp sort uses a
// derived key that renders dates in the legacy string layout, so both
// representations interleave chronologically instead of by BSON type.
func pipeline(filter bson.M, sort bson.D, skip, limit int64) mongo.Pipeline {
	keyed := make(bson.D, 0, len(sort))
	for _, e := range sort {
		if e.Key == "timestamp" {
			e.Key = sortKey
		}
		keyed = append(keyed, e)
	}

	stages := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{sortKey: bson.M{
			"$cond": bson.M{
				"if":   bson.M{"$eq": bson.A{bson.M{"$type": "$timestamp"}, "date"}},
				"then": bson.M{"$dateToString": bson.M{"date": "$timestamp", "format": "%Y-%m-%dT%H:%M:%S.%LZ"}},
				"else": "$timestamp",
			},
		}}}},
		{{Key: "$sort", Value: keyed}},
	}
	if skip > 0 {
		stages = append(stages, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		stages = append(stages, bson.D{{Key: "$limit", Value: limit}})
	}
	return stages
}

func sortDoc(fields []query.SortField) bson.D {
	sort := bson.D{}
	for _, f := range fields {
		key, ok := mongoFields[f.Field]
		if !ok {
			continue
		}
		dir := 1
		if f.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	if len(sort) == 0 {
		sort = append(sort, bson.E{Key: "timestamp", Value: -1})
	}
	return sort
}

// EnsureMongoIndexes creates the unique id index that duplicate detection
// relies on and the timestamp index used by range scans.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("mood_entries_id"),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("mood_entries_timestamp"),
		},
	})
	if err != nil {
		return unavailable("create mood entry indexes", err)
	}
	return nil
}
