package moods

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/moodlog/pkg/pagination"
)

// System defines the public contract for mood record operations.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd CreateCommand) (*Record, error)
	List(ctx context.Context, rng Range) ([]Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Export(ctx context.Context, format Format) (*ExportFile, error)

	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	// Delete removes the record with id and returns the number removed (0 or 1).
	Delete(ctx context.Context, id uuid.UUID) (int64, error)

	// Archive uploads CSV and JSON exports of every record to blob storage.
	// It fails with ErrArchiveDisabled when no storage is configured.
	Archive(ctx context.Context) (*ArchiveResult, error)
	ArchiveEnabled() bool
}
