package detection

import (
	"context"

	"github.com/JaimeStill/moodlog/internal/moods"
)

// System defines the public contract for emotion detection.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Analyze classifies image bytes and returns the raw backend output.
	Analyze(ctx context.Context, data []byte) (*Analysis, error)

	// Detect classifies image bytes and normalizes the result onto the
	// mood taxonomy.
	Detect(ctx context.Context, data []byte) (*Detection, error)

	// Record stores a detection as a camera mood entry.
	Record(ctx context.Context, d Detection) (*moods.Record, error)
}
