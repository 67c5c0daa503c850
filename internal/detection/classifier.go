package detection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/moodlog/internal/moods"
)

type classifier struct {
	backend Backend
	moods   moods.System
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a detection system over backend. Detections are recorded
// through moodSys. A zero timeout leaves the request context as the only
// deadline.
func New(
	backend Backend,
	moodSys moods.System,
	logger *slog.Logger,
	timeout time.Duration,
) System {
	return &classifier{
		backend: backend,
		moods:   moodSys,
		logger:  logger.With("system", "detection"),
		timeout: timeout,
	}
}

func (c *classifier) Handler(maxUploadSize int64) *Handler {
	return NewHandler(c, c.logger, maxUploadSize)
}

func (c *classifier) Analyze(ctx context.Context, data []byte) (*Analysis, error) {
	img, err := PrepareImage(data)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	analysis, err := c.classify(ctx, img)
	if err != nil {
		return nil, err
	}

	c.logger.Info(
		"image classified",
		"media_type", img.MediaType,
		"width", img.Width,
		"height", img.Height,
		"dominant", analysis.Dominant,
		"duration", time.Since(start),
	)
	return analysis, nil
}

// classify calls the backend, converting errors and panics into ErrUnavailable.
func (c *classifier) classify(ctx context.Context, img Image) (analysis *Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			analysis = nil
			err = fmt.Errorf("%w: classifier panic: %v", ErrUnavailable, r)
		}
	}()

	analysis, err = c.backend.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if analysis == nil {
		return nil, fmt.Errorf("%w: classifier returned no result", ErrUnavailable)
	}
	return analysis, nil
}

func (c *classifier) Detect(ctx context.Context, data []byte) (*Detection, error) {
	analysis, err := c.Analyze(ctx, data)
	if err != nil {
		return nil, err
	}

	d := Normalize(analysis.Dominant, analysis.Scores)
	return &d, nil
}

func (c *classifier) Record(ctx context.Context, d Detection) (*moods.Record, error) {
	return c.moods.Create(ctx, moods.CreateCommand{
		Mood:            string(d.Emotion),
		DetectionMethod: string(moods.Camera),
	})
}
