package detection

import (
	"context"
	"fmt"

	"github.com/JaimeStill/moodlog/pkg/formatting"
)

// Backend scores the facial expression in a prepared image.
type Backend interface {
	Classify(ctx context.Context, img Image) (*Analysis, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, img Image) (*Analysis, error)

func (f BackendFunc) Classify(ctx context.Context, img Image) (*Analysis, error) {
	return f(ctx, img)
}

type reply struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
}

// parseReply decodes a model reply. A missing dominant label falls back to
// the highest scoring label, and an empty score map to neutral.
func parseReply(content string) (*Analysis, error) {
	r, err := formatting.Parse[reply](content)
	if err != nil {
		return nil, fmt.Errorf("parse classifier reply: %w", err)
	}

	if r.Emotion == nil {
		r.Emotion = map[string]float64{}
	}

	dominant := r.DominantEmotion
	if dominant == "" {
		dominant = highest(r.Emotion)
	}

	return &Analysis{Dominant: dominant, Scores: r.Emotion}, nil
}

func highest(scores map[string]float64) string {
	best, label := -1.0, "neutral"
	for k, v := range scores {
		if v > best || (v == best && k < label) {
			best, label = v, k
		}
	}
	return label
}
