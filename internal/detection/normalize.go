package detection

import (
	"math"
	"strings"

	"github.com/JaimeStill/moodlog/internal/moods"
)

var labelMoods = map[string]moods.Mood{
	"happy":    moods.Happy,
	"sad":      moods.Sad,
	"angry":    moods.Angry,
	"fear":     moods.Anxious,
	"surprise": moods.Neutral,
	"disgust":  moods.Angry,
	"neutral":  moods.Neutral,
}

// MoodFor maps a classifier label onto the taxonomy, ignoring case.
// Unknown labels map to Neutral.
func MoodFor(label string) moods.Mood {
	if m, ok := labelMoods[strings.ToLower(strings.TrimSpace(label))]; ok {
		return m
	}
	return moods.Neutral
}

// Normalize converts raw classifier output into a Detection. Confidence is
// the score of the raw dominant label, not a score for the mapped mood, so a
// dominant "disgust" at 54.3 yields angry at 54.3 even when "angry" itself
// scored lower. Non-finite or negative scores are reported as 0.
func Normalize(dominant string, scores map[string]float64) Detection {
	all := make(map[string]float64, len(scores))
	for label, score := range scores {
		all[label] = sanitize(score)
	}

	return Detection{
		Emotion:     MoodFor(dominant),
		Confidence:  lookup(all, dominant),
		AllEmotions: all,
	}
}

func lookup(scores map[string]float64, label string) float64 {
	if v, ok := scores[label]; ok {
		return v
	}
	for k, v := range scores {
		if strings.EqualFold(k, label) {
			return v
		}
	}
	return 0
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
