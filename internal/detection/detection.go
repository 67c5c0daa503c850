// Package detection classifies facial expressions in images and maps the
// classifier's open label set onto the mood taxonomy.
package detection

import "github.com/JaimeStill/moodlog/internal/moods"

// Analysis is the raw classifier output: a score per emotion label and the
// label the classifier judged dominant. Labels are not restricted to the
// mood taxonomy.
type Analysis struct {
	Dominant string
	Scores   map[string]float64
}

// Detection is a classifier result normalized onto the mood taxonomy.
type Detection struct {
	Emotion     moods.Mood         `json:"emotion"`
	Confidence  float64            `json:"confidence"`
	AllEmotions map[string]float64 `json:"all_emotions"`
}

// Result is returned by the detect endpoint. Record is set when the
// detection was also stored as a camera mood entry.
type Result struct {
	Detection
	Record *moods.Record `json:"record,omitempty"`
}
