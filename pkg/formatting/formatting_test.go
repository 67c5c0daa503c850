package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/moodlog/pkg/formatting"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "1024", want: kib},
		{in: "512B", want: 512},
		{in: "10MB", want: 10 * mib},
		{in: "10mb", want: 10 * mib},
		{in: " 100 MB ", want: 100 * mib},
		{in: "1.5GiB", want: 3 * gib / 2},
		{in: "64k", want: 64 * kib},
		{in: "2TB", want: 2 << 40},
		{in: "", wantErr: true},
		{in: "MB", wantErr: true},
		{in: "-5MB", wantErr: true},
		{in: "5 parsecs", wantErr: true},
		{in: "9999999EB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBytes(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{1023, 2, "1023 B"},
		{kib, 0, "1 KB"},
		{1536 * kib, 1, "1.5 MB"},
		{10 * mib, -3, "10 MB"},
		{gib, 2, "1.00 GB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}

func TestUploadLimitRoundTrip(t *testing.T) {
	for _, n := range []int64{kib, 10 * mib, 50 * mib, gib} {
		s := formatting.FormatBytes(n, 0)
		back, err := formatting.ParseBytes(s)
		if err != nil || back != n {
			t.Errorf("%d -> %q -> %d (%v)", n, s, back, err)
		}
	}
}

type verdict struct {
	Dominant string             `json:"dominant_emotion"`
	Emotion  map[string]float64 `json:"emotion"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"dominant_emotion":"happy"}`, want: "happy"},
		{name: "padded", in: "\n  {\"dominant_emotion\":\"sad\"}  \n", want: "sad"},
		{name: "json fence", in: "```json\n{\"dominant_emotion\":\"angry\"}\n```", want: "angry"},
		{name: "untagged fence", in: "```\n{\"dominant_emotion\":\"fear\"}\n```", want: "fear"},
		{
			name: "second fence is the payload",
			in:   "Example:\n```\nnot json\n```\nResult:\n```json\n{\"dominant_emotion\":\"neutral\"}\n```",
			want: "neutral",
		},
		{
			name: "object inside prose",
			in:   `The face looks content. {"dominant_emotion":"happy","emotion":{"happy":91.2}} Hope this helps.`,
			want: "happy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[verdict](tt.in)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got.Dominant != tt.want {
				t.Errorf("dominant = %q, want %q", got.Dominant, tt.want)
			}
		})
	}
}

func TestParseFailures(t *testing.T) {
	for name, in := range map[string]string{
		"empty":        "",
		"prose":        "I cannot see a face in this image.",
		"broken fence": "```json\n{broken\n```",
		"long":         strings.Repeat("x", 500),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := formatting.Parse[verdict](in)
			if !errors.Is(err, formatting.ErrParseFailed) {
				t.Fatalf("err = %v, want ErrParseFailed", err)
			}
			if len(err.Error()) > 250 {
				t.Errorf("error not truncated: %d bytes", len(err.Error()))
			}
		})
	}
}

func TestParseNonObjectTargets(t *testing.T) {
	scores, err := formatting.Parse[map[string]float64](`{"happy":0.9,"sad":0.1}`)
	if err != nil || scores["happy"] != 0.9 {
		t.Errorf("map target = %v, %v", scores, err)
	}

	labels, err := formatting.Parse[[]string]("```json\n[\"happy\",\"neutral\"]\n```")
	if err != nil || len(labels) != 2 {
		t.Errorf("slice target = %v, %v", labels, err)
	}
}
