package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// ErrParseFailed reports model output with no decodable JSON payload.
var ErrParseFailed = errors.New("failed to parse response")

const excerptLimit = 200

var fence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Parse decodes model output into T. Candidates are tried in order: the
// whole reply, each fenced code block, then the outermost {...} span.
func Parse[T any](content string) (T, error) {
	content = strings.TrimSpace(content)

	for candidate := range candidates(content) {
		var out T
		if json.Unmarshal([]byte(candidate), &out) == nil {
			return out, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("%w: %s", ErrParseFailed, excerpt(content))
}

func candidates(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(content) {
			return
		}
		for _, m := range fence.FindAllStringSubmatch(content, -1) {
			if !yield(m[1]) {
				return
			}
		}
		start, end := strings.IndexByte(content, '{'), strings.LastIndexByte(content, '}')
		if start >= 0 && end > start {
			yield(content[start : end+1])
		}
	}
}

func excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	return s[:excerptLimit] + "..."
}
