package mix

import (
	"encoding/json"
	"regexp"
	"strings"
)

// arrayPattern finds a bracketed span in prose, newlines included.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractArray pulls a JSON array out of raw model output. The text is tried
// as an array directly; failing that, the first bracketed span is tried.
// Returns ok=false when no array can be recovered; the caller treats that
// the same as a failed completion.
func ExtractArray(text string) (json.RawMessage, bool) {
	if arr, ok := parseArray(strings.TrimSpace(text)); ok {
		return arr, true
	}
	if span := arrayPattern.FindString(text); span != "" {
		if arr, ok := parseArray(span); ok {
			return arr, true
		}
	}
	return nil, false
}

func parseArray(s string) (json.RawMessage, bool) {
	var probe []json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
