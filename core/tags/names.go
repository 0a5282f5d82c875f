package tags

import (
	"encoding/json"
	"strings"
)

// ParseTagNames normalizes the "tags" input of an upload. Repeated form
// values are taken as individual names; a single value is tried as a JSON
// string array first and split on commas otherwise. Names are trimmed and
// empties dropped; case folding happens at tag creation.
func ParseTagNames(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	if len(values) == 1 {
		single := strings.TrimSpace(values[0])
		if single == "" {
			return nil
		}
		var parsed []string
		if err := json.Unmarshal([]byte(single), &parsed); err == nil {
			return cleanNames(parsed)
		}
		return cleanNames(strings.Split(single, ","))
	}

	return cleanNames(values)
}

func cleanNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
