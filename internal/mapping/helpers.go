package mapping

import "time"

// firstNonEmpty returns the first non-empty string. Wire payloads carry two
// historical spellings for several fields; the primary spelling always wins.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// wireTimeLayouts are the timestamp formats the backend has been observed to
// emit, tried in order.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseWireTime parses a backend timestamp. An empty or unparseable value
// yields the zero time; timestamps are never required fields.
func parseWireTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func boolOrFalse(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}
