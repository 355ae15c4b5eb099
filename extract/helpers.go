package extract

import (
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-eats/jsontree"
)

// asFloat reports whether v is a JSON number. Decoded JSON only
// carries float64, but the int cases keep hand-built test fixtures and
// future decoder swaps honest.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// firstString returns the value of the first key on obj that holds a
// non-empty string.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// stringField resolves keys anywhere under node and coerces the match
// to a string; non-string matches resolve to "".
func stringField(node any, keys ...string) string {
	v, ok := jsontree.FindFirst(node, keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// floatField resolves keys anywhere under node, accepting JSON numbers
// and numeric strings (ratings show up both ways in the wild).
func floatField(node any, keys ...string) *float64 {
	v, ok := jsontree.FindFirst(node, keys...)
	if !ok {
		return nil
	}
	if n, ok := asFloat(v); ok {
		return &n
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &n
		}
	}
	return nil
}

// intField is floatField truncated to an int.
func intField(node any, keys ...string) *int {
	f := floatField(node, keys...)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
