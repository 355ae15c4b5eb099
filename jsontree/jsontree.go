// Package jsontree provides traversal primitives for JSON decoded into
// untyped Go values (map[string]any, []any, scalars).
//
// The scraped payloads have no documented schema and change shape
// between deployments, so every extractor in this module is built on
// top of the same pre-order walk instead of fixed struct decoding.
package jsontree

import "sort"

// Walk performs a pre-order depth-first traversal of v, calling visit
// for every JSON object encountered. Arrays are descended in element
// order; object values are descended in sorted-key order so that
// traversal order is stable run-to-run (Go maps iterate randomly).
// Returning true from visit stops the walk.
func Walk(v any, visit func(obj map[string]any) bool) bool {
	switch t := v.(type) {
	case map[string]any:
		if visit(t) {
			return true
		}
		for _, k := range sortedKeys(t) {
			if Walk(t[k], visit) {
				return true
			}
		}
	case []any:
		for _, e := range t {
			if Walk(e, visit) {
				return true
			}
		}
	}
	return false
}

// FindFirst searches node depth-first for the first object that has
// any of the candidate keys, and returns the value of the
// highest-priority key present on that object (priority = caller's key
// order, not traversal order).
//
// The search is deliberately greedy: the first qualifying object wins
// and the rest of the tree is never inspected, even if a "better"
// match exists elsewhere. On large payloads this trades optimality for
// speed, and callers rely on the behavior being exactly first-match.
func FindFirst(node any, keys ...string) (any, bool) {
	var (
		result any
		found  bool
	)
	Walk(node, func(obj map[string]any) bool {
		for _, k := range keys {
			if v, ok := obj[k]; ok {
				result = v
				found = true
				return true
			}
		}
		return false
	})
	return result, found
}

// FindKey is the single-key form of FindFirst.
func FindKey(node any, key string) (any, bool) {
	return FindFirst(node, key)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
