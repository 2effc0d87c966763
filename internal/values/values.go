// Package values copies and looks up decoded YAML/JSON values.
package values

import "strings"

// Clone returns a deep copy of a decoded value. Maps and slices are copied
// recursively; scalars are returned as-is.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		return CloneSlice(val)
	default:
		return val
	}
}

// CloneMap returns a deep copy of m. A nil map stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	dst := make(map[string]any, len(m))
	for k, v := range m {
		dst[k] = Clone(v)
	}

	return dst
}

// CloneSlice returns a deep copy of s. A nil slice stays nil.
func CloneSlice(s []any) []any {
	if s == nil {
		return nil
	}

	dst := make([]any, len(s))
	for i, v := range s {
		dst[i] = Clone(v)
	}

	return dst
}

// Lookup retrieves a nested value by its key segments.
func Lookup(data map[string]any, segments ...string) (any, bool) {
	if data == nil || len(segments) == 0 {
		return nil, false
	}

	var current any = data

	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// SplitPath splits a dot-separated path into segments, ignoring empty
// segments.
func SplitPath(path string) []string {
	parts := strings.Split(path, ".")

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
