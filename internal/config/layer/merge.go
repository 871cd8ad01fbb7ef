package layer

import (
	"reflect"
	"sort"
	"strings"
)

// DeepMerge merges src into dst and returns dst. Nested maps merge
// recursively; any other src value replaces the dst value with a copy.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

// GetByPath retrieves a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, data != nil
}

// SetByPath sets a value in a nested map using a dot-separated path,
// creating or replacing intermediate maps as needed.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// FlattenMap flattens a nested map into dot-separated keys.
func FlattenMap(data map[string]any) map[string]any {
	result := make(map[string]any)
	flatten(data, "", result)
	return result
}

func flatten(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, key, result)
			continue
		}
		result[key] = val
	}
}

// Change is a single path that differs between two maps.
type Change struct {
	Path     string
	OldValue any
	NewValue any
	Removed  bool
}

// DiffMaps returns the leaf paths whose values differ between old and new,
// sorted by path. Paths only present in new carry a nil OldValue.
func DiffMaps(old, new map[string]any) []Change {
	oldFlat := FlattenMap(old)
	newFlat := FlattenMap(new)

	var changes []Change
	for path, newVal := range newFlat {
		oldVal, exists := oldFlat[path]
		if exists && reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		changes = append(changes, Change{Path: path, OldValue: oldVal, NewValue: newVal})
	}
	for path, oldVal := range oldFlat {
		if _, exists := newFlat[path]; !exists {
			changes = append(changes, Change{Path: path, OldValue: oldVal, Removed: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}
