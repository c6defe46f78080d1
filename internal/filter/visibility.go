package filter

import (
	"sort"
	"strconv"
	"strings"
)

// Visibility maps a destination id to whether a category is routed there.
type Visibility map[int]bool

// NormalizeVisibility converts a loosely typed map, as decoded from TOML,
// YAML or JSON, into canonical integer keys and boolean values. It always
// returns a new map. Keys that are not non-negative integers are dropped.
func NormalizeVisibility(raw map[string]any) Visibility {
	out := make(Visibility, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || id < 0 {
			continue
		}
		out[id] = normalizeFlag(v)
	}
	return out
}

func normalizeFlag(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

// Raw renders v with string keys, the shape persisted to disk.
func (v Visibility) Raw() map[string]any {
	out := make(map[string]any, len(v))
	for id, show := range v {
		out[strconv.Itoa(id)] = show
	}
	return out
}

// Clone returns an independent copy.
func (v Visibility) Clone() Visibility {
	out := make(Visibility, len(v))
	for id, show := range v {
		out[id] = show
	}
	return out
}

// IDs returns the keys in ascending order.
func (v Visibility) IDs() []int {
	ids := make([]int, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
