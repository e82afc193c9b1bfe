package backend

import (
	"encoding/json"
	"fmt"
	"math"
)

// Normalize converts library specific containers into the shape shared by all
// backends: map[string]any, []any and int for integers that fit.
// json.Number becomes an int when it is integral and fits, a float64 otherwise.
func Normalize(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = Normalize(item)
		}

		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = Normalize(item)
		}

		return out
	case []any:
		for i, item := range typed {
			typed[i] = Normalize(item)
		}

		return typed
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}

		return out
	case int64:
		if typed >= math.MinInt && typed <= math.MaxInt {
			return int(typed)
		}

		return typed
	case uint64:
		if typed <= math.MaxInt {
			return int(typed)
		}

		return typed
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return Normalize(n)
		}

		if f, err := typed.Float64(); err == nil {
			return f
		}

		return typed.String()
	default:
		return val
	}
}

// NormalizeMap is Normalize for a top-level document. A nil document becomes an empty map.
func NormalizeMap(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}

	normalized, _ := Normalize(doc).(map[string]any)

	return normalized
}
