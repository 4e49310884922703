package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// ToNumber coerces a loosely-typed value (number, numeric string, json.Number)
// to a float64, falling back when the value is absent or not finite. Storage
// rows pass through this immediately after fetch so the parser and agents only
// ever see strict numeric types.
func ToNumber(v any, fallback float64) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fallback
		}
		return t
	case float32:
		return ToNumber(float64(t), fallback)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		return ToNumber(string(t), fallback)
	case string:
		n, err := strconv.ParseFloat(t, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	default:
		return fallback
	}
}

// DecodeLogs unmarshals a JSONB logs column, tolerating string-or-number
// numeric fields from older rows. Entries without a name, or with any
// non-finite weight/reps/sets, are dropped rather than half-filled.
func DecodeLogs(raw []byte) []ExerciseLog {
	if len(raw) == 0 {
		return nil
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]ExerciseLog, 0, len(items))
	for _, item := range items {
		name, _ := item["name"].(string)
		if name == "" {
			continue
		}
		weight := ToNumber(item["weight"], math.NaN())
		reps := ToNumber(item["reps"], math.NaN())
		sets := ToNumber(item["sets"], math.NaN())
		if math.IsNaN(weight) || math.IsNaN(reps) || math.IsNaN(sets) {
			continue
		}
		log := ExerciseLog{
			Name:   name,
			Weight: weight,
			Reps:   int(math.Round(reps)),
			Sets:   int(math.Round(sets)),
		}
		if raw, ok := item["rpe"]; ok {
			if rpe := ToNumber(raw, math.NaN()); !math.IsNaN(rpe) {
				log.RPE = &rpe
			}
		}
		out = append(out, log)
	}
	return out
}
