package reports

import "math"

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// sparkline renders values as a unicode bar string scaled to the max value.
func sparkline(values []float64) string {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	out := make([]rune, 0, len(values))
	if max <= 0 || math.IsInf(max, 0) {
		for range values {
			out = append(out, sparkBars[0])
		}
		return string(out)
	}
	for _, v := range values {
		x := math.Max(0, v)
		idx := int(math.Floor(x / max * float64(len(sparkBars)-1)))
		if idx > len(sparkBars)-1 {
			idx = len(sparkBars) - 1
		}
		out = append(out, sparkBars[idx])
	}
	return string(out)
}
