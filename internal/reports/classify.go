package reports

import "strings"

var (
	upperKeywords = []string{
		"bench", "press", "row", "pull", "pushup",
		"푸시업", "벤치", "상체", "가슴", "등", "어깨",
	}
	lowerKeywords = []string{
		"squat", "dead", "lunge", "leg",
		"스쿼트", "데드", "런지", "하체", "다리",
	}
)

// classifyName buckets an exercise into the upper/lower body sector used by
// the monthly report's balance check.
func classifyName(name string) string {
	n := strings.ToLower(name)
	for _, k := range upperKeywords {
		if strings.Contains(n, k) {
			return "upper"
		}
	}
	for _, k := range lowerKeywords {
		if strings.Contains(n, k) {
			return "lower"
		}
	}
	return "other"
}
