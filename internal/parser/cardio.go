package parser

import "strings"

// cardioKeywords classifies an exercise name as cardio. Matching is
// substring-based so compound Korean forms ("러닝머신", "빠르게걷기") hit the
// base keyword.
var cardioKeywords = []string{
	"run", "jog", "walk", "treadmill", "bike", "cycle", "cycling",
	"cardio", "rowing", "elliptical",
	"러닝", "런닝", "달리기", "걷기", "산책", "자전거", "사이클", "싸이클",
	"유산소", "일립티컬", "조깅",
}

func isCardioName(name string) bool {
	n := strings.ToLower(name)
	for _, k := range cardioKeywords {
		if strings.Contains(n, k) {
			return true
		}
	}
	return false
}
