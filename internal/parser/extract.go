package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Each extraction pass consumes its token from the working string so later
// passes see a cleaner remainder. Passes are independent and individually
// testable; Parse runs them in a fixed order.

var (
	listMarkerRe = regexp.MustCompile(`^[-*]\s+`)

	// @9, ＠9 (fullwidth), "rpe 9"
	rpeRe = regexp.MustCompile(`(?i)(?:@|＠|rpe\s?)([0-9]+(?:\.[0-9]+)?)`)

	// 30m, 30min, 45minutes, 30분, 1시간. Group 2 is the Latin unit,
	// group 3 the Korean one (시간 means hours).
	durationRe = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(?:(minutes?|min|m)\b|(분|시간))`)

	// 5km, 5킬로, 5킬로미터, "거리 5", "distance 5"
	distanceUnitRe  = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(?:km|킬로미터|킬로)`)
	distanceLabelRe = regexp.MustCompile(`(?i)(?:거리|distance)\s*([0-9]+(?:\.[0-9]+)?)`)

	// 8kph, 8kmh, 8km/h, "속도 8", "speed 8"
	speedUnitRe  = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(?:kph|kmh|km/h)`)
	speedLabelRe = regexp.MustCompile(`(?i)(?:속도|speed)\s*([0-9]+(?:\.[0-9]+)?)`)

	// "incline 5", "경사 -2%"
	inclineRe = regexp.MustCompile(`(?i)(?:incline|경사)\s*(-?[0-9]+(?:\.[0-9]+)?)\s*%?`)

	// "hr 140", "심박 140bpm". 2-3 digit values only.
	heartRateRe = regexp.MustCompile(`(?i)(?:hr|심박)\s*([0-9]{2,3})\s*(?:bpm)?`)

	// 60x10x5, 60×10×5, 60*10*5
	separatorRe = regexp.MustCompile(`([0-9](?:\.[0-9]+)?)\s*[x×*]\s*([0-9])`)
)

func stripListMarker(s string) string {
	return listMarkerRe.ReplaceAllString(strings.TrimSpace(s), "")
}

func extractRPE(s string) (*float64, string) {
	return extractFirst(s, rpeRe, 1)
}

// extractDuration returns minutes; 시간 (hours) is converted.
func extractDuration(s string) (*float64, string) {
	m := durationRe.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, s
	}
	v, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, s
	}
	if m[6] >= 0 && s[m[6]:m[7]] == "시간" {
		v *= 60
	}
	return &v, cut(s, m[0], m[1])
}

func extractDistance(s string) (*float64, string) {
	// Unit form first, but skip matches that are really a speed token
	// (the distance pass runs before the speed pass and "8km/h" must
	// survive it untouched).
	for _, m := range distanceUnitRe.FindAllStringSubmatchIndex(s, -1) {
		rest := strings.ToLower(s[m[1]:])
		if strings.HasPrefix(rest, "/h") || strings.HasPrefix(rest, "h") {
			continue
		}
		v, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return &v, cut(s, m[0], m[1])
	}
	return extractFirst(s, distanceLabelRe, 1)
}

func extractSpeed(s string) (*float64, string) {
	if v, rest := extractFirst(s, speedUnitRe, 1); v != nil {
		return v, rest
	}
	return extractFirst(s, speedLabelRe, 1)
}

func extractIncline(s string) (*float64, string) {
	return extractFirst(s, inclineRe, 1)
}

func extractHeartRate(s string) (*float64, string) {
	return extractFirst(s, heartRateRe, 1)
}

// normalizeSeparators rewrites multiplication-style separators to spaces.
// Substitution repeats until stable so chained forms like 60x10x5 fully
// split without corrupting words that merely contain an x.
func normalizeSeparators(s string) string {
	for {
		next := separatorRe.ReplaceAllString(s, "$1 $2")
		if next == s {
			return s
		}
		s = next
	}
}

func extractFirst(s string, re *regexp.Regexp, group int) (*float64, string) {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, s
	}
	v, err := strconv.ParseFloat(s[m[2*group]:m[2*group+1]], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, s
	}
	return &v, cut(s, m[0], m[1])
}

func cut(s string, from, to int) string {
	return strings.TrimSpace(strings.TrimSpace(s[:from]) + " " + strings.TrimSpace(s[to:]))
}
