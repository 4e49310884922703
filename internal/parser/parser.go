// Package parser converts loosely-structured workout log lines (mixed
// Korean/English, several shorthand conventions) into structured entries.
// Parsing never fails with an error: an unparseable line yields nil rather
// than a partially-filled entry, so garbage can't corrupt volume or calorie
// aggregates downstream.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/claude/ironquant/internal/energy"
)

// Entry is one parsed workout line. Weight doubles as the cardio primary
// metric (minutes) for cardio-classified entries. Optional cardio fields are
// nil when neither supplied nor derivable.
type Entry struct {
	Name            string
	Weight          float64
	Reps            int
	Sets            int
	RPE             *float64
	DurationMinutes float64
	Calories        int

	Cardio            bool
	DistanceKm        *float64
	SpeedKph          *float64
	InclinePct        *float64
	AvgHeartRate      *float64
	CalorieConfidence energy.Confidence
}

// Minimum believable cardio session when the primary metric is tiny.
const minCardioMinutes = 5

// Parse converts one free-text line into an Entry, or nil when the line
// doesn't fit the grammar. userWeight (kg) feeds calorie estimation;
// pass 0 to use the default.
func Parse(line string, userWeight float64) *Entry {
	if userWeight <= 0 {
		userWeight = 75
	}

	s := stripListMarker(line)

	rpe, s := extractRPE(s)
	durTok, s := extractDuration(s)
	distTok, s := extractDistance(s)
	speedTok, s := extractSpeed(s)
	inclineTok, s := extractIncline(s)
	hrTok, s := extractHeartRate(s)
	s = normalizeSeparators(s)

	tokens := strings.Fields(s)
	tail, nameEnd := numericTail(tokens)
	name := strings.Join(tokens[:nameEnd], " ")
	if name == "" {
		return nil
	}
	cardio := isCardioName(name)

	var weight float64
	var reps, sets int
	switch {
	case cardio && len(tail) >= 1:
		// Shorthand: minutes [speed-or-count [count-or-incline]].
		weight, reps, sets = tail[0], 1, 1
		if len(tail) >= 2 {
			reps = int(math.Round(tail[1]))
		}
		if len(tail) >= 3 {
			sets = int(math.Round(tail[2]))
		}
	case cardio && (durTok != nil || distTok != nil || speedTok != nil):
		// "러닝머신 30분 8km/h": all signal lived in the extracted tokens.
		weight, reps, sets = 1, 1, 1
		if durTok != nil {
			weight = *durTok
		}
	case !cardio && len(tail) >= 3:
		n := len(tail)
		weight = tail[n-3]
		reps = int(math.Round(tail[n-2]))
		sets = int(math.Round(tail[n-1]))
	case !cardio && len(tail) == 2:
		weight = tail[0]
		reps = int(math.Round(tail[1]))
		sets = 3
	case !cardio && len(tail) == 1:
		weight = tail[0]
		reps, sets = 1, 1
	default:
		return nil
	}

	// Secondary cardio shorthand: a plausible second number is a speed, a
	// plausible third one an incline.
	if cardio {
		if speedTok == nil && len(tail) >= 2 && tail[1] >= 3 && tail[1] <= 30 {
			v := tail[1]
			speedTok = &v
		}
		if inclineTok == nil && len(tail) >= 3 && tail[2] >= -5 && tail[2] <= 30 {
			v := tail[2]
			inclineTok = &v
		}
	}

	var duration float64
	switch {
	case durTok != nil:
		duration = *durTok
	case cardio:
		duration = math.Max(minCardioMinutes, weight)
	default:
		// Fixed linear set/rest-time heuristic.
		duration = float64(sets)*3 + 5
	}

	if speedTok != nil && distTok == nil {
		d := *speedTok * duration / 60
		distTok = &d
	}
	if distTok != nil && speedTok == nil && duration > 0 {
		v := *distTok / (duration / 60)
		speedTok = &v
	}

	e := &Entry{
		Name:            name,
		Weight:          weight,
		Reps:            reps,
		Sets:            sets,
		RPE:             rpe,
		DurationMinutes: duration,
		Cardio:          cardio,
	}

	if cardio {
		est := energy.EstimateCardio(energy.CardioInput{
			Name:            name,
			BodyWeightKg:    userWeight,
			DurationMinutes: duration,
			SpeedKph:        speedTok,
			DistanceKm:      distTok,
			InclinePct:      inclineTok,
			AvgHeartRate:    hrTok,
			RPE:             rpe,
		})
		e.Calories = est.Calories
		e.CalorieConfidence = est.Confidence
		e.DistanceKm = distTok
		e.SpeedKph = speedTok
		e.InclinePct = inclineTok
		e.AvgHeartRate = hrTok
	} else {
		e.Calories = energy.EstimateStrength(weight, userWeight, duration)
		e.CalorieConfidence = energy.ConfidenceMedium
	}

	return e
}

// numericTail scans tokens from the end; everything trailing that parses as a
// plain finite number is the tail, everything before it is the exercise name.
// Multi-word names in either language survive this split.
func numericTail(tokens []string) (tail []float64, nameEnd int) {
	nameEnd = len(tokens)
	for i := len(tokens) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		tail = append(tail, v)
		nameEnd = i
	}
	// Collected back-to-front; restore input order.
	for l, r := 0, len(tail)-1; l < r; l, r = l+1, r-1 {
		tail[l], tail[r] = tail[r], tail[l]
	}
	return tail, nameEnd
}
