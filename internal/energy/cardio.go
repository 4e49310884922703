// Package energy estimates energy expenditure for workout entries.
// Everything here is a pure bounded computation; invalid input degrades to a
// zero-calorie, low-confidence estimate instead of an error.
package energy

import (
	"math"
	"strings"
)

// Confidence grades how much signal backed a calorie estimate.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// CardioInput carries whatever signals the parser extracted for a cardio
// entry. Optional fields are nil when the user did not supply them.
type CardioInput struct {
	Name            string
	BodyWeightKg    float64
	DurationMinutes float64
	SpeedKph        *float64
	DistanceKm      *float64
	InclinePct      *float64
	AvgHeartRate    *float64
	RPE             *float64
}

// Estimate is the estimator output.
type Estimate struct {
	Calories   int
	Confidence Confidence
}

// Incline is physically bounded for treadmills; out-of-range values are
// treated as data-entry noise.
const (
	minInclinePct = -3
	maxInclinePct = 30
)

// runningSpeedKph separates the ACSM running equation from the walking one.
const runningSpeedKph = 8

// EstimateCardio estimates energy expenditure for a cardio session.
//
// With a usable speed it applies the ACSM treadmill equation (running or
// walking variant) for foot cardio, or a stepped MET table for cycling.
// Without a speed signal it falls back to keyword METs adjusted by incline
// and RPE.
func EstimateCardio(in CardioInput) Estimate {
	if in.DurationMinutes <= 0 {
		return Estimate{Calories: 0, Confidence: ConfidenceLow}
	}

	speed, _ := resolveSpeedDistance(in.SpeedKph, in.DistanceKm, in.DurationMinutes)

	incline := 0.0
	if in.InclinePct != nil {
		incline = clamp(*in.InclinePct, minInclinePct, maxInclinePct)
	}

	conf := ConfidenceLow
	switch {
	case in.SpeedKph != nil || in.DistanceKm != nil:
		conf = ConfidenceHigh
	case in.RPE != nil:
		conf = ConfidenceMedium
	}

	name := strings.ToLower(in.Name)

	if speed > 0 && isCycling(name) {
		kcal := cyclingMET(speed) * in.BodyWeightKg * in.DurationMinutes / 60
		return Estimate{Calories: int(math.Round(kcal)), Confidence: conf}
	}

	if speed > 0 {
		kcal := treadmillCalories(speed, incline, in.BodyWeightKg, in.DurationMinutes)
		if in.AvgHeartRate != nil {
			kcal *= heartRateFactor(*in.AvgHeartRate)
		}
		return Estimate{Calories: int(math.Round(kcal)), Confidence: conf}
	}

	// No speed signal: keyword MET fallback.
	met := fallbackMET(name)
	if strings.Contains(name, "incline") || strings.Contains(name, "경사") || incline > 0 {
		met += 0.7
	}
	if in.RPE != nil {
		met += 0.4 * (*in.RPE - 6)
	}
	met = clamp(met, 3, 12)

	kcal := met * in.BodyWeightKg * in.DurationMinutes / 60
	if conf == ConfidenceLow {
		conf = ConfidenceMedium
	}
	return Estimate{Calories: int(math.Round(kcal)), Confidence: conf}
}

// EstimateStrength applies the 2-tier MET heuristic for strength entries.
func EstimateStrength(loadKg, bodyWeightKg, durationMinutes float64) int {
	mets := 4.5
	if loadKg > 60 {
		mets = 6.0
	}
	return int(math.Round(mets * bodyWeightKg * durationMinutes / 60))
}

// resolveSpeedDistance fills in whichever of speed/distance is derivable from
// the other plus duration.
func resolveSpeedDistance(speedKph, distanceKm *float64, durationMinutes float64) (speed, distance float64) {
	hours := durationMinutes / 60
	if speedKph != nil {
		speed = *speedKph
	}
	if distanceKm != nil {
		distance = *distanceKm
	}
	if speed > 0 && distance == 0 {
		distance = speed * hours
	}
	if distance > 0 && speed == 0 && hours > 0 {
		speed = distance / hours
	}
	return speed, distance
}

// treadmillCalories applies the ACSM treadmill energy-expenditure equation.
// VO2 is in mL/kg/min; dividing VO2 x bodyweight by 200 collapses the
// 5 kcal-per-liter-O2 conversion into a single divisor.
func treadmillCalories(speedKph, inclinePct, weightKg, durationMinutes float64) float64 {
	mPerMin := speedKph * 1000 / 60
	grade := inclinePct / 100

	var vo2 float64
	if speedKph >= runningSpeedKph {
		vo2 = 0.2*mPerMin + 0.9*mPerMin*grade + 3.5
	} else {
		vo2 = 0.1*mPerMin + 1.8*mPerMin*grade + 3.5
	}

	return vo2 * weightKg / 200 * durationMinutes
}

// heartRateFactor nudges the ACSM estimate by the deviation from a 120 bpm
// baseline, bounded to -8%..+18%.
func heartRateFactor(avgHR float64) float64 {
	return clamp(1+(avgHR-120)/120*0.3, 0.92, 1.18)
}

// cyclingMET maps speed to METs with the standard stepped breakpoints.
func cyclingMET(speedKph float64) float64 {
	switch {
	case speedKph < 16:
		return 5.5
	case speedKph < 19:
		return 6.8
	case speedKph < 22:
		return 8.0
	case speedKph < 25:
		return 10.0
	default:
		return 12.0
	}
}

func isCycling(name string) bool {
	for _, k := range []string{"cycle", "bike", "cycling", "자전거", "사이클", "싸이클"} {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func fallbackMET(name string) float64 {
	switch {
	case strings.Contains(name, "walk") || strings.Contains(name, "걷") || strings.Contains(name, "산책"):
		return 4.3
	case strings.Contains(name, "run") || strings.Contains(name, "러닝") || strings.Contains(name, "달리"):
		return 8.0
	case isCycling(name):
		return 6.8
	default:
		return 5.0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
