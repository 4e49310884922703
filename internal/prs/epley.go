// Package prs estimates big-3 personal records from logged sets.
package prs

import (
	"math"
	"strings"

	"github.com/claude/ironquant/internal/models"
)

// Epley reps are clamped to reduce absurd estimates from high-rep sets.
const maxEpleyReps = 12

// Epley1RM estimates a one-rep max from a working set: w * (1 + reps/30).
// Returns 0 for non-positive inputs.
func Epley1RM(weight float64, reps int) float64 {
	if weight <= 0 || reps <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0
	}
	r := reps
	if r > maxEpleyReps {
		r = maxEpleyReps
	}
	return weight * (1 + float64(r)/30)
}

// Big3 carries estimated 1RMs; a zero value means no estimate.
type Big3 struct {
	Squat float64
	Bench float64
	Dead  float64
}

// EstimateBig3 scans logs for the three main lifts and keeps the best Epley
// estimate per lift.
func EstimateBig3(logs []models.ExerciseLog) Big3 {
	var out Big3
	for _, l := range logs {
		est := Epley1RM(l.Weight, l.Reps)
		if est <= 0 {
			continue
		}
		if isSquat(l.Name) && est > out.Squat {
			out.Squat = est
		}
		if isBench(l.Name) && est > out.Bench {
			out.Bench = est
		}
		if isDeadlift(l.Name) && est > out.Dead {
			out.Dead = est
		}
	}
	out.Squat = math.Round(out.Squat)
	out.Bench = math.Round(out.Bench)
	out.Dead = math.Round(out.Dead)
	return out
}

// Empty reports whether no lift produced an estimate.
func (b Big3) Empty() bool {
	return b.Squat <= 0 && b.Bench <= 0 && b.Dead <= 0
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

func isSquat(name string) bool {
	n := normalizeName(name)
	return strings.Contains(n, "squat") || strings.Contains(n, "스쿼트")
}

func isBench(name string) bool {
	n := normalizeName(name)
	return strings.Contains(n, "bench") || strings.Contains(n, "벤치")
}

func isDeadlift(name string) bool {
	n := normalizeName(name)
	return strings.Contains(n, "dead") || strings.Contains(n, "데드")
}
