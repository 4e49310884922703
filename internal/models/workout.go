package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseLog is a single parsed exercise line attached to a workout.
// Weight doubles as the primary cardio metric (minutes) for cardio entries.
type ExerciseLog struct {
	Name   string   `json:"name"`
	Weight float64  `json:"weight"`
	Reps   int      `json:"reps"`
	Sets   int      `json:"sets"`
	RPE    *float64 `json:"rpe,omitempty"`
}

// Volume returns weight x reps x sets for this log.
func (l ExerciseLog) Volume() float64 {
	return l.Weight * float64(l.Reps) * float64(l.Sets)
}

// Workout is one persisted log-submission event (a batch of one or more
// parsed lines). Rows older than the 30-minute edit window are immutable.
type Workout struct {
	ID                  uuid.UUID     `json:"id"`
	UserID              string        `json:"user_id"`
	WorkoutDate         string        `json:"workout_date"` // YYYY-MM-DD, timezone resolved by caller
	Title               string        `json:"title"`
	TotalVolume         float64       `json:"total_volume"`
	AverageRPE          float64       `json:"average_rpe"`
	DurationMinutes     float64       `json:"duration_minutes"`
	EstimatedCalories   float64       `json:"estimated_calories"`
	CardioDistanceKm    float64       `json:"cardio_distance_km"`
	CardioAvgSpeedKph   float64       `json:"cardio_avg_speed_kph"`
	CardioAvgInclinePct float64       `json:"cardio_avg_incline_pct"`
	AvgHeartRate        float64       `json:"avg_heart_rate"`
	Mood                string        `json:"mood,omitempty"`
	Logs                []ExerciseLog `json:"logs"`
	CreatedAt           time.Time     `json:"created_at"`
}

// EditWindow is how long a workout row stays editable after creation.
const EditWindow = 30 * time.Minute

// Editable reports whether the row is still inside the edit window.
func (w Workout) Editable(now time.Time) bool {
	return now.Sub(w.CreatedAt) <= EditWindow
}
