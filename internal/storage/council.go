package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/ironquant/internal/council"
)

const (
	councilWorkoutDays   = 28
	councilConditionDays = 14
)

// FetchCouncilInput assembles the read-only snapshot the advice ensemble
// consumes: the profile, 28 days of workout aggregates and 14 days of
// wellness rows, all relative to now in the given location.
func (db *DB) FetchCouncilInput(ctx context.Context, userID string, now time.Time, loc *time.Location) (*council.Input, error) {
	user, err := db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	local := now.In(loc)
	today := local.Format("2006-01-02")
	wStart := local.AddDate(0, 0, -(councilWorkoutDays - 1)).Format("2006-01-02")
	cStart := local.AddDate(0, 0, -(councilConditionDays - 1)).Format("2006-01-02")

	workouts, err := db.QueryWorkouts(ctx, userID, wStart, today)
	if err != nil {
		return nil, err
	}
	conditions, err := db.QueryConditions(ctx, userID, cStart, today)
	if err != nil {
		return nil, err
	}

	in := &council.Input{
		Now: now,
		User: council.User{
			ID:            user.ID,
			Mode:          user.GoalMode,
			WeightKg:      user.BodyWeightOrDefault(),
			CurrentStreak: user.CurrentStreak,
		},
	}
	for _, w := range workouts {
		in.Workouts = append(in.Workouts, council.Workout{
			Date:              w.WorkoutDate,
			TotalVolume:       w.TotalVolume,
			AverageRPE:        w.AverageRPE,
			DurationMinutes:   w.DurationMinutes,
			EstimatedCalories: w.EstimatedCalories,
			CardioDistanceKm:  w.CardioDistanceKm,
		})
	}
	for _, c := range conditions {
		in.Conditions = append(in.Conditions, council.Condition{
			Date:          c.ConditionDate,
			SleepHours:    c.SleepHours,
			FatigueScore:  c.FatigueScore,
			StressScore:   c.StressScore,
			SorenessScore: c.SorenessScore,
			RestingHR:     c.RestingHR,
		})
	}
	return in, nil
}

// RecomputeStreak recounts the consecutive-day run ending today or yesterday
// and persists it. Returns the new streak value.
func (db *DB) RecomputeStreak(ctx context.Context, userID string, now time.Time, loc *time.Location) (int, error) {
	local := now.In(loc)
	// 90 days is far beyond any realistic unbroken run worth counting.
	start := local.AddDate(0, 0, -90).Format("2006-01-02")
	today := local.Format("2006-01-02")

	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT workout_date FROM workouts
		WHERE user_id = $1 AND workout_date >= $2 AND workout_date <= $3
		ORDER BY workout_date DESC
	`, userID, start, today)
	if err != nil {
		return 0, fmt.Errorf("querying workout dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return 0, fmt.Errorf("scanning workout date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	streak := countStreak(dates, local)
	if err := db.SetStreak(ctx, userID, streak); err != nil {
		return 0, err
	}
	return streak, nil
}

// countStreak counts consecutive days in dates (YYYY-MM-DD, descending,
// distinct) anchored at today; a run ending yesterday still counts.
func countStreak(dates []string, local time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if dates[0] != day.Format("2006-01-02") {
		day = day.AddDate(0, 0, -1)
		if dates[0] != day.Format("2006-01-02") {
			return 0
		}
	}
	streak := 0
	for _, d := range dates {
		if d != day.Format("2006-01-02") {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
