package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/ironquant/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const workoutColumns = `id, user_id, workout_date, title, total_volume, average_rpe,
	 duration_minutes, estimated_calories, cardio_distance_km, cardio_avg_speed_kph,
	 cardio_avg_incline_pct, avg_heart_rate, mood, logs, created_at`

// InsertWorkout persists one log-submission event. The caller supplies the ID
// so Telegram and HTTP intake can report it back for /undo and /edit.
func (db *DB) InsertWorkout(ctx context.Context, w models.Workout) error {
	logsJSON, err := json.Marshal(w.Logs)
	if err != nil {
		return fmt.Errorf("encoding logs: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, workout_date, title, total_volume, average_rpe,
		 duration_minutes, estimated_calories, cardio_distance_km, cardio_avg_speed_kph,
		 cardio_avg_incline_pct, avg_heart_rate, mood, logs, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		w.ID, w.UserID, w.WorkoutDate, w.Title, w.TotalVolume, w.AverageRPE,
		w.DurationMinutes, w.EstimatedCalories, w.CardioDistanceKm, w.CardioAvgSpeedKph,
		w.CardioAvgInclinePct, w.AvgHeartRate, w.Mood, logsJSON, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a single workout by ID.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID, userID string) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`,
		id, userID)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	return w, nil
}

// LatestWorkout returns the most recently created workout, or ErrNotFound.
func (db *DB) LatestWorkout(ctx context.Context, userID string) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying latest workout: %w", err)
	}
	return w, nil
}

// QueryWorkouts retrieves workouts with workout_date in [start, end],
// newest first. Dates are YYYY-MM-DD strings so the comparison is lexical.
func (db *DB) QueryWorkouts(ctx context.Context, userID, start, end string) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1 AND workout_date >= $2 AND workout_date <= $3
		 ORDER BY workout_date DESC, created_at DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// AllWorkouts retrieves every workout for export, oldest first.
func (db *DB) AllWorkouts(ctx context.Context, userID string) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1
		 ORDER BY workout_date ASC, created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// UpdateWorkout replaces the mutable fields of an existing row. The edit
// window check belongs to the caller; storage only moves bytes.
func (db *DB) UpdateWorkout(ctx context.Context, w models.Workout) error {
	logsJSON, err := json.Marshal(w.Logs)
	if err != nil {
		return fmt.Errorf("encoding logs: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET title = $3, total_volume = $4, average_rpe = $5,
		 duration_minutes = $6, estimated_calories = $7, cardio_distance_km = $8,
		 cardio_avg_speed_kph = $9, cardio_avg_incline_pct = $10, avg_heart_rate = $11,
		 mood = $12, logs = $13
		 WHERE id = $1 AND user_id = $2`,
		w.ID, w.UserID, w.Title, w.TotalVolume, w.AverageRPE,
		w.DurationMinutes, w.EstimatedCalories, w.CardioDistanceKm,
		w.CardioAvgSpeedKph, w.CardioAvgInclinePct, w.AvgHeartRate,
		w.Mood, logsJSON)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWorkout removes a row by ID.
func (db *DB) DeleteWorkout(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var logsJSON []byte
	err := row.Scan(&w.ID, &w.UserID, &w.WorkoutDate, &w.Title, &w.TotalVolume,
		&w.AverageRPE, &w.DurationMinutes, &w.EstimatedCalories, &w.CardioDistanceKm,
		&w.CardioAvgSpeedKph, &w.CardioAvgInclinePct, &w.AvgHeartRate, &w.Mood,
		&logsJSON, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	// Rows restored from older exports may carry stringly-typed numbers;
	// DecodeLogs normalizes them at the storage boundary.
	w.Logs = models.DecodeLogs(logsJSON)
	return &w, nil
}

func scanWorkoutRows(rows pgx.Rows) ([]models.Workout, error) {
	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}
