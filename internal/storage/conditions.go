package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironquant/internal/models"
)

// UpsertCondition stores one wellness row per calendar day, replacing any
// earlier submission for the same date.
func (db *DB) UpsertCondition(ctx context.Context, c models.DailyCondition) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO daily_conditions (user_id, condition_date, sleep_hours, fatigue_score,
			stress_score, soreness_score, resting_hr)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id, condition_date) DO UPDATE SET
			sleep_hours = $3, fatigue_score = $4, stress_score = $5,
			soreness_score = $6, resting_hr = $7
	`, c.UserID, c.ConditionDate, c.SleepHours, c.FatigueScore,
		c.StressScore, c.SorenessScore, c.RestingHR)
	if err != nil {
		return fmt.Errorf("upserting condition: %w", err)
	}
	return nil
}

// QueryConditions retrieves wellness rows with condition_date in [start, end],
// newest first.
func (db *DB) QueryConditions(ctx context.Context, userID, start, end string) ([]models.DailyCondition, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT user_id, condition_date, sleep_hours, fatigue_score,
		       stress_score, soreness_score, resting_hr
		FROM daily_conditions
		WHERE user_id = $1 AND condition_date >= $2 AND condition_date <= $3
		ORDER BY condition_date DESC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying conditions: %w", err)
	}
	defer rows.Close()

	var result []models.DailyCondition
	for rows.Next() {
		var c models.DailyCondition
		if err := rows.Scan(&c.UserID, &c.ConditionDate, &c.SleepHours, &c.FatigueScore,
			&c.StressScore, &c.SorenessScore, &c.RestingHR); err != nil {
			return nil, fmt.Errorf("scanning condition: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
